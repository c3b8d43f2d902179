package report

import (
	"testing"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/stretchr/testify/assert"
)

func testModel(t *testing.T) fuzzy.Model {
	service, err := fuzzy.NewVariable("service", fuzzy.Trapezoid("poor", 0, 3, 0, 2), fuzzy.Trapezoid("good", 4, 8, 2, 2))
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	tip, err := fuzzy.NewVariable("tip", fuzzy.Trapezoid("cheap", 0, 8, 0, 5))
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	m, err := fuzzy.NewModel("Tipping",
		[]fuzzy.Variable{service.WithRole(fuzzy.RoleAntecedent), tip.WithRole(fuzzy.RoleConsequent)},
		[]fuzzy.CompiledRule{{
			Label:      "Rule1",
			Antecedent: fuzzy.OrExpr(fuzzy.AtomExpr("service", "poor"), fuzzy.AtomExpr("service", "good")),
			Consequent: fuzzy.AtomExpr("tip", "cheap"),
		}},
		[]fuzzy.Measurement{{Variable: "service", Value: 4.5}},
	)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func Test_Variables(t *testing.T) {
	assert := assert.New(t)

	out := Variables(testModel(t), 120)

	assert.Contains(out, "Variable")
	assert.Contains(out, "service")
	assert.Contains(out, "antecedent")
	assert.Contains(out, "[0, 10]")
	assert.Contains(out, "poor(0, 0, 3, 5)")
	assert.Contains(out, "tip")
}

func Test_Rules(t *testing.T) {
	assert := assert.New(t)

	out := Rules(testModel(t), 120)

	assert.Contains(out, "Rule1")
	assert.Contains(out, "OR(Atom(service,poor),")
	assert.Contains(out, "Atom(tip,cheap)")
}

func Test_Measurements(t *testing.T) {
	assert := assert.New(t)

	out := Measurements(testModel(t), 80)

	assert.Contains(out, "service")
	assert.Contains(out, "4.5")
}

func Test_Trees(t *testing.T) {
	assert := assert.New(t)

	expect := "Rule1\n" +
		"  if:\n" +
		"    OR\n" +
		"    └── service is poor\n" +
		"    └── service is good\n" +
		"  then:\n" +
		"    tip is cheap\n"

	assert.Equal(expect, Trees(testModel(t)))
}
