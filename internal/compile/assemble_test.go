package compile

import (
	"strings"
	"testing"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/internal/frb"
	"github.com/dekarrin/frbs/internal/rberrors"
	"github.com/dekarrin/frbs/internal/scan"
	"github.com/stretchr/testify/assert"
)

func parseFRB(t *testing.T, s string) frb.File {
	sc := scan.New(strings.NewReader(s))
	defer sc.Close()

	f, err := frb.Parse(sc)
	if err != nil {
		t.Fatalf("bad FRB fixture: %v", err)
	}
	return f
}

const tippingFRB = `Tipping
Rule1: if service is poor or food is rancid then tip is cheap
Rule2: if service is good then tip is average

service
poor 0 3 0 2
good 4 8 2 2

food
rancid 0 2 0 3
great 6 9 2 1

tip
cheap 0 8 0 5
average 10 15 5 5

service = 4
food = 2
`

func Test_Assemble_tipping(t *testing.T) {
	assert := assert.New(t)

	m, err := Assemble(parseFRB(t, tippingFRB))
	if !assert.NoError(err) {
		return
	}

	assert.Equal("Tipping", m.Name())

	service, ok := m.Variable("service")
	if assert.True(ok) {
		poor, ok := service.Set("poor")
		assert.True(ok)
		assert.Equal([4]int{0, 0, 3, 5}, poor.Corners)
		assert.Equal(fuzzy.RoleAntecedent, service.Role())
	}

	tip, ok := m.Variable("tip")
	if assert.True(ok) {
		assert.Equal(fuzzy.RoleConsequent, tip.Role())
	}

	rules := m.Rules()
	if assert.Len(rules, 2) {
		assert.Equal("Rule1", rules[0].Label)
		assert.Equal("OR(Atom(service,poor), Atom(food,rancid))", rules[0].Antecedent.String())
		assert.Equal("Atom(tip,cheap)", rules[0].Consequent.String())

		assert.Equal("Rule2", rules[1].Label)
		assert.Equal("Atom(service,good)", rules[1].Antecedent.String())
		assert.Equal("Atom(tip,average)", rules[1].Consequent.String())
	}

	assert.Equal([]fuzzy.Measurement{
		{Variable: "service", Value: 4},
		{Variable: "food", Value: 2},
	}, m.Measurements())

	var antes, conses []string
	for _, v := range m.Antecedents() {
		antes = append(antes, v.Name())
	}
	for _, v := range m.Consequents() {
		conses = append(conses, v.Name())
	}
	assert.Equal([]string{"service", "food"}, antes)
	assert.Equal([]string{"tip"}, conses)
}

func Test_Assemble_roles(t *testing.T) {
	assert := assert.New(t)

	input := "Chain\n" +
		"R1: if a is x then b is y\n" +
		"R2: if b is y then c is z\n" +
		"\n" +
		"a\nx 0 1 0 1\n\n" +
		"b\ny 0 1 0 1\n\n" +
		"c\nz 0 1 0 1\n\n" +
		"d\nw 0 1 0 1\n\n" +
		"a = 0.5\n"

	m, err := Assemble(parseFRB(t, input))
	if !assert.NoError(err) {
		return
	}

	expect := map[string]fuzzy.Role{
		"a": fuzzy.RoleAntecedent,
		"b": fuzzy.RoleBoth,
		"c": fuzzy.RoleConsequent,
		"d": fuzzy.RoleNone,
	}
	for name, role := range expect {
		v, ok := m.Variable(name)
		if assert.True(ok, name) {
			assert.Equal(role, v.Role(), name)
		}
	}
}

func Test_Assemble_errors(t *testing.T) {
	const vars = "service\npoor 0 3 0 2\ngood 4 8 2 2\n\ntip\ncheap 0 8 0 5\n\n"

	testCases := []struct {
		name        string
		input       string
		expectKind  error
		expectRule  string
		expectLine  int
		expectToken string
	}{
		{
			name:        "rule uses undeclared variable",
			input:       "T\nR1: if service is poor then tip is cheap\nR2: if food is rancid then tip is cheap\n\n" + vars + "service = 1\n",
			expectKind:  rberrors.ErrUndeclaredVariable,
			expectRule:  "R2",
			expectLine:  3,
			expectToken: "food",
		},
		{
			name:        "consequent uses undeclared variable",
			input:       "T\nR1: if service is poor then mood is sad\n\n" + vars + "service = 1\n",
			expectKind:  rberrors.ErrUndeclaredVariable,
			expectRule:  "R1",
			expectLine:  2,
			expectToken: "mood",
		},
		{
			name:        "rule uses undeclared set",
			input:       "T\nR1: if service is poor then tip is cheap\nR2: if service is great then tip is cheap\n\n" + vars + "service = 1\n",
			expectKind:  rberrors.ErrUnknownVariableOrTerm,
			expectRule:  "R2",
			expectLine:  3,
			expectToken: "great",
		},
		{
			name:       "malformed atom",
			input:      "T\nR1: if service is poor or then tip is cheap\n\n" + vars + "service = 1\n",
			expectKind: rberrors.ErrMalformedAtomClause,
			expectRule: "R1",
			expectLine: 2,
		},
		{
			name:        "measurement for undeclared variable",
			input:       "T\nR1: if service is poor then tip is cheap\n\n" + vars + "service = 1\nfood = 2\n",
			expectKind:  rberrors.ErrUndeclaredVariable,
			expectLine:  12,
			expectToken: "food",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			m, err := Assemble(parseFRB(t, tc.input))

			assert.ErrorIs(err, tc.expectKind)
			assert.ErrorIs(err, rberrors.ErrSemantic)
			assert.True(m.Equal(fuzzy.Model{}))

			d, ok := rberrors.Detail(err)
			if !assert.True(ok) {
				return
			}
			if tc.expectRule != "" {
				assert.Equal(tc.expectRule, d.Rule)
			}
			if tc.expectLine != 0 {
				assert.Equal(tc.expectLine, d.Line)
			}
			if tc.expectToken != "" {
				assert.Equal(tc.expectToken, d.Token)
			}
		})
	}
}
