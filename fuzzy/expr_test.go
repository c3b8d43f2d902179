package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Expression_String(t *testing.T) {
	testCases := []struct {
		name   string
		expr   Expression
		expect string
	}{
		{
			name:   "atom",
			expr:   AtomExpr("service", "poor"),
			expect: "Atom(service,poor)",
		},
		{
			name:   "or",
			expr:   OrExpr(AtomExpr("service", "poor"), AtomExpr("food", "rancid")),
			expect: "OR(Atom(service,poor), Atom(food,rancid))",
		},
		{
			name: "right leaning chain",
			expr: AndExpr(
				AtomExpr("A", "x"),
				OrExpr(AtomExpr("B", "y"), AtomExpr("C", "z")),
			),
			expect: "AND(Atom(A,x), OR(Atom(B,y), Atom(C,z)))",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.expr.String())
		})
	}
}

func Test_Expression_Text(t *testing.T) {
	assert := assert.New(t)

	expr := AndExpr(AtomExpr("A", "x"), OrExpr(AtomExpr("B", "y"), AtomExpr("C", "z")))

	assert.Equal("A is x and B is y or C is z", expr.Text())
	assert.Equal("tip is cheap", AtomExpr("tip", "cheap").Text())
}

func Test_Expression_Tree(t *testing.T) {
	assert := assert.New(t)

	expr := AndExpr(AtomExpr("A", "x"), OrExpr(AtomExpr("B", "y"), AtomExpr("C", "z")))

	expect := "AND\n" +
		"└── A is x\n" +
		"└── OR\n" +
		"│   └── B is y\n" +
		"│   └── C is z"

	assert.Equal(expect, expr.Tree())
}

func Test_Expression_Equal(t *testing.T) {
	testCases := []struct {
		name   string
		left   Expression
		right  Expression
		expect bool
	}{
		{
			name:   "same atom",
			left:   AtomExpr("a", "x"),
			right:  AtomExpr("a", "x"),
			expect: true,
		},
		{
			name:   "different set",
			left:   AtomExpr("a", "x"),
			right:  AtomExpr("a", "y"),
			expect: false,
		},
		{
			name:   "atom vs binary",
			left:   AtomExpr("a", "x"),
			right:  AndExpr(AtomExpr("a", "x"), AtomExpr("b", "y")),
			expect: false,
		},
		{
			name:   "different connective",
			left:   OrExpr(AtomExpr("a", "x"), AtomExpr("b", "y")),
			right:  AndExpr(AtomExpr("a", "x"), AtomExpr("b", "y")),
			expect: false,
		},
		{
			name:   "different grouping",
			left:   AndExpr(AtomExpr("a", "x"), OrExpr(AtomExpr("b", "y"), AtomExpr("c", "z"))),
			right:  OrExpr(AndExpr(AtomExpr("a", "x"), AtomExpr("b", "y")), AtomExpr("c", "z")),
			expect: false,
		},
		{
			name:   "same chain",
			left:   AndExpr(AtomExpr("a", "x"), OrExpr(AtomExpr("b", "y"), AtomExpr("c", "z"))),
			right:  AndExpr(AtomExpr("a", "x"), OrExpr(AtomExpr("b", "y"), AtomExpr("c", "z"))),
			expect: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, tc.left.Equal(tc.right))
			assert.Equal(tc.expect, tc.right.Equal(tc.left))
		})
	}
}

func Test_Expression_Atoms(t *testing.T) {
	assert := assert.New(t)

	expr := OrExpr(AtomExpr("a", "x"), AndExpr(AtomExpr("b", "y"), AtomExpr("c", "z")))

	expect := []Atom{
		{Variable: "a", Set: "x"},
		{Variable: "b", Set: "y"},
		{Variable: "c", Set: "z"},
	}

	assert.Equal(expect, expr.Atoms())
	assert.Equal(3, expr.Depth())
	assert.Equal(1, AtomExpr("a", "x").Depth())
}

func Test_Expression_accessors(t *testing.T) {
	assert := assert.New(t)

	leaf := AtomExpr("a", "x")
	assert.True(leaf.IsAtom())
	assert.Equal(Atom{Variable: "a", Set: "x"}, leaf.Atom())
	assert.Equal(Connective(0), leaf.Op())
	assert.Panics(func() { leaf.Left() })
	assert.Panics(func() { leaf.Right() })

	bin := OrExpr(leaf, AtomExpr("b", "y"))
	assert.False(bin.IsAtom())
	assert.Equal(Or, bin.Op())
	assert.True(bin.Left().Equal(leaf))
	assert.True(bin.Right().Equal(AtomExpr("b", "y")))
}
