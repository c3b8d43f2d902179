package fuzzy

import (
	"fmt"
	"strings"
)

// Connective is a logical operator that joins two expressions.
type Connective int

const (
	And Connective = iota + 1
	Or
)

// Word returns the word used for the connective in rule text.
func (c Connective) Word() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return ""
	}
}

func (c Connective) String() string {
	switch c {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return fmt.Sprintf("Connective(%d)", int(c))
	}
}

// Atom is the elementary predicate "Variable is Set".
type Atom struct {
	Variable string
	Set      string
}

func (a Atom) String() string {
	return fmt.Sprintf("Atom(%s,%s)", a.Variable, a.Set)
}

// Text returns the atom as it is written in rule text.
func (a Atom) Text() string {
	return a.Variable + " is " + a.Set
}

// Expression is a binary tree whose leaves are Atoms and whose inner nodes
// join a left and right expression with a Connective. A single-leaf tree is
// just an Atom.
//
// The zero value is an Atom with an empty variable and set, and is not valid
// in a Model. Create Expressions with AtomExpr, And, Or, or Binary.
type Expression struct {
	op    Connective
	atom  Atom
	left  *Expression
	right *Expression
}

// AtomExpr returns a single-leaf Expression for "variable is set".
func AtomExpr(variable, set string) Expression {
	return Expression{atom: Atom{Variable: variable, Set: set}}
}

// Binary returns an Expression that joins left and right with op.
func Binary(op Connective, left, right Expression) Expression {
	return Expression{op: op, left: &left, right: &right}
}

// AndExpr returns the Expression AND(left, right).
func AndExpr(left, right Expression) Expression {
	return Binary(And, left, right)
}

// OrExpr returns the Expression OR(left, right).
func OrExpr(left, right Expression) Expression {
	return Binary(Or, left, right)
}

// IsAtom returns whether the expression is a single leaf.
func (e Expression) IsAtom() bool {
	return e.op == 0
}

// Atom returns the atom of a leaf expression. It returns the zero Atom for
// a binary expression.
func (e Expression) Atom() Atom {
	return e.atom
}

// Op returns the connective of a binary expression. It returns 0 for a leaf.
func (e Expression) Op() Connective {
	return e.op
}

// Left returns the left operand of a binary expression. It panics if e is a
// leaf.
func (e Expression) Left() Expression {
	if e.IsAtom() {
		panic("Left() called on atom expression")
	}
	return *e.left
}

// Right returns the right operand of a binary expression. It panics if e is a
// leaf.
func (e Expression) Right() Expression {
	if e.IsAtom() {
		panic("Right() called on atom expression")
	}
	return *e.right
}

// Atoms returns every atom in the expression from left to right.
func (e Expression) Atoms() []Atom {
	if e.IsAtom() {
		return []Atom{e.atom}
	}
	return append(e.left.Atoms(), e.right.Atoms()...)
}

// Depth returns the number of levels in the tree. A leaf has depth 1.
func (e Expression) Depth() int {
	if e.IsAtom() {
		return 1
	}
	l, r := e.left.Depth(), e.right.Depth()
	if l > r {
		return l + 1
	}
	return r + 1
}

// Equal returns whether e and o are structurally identical.
func (e Expression) Equal(o Expression) bool {
	if e.op != o.op {
		return false
	}
	if e.IsAtom() {
		return e.atom == o.atom
	}
	return e.left.Equal(*o.left) && e.right.Equal(*o.right)
}

// String returns the expression in prefix notation, such as
// "AND(Atom(a,x), OR(Atom(b,y), Atom(c,z)))".
func (e Expression) String() string {
	if e.IsAtom() {
		return e.atom.String()
	}
	return fmt.Sprintf("%s(%s, %s)", e.op, e.left.String(), e.right.String())
}

// Text returns the expression as rule text, such as
// "a is x and b is y or c is z". Rule text has no grouping, so this only
// reads back to the same tree for chains whose left operands are all atoms,
// which is every tree the clause compiler produces.
func (e Expression) Text() string {
	if e.IsAtom() {
		return e.atom.Text()
	}
	return e.left.Text() + " " + e.op.Word() + " " + e.right.Text()
}

// Tree returns a multi-line drawing of the expression with one node per line.
func (e Expression) Tree() string {
	var sb strings.Builder
	e.writeTree(&sb, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (e Expression) writeTree(sb *strings.Builder, depth int) {
	sb.WriteString(treePadding(depth))
	if e.IsAtom() {
		sb.WriteString(e.atom.Text())
		sb.WriteRune('\n')
		return
	}
	sb.WriteString(e.op.String())
	sb.WriteRune('\n')
	e.left.writeTree(sb, depth+1)
	e.right.writeTree(sb, depth+1)
}

func treePadding(depth int) string {
	if depth == 0 {
		return ""
	}
	return strings.Repeat("│   ", depth-1) + "└── "
}
