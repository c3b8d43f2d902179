// Package fuzzy contains the compiled form of a fuzzy rule base: the table of
// variables and their trapezoidal fuzzy sets, the rules compiled into
// expression trees over (variable, set) atoms, and the measurements to feed
// in. A Model is the only thing an inference engine needs to be handed; it
// is immutable once built.
package fuzzy

import (
	"fmt"
	"strings"
)

// Role is the position a variable takes in the rules of a Model. A variable
// may be used as an antecedent, a consequent, both (chained inference), or
// neither if no rule mentions it.
type Role int

const (
	RoleNone       Role = 0
	RoleAntecedent Role = 1
	RoleConsequent Role = 2
	RoleBoth       Role = RoleAntecedent | RoleConsequent
)

// Has returns whether r includes every role in other.
func (r Role) Has(other Role) bool {
	return r&other == other
}

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleAntecedent:
		return "antecedent"
	case RoleConsequent:
		return "consequent"
	case RoleBoth:
		return "antecedent+consequent"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// FuzzySet is a trapezoidal membership function over the universe of a
// variable. Corners holds the four x-coordinates of the trapezoid from left to
// right: membership rises from 0 at Corners[0] to 1 at Corners[1], stays at 1
// until Corners[2], and falls back to 0 at Corners[3].
type FuzzySet struct {
	Name    string
	Corners [4]int
}

// Trapezoid creates a FuzzySet from the (a, b, alpha, beta) form used in rule
// base files, where [a, b] is the core of the set and alpha and beta are the
// widths of the left and right slopes. The corners are
// (a-alpha, a, b, b+beta).
func Trapezoid(name string, a, b, alpha, beta int) FuzzySet {
	return FuzzySet{
		Name:    name,
		Corners: [4]int{a - alpha, a, b, b + beta},
	}
}

// Spec returns the (a, b, alpha, beta) form of the set. It is the inverse of
// Trapezoid.
func (fs FuzzySet) Spec() (a, b, alpha, beta int) {
	a = fs.Corners[1]
	b = fs.Corners[2]
	alpha = a - fs.Corners[0]
	beta = fs.Corners[3] - b
	return a, b, alpha, beta
}

// Ordered returns whether the corners of the set are non-decreasing. Sets
// built from a non-negative alpha and beta with a <= b are always ordered.
func (fs FuzzySet) Ordered() bool {
	return fs.Corners[0] <= fs.Corners[1] && fs.Corners[1] <= fs.Corners[2] && fs.Corners[2] <= fs.Corners[3]
}

func (fs FuzzySet) String() string {
	return fmt.Sprintf("%s(%d, %d, %d, %d)", fs.Name, fs.Corners[0], fs.Corners[1], fs.Corners[2], fs.Corners[3])
}

// Variable is a named linguistic variable and the fuzzy sets defined over it.
// Variable should not be created directly; use NewVariable.
type Variable struct {
	name  string
	sets  []FuzzySet
	index map[string]int
	role  Role
}

// NewVariable creates a new Variable with the given sets in the given order.
// Set names must be unique within the variable; if one is repeated a non-nil
// error is returned.
func NewVariable(name string, sets ...FuzzySet) (Variable, error) {
	v := Variable{
		name:  name,
		sets:  make([]FuzzySet, len(sets)),
		index: make(map[string]int, len(sets)),
	}

	for i := range sets {
		if _, ok := v.index[sets[i].Name]; ok {
			return Variable{}, fmt.Errorf("variable %q: set %q defined more than once", name, sets[i].Name)
		}
		v.sets[i] = sets[i]
		v.index[sets[i].Name] = i
	}

	return v, nil
}

// Name returns the name of the variable.
func (v Variable) Name() string {
	return v.name
}

// Role returns the role of the variable within its rule base.
func (v Variable) Role() Role {
	return v.role
}

// WithRole returns a copy of v with its role set to r.
func (v Variable) WithRole(r Role) Variable {
	v.role = r
	return v
}

// Sets returns the fuzzy sets of the variable in declaration order. The
// returned slice is a copy.
func (v Variable) Sets() []FuzzySet {
	sets := make([]FuzzySet, len(v.sets))
	copy(sets, v.sets)
	return sets
}

// SetNames returns the names of the sets of the variable in declaration order.
func (v Variable) SetNames() []string {
	names := make([]string, len(v.sets))
	for i := range v.sets {
		names[i] = v.sets[i].Name
	}
	return names
}

// Set returns the set with the given name. The second return value is false
// if no set with that name is defined on the variable.
func (v Variable) Set(name string) (FuzzySet, bool) {
	idx, ok := v.index[name]
	if !ok {
		return FuzzySet{}, false
	}
	return v.sets[idx], true
}

// HasSet returns whether the variable defines a set with the given name.
func (v Variable) HasSet(name string) bool {
	_, ok := v.index[name]
	return ok
}

// Bounds returns the bounds of the universe of the variable, which are the
// lowest and highest corners across all of its sets. A variable with no sets
// has bounds of (0, 0).
func (v Variable) Bounds() (min, max int) {
	if len(v.sets) < 1 {
		return 0, 0
	}

	min = v.sets[0].Corners[0]
	max = v.sets[0].Corners[0]
	for _, fs := range v.sets {
		for _, c := range fs.Corners {
			if c < min {
				min = c
			}
			if c > max {
				max = c
			}
		}
	}

	return min, max
}

// Universe returns the points of the universe of discourse of the variable,
// starting at the lower bound and moving up by step for as long as the point
// is below the upper bound. step must be greater than 0.
func (v Variable) Universe(step float64) []float64 {
	if step <= 0 {
		panic("universe step must be greater than 0")
	}

	lo, hi := v.Bounds()

	var points []float64
	for x := float64(lo); x < float64(hi); x += step {
		points = append(points, x)
	}
	return points
}

func (v Variable) String() string {
	setStrs := make([]string, len(v.sets))
	for i := range v.sets {
		setStrs[i] = v.sets[i].String()
	}
	return fmt.Sprintf("%s{%s}", v.name, strings.Join(setStrs, ", "))
}

// Equal returns whether v and o have the same name, role, and sets in the
// same order.
func (v Variable) Equal(o Variable) bool {
	if v.name != o.name || v.role != o.role || len(v.sets) != len(o.sets) {
		return false
	}
	for i := range v.sets {
		if v.sets[i] != o.sets[i] {
			return false
		}
	}
	return true
}

// VariableTable is a lookup of variables by name.
type VariableTable map[string]Variable

// Lookup returns the variable with the given name.
func (vt VariableTable) Lookup(name string) (Variable, bool) {
	v, ok := vt[name]
	return v, ok
}

// Measurement is a crisp input value for a variable.
type Measurement struct {
	Variable string
	Value    float64
}

func (m Measurement) String() string {
	return fmt.Sprintf("%s = %g", m.Variable, m.Value)
}

// CompiledRule is a rule whose antecedent and consequent clauses have been
// compiled into expressions.
type CompiledRule struct {
	Label      string
	Antecedent Expression
	Consequent Expression
}

func (r CompiledRule) String() string {
	return fmt.Sprintf("%s: if %s then %s", r.Label, r.Antecedent.Text(), r.Consequent.Text())
}

// Equal returns whether r and o have the same label and structurally equal
// expressions.
func (r CompiledRule) Equal(o CompiledRule) bool {
	return r.Label == o.Label && r.Antecedent.Equal(o.Antecedent) && r.Consequent.Equal(o.Consequent)
}
