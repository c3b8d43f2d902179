package fuzzy

import "fmt"

// Model is a compiled fuzzy rule base, ready to be handed to an inference
// engine. It owns the variable table, the compiled rules, and the
// measurements. A Model cannot be changed once created; all accessors return
// copies. Use NewModel to create one.
type Model struct {
	name         string
	variables    []Variable
	varIndex     map[string]int
	rules        []CompiledRule
	measurements []Measurement
}

// NewModel creates a new Model from the given parts. Variables and rules keep
// the order given. Variable names and rule labels must be unique.
//
// NewModel does not check that rules refer to declared variables; that is the
// job of the compiler that produced them.
func NewModel(name string, variables []Variable, rules []CompiledRule, measurements []Measurement) (Model, error) {
	m := Model{
		name:         name,
		variables:    make([]Variable, len(variables)),
		varIndex:     make(map[string]int, len(variables)),
		rules:        make([]CompiledRule, len(rules)),
		measurements: make([]Measurement, len(measurements)),
	}

	for i := range variables {
		if _, ok := m.varIndex[variables[i].Name()]; ok {
			return Model{}, fmt.Errorf("variable %q defined more than once", variables[i].Name())
		}
		m.variables[i] = variables[i]
		m.varIndex[variables[i].Name()] = i
	}

	labels := map[string]bool{}
	for i := range rules {
		if labels[rules[i].Label] {
			return Model{}, fmt.Errorf("rule %q defined more than once", rules[i].Label)
		}
		labels[rules[i].Label] = true
		m.rules[i] = rules[i]
	}

	copy(m.measurements, measurements)

	return m, nil
}

// Name returns the name of the rule base.
func (m Model) Name() string {
	return m.name
}

// Variables returns all variables in declaration order.
func (m Model) Variables() []Variable {
	vars := make([]Variable, len(m.variables))
	copy(vars, m.variables)
	return vars
}

// Variable returns the variable with the given name.
func (m Model) Variable(name string) (Variable, bool) {
	idx, ok := m.varIndex[name]
	if !ok {
		return Variable{}, false
	}
	return m.variables[idx], true
}

// Table returns the variables as a lookup table.
func (m Model) Table() VariableTable {
	vt := make(VariableTable, len(m.variables))
	for _, v := range m.variables {
		vt[v.Name()] = v
	}
	return vt
}

// Antecedents returns the variables used in the antecedent of at least one
// rule, in declaration order.
func (m Model) Antecedents() []Variable {
	return m.variablesWithRole(RoleAntecedent)
}

// Consequents returns the variables used in the consequent of at least one
// rule, in declaration order.
func (m Model) Consequents() []Variable {
	return m.variablesWithRole(RoleConsequent)
}

func (m Model) variablesWithRole(r Role) []Variable {
	var vars []Variable
	for _, v := range m.variables {
		if v.Role().Has(r) {
			vars = append(vars, v)
		}
	}
	return vars
}

// Rules returns the compiled rules in declaration order.
func (m Model) Rules() []CompiledRule {
	rules := make([]CompiledRule, len(m.rules))
	copy(rules, m.rules)
	return rules
}

// Rule returns the rule with the given label.
func (m Model) Rule(label string) (CompiledRule, bool) {
	for _, r := range m.rules {
		if r.Label == label {
			return r, true
		}
	}
	return CompiledRule{}, false
}

// Measurements returns the measurements in the order they were given.
func (m Model) Measurements() []Measurement {
	ms := make([]Measurement, len(m.measurements))
	copy(ms, m.measurements)
	return ms
}

// WithMeasurements returns a copy of m whose measurement list is replaced
// entirely by ms. m itself is not changed.
func (m Model) WithMeasurements(ms []Measurement) Model {
	cp := m
	cp.measurements = make([]Measurement, len(ms))
	copy(cp.measurements, ms)
	return cp
}

// Equal returns whether m and o have the same name, variables, rules, and
// measurements, all in the same order.
func (m Model) Equal(o Model) bool {
	if m.name != o.name {
		return false
	}
	if len(m.variables) != len(o.variables) || len(m.rules) != len(o.rules) || len(m.measurements) != len(o.measurements) {
		return false
	}
	for i := range m.variables {
		if !m.variables[i].Equal(o.variables[i]) {
			return false
		}
	}
	for i := range m.rules {
		if !m.rules[i].Equal(o.rules[i]) {
			return false
		}
	}
	for i := range m.measurements {
		if m.measurements[i] != o.measurements[i] {
			return false
		}
	}
	return true
}
