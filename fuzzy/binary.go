package fuzzy

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rezi"
)

// This file contains the binary encoding of model types, used for storing
// compiled models.

func (fs FuzzySet) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(fs.Name)...)
	for _, c := range fs.Corners {
		data = append(data, rezi.EncInt(c)...)
	}

	return data, nil
}

func (fs *FuzzySet) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	fs.Name, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	for i := range fs.Corners {
		fs.Corners[i], n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("corner %d: %w", i, err)
		}
		data = data[n:]
	}

	return nil
}

func (v Variable) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(v.name)...)
	data = append(data, rezi.EncInt(int(v.role))...)
	data = append(data, rezi.EncInt(len(v.sets))...)
	for i := range v.sets {
		data = append(data, rezi.EncBinary(v.sets[i])...)
	}

	return data, nil
}

func (v *Variable) UnmarshalBinary(data []byte) error {
	name, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	role, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("role: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("set count: %w", err)
	}
	data = data[n:]

	sets := make([]FuzzySet, count)
	for i := range sets {
		n, err = rezi.DecBinary(data, &sets[i])
		if err != nil {
			return fmt.Errorf("set %d: %w", i, err)
		}
		data = data[n:]
	}

	decoded, err := NewVariable(name, sets...)
	if err != nil {
		return err
	}
	*v = decoded.WithRole(Role(role))

	return nil
}

func (e Expression) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(int(e.op))...)
	if e.IsAtom() {
		data = append(data, rezi.EncString(e.atom.Variable)...)
		data = append(data, rezi.EncString(e.atom.Set)...)
	} else {
		data = append(data, rezi.EncBinary(*e.left)...)
		data = append(data, rezi.EncBinary(*e.right)...)
	}

	return data, nil
}

func (e *Expression) UnmarshalBinary(data []byte) error {
	op, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("connective: %w", err)
	}
	data = data[n:]

	if op == 0 {
		var a Atom
		a.Variable, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("atom variable: %w", err)
		}
		data = data[n:]

		a.Set, _, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("atom set: %w", err)
		}

		*e = Expression{atom: a}
		return nil
	}

	if Connective(op) != And && Connective(op) != Or {
		return fmt.Errorf("unknown connective %d", op)
	}

	var left, right Expression
	n, err = rezi.DecBinary(data, &left)
	if err != nil {
		return fmt.Errorf("left: %w", err)
	}
	data = data[n:]

	_, err = rezi.DecBinary(data, &right)
	if err != nil {
		return fmt.Errorf("right: %w", err)
	}

	*e = Binary(Connective(op), left, right)
	return nil
}

func (r CompiledRule) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(r.Label)...)
	data = append(data, rezi.EncBinary(r.Antecedent)...)
	data = append(data, rezi.EncBinary(r.Consequent)...)

	return data, nil
}

func (r *CompiledRule) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	r.Label, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("label: %w", err)
	}
	data = data[n:]

	n, err = rezi.DecBinary(data, &r.Antecedent)
	if err != nil {
		return fmt.Errorf("antecedent: %w", err)
	}
	data = data[n:]

	_, err = rezi.DecBinary(data, &r.Consequent)
	if err != nil {
		return fmt.Errorf("consequent: %w", err)
	}

	return nil
}

func (m Measurement) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(m.Variable)...)
	data = append(data, rezi.EncString(strconv.FormatFloat(m.Value, 'g', -1, 64))...)

	return data, nil
}

func (m *Measurement) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	m.Variable, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("variable: %w", err)
	}
	data = data[n:]

	valStr, _, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	m.Value, err = strconv.ParseFloat(valStr, 64)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	return nil
}

func (m Model) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(m.name)...)

	data = append(data, rezi.EncInt(len(m.variables))...)
	for i := range m.variables {
		data = append(data, rezi.EncBinary(m.variables[i])...)
	}

	data = append(data, rezi.EncInt(len(m.rules))...)
	for i := range m.rules {
		data = append(data, rezi.EncBinary(m.rules[i])...)
	}

	data = append(data, rezi.EncInt(len(m.measurements))...)
	for i := range m.measurements {
		data = append(data, rezi.EncBinary(m.measurements[i])...)
	}

	return data, nil
}

func (m *Model) UnmarshalBinary(data []byte) error {
	name, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("variable count: %w", err)
	}
	data = data[n:]
	vars := make([]Variable, count)
	for i := range vars {
		n, err = rezi.DecBinary(data, &vars[i])
		if err != nil {
			return fmt.Errorf("variable %d: %w", i, err)
		}
		data = data[n:]
	}

	count, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]
	rules := make([]CompiledRule, count)
	for i := range rules {
		n, err = rezi.DecBinary(data, &rules[i])
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		data = data[n:]
	}

	count, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("measurement count: %w", err)
	}
	data = data[n:]
	measurements := make([]Measurement, count)
	for i := range measurements {
		n, err = rezi.DecBinary(data, &measurements[i])
		if err != nil {
			return fmt.Errorf("measurement %d: %w", i, err)
		}
		data = data[n:]
	}

	decoded, err := NewModel(name, vars, rules, measurements)
	if err != nil {
		return err
	}
	*m = decoded

	return nil
}
