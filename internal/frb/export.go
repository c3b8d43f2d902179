package frb

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/frbs/fuzzy"
	"gopkg.in/yaml.v3"
)

// modelDoc is the document form of a fuzzy.Model used for TOML and YAML
// export. Expressions are nested tables instead of rule text so that a
// consumer never has to know the folding rules of the clause compiler.
type modelDoc struct {
	Name         string           `toml:"name" yaml:"name"`
	Variables    []variableDoc    `toml:"variable" yaml:"variables"`
	Rules        []ruleDoc        `toml:"rule" yaml:"rules"`
	Measurements []measurementDoc `toml:"measurement" yaml:"measurements"`
}

type variableDoc struct {
	Name string   `toml:"name" yaml:"name"`
	Role string   `toml:"role" yaml:"role"`
	Min  int      `toml:"min" yaml:"min"`
	Max  int      `toml:"max" yaml:"max"`
	Sets []setDoc `toml:"set" yaml:"sets"`
}

type setDoc struct {
	Name    string `toml:"name" yaml:"name"`
	Corners []int  `toml:"corners" yaml:"corners,flow"`
}

type ruleDoc struct {
	Label      string  `toml:"label" yaml:"label"`
	Text       string  `toml:"text" yaml:"text"`
	Antecedent exprDoc `toml:"antecedent" yaml:"antecedent"`
	Consequent exprDoc `toml:"consequent" yaml:"consequent"`
}

// exprDoc is either an atom, with Variable and Set filled, or a binary node
// with Op, Left and Right filled.
type exprDoc struct {
	Op       string   `toml:"op,omitempty" yaml:"op,omitempty"`
	Variable string   `toml:"variable,omitempty" yaml:"variable,omitempty"`
	Set      string   `toml:"set,omitempty" yaml:"set,omitempty"`
	Left     *exprDoc `toml:"left,omitempty" yaml:"left,omitempty"`
	Right    *exprDoc `toml:"right,omitempty" yaml:"right,omitempty"`
}

type measurementDoc struct {
	Variable string  `toml:"variable" yaml:"variable"`
	Value    float64 `toml:"value" yaml:"value"`
}

// EncodeTOML writes m to w as a TOML document.
func EncodeTOML(w io.Writer, m fuzzy.Model) error {
	if err := toml.NewEncoder(w).Encode(newModelDoc(m)); err != nil {
		return fmt.Errorf("encode TOML: %w", err)
	}
	return nil
}

// EncodeYAML writes m to w as a YAML document.
func EncodeYAML(w io.Writer, m fuzzy.Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newModelDoc(m)); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return nil
}

// DecodeTOML reads a model from a TOML document written by EncodeTOML.
func DecodeTOML(r io.Reader) (fuzzy.Model, error) {
	var doc modelDoc
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return fuzzy.Model{}, fmt.Errorf("decode TOML: %w", err)
	}
	return doc.model()
}

// DecodeYAML reads a model from a YAML document written by EncodeYAML.
func DecodeYAML(r io.Reader) (fuzzy.Model, error) {
	var doc modelDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fuzzy.Model{}, fmt.Errorf("decode YAML: %w", err)
	}
	return doc.model()
}

func newModelDoc(m fuzzy.Model) modelDoc {
	doc := modelDoc{Name: m.Name()}

	for _, v := range m.Variables() {
		lo, hi := v.Bounds()
		vd := variableDoc{
			Name: v.Name(),
			Role: v.Role().String(),
			Min:  lo,
			Max:  hi,
		}
		for _, fs := range v.Sets() {
			corners := make([]int, len(fs.Corners))
			copy(corners, fs.Corners[:])
			vd.Sets = append(vd.Sets, setDoc{Name: fs.Name, Corners: corners})
		}
		doc.Variables = append(doc.Variables, vd)
	}

	for _, r := range m.Rules() {
		doc.Rules = append(doc.Rules, ruleDoc{
			Label:      r.Label,
			Text:       r.String(),
			Antecedent: newExprDoc(r.Antecedent),
			Consequent: newExprDoc(r.Consequent),
		})
	}

	for _, meas := range m.Measurements() {
		doc.Measurements = append(doc.Measurements, measurementDoc{Variable: meas.Variable, Value: meas.Value})
	}

	return doc
}

func newExprDoc(e fuzzy.Expression) exprDoc {
	if e.IsAtom() {
		return exprDoc{Variable: e.Atom().Variable, Set: e.Atom().Set}
	}

	left := newExprDoc(e.Left())
	right := newExprDoc(e.Right())
	return exprDoc{
		Op:    e.Op().String(),
		Left:  &left,
		Right: &right,
	}
}

func (doc modelDoc) model() (fuzzy.Model, error) {
	var vars []fuzzy.Variable
	for _, vd := range doc.Variables {
		var sets []fuzzy.FuzzySet
		for _, sd := range vd.Sets {
			if len(sd.Corners) != 4 {
				return fuzzy.Model{}, fmt.Errorf("variable %q: set %q: need 4 corners but got %d", vd.Name, sd.Name, len(sd.Corners))
			}
			fs := fuzzy.FuzzySet{Name: sd.Name}
			copy(fs.Corners[:], sd.Corners)
			sets = append(sets, fs)
		}

		v, err := fuzzy.NewVariable(vd.Name, sets...)
		if err != nil {
			return fuzzy.Model{}, err
		}

		role, err := parseRole(vd.Role)
		if err != nil {
			return fuzzy.Model{}, fmt.Errorf("variable %q: %w", vd.Name, err)
		}
		vars = append(vars, v.WithRole(role))
	}

	var rules []fuzzy.CompiledRule
	for _, rd := range doc.Rules {
		ante, err := rd.Antecedent.expression()
		if err != nil {
			return fuzzy.Model{}, fmt.Errorf("rule %q: antecedent: %w", rd.Label, err)
		}
		cons, err := rd.Consequent.expression()
		if err != nil {
			return fuzzy.Model{}, fmt.Errorf("rule %q: consequent: %w", rd.Label, err)
		}
		rules = append(rules, fuzzy.CompiledRule{Label: rd.Label, Antecedent: ante, Consequent: cons})
	}

	var ms []fuzzy.Measurement
	for _, md := range doc.Measurements {
		ms = append(ms, fuzzy.Measurement{Variable: md.Variable, Value: md.Value})
	}

	return fuzzy.NewModel(doc.Name, vars, rules, ms)
}

func (ed exprDoc) expression() (fuzzy.Expression, error) {
	if ed.Op == "" {
		if ed.Variable == "" || ed.Set == "" {
			return fuzzy.Expression{}, fmt.Errorf("atom needs both a variable and a set")
		}
		return fuzzy.AtomExpr(ed.Variable, ed.Set), nil
	}

	var op fuzzy.Connective
	switch strings.ToUpper(ed.Op) {
	case fuzzy.And.String():
		op = fuzzy.And
	case fuzzy.Or.String():
		op = fuzzy.Or
	default:
		return fuzzy.Expression{}, fmt.Errorf("unknown connective %q", ed.Op)
	}

	if ed.Left == nil || ed.Right == nil {
		return fuzzy.Expression{}, fmt.Errorf("%s needs both a left and a right operand", op)
	}

	left, err := ed.Left.expression()
	if err != nil {
		return fuzzy.Expression{}, err
	}
	right, err := ed.Right.expression()
	if err != nil {
		return fuzzy.Expression{}, err
	}

	return fuzzy.Binary(op, left, right), nil
}

func parseRole(s string) (fuzzy.Role, error) {
	for _, r := range []fuzzy.Role{fuzzy.RoleNone, fuzzy.RoleAntecedent, fuzzy.RoleConsequent, fuzzy.RoleBoth} {
		if r.String() == s {
			return r, nil
		}
	}
	return fuzzy.RoleNone, fmt.Errorf("unknown role %q", s)
}
