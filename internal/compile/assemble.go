package compile

import (
	"strings"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/internal/frb"
	"github.com/dekarrin/frbs/internal/rberrors"
	"github.com/dekarrin/frbs/internal/util"
)

// Assemble compiles every rule of f and bundles the results with the
// variables and measurements of f into a Model.
//
// Every variable named in a rule must be declared; if one is not, an error
// matching rberrors.ErrUndeclaredVariable is returned before any rule is
// compiled. Variables are given the role they are used in by the rules. The
// first error stops assembly, and no Model is returned with it.
func Assemble(f frb.File) (fuzzy.Model, error) {
	rb := f.RuleBase

	declared := util.NewStringSet()
	for _, v := range f.Variables {
		declared.Add(v.Name())
	}

	used := rb.AntecedentNames.Union(rb.ConsequentNames)
	if missing := used.Difference(declared); !missing.Empty() {
		return fuzzy.Model{}, undeclared(rb, missing.Elements()[0])
	}

	vars := make([]fuzzy.Variable, len(f.Variables))
	table := make(fuzzy.VariableTable, len(f.Variables))
	for i, v := range f.Variables {
		var role fuzzy.Role
		if rb.AntecedentNames.Has(v.Name()) {
			role |= fuzzy.RoleAntecedent
		}
		if rb.ConsequentNames.Has(v.Name()) {
			role |= fuzzy.RoleConsequent
		}
		vars[i] = v.WithRole(role)
		table[v.Name()] = vars[i]
	}

	rules := make([]fuzzy.CompiledRule, len(rb.Rules))
	for i, raw := range rb.Rules {
		r, err := compileRule(raw, table)
		if err != nil {
			err = rberrors.InRule(err, raw.Label)
			return fuzzy.Model{}, rberrors.AtLine(err, raw.Line.Num, raw.Line.Text)
		}
		rules[i] = r
	}

	for i, m := range f.Measurements {
		if !declared.Has(m.Variable) {
			err := rberrors.Newf(rberrors.ErrUndeclaredVariable, "measurement given for %q, which is not declared", m.Variable)
			err = rberrors.WithToken(err, m.Variable)
			if i < len(f.MeasurementLines) {
				err = rberrors.AtLine(err, f.MeasurementLines[i].Num, f.MeasurementLines[i].Text)
			}
			return fuzzy.Model{}, err
		}
	}

	return fuzzy.NewModel(rb.Name, vars, rules, f.Measurements)
}

func compileRule(raw frb.RawRule, table fuzzy.VariableTable) (fuzzy.CompiledRule, error) {
	ante, err := Clause(raw.Antecedent, table, fuzzy.RoleAntecedent)
	if err != nil {
		return fuzzy.CompiledRule{}, err
	}

	cons, err := Clause(raw.Consequent, table, fuzzy.RoleConsequent)
	if err != nil {
		return fuzzy.CompiledRule{}, err
	}

	return fuzzy.CompiledRule{
		Label:      raw.Label,
		Antecedent: ante,
		Consequent: cons,
	}, nil
}

// undeclared builds the error for a variable used by a rule but never
// declared, pointing at the first rule that uses it.
func undeclared(rb frb.RuleBaseRaw, name string) error {
	err := rberrors.Newf(rberrors.ErrUndeclaredVariable, "variable %q is used by a rule but never declared", name)
	err = rberrors.WithToken(err, name)

	for _, r := range rb.Rules {
		if util.NewStringSet(clauseVariables(r.Antecedent)...).Has(name) || util.NewStringSet(clauseVariables(r.Consequent)...).Has(name) {
			err = rberrors.InRule(err, r.Label)
			return rberrors.AtLine(err, r.Line.Num, r.Line.Text)
		}
	}
	return err
}

// clauseVariables returns the word before every "is" in a clause.
func clauseVariables(text string) []string {
	var names []string
	tokens := strings.Fields(text)
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "is" {
			names = append(names, tokens[i-1])
		}
	}
	return names
}
