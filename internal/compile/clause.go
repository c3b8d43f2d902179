// Package compile turns the raw rules of a parsed FRB file into expression
// trees and assembles the result into a fuzzy.Model.
//
// Clauses have no operator precedence and no grouping. A clause is folded
// from the right: each connective joins the atom just before it with
// everything after it, so "a is x and b is y or c is z" compiles to
// AND(a is x, OR(b is y, c is z)).
package compile

import (
	"strings"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/internal/rberrors"
)

// Table is a source of declared variables. fuzzy.VariableTable satisfies it.
type Table interface {
	Lookup(name string) (fuzzy.Variable, bool)
}

// ParseConnective returns the connective that word names. Connectives are
// matched exactly as they appear in rule text, in lower case.
func ParseConnective(word string) (fuzzy.Connective, error) {
	switch word {
	case fuzzy.And.Word():
		return fuzzy.And, nil
	case fuzzy.Or.Word():
		return fuzzy.Or, nil
	default:
		err := rberrors.Newf(rberrors.ErrUnknownConnective, "%q is not \"and\" or \"or\"", word)
		return 0, rberrors.WithToken(err, word)
	}
}

func isConnective(word string) bool {
	_, err := ParseConnective(word)
	return err == nil
}

// Clause compiles the text of one side of a rule into an expression, checking
// every atom against table. If role is not fuzzy.RoleNone, the variable of
// every atom must also have that role.
func Clause(text string, table Table, role fuzzy.Role) (fuzzy.Expression, error) {
	return clauseTokens(strings.Fields(text), table, role)
}

func clauseTokens(tokens []string, table Table, role fuzzy.Role) (fuzzy.Expression, error) {
	for i, tok := range tokens {
		if !isConnective(tok) {
			continue
		}

		left, err := atom(tokens[:i], table, role)
		if err != nil {
			return fuzzy.Expression{}, err
		}

		op, err := ParseConnective(tok)
		if err != nil {
			return fuzzy.Expression{}, err
		}

		if i+1 >= len(tokens) {
			err := rberrors.Newf(rberrors.ErrMalformedAtomClause, "nothing follows %q", tok)
			return fuzzy.Expression{}, rberrors.WithToken(err, tok)
		}

		right, err := clauseTokens(tokens[i+1:], table, role)
		if err != nil {
			return fuzzy.Expression{}, err
		}

		return fuzzy.Binary(op, left, right), nil
	}

	return atom(tokens, table, role)
}

// atom compiles a clause segment that must be exactly "variable is set".
func atom(tokens []string, table Table, role fuzzy.Role) (fuzzy.Expression, error) {
	if len(tokens) != 3 || tokens[1] != "is" {
		seg := strings.Join(tokens, " ")
		if seg == "" {
			return fuzzy.Expression{}, rberrors.New(rberrors.ErrMalformedAtomClause, "expected \"VARIABLE is SET\" but got nothing")
		}
		err := rberrors.Newf(rberrors.ErrMalformedAtomClause, "expected \"VARIABLE is SET\" but got %q", seg)
		return fuzzy.Expression{}, rberrors.WithToken(err, seg)
	}

	varName, setName := tokens[0], tokens[2]

	v, ok := table.Lookup(varName)
	if !ok {
		err := rberrors.Newf(rberrors.ErrUnknownVariableOrTerm, "no variable named %q", varName)
		return fuzzy.Expression{}, rberrors.WithToken(err, varName)
	}
	if !v.HasSet(setName) {
		err := rberrors.Newf(rberrors.ErrUnknownVariableOrTerm, "%q is not a set of %q", setName, varName)
		return fuzzy.Expression{}, rberrors.WithToken(err, setName)
	}
	if role != fuzzy.RoleNone && !v.Role().Has(role) {
		err := rberrors.Newf(rberrors.ErrUnknownVariableOrTerm, "%q is not used as %s", varName, aOrAn(role.String()))
		return fuzzy.Expression{}, rberrors.WithToken(err, varName)
	}

	return fuzzy.AtomExpr(varName, setName), nil
}

func aOrAn(word string) string {
	if word != "" && strings.ContainsRune("aeiou", rune(word[0])) {
		return "an " + word
	}
	return "a " + word
}
