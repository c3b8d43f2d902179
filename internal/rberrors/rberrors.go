// Package rberrors has the error types returned when reading and compiling a
// fuzzy rule base. Every error is classed as either structural, syntax, or
// semantic, and also has a specific kind. Both the class and the kind can be
// checked for with errors.Is:
//
//	if errors.Is(err, rberrors.ErrSyntax) { ... }
//	if errors.Is(err, rberrors.ErrMalformedRuleLine) { ... }
//
// Errors carry the line number, the text of the line, and the offending token
// where one applies; call Detail to get at them.
package rberrors

import (
	"errors"
	"fmt"
	"strings"
)

// Class sentinels. Every kind belongs to exactly one of these.
var (
	// ErrStructural is the class of errors caused by sections being in the
	// wrong order, required lines being missing, input ending early, or names
	// that must be unique being repeated.
	ErrStructural = errors.New("structural parse error")

	// ErrSyntax is the class of errors caused by a line being present but not
	// matching the pattern expected of it.
	ErrSyntax = errors.New("syntax parse error")

	// ErrSemantic is the class of errors caused by references that do not
	// resolve or clauses that cannot be compiled.
	ErrSemantic = errors.New("semantic compile error")
)

// Kind sentinels.
var (
	ErrUnexpectedEndOfInput  = errors.New("unexpected end of input")
	ErrSectionOrder          = errors.New("section out of order")
	ErrDuplicateVariable     = errors.New("duplicate variable")
	ErrDuplicateRuleLabel    = errors.New("duplicate rule label")
	ErrDuplicateFuzzySetName = errors.New("duplicate fuzzy set name")

	ErrMalformedRuleBaseName    = errors.New("malformed rule base name")
	ErrMalformedRuleLine        = errors.New("malformed rule line")
	ErrMalformedFuzzySetLine    = errors.New("malformed fuzzy set line")
	ErrUnknownLineKind          = errors.New("unknown line kind")
	ErrMalformedMeasurementLine = errors.New("malformed measurement line")

	ErrUnknownVariableOrTerm = errors.New("unknown variable or term")
	ErrUnknownConnective     = errors.New("unknown connective")
	ErrMalformedAtomClause   = errors.New("malformed atom clause")
	ErrUndeclaredVariable    = errors.New("undeclared variable")
)

var kindClasses = map[error]error{
	ErrUnexpectedEndOfInput:  ErrStructural,
	ErrSectionOrder:          ErrStructural,
	ErrDuplicateVariable:     ErrStructural,
	ErrDuplicateRuleLabel:    ErrStructural,
	ErrDuplicateFuzzySetName: ErrStructural,

	ErrMalformedRuleBaseName:    ErrSyntax,
	ErrMalformedRuleLine:        ErrSyntax,
	ErrMalformedFuzzySetLine:    ErrSyntax,
	ErrUnknownLineKind:          ErrSyntax,
	ErrMalformedMeasurementLine: ErrSyntax,

	ErrUnknownVariableOrTerm: ErrSemantic,
	ErrUnknownConnective:     ErrSemantic,
	ErrMalformedAtomClause:   ErrSemantic,
	ErrUndeclaredVariable:    ErrSemantic,
}

// ClassOf returns the class sentinel that the given kind belongs to. If kind
// is not one of the kind sentinels in this package, nil is returned.
func ClassOf(kind error) error {
	return kindClasses[kind]
}

// ruleBaseError is an error caused by attempting to read or compile a rule
// base. The zero value is not valid; create one with New or Newf and add
// context with the With* functions.
type ruleBaseError struct {
	kind  error
	msg   string
	line  int
	text  string
	token string
	rule  string
	wrap  error
}

// Error renders the error, including the line number and the rule label if
// they are known.
func (e *ruleBaseError) Error() string {
	var sb strings.Builder

	if e.line > 0 {
		sb.WriteString(fmt.Sprintf("line %d: ", e.line))
	}
	if e.rule != "" {
		sb.WriteString(fmt.Sprintf("rule %q: ", e.rule))
	}
	sb.WriteString(e.kind.Error())
	if e.msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.msg)
	}

	return sb.String()
}

// Is returns whether target is the kind of e or the class that kind belongs
// to.
func (e *ruleBaseError) Is(target error) bool {
	return target == e.kind || target == kindClasses[e.kind]
}

// Unwrap gives the error that the ruleBaseError wraps, if it wraps one.
func (e *ruleBaseError) Unwrap() error {
	return e.wrap
}

// New returns a new error of the given kind with the given message. kind must
// be one of the kind sentinels in this package.
func New(kind error, msg string) error {
	if _, ok := kindClasses[kind]; !ok {
		panic(fmt.Sprintf("not a rule base error kind: %v", kind))
	}
	return &ruleBaseError{kind: kind, msg: msg}
}

// Newf returns a new error of the given kind with a message built from the
// given format string and arguments.
func Newf(kind error, format string, a ...interface{}) error {
	return New(kind, fmt.Sprintf(format, a...))
}

// Wrap returns a new error of the given kind that wraps cause.
func Wrap(cause error, kind error, msg string) error {
	err := New(kind, msg).(*ruleBaseError)
	err.wrap = cause
	return err
}

// AtLine returns a copy of err with the given line number and line text added
// to it. If err is not an error created by this package, it is returned
// unchanged. Context already present on err is not replaced.
func AtLine(err error, line int, text string) error {
	rbErr, ok := err.(*ruleBaseError)
	if !ok {
		return err
	}

	cp := *rbErr
	if cp.line == 0 {
		cp.line = line
		cp.text = text
	}
	return &cp
}

// WithToken returns a copy of err with the offending token set. If err is not
// an error created by this package, it is returned unchanged.
func WithToken(err error, token string) error {
	rbErr, ok := err.(*ruleBaseError)
	if !ok {
		return err
	}

	cp := *rbErr
	if cp.token == "" {
		cp.token = token
	}
	return &cp
}

// InRule returns a copy of err marked as having occurred in the rule with the
// given label. If err is not an error created by this package, it is returned
// unchanged.
func InRule(err error, label string) error {
	rbErr, ok := err.(*ruleBaseError)
	if !ok {
		return err
	}

	cp := *rbErr
	if cp.rule == "" {
		cp.rule = label
	}
	return &cp
}

// Details is the diagnostic context pulled out of an error.
type Details struct {
	// Kind is the kind sentinel of the error.
	Kind error

	// Class is the class sentinel of the error.
	Class error

	// Line is the 1-based line number the error occurred on, or 0 if not
	// known.
	Line int

	// Text is the text of the line the error occurred on.
	Text string

	// Token is the offending token, if there was one.
	Token string

	// Rule is the label of the rule being compiled when the error occurred,
	// if any.
	Rule string
}

// Detail returns the diagnostic context of err. The second return value is
// false if neither err nor any error it wraps was created by this package.
func Detail(err error) (Details, bool) {
	var rbErr *ruleBaseError
	if !errors.As(err, &rbErr) {
		return Details{}, false
	}

	return Details{
		Kind:  rbErr.kind,
		Class: kindClasses[rbErr.kind],
		Line:  rbErr.line,
		Text:  rbErr.text,
		Token: rbErr.token,
		Rule:  rbErr.rule,
	}, true
}

// Diagnostic gets a multi-line message describing err that is suitable for
// showing to a human. If err was created by this package, the offending line
// is shown beneath the message with the token underlined where possible.
// Otherwise, err.Error() is returned.
func Diagnostic(err error) string {
	d, ok := Detail(err)
	if !ok || d.Text == "" {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteRune('\n')

	prefix := fmt.Sprintf("  %d | ", d.Line)
	sb.WriteString(prefix)
	sb.WriteString(d.Text)

	if d.Token != "" {
		if idx := strings.Index(d.Text, d.Token); idx >= 0 {
			sb.WriteRune('\n')
			sb.WriteString(strings.Repeat(" ", len(prefix)+idx))
			sb.WriteString(strings.Repeat("^", len(d.Token)))
		}
	}

	return sb.String()
}
