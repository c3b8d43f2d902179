// Package frb reads and writes the FRB rule base text format. Parse turns the
// lines of an FRB file into a raw File whose rules are still uncompiled text;
// Format writes a compiled model back out in the same format, and EncodeTOML
// and EncodeYAML export a compiled model as a document for other tools.
//
// An FRB file has three sections that must appear in order:
//
//	Tipping
//	Rule1: if service is poor or food is rancid then tip is cheap
//	Rule2: if service is good then tip is average
//
//	service
//	poor 0 3 0 2
//	good 4 8 2 2
//
//	tip
//	cheap 0 8 0 5
//	average 10 15 5 5
//
//	service = 4
//
// The first is the rule base block, a name followed by one rule per line and
// ended by a blank line. Then come one or more variable blocks, each a
// variable name followed by lines of "set a b alpha beta" and ended by a blank
// line. Last is the measurement block of "variable = number" lines, which
// runs to the end of the input.
package frb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/internal/rberrors"
	"github.com/dekarrin/frbs/internal/scan"
	"github.com/dekarrin/frbs/internal/util"
)

var (
	rulePattern        = regexp.MustCompile(`^\s*(.+?):\s*if\s+(.+?)\s+then\s+(.+?)\s*$`)
	atomPattern        = regexp.MustCompile(`\b(\w+)\s+is\s+(\w+)\b`)
	measurementPattern = regexp.MustCompile(`^\s*(\w+)\s*=\s*([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)\s*$`)
	identifierPattern  = regexp.MustCompile(`^\w+$`)
)

// RawRule is a rule as it appears in the rule base block, with its clauses
// not yet compiled.
type RawRule struct {
	Label      string
	Antecedent string
	Consequent string

	// Line is the line the rule was read from.
	Line scan.Line
}

// RuleBaseRaw is the contents of the rule base block.
type RuleBaseRaw struct {
	Name string

	// Rules holds the rules in the order they were declared. No two have the
	// same label.
	Rules []RawRule

	// AntecedentNames is every variable name found in an "x is y" phrase on
	// the antecedent side of any rule.
	AntecedentNames util.StringSet

	// ConsequentNames is every variable name found in an "x is y" phrase on
	// the consequent side of any rule.
	ConsequentNames util.StringSet
}

// Rule returns the rule with the given label.
func (rb RuleBaseRaw) Rule(label string) (RawRule, bool) {
	for _, r := range rb.Rules {
		if r.Label == label {
			return r, true
		}
	}
	return RawRule{}, false
}

// File is the parsed but uncompiled contents of an FRB file.
type File struct {
	RuleBase RuleBaseRaw

	// Variables holds the declared variables in declaration order. Their roles
	// are not yet set.
	Variables []fuzzy.Variable

	Measurements []fuzzy.Measurement

	// MeasurementLines holds the line each measurement was read from, in the
	// same order as Measurements.
	MeasurementLines []scan.Line
}

type state int

const (
	stateRuleBase state = iota
	stateVariables
	stateMeasurements
	stateDone
)

type parser struct {
	s    *scan.Scanner
	f    File
	vars map[string]bool

	// lookahead is a line already read by a previous state that the next
	// state must handle first.
	lookahead *scan.Line
}

// Parse reads an entire FRB file from s. It stops at the first problem it
// finds and returns an error from package rberrors that carries the line it
// was found on. Parse does not close s.
func Parse(s *scan.Scanner) (File, error) {
	p := &parser{
		s:    s,
		vars: map[string]bool{},
		f: File{
			RuleBase: RuleBaseRaw{
				AntecedentNames: util.NewStringSet(),
				ConsequentNames: util.NewStringSet(),
			},
		},
	}

	st := stateRuleBase
	for st != stateDone {
		var err error

		switch st {
		case stateRuleBase:
			st, err = p.ruleBase()
		case stateVariables:
			st, err = p.variables()
		case stateMeasurements:
			st, err = p.measurements()
		}

		if err != nil {
			return File{}, err
		}
	}

	return p.f, nil
}

func (p *parser) ruleBase() (state, error) {
	ln, err := p.s.NextNonEmpty()
	if err != nil {
		return stateDone, expected(err, "rule base name")
	}

	fields := strings.Fields(ln.Text)
	if len(fields) != 1 {
		err := rberrors.Newf(rberrors.ErrMalformedRuleBaseName, "%q is not a single word", ln.Trimmed())
		err = rberrors.WithToken(err, fields[1])
		return stateDone, rberrors.AtLine(err, ln.Num, ln.Text)
	}
	p.f.RuleBase.Name = fields[0]

	// the rule block may be separated from the name by blank lines, but once
	// the first rule is read a blank line ends it.
	ln, err = p.s.NextNonEmpty()
	if err != nil {
		return stateDone, expected(err, "rule")
	}
	for {
		if err := p.rule(ln); err != nil {
			return stateDone, err
		}

		ln, err = p.s.NextRaw()
		if err != nil {
			return stateDone, expected(err, "variable block")
		}
		if ln.Blank() {
			return stateVariables, nil
		}
	}
}

func (p *parser) rule(ln scan.Line) error {
	m := rulePattern.FindStringSubmatch(ln.Text)
	if m == nil {
		var err error
		if len(p.f.RuleBase.Rules) == 0 && looksLikeLaterSection(ln.Text) {
			err = rberrors.New(rberrors.ErrSectionOrder, "rule base block must start with at least one rule")
		} else {
			err = rberrors.New(rberrors.ErrMalformedRuleLine, "expected \"LABEL: if CLAUSE then CLAUSE\"")
		}
		return rberrors.AtLine(err, ln.Num, ln.Text)
	}

	r := RawRule{
		Label:      strings.TrimSpace(m[1]),
		Antecedent: m[2],
		Consequent: m[3],
		Line:       ln,
	}

	if _, dup := p.f.RuleBase.Rule(r.Label); dup {
		err := rberrors.Newf(rberrors.ErrDuplicateRuleLabel, "%q is already the label of another rule", r.Label)
		err = rberrors.WithToken(err, r.Label)
		return rberrors.AtLine(err, ln.Num, ln.Text)
	}

	p.f.RuleBase.AntecedentNames.AddAll(harvestNames(r.Antecedent))
	p.f.RuleBase.ConsequentNames.AddAll(harvestNames(r.Consequent))
	p.f.RuleBase.Rules = append(p.f.RuleBase.Rules, r)

	return nil
}

func (p *parser) variables() (state, error) {
	ln, err := p.s.NextNonEmpty()
	if err != nil {
		return stateDone, expected(err, "variable block or measurement")
	}

	if measurementPattern.MatchString(ln.Text) {
		p.lookahead = &ln
		return stateMeasurements, nil
	}

	if rulePattern.MatchString(ln.Text) {
		err := rberrors.New(rberrors.ErrSectionOrder, "rules must all be in the rule base block")
		return stateDone, rberrors.AtLine(err, ln.Num, ln.Text)
	}

	if !isVariableName(ln.Text) {
		err := rberrors.New(rberrors.ErrUnknownLineKind, "expected a variable name or a measurement")
		return stateDone, rberrors.AtLine(err, ln.Num, ln.Text)
	}

	name := ln.Trimmed()
	if p.vars[name] {
		err := rberrors.Newf(rberrors.ErrDuplicateVariable, "variable %q is already declared", name)
		err = rberrors.WithToken(err, name)
		return stateDone, rberrors.AtLine(err, ln.Num, ln.Text)
	}

	v, err := p.variableBlock(name)
	if err != nil {
		return stateDone, err
	}

	p.vars[name] = true
	p.f.Variables = append(p.f.Variables, v)

	return stateVariables, nil
}

func (p *parser) variableBlock(name string) (fuzzy.Variable, error) {
	var sets []fuzzy.FuzzySet
	seen := util.NewStringSet()

	ln, err := p.s.NextNonEmpty()
	if err != nil {
		return fuzzy.Variable{}, expected(err, "fuzzy set of variable "+strconv.Quote(name))
	}

	for {
		fs, err := parseFuzzySet(ln.Text)
		if err != nil {
			return fuzzy.Variable{}, rberrors.AtLine(err, ln.Num, ln.Text)
		}
		if seen.Has(fs.Name) {
			err := rberrors.Newf(rberrors.ErrDuplicateFuzzySetName, "variable %q already has a set named %q", name, fs.Name)
			err = rberrors.WithToken(err, fs.Name)
			return fuzzy.Variable{}, rberrors.AtLine(err, ln.Num, ln.Text)
		}
		seen.Add(fs.Name)
		sets = append(sets, fs)

		ln, err = p.s.NextRaw()
		if err != nil {
			if isEndOfInput(err) {
				break
			}
			return fuzzy.Variable{}, err
		}
		if ln.Blank() {
			break
		}
	}

	return fuzzy.NewVariable(name, sets...)
}

func (p *parser) measurements() (state, error) {
	for {
		var ln scan.Line

		if p.lookahead != nil {
			ln = *p.lookahead
			p.lookahead = nil
		} else {
			var err error
			ln, err = p.s.NextNonEmpty()
			if err != nil {
				if isEndOfInput(err) {
					return stateDone, nil
				}
				return stateDone, err
			}
		}

		m, err := parseMeasurement(ln.Text)
		if err != nil {
			return stateDone, rberrors.AtLine(err, ln.Num, ln.Text)
		}

		p.f.Measurements = append(p.f.Measurements, m)
		p.f.MeasurementLines = append(p.f.MeasurementLines, ln)
	}
}

// parseFuzzySet parses a line of the form "name a b alpha beta".
func parseFuzzySet(text string) (fuzzy.FuzzySet, error) {
	fields := strings.Fields(text)
	if len(fields) != 5 {
		return fuzzy.FuzzySet{}, rberrors.Newf(rberrors.ErrMalformedFuzzySetLine, "expected \"NAME A B ALPHA BETA\" but got %d fields", len(fields))
	}

	var nums [4]int
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			err := rberrors.Newf(rberrors.ErrMalformedFuzzySetLine, "%q is not an integer", f)
			return fuzzy.FuzzySet{}, rberrors.WithToken(err, f)
		}
		nums[i] = n
	}

	return fuzzy.Trapezoid(fields[0], nums[0], nums[1], nums[2], nums[3]), nil
}

// parseMeasurement parses a line of the form "name = number".
func parseMeasurement(text string) (fuzzy.Measurement, error) {
	m := measurementPattern.FindStringSubmatch(text)
	if m == nil {
		return fuzzy.Measurement{}, rberrors.New(rberrors.ErrMalformedMeasurementLine, "expected \"VARIABLE = NUMBER\"")
	}

	val, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		err := rberrors.Wrap(err, rberrors.ErrMalformedMeasurementLine, "value out of range")
		return fuzzy.Measurement{}, rberrors.WithToken(err, m[2])
	}

	return fuzzy.Measurement{Variable: m[1], Value: val}, nil
}

// harvestNames returns the name of the variable in every "x is y" phrase of
// the given clause text.
func harvestNames(clause string) util.StringSet {
	names := util.NewStringSet()
	for _, m := range atomPattern.FindAllStringSubmatch(clause, -1) {
		names.Add(m[1])
	}
	return names
}

func isVariableName(text string) bool {
	return identifierPattern.MatchString(strings.TrimSpace(text))
}

// looksLikeLaterSection returns whether text has the shape of a line that
// belongs in a variable or measurement block.
func looksLikeLaterSection(text string) bool {
	if isVariableName(text) || measurementPattern.MatchString(text) {
		return true
	}
	_, err := parseFuzzySet(text)
	return err == nil
}

func isEndOfInput(err error) bool {
	d, ok := rberrors.Detail(err)
	return ok && d.Kind == rberrors.ErrUnexpectedEndOfInput
}

// expected adds what was being looked for to an end of input error from the
// scanner. Other errors are returned as-is.
func expected(err error, what string) error {
	if !isEndOfInput(err) {
		return err
	}
	d, _ := rberrors.Detail(err)
	return rberrors.AtLine(rberrors.New(rberrors.ErrUnexpectedEndOfInput, "expected "+what), d.Line, d.Text)
}
