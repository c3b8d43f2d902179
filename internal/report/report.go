// Package report renders the parts of a fuzzy.Model as text tables for
// display on a console.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/rosed"
)

var tableOpts = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

// Variables returns a table of the variables of m with their roles, bounds,
// and fuzzy sets.
func Variables(m fuzzy.Model, width int) string {
	data := [][]string{{"Variable", "Role", "Bounds", "Sets"}}

	for _, v := range m.Variables() {
		lo, hi := v.Bounds()

		var sets []string
		for _, fs := range v.Sets() {
			sets = append(sets, fs.String())
		}

		data = append(data, []string{
			v.Name(),
			v.Role().String(),
			fmt.Sprintf("[%d, %d]", lo, hi),
			strings.Join(sets, " "),
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, tableOpts).
		String()
}

// Rules returns a table of the rules of m with their compiled antecedents and
// consequents.
func Rules(m fuzzy.Model, width int) string {
	data := [][]string{{"Rule", "Antecedent", "Consequent"}}

	for _, r := range m.Rules() {
		data = append(data, []string{r.Label, r.Antecedent.String(), r.Consequent.String()})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, tableOpts).
		String()
}

// Measurements returns a table of the measurements of m.
func Measurements(m fuzzy.Model, width int) string {
	data := [][]string{{"Variable", "Value"}}

	for _, meas := range m.Measurements() {
		data = append(data, []string{meas.Variable, strconv.FormatFloat(meas.Value, 'g', -1, 64)})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, tableOpts).
		String()
}

// Model returns the name of m followed by all of its tables.
func Model(m fuzzy.Model, width int) string {
	var sb strings.Builder

	sb.WriteString("Rule base: " + m.Name() + "\n\n")
	sb.WriteString(Variables(m, width))
	sb.WriteString("\n\n")
	sb.WriteString(Rules(m, width))
	sb.WriteString("\n\n")
	sb.WriteString(Measurements(m, width))
	sb.WriteRune('\n')

	return sb.String()
}

// Trees returns every rule of m with its antecedent and consequent drawn as
// trees.
func Trees(m fuzzy.Model) string {
	var sb strings.Builder

	for i, r := range m.Rules() {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(r.Label + "\n")
		sb.WriteString("  if:\n")
		sb.WriteString(indent(r.Antecedent.Tree(), "    "))
		sb.WriteString("  then:\n")
		sb.WriteString(indent(r.Consequent.Tree(), "    "))
	}

	return sb.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n") + "\n"
}
