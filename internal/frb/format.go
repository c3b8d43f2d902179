package frb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/dekarrin/frbs/fuzzy"
)

// Format writes m to w in the FRB text format. Parsing the output and
// compiling it gives back a model equal to m, provided m has at least one
// rule, at least one measurement, and at least one set on every variable;
// models built any other way cannot be expressed in the format.
func Format(w io.Writer, m fuzzy.Model) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, m.Name())
	for _, r := range m.Rules() {
		fmt.Fprintln(bw, r.String())
	}

	for _, v := range m.Variables() {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, v.Name())
		for _, fs := range v.Sets() {
			a, b, alpha, beta := fs.Spec()
			fmt.Fprintf(bw, "%s %d %d %d %d\n", fs.Name, a, b, alpha, beta)
		}
	}

	if ms := m.Measurements(); len(ms) > 0 {
		fmt.Fprintln(bw)
		for _, meas := range ms {
			fmt.Fprintf(bw, "%s = %s\n", meas.Variable, strconv.FormatFloat(meas.Value, 'g', -1, 64))
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write rule base: %w", err)
	}
	return nil
}
