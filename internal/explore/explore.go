// Package explore has an interactive shell for trying out rule clauses against
// the variables of a compiled rule base. Each line typed in is compiled the
// same way the antecedent or consequent of a rule would be, and the resulting
// expression tree is shown.
package explore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/internal/compile"
	"github.com/dekarrin/frbs/internal/input"
	"github.com/dekarrin/frbs/internal/rberrors"
	"github.com/dekarrin/frbs/internal/report"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

var helpText = [][]string{
	{"Command", "Description"},
	{"VARS", "list the variables of the rule base and their fuzzy sets"},
	{"RULES", "list the compiled rules"},
	{"RULE label", "show the expression trees of one rule"},
	{"HELP", "show this help"},
	{"QUIT", "leave the explorer"},
	{"anything else", "compile it as a clause, such as \"service is poor or food is rancid\""},
}

// Explorer holds what is needed to run the clause explorer from an
// interactive shell attached to an input stream and an output stream.
type Explorer struct {
	model       fuzzy.Model
	table       fuzzy.VariableTable
	in          input.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// New creates a new Explorer over m that reads from inputStream and writes to
// outputStream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. If both are the standard streams and
// forceDirectInput is false, input is read through readline.
func New(inputStream io.Reader, outputStream io.Writer, m fuzzy.Model, forceDirectInput bool) (*Explorer, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	ex := &Explorer{
		model:       m,
		table:       m.Table(),
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		icr, err := input.NewInteractiveReader(m.Name() + "> ")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		ex.in = icr
	} else {
		ex.in = input.NewDirectReader(inputStream)
	}

	return ex, nil
}

// Close releases the input reader of the Explorer. It cannot be called while
// the Explorer is running.
func (ex *Explorer) Close() error {
	if ex.running {
		return fmt.Errorf("cannot close a running explorer")
	}

	if err := ex.in.Close(); err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}
	return nil
}

// RunUntilQuit reads lines and responds to them until QUIT is entered or the
// input ends.
func (ex *Explorer) RunUntilQuit() error {
	intro := "FRBS clause explorer for " + ex.model.Name() + "\n"
	if ex.forceDirect {
		intro += "(direct input mode)\n"
	}
	intro += "Type HELP for commands.\n"

	if err := ex.write(intro); err != nil {
		return err
	}

	ex.running = true
	defer func() {
		ex.running = false
	}()

	for ex.running {
		line, err := ex.in.ReadCommand()
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("get user input: %w", err)
		}

		if strings.EqualFold(line, "QUIT") {
			break
		}

		if err := ex.write(ex.respond(line) + "\n"); err != nil {
			return err
		}
	}

	return ex.write("Goodbye\n")
}

// respond returns the output for one line of input.
func (ex *Explorer) respond(line string) string {
	fields := strings.Fields(line)
	verb := strings.ToUpper(fields[0])

	switch {
	case verb == "HELP" && len(fields) == 1:
		return rosed.Edit("").
			InsertTableOpts(0, helpText, consoleOutputWidth, rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}).
			String()
	case verb == "VARS" && len(fields) == 1:
		return report.Variables(ex.model, consoleOutputWidth)
	case verb == "RULES" && len(fields) == 1:
		return report.Rules(ex.model, consoleOutputWidth)
	case verb == "RULE" && len(fields) >= 2:
		label := strings.TrimSpace(line[len(fields[0]):])
		r, ok := ex.model.Rule(label)
		if !ok {
			return fmt.Sprintf("There is no rule labeled %q", label)
		}
		return r.String() + "\n\nif:\n" + r.Antecedent.Tree() + "\n\nthen:\n" + r.Consequent.Tree()
	}

	expr, err := compile.Clause(line, ex.table, fuzzy.RoleNone)
	if err != nil {
		return clauseDiagnostic(line, err)
	}
	return expr.String() + "\n\n" + expr.Tree()
}

// clauseDiagnostic gives a message for a clause that failed to compile, with
// the offending token marked beneath the clause.
func clauseDiagnostic(line string, err error) string {
	msg := rosed.Edit(err.Error()).Wrap(consoleOutputWidth).String()

	d, ok := rberrors.Detail(err)
	if !ok || d.Token == "" {
		return msg
	}
	idx := strings.Index(line, d.Token)
	if idx < 0 {
		return msg
	}

	return msg + "\n  " + line + "\n  " + strings.Repeat(" ", idx) + strings.Repeat("^", len(d.Token))
}

func (ex *Explorer) write(s string) error {
	if _, err := ex.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := ex.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
