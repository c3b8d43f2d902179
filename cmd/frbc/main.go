/*
Frbc compiles an FRB fuzzy rule base file and shows the result.

It reads in the rule base, compiles every rule into an expression tree, and
prints the variables, rules, and measurements of the compiled model. If the
file has a problem, the offending line is printed along with what is wrong
with it and frbc exits with a non-zero status.

Usage:

	frbc [flags] FILE

The flags are:

	-v, --version
		Give the current version of FRBS and then exit.

	-o, --output FORMAT
		Print the compiled model in the given format. FORMAT is one of "text"
		(tables, the default), "tree" (each rule drawn as expression trees),
		"frb" (the FRB format, normalized), "toml", or "yaml".

	-w, --width N
		Wrap table output to N columns. Defaults to 80.

	-e, --explore
		After printing the model, start the clause explorer on it. Type "HELP"
		in the explorer for its commands and "QUIT" to leave.

	-d, --direct
		Force the explorer to read directly from the console as opposed to
		using GNU readline based routines, even if launched in a tty with stdin
		and stdout.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/frbs"
	"github.com/dekarrin/frbs/internal/explore"
	"github.com/dekarrin/frbs/internal/frb"
	"github.com/dekarrin/frbs/internal/report"
	"github.com/dekarrin/frbs/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates that the program was invoked incorrectly.
	ExitUsageError

	// ExitLoadError indicates that the rule base could not be read or
	// compiled.
	ExitLoadError

	// ExitExploreError indicates an unsuccessful program execution due to a
	// problem while running the clause explorer.
	ExitExploreError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagOutput  *string = pflag.StringP("output", "o", "text", "Output format: one of text, tree, frb, toml, or yaml")
	flagWidth   *int    = pflag.IntP("width", "w", 80, "Column width to wrap table output to")
	flagExplore *bool   = pflag.BoolP("explore", "e", false, "Start the clause explorer after printing the model")
	flagDirect  *bool   = pflag.BoolP("direct", "d", false, "Force reading explorer input directly from stdin instead of going through GNU readline where possible")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: need exactly one rule base file\n")
		fmt.Fprintf(os.Stderr, "usage: frbc [flags] FILE\n")
		pflag.PrintDefaults()
		returnCode = ExitUsageError
		return
	}
	if *flagWidth < 20 {
		fmt.Fprintf(os.Stderr, "ERROR: width must be at least 20\n")
		returnCode = ExitUsageError
		return
	}

	format := strings.ToLower(*flagOutput)
	switch format {
	case "text", "tree", "frb", "toml", "yaml":
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unknown output format %q\n", *flagOutput)
		returnCode = ExitUsageError
		return
	}

	model, err := frbs.LoadFile(pflag.Arg(0))
	if err != nil {
		msg := frbs.Diagnostic(err)
		if !strings.Contains(msg, "\n") {
			msg = rosed.Edit(msg).Wrap(*flagWidth).String()
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
		returnCode = ExitLoadError
		return
	}

	switch format {
	case "text":
		fmt.Print(report.Model(model, *flagWidth))
	case "tree":
		fmt.Print(report.Trees(model))
	case "frb":
		err = frbs.Format(os.Stdout, model)
	case "toml":
		err = frb.EncodeTOML(os.Stdout, model)
	case "yaml":
		err = frb.EncodeYAML(os.Stdout, model)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitLoadError
		return
	}

	if !*flagExplore {
		return
	}

	ex, err := explore.New(os.Stdin, os.Stdout, model, *flagDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitExploreError
		return
	}
	defer ex.Close()

	if err := ex.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitExploreError
		return
	}
}
