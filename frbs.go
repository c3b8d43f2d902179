// Package frbs reads fuzzy rule bases written in the FRB text format and
// compiles them into a fuzzy.Model that can be handed to an inference engine.
//
// Reading happens in two phases. The whole input is first parsed into raw
// sections, with rule clauses kept as text. The raw rules are then compiled
// against the declared variables. Any error in either phase stops the whole
// operation, and no Model is returned alongside an error. Errors come from
// package rberrors and can be checked by kind or by class with errors.Is.
package frbs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/dekarrin/frbs/internal/compile"
	"github.com/dekarrin/frbs/internal/frb"
	"github.com/dekarrin/frbs/internal/rberrors"
	"github.com/dekarrin/frbs/internal/scan"
)

// Error classes, re-exported so callers outside of this module can tell a
// bad file from a failed read.
var (
	ErrStructural = rberrors.ErrStructural
	ErrSyntax     = rberrors.ErrSyntax
	ErrSemantic   = rberrors.ErrSemantic
)

// LoadFile reads and compiles the FRB file at path. The file is closed before
// LoadFile returns, whether or not it succeeds.
func LoadFile(path string) (fuzzy.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return fuzzy.Model{}, fmt.Errorf("open rule base: %w", err)
	}

	sc := scan.New(f)
	defer sc.Close()

	return load(sc)
}

// Parse reads and compiles an FRB rule base from r. If r is an io.Closer, it
// is closed before Parse returns.
func Parse(r io.Reader) (fuzzy.Model, error) {
	sc := scan.New(r)
	defer sc.Close()

	return load(sc)
}

// ParseString compiles the FRB rule base in s.
func ParseString(s string) (fuzzy.Model, error) {
	return Parse(strings.NewReader(s))
}

// Diagnostic returns a message describing err suitable for showing to a
// person. For errors in a rule base, the message includes the offending line
// with the offending part of it marked.
func Diagnostic(err error) string {
	return rberrors.Diagnostic(err)
}

func load(sc *scan.Scanner) (fuzzy.Model, error) {
	raw, err := frb.Parse(sc)
	if err != nil {
		return fuzzy.Model{}, err
	}

	return compile.Assemble(raw)
}

// Format writes m to w in the FRB text format.
func Format(w io.Writer, m fuzzy.Model) error {
	return frb.Format(w, m)
}
