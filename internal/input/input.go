// Package input reads lines typed into the clause explorer, either through
// readline when attached to a terminal or directly from any other stream.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader is a source of explorer input lines.
type Reader interface {
	// ReadCommand reads a single line of input with surrounding whitespace
	// removed. It blocks until one is ready. Unless blanks are allowed, blank
	// lines are skipped. At end of input the returned string is empty and the
	// error is io.EOF.
	ReadCommand() (string, error)

	// AllowBlank sets whether ReadCommand may return a blank line.
	AllowBlank(allow bool)

	// Close releases any resources held by the Reader. It must be called once
	// the Reader is no longer needed.
	Close() error
}

// DirectCommandReader implements Reader and reads lines from any generic input
// stream directly. It does not sanitize the input of control and escape
// sequences.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveCommandReader implements Reader and reads lines from stdin using
// a go implementation of the GNU Readline library. This keeps input clear of
// typing and editing escape sequences and gives the user a history of the
// clauses they have tried. It should only be used when stdin is a TTY.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl            *readline.Instance
	blanksAllowed bool
}

// NewDirectReader creates a new DirectCommandReader that reads from r through
// a buffer.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveCommandReader with the given
// prompt and initializes readline. The returned InteractiveCommandReader must
// have Close() called on it before disposal to tear down readline resources.
func NewInteractiveReader(prompt string) (*InteractiveCommandReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "QUIT",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{
		rl: rl,
	}, nil
}

// Close is a no-op; it exists so DirectCommandReader implements Reader.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// Close cleans up readline resources.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next line from the stream. See Reader.ReadCommand.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	return readNonBlank(func() (string, error) { return dcr.r.ReadString('\n') }, dcr.blanksAllowed)
}

// ReadCommand reads the next line from stdin. See Reader.ReadCommand.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	return readNonBlank(icr.rl.Readline, icr.blanksAllowed)
}

func readNonBlank(next func() (string, error), blanksAllowed bool) (string, error) {
	for {
		line, err := next()
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			if err == io.EOF || err == readline.ErrInterrupt {
				return "", io.EOF
			}
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" || blanksAllowed {
			return line, nil
		}
	}
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (dcr *DirectCommandReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (icr *InteractiveCommandReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}
