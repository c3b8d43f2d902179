// Package scan reads rule base input as an ordered stream of lines. It is the
// lowest layer of the rule base reader and knows nothing about sections; it
// only hands out lines either skipping blank ones or verbatim.
package scan

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/frbs/internal/rberrors"
)

// Line is a single line of input.
type Line struct {
	// Num is the 1-based number of the line in the input.
	Num int

	// Text is the content of the line without its line terminator.
	Text string
}

// Blank returns whether the line contains only whitespace.
func (ln Line) Blank() bool {
	return strings.TrimSpace(ln.Text) == ""
}

// Trimmed returns the text of the line with leading and trailing whitespace
// removed.
func (ln Line) Trimmed() string {
	return strings.TrimSpace(ln.Text)
}

// Scanner hands out the lines of an input stream one at a time. It owns the
// stream it is created on; callers must call Close when done with it, which
// will close the stream if it is an io.Closer.
//
// Scanner should not be used directly; create one with New.
type Scanner struct {
	sc     *bufio.Scanner
	src    io.Reader
	line   int
	closed bool
}

// New creates a new Scanner reading from r.
func New(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1024*1024)

	return &Scanner{
		sc:  sc,
		src: r,
	}
}

// NextRaw returns the very next line of input, whatever it contains. If there
// are no more lines, the returned error will match
// rberrors.ErrUnexpectedEndOfInput. If the underlying stream could not be
// read, that error is returned wrapped.
func (s *Scanner) NextRaw() (Line, error) {
	if s.closed {
		return Line{}, fmt.Errorf("scanner is closed")
	}

	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return Line{}, fmt.Errorf("read line %d: %w", s.line+1, err)
		}
		return Line{}, rberrors.AtLine(rberrors.New(rberrors.ErrUnexpectedEndOfInput, ""), s.line+1, "")
	}

	s.line++
	return Line{Num: s.line, Text: strings.TrimSuffix(s.sc.Text(), "\r")}, nil
}

// NextNonEmpty returns the next line of input that contains something other
// than whitespace, skipping over any blank lines before it. If there are no
// more non-blank lines, the returned error will match
// rberrors.ErrUnexpectedEndOfInput.
func (s *Scanner) NextNonEmpty() (Line, error) {
	for {
		ln, err := s.NextRaw()
		if err != nil {
			return ln, err
		}
		if !ln.Blank() {
			return ln, nil
		}
	}
}

// LinesRead returns the number of lines handed out so far.
func (s *Scanner) LinesRead() int {
	return s.line
}

// Close releases the underlying stream. It is safe to call Close more than
// once; only the first call has any effect.
func (s *Scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if closer, ok := s.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
