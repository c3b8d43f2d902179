package scan

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dekarrin/frbs/internal/rberrors"
	"github.com/stretchr/testify/assert"
)

func Test_Scanner_NextNonEmpty(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []Line
	}{
		{
			name:   "empty input",
			input:  "",
			expect: nil,
		},
		{
			name:   "only blanks",
			input:  "\n   \n\t\n",
			expect: nil,
		},
		{
			name:  "skips blank lines and keeps numbering",
			input: "Tipping\n\n\nservice\n  \nfood = 2",
			expect: []Line{
				{Num: 1, Text: "Tipping"},
				{Num: 4, Text: "service"},
				{Num: 6, Text: "food = 2"},
			},
		},
		{
			name:  "strips carriage returns",
			input: "Tipping\r\n\r\nservice\r\n",
			expect: []Line{
				{Num: 1, Text: "Tipping"},
				{Num: 3, Text: "service"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := New(strings.NewReader(tc.input))
			defer s.Close()

			var actual []Line
			for {
				ln, err := s.NextNonEmpty()
				if err != nil {
					assert.ErrorIs(err, rberrors.ErrUnexpectedEndOfInput)
					assert.ErrorIs(err, rberrors.ErrStructural)
					break
				}
				actual = append(actual, ln)
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Scanner_NextRaw(t *testing.T) {
	assert := assert.New(t)

	s := New(strings.NewReader("a\n\n  \nb"))
	defer s.Close()

	expect := []string{"a", "", "  ", "b"}
	for i, text := range expect {
		ln, err := s.NextRaw()
		if !assert.NoError(err) {
			return
		}
		assert.Equal(i+1, ln.Num)
		assert.Equal(text, ln.Text)
	}

	_, err := s.NextRaw()
	assert.ErrorIs(err, rberrors.ErrUnexpectedEndOfInput)

	d, ok := rberrors.Detail(err)
	assert.True(ok)
	assert.Equal(5, d.Line)
	assert.Equal(4, s.LinesRead())
}

func Test_Line_Blank(t *testing.T) {
	assert := assert.New(t)

	assert.True(Line{Text: ""}.Blank())
	assert.True(Line{Text: " \t "}.Blank())
	assert.False(Line{Text: " x "}.Blank())
	assert.Equal("x", Line{Text: " x "}.Trimmed())
}

type trackingCloser struct {
	io.Reader
	closes int
}

func (tc *trackingCloser) Close() error {
	tc.closes++
	return nil
}

func Test_Scanner_Close(t *testing.T) {
	assert := assert.New(t)

	src := &trackingCloser{Reader: strings.NewReader("a\nb\n")}
	s := New(src)

	_, err := s.NextRaw()
	assert.NoError(err)

	assert.NoError(s.Close())
	assert.NoError(s.Close())
	assert.Equal(1, src.closes)

	_, err = s.NextRaw()
	assert.Error(err)
	assert.False(errors.Is(err, rberrors.ErrUnexpectedEndOfInput))
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("device unplugged")
}

func Test_Scanner_readError(t *testing.T) {
	assert := assert.New(t)

	s := New(failingReader{})
	_, err := s.NextNonEmpty()

	assert.Error(err)
	assert.False(errors.Is(err, rberrors.ErrUnexpectedEndOfInput))
	assert.Contains(err.Error(), "device unplugged")
}
