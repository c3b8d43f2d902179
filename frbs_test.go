package frbs

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/stretchr/testify/assert"
)

const tippingFRB = `Tipping
Rule1: if service is poor or food is rancid then tip is cheap
Rule2: if service is good then tip is average

service
poor 0 3 0 2
good 4 8 2 2

food
rancid 0 2 0 3
great 6 9 2 1

tip
cheap 0 8 0 5
average 10 15 5 5

service = 4
food = 2
`

func Test_ParseString_tipping(t *testing.T) {
	assert := assert.New(t)

	m, err := ParseString(tippingFRB)
	if !assert.NoError(err) {
		return
	}

	service, _ := m.Variable("service")
	poor, _ := service.Set("poor")
	assert.Equal([4]int{0, 0, 3, 5}, poor.Corners)

	rules := m.Rules()
	if assert.Len(rules, 2) {
		expectAnte := fuzzy.OrExpr(fuzzy.AtomExpr("service", "poor"), fuzzy.AtomExpr("food", "rancid"))
		assert.True(expectAnte.Equal(rules[0].Antecedent))
		assert.True(fuzzy.AtomExpr("tip", "cheap").Equal(rules[0].Consequent))
	}

	assert.Equal([]fuzzy.Measurement{{Variable: "service", Value: 4}, {Variable: "food", Value: 2}}, m.Measurements())
}

func Test_ParseString_errorClasses(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect error
	}{
		{
			name:   "variables before rules",
			input:  "Tipping\n\nservice\npoor 0 3 0 2\n\nservice = 4\n",
			expect: ErrStructural,
		},
		{
			name:   "bad set line",
			input:  "Tipping\nR1: if a is x then b is y\n\na\nx 0 one 0 1\n",
			expect: ErrSyntax,
		},
		{
			name:   "undeclared variable",
			input:  "Tipping\nR1: if a is x then b is y\n\na\nx 0 1 0 1\n\na = 1\n",
			expect: ErrSemantic,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			m, err := ParseString(tc.input)

			assert.ErrorIs(err, tc.expect)
			assert.True(m.Equal(fuzzy.Model{}))
		})
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (ct *closeTracker) Close() error {
	ct.closed = true
	return nil
}

func Test_Parse_closesInput(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{name: "success", input: tippingFRB},
		{name: "parse failure", input: "Tip ping\n", expectErr: true},
		{name: "compile failure", input: "T\nR1: if a is x then b is y\n\na\nx 0 1 0 1\n\na = 1\n", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			src := &closeTracker{Reader: strings.NewReader(tc.input)}
			_, err := Parse(src)

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
			assert.True(src.closed)
		})
	}
}

func Test_LoadFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "tipping.frb")
	if err := os.WriteFile(path, []byte(tippingFRB), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m, err := LoadFile(path)
	assert.NoError(err)
	assert.Equal("Tipping", m.Name())

	_, err = LoadFile(filepath.Join(dir, "missing.frb"))
	assert.ErrorIs(err, os.ErrNotExist)
	assert.False(errors.Is(err, ErrStructural))
}

func Test_Format_roundTrip(t *testing.T) {
	assert := assert.New(t)

	m, err := ParseString(tippingFRB)
	if !assert.NoError(err) {
		return
	}

	var buf bytes.Buffer
	if !assert.NoError(Format(&buf, m)) {
		return
	}
	assert.Equal(tippingFRB, buf.String())

	again, err := ParseString(buf.String())
	assert.NoError(err)
	assert.True(m.Equal(again))
}

func Test_Diagnostic(t *testing.T) {
	assert := assert.New(t)

	input := "Tipping\nR1: if service is rotten then tip is cheap\n\nservice\npoor 0 3 0 2\n\ntip\ncheap 0 8 0 5\n\nservice = 4\n"
	_, err := ParseString(input)

	expect := "line 2: rule \"R1\": unknown variable or term: \"rotten\" is not a set of \"service\"\n" +
		"  2 | R1: if service is rotten then tip is cheap\n" +
		"                        ^^^^^^"

	assert.Equal(expect, Diagnostic(err))
}
