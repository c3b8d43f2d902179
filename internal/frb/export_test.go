package frb

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/stretchr/testify/assert"
)

func Test_EncodeYAML(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := EncodeYAML(&buf, tippingModel(t))
	if !assert.NoError(err) {
		return
	}

	out := buf.String()
	assert.True(strings.HasPrefix(out, "name: Tipping\n"))
	assert.Contains(out, "corners: [0, 0, 3, 5]")
	assert.Contains(out, "role: antecedent")
	assert.Contains(out, "op: OR")
	assert.Contains(out, "Rule1: if service is poor or food is rancid then tip is cheap")
}

func Test_EncodeTOML(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := EncodeTOML(&buf, tippingModel(t))
	if !assert.NoError(err) {
		return
	}

	out := buf.String()
	assert.Contains(out, `name = "Tipping"`)
	assert.Contains(out, "[[variable]]")
	assert.Contains(out, "[[rule]]")
	assert.Contains(out, "[[measurement]]")
	assert.Contains(out, `op = "OR"`)
}

func Test_Export_roundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		encode func(*bytes.Buffer, fuzzy.Model) error
		decode func(*bytes.Buffer) (fuzzy.Model, error)
	}{
		{
			name:   "toml",
			encode: func(b *bytes.Buffer, m fuzzy.Model) error { return EncodeTOML(b, m) },
			decode: func(b *bytes.Buffer) (fuzzy.Model, error) { return DecodeTOML(b) },
		},
		{
			name:   "yaml",
			encode: func(b *bytes.Buffer, m fuzzy.Model) error { return EncodeYAML(b, m) },
			decode: func(b *bytes.Buffer) (fuzzy.Model, error) { return DecodeYAML(b) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			m := tippingModel(t)

			var buf bytes.Buffer
			if !assert.NoError(tc.encode(&buf, m)) {
				return
			}

			actual, err := tc.decode(&buf)
			if !assert.NoError(err) {
				return
			}

			assert.True(m.Equal(actual), "decoded model differs:\n%s", buf.String())
		})
	}
}

func Test_DecodeYAML_badExpression(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name: "unknown connective",
			input: `name: X
rules:
  - label: R1
    antecedent: {op: XOR, left: {variable: a, set: x}, right: {variable: a, set: y}}
    consequent: {variable: b, set: z}
`,
		},
		{
			name: "missing operand",
			input: `name: X
rules:
  - label: R1
    antecedent: {op: AND, left: {variable: a, set: x}}
    consequent: {variable: b, set: z}
`,
		},
		{
			name: "atom without set",
			input: `name: X
rules:
  - label: R1
    antecedent: {variable: a}
    consequent: {variable: b, set: z}
`,
		},
		{
			name: "wrong corner count",
			input: `name: X
variables:
  - name: a
    role: antecedent
    sets:
      - name: x
        corners: [1, 2, 3]
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := DecodeYAML(strings.NewReader(tc.input))
			assert.Error(err)
		})
	}
}
