package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Trapezoid(t *testing.T) {
	testCases := []struct {
		name              string
		a, b, alpha, beta int
		expect            [4]int
	}{
		{name: "no slopes", a: 0, b: 3, alpha: 0, beta: 2, expect: [4]int{0, 0, 3, 5}},
		{name: "both slopes", a: 4, b: 8, alpha: 2, beta: 2, expect: [4]int{2, 4, 8, 10}},
		{name: "triangle", a: 5, b: 5, alpha: 5, beta: 5, expect: [4]int{0, 5, 5, 10}},
		{name: "negative universe", a: -10, b: -2, alpha: 3, beta: 1, expect: [4]int{-13, -10, -2, -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Trapezoid("x", tc.a, tc.b, tc.alpha, tc.beta)

			assert.Equal(tc.expect, actual.Corners)
			assert.True(actual.Ordered())

			a, b, alpha, beta := actual.Spec()
			assert.Equal([4]int{tc.a, tc.b, tc.alpha, tc.beta}, [4]int{a, b, alpha, beta})
		})
	}
}

func Test_Trapezoid_alwaysOrdered(t *testing.T) {
	assert := assert.New(t)

	for a := -3; a <= 3; a++ {
		for b := a; b <= 4; b++ {
			for alpha := 0; alpha <= 3; alpha++ {
				for beta := 0; beta <= 3; beta++ {
					fs := Trapezoid("x", a, b, alpha, beta)
					assert.True(fs.Ordered(), "not ordered: a=%d b=%d alpha=%d beta=%d -> %v", a, b, alpha, beta, fs.Corners)
				}
			}
		}
	}
}

func Test_FuzzySet_Ordered_detectsBadShape(t *testing.T) {
	assert := assert.New(t)

	// b < a is accepted by the transform but gives an unordered trapezoid
	fs := Trapezoid("x", 8, 4, 0, 0)
	assert.False(fs.Ordered())
}

func Test_NewVariable(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		assert := assert.New(t)

		v, err := NewVariable("service",
			Trapezoid("poor", 0, 3, 0, 2),
			Trapezoid("good", 4, 8, 2, 2),
			Trapezoid("excellent", 8, 10, 1, 0),
		)

		if !assert.NoError(err) {
			return
		}
		assert.Equal("service", v.Name())
		assert.Equal([]string{"poor", "good", "excellent"}, v.SetNames())
		assert.Equal(RoleNone, v.Role())
		assert.True(v.HasSet("good"))
		assert.False(v.HasSet("bad"))

		good, ok := v.Set("good")
		assert.True(ok)
		assert.Equal([4]int{2, 4, 8, 10}, good.Corners)
	})

	t.Run("duplicate set name", func(t *testing.T) {
		assert := assert.New(t)

		_, err := NewVariable("service",
			Trapezoid("poor", 0, 3, 0, 2),
			Trapezoid("poor", 4, 8, 2, 2),
		)

		assert.Error(err)
	})

	t.Run("sets are copied", func(t *testing.T) {
		assert := assert.New(t)

		v, _ := NewVariable("tip", Trapezoid("cheap", 0, 8, 0, 5))
		sets := v.Sets()
		sets[0].Name = "changed"

		assert.Equal([]string{"cheap"}, v.SetNames())
	})
}

func Test_Variable_Bounds(t *testing.T) {
	testCases := []struct {
		name      string
		sets      []FuzzySet
		expectMin int
		expectMax int
	}{
		{
			name: "no sets",
		},
		{
			name:      "one set",
			sets:      []FuzzySet{Trapezoid("poor", 0, 3, 0, 2)},
			expectMin: 0,
			expectMax: 5,
		},
		{
			name: "spread over sets",
			sets: []FuzzySet{
				Trapezoid("cheap", 0, 8, 0, 5),
				Trapezoid("average", 10, 15, 5, 5),
				Trapezoid("generous", 20, 25, 3, 7),
			},
			expectMin: 0,
			expectMax: 32,
		},
		{
			name: "negative",
			sets: []FuzzySet{
				Trapezoid("cold", -20, -5, 5, 5),
				Trapezoid("warm", 5, 20, 5, 5),
			},
			expectMin: -25,
			expectMax: 25,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v, err := NewVariable("v", tc.sets...)
			if !assert.NoError(err) {
				return
			}

			actualMin, actualMax := v.Bounds()

			assert.Equal(tc.expectMin, actualMin)
			assert.Equal(tc.expectMax, actualMax)
		})
	}
}

func Test_Variable_Universe(t *testing.T) {
	assert := assert.New(t)

	v, _ := NewVariable("service", Trapezoid("poor", 0, 3, 0, 2))

	assert.Equal([]float64{0, 1, 2, 3, 4}, v.Universe(1))
	assert.Equal([]float64{0, 2.5}, v.Universe(2.5))
	assert.Panics(func() { v.Universe(0) })
}

func Test_Role(t *testing.T) {
	assert := assert.New(t)

	assert.True(RoleBoth.Has(RoleAntecedent))
	assert.True(RoleBoth.Has(RoleConsequent))
	assert.False(RoleAntecedent.Has(RoleConsequent))
	assert.False(RoleNone.Has(RoleAntecedent))
	assert.Equal("antecedent+consequent", RoleBoth.String())
}
