package category

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/mathlab/sample"
)

func TestAttributes(t *testing.T) {
	cases := []struct {
		c     Category
		name  string
		color string
		r     sample.Range
	}{
		{Quadratic, "quadratic", "#bb86fc", sample.Range{Min: -10, Max: 10}},
		{Linear, "linear", "#03dac6", sample.Range{Min: -10, Max: 10}},
		{Hyperbola, "hyperbola", "#ff6b6b", sample.Range{Min: -5, Max: 5}},
		{Trigonometric, "trigonometric", "#ffd166", sample.Range{Min: -2 * math.Pi, Max: 2 * math.Pi}},
	}
	require.Len(t, All, len(cases))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.name, c.c.String())
			assert.Equal(t, c.color, c.c.Color())
			assert.Equal(t, c.r, c.c.Range())
			assert.NoError(t, c.c.Range().Validate())
			assert.NotEmpty(t, c.c.Placeholder())
			assert.NotEmpty(t, c.c.Title())
		})
	}
	assert.Equal(t, Quadratic, Default)
}

func TestInvalidCategory(t *testing.T) {
	c := Category(17)
	assert.Equal(t, "Category(17)", c.String())
	assert.Equal(t, Default.Color(), c.Color())
	assert.Equal(t, Default.Range(), c.Range())
	_, err := c.MarshalText()
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	for _, c := range All {
		got, err := Parse(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := Parse("  Trigonometric ")
	require.NoError(t, err)
	assert.Equal(t, Trigonometric, got)

	got, err = Parse("cubic")
	assert.Equal(t, ErrUnknown, errors.Cause(err))
	assert.Equal(t, Default, got)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		expr string
		c    Category
		ok   bool
	}{
		{"x^2 - 4", Quadratic, true},
		{"2*x^2 + 3*x - 1", Quadratic, true},
		{"sin(x)^2", Quadratic, true},
		{"1/x", Hyperbola, true},
		{"(x+2)/(x-3)", Linear, true},
		{"3/x + 1", Hyperbola, true},
		{"sin(x)", Trigonometric, true},
		{"cos(2*x) + 1", Trigonometric, true},
		{"tan(x)", Trigonometric, true},
		{"2*x + 3", Linear, true},
		{"-0.5*x - 1", Linear, true},
		{"sqrt(x)", Linear, true},
		{"x^3", Default, false},
		{"e^x", Default, false},
		{"42", Default, false},
		{"", Default, false},
	}
	for _, c := range cases {
		got, ok := Classify(c.expr)
		assert.Equal(t, c.ok, ok, "%q", c.expr)
		if c.ok {
			assert.Equal(t, c.c, got, "%q classified as %v", c.expr, got)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	var v struct {
		Category Category `yaml:"category"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("category: hyperbola\n"), &v))
	assert.Equal(t, Hyperbola, v.Category)

	b, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "category: hyperbola\n", string(b))

	assert.Error(t, yaml.Unmarshal([]byte("category: cubic\n"), &v))
}
