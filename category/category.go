// Package category classifies functions into the families offered by the
// plotter. A category chooses a line color, a default x range, and an input
// hint; it never changes how a function is evaluated.
package category

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zephyrtronium/mathlab/sample"
)

// Category is a family of functions.
type Category int

const (
	Quadratic Category = iota
	Linear
	Hyperbola
	Trigonometric
)

// Default is the category selected before any choice is made.
const Default = Quadratic

// All lists the categories in display order.
var All = []Category{Quadratic, Linear, Hyperbola, Trigonometric}

type info struct {
	name        string
	title       string
	color       string
	r           sample.Range
	placeholder string
}

var infos = [...]info{
	Quadratic: {
		name:        "quadratic",
		title:       "Quadratic",
		color:       "#bb86fc",
		r:           sample.Range{Min: -10, Max: 10},
		placeholder: "e.g. x^2 - 4, 2*x^2 + 3*x - 1",
	},
	Linear: {
		name:        "linear",
		title:       "Linear",
		color:       "#03dac6",
		r:           sample.Range{Min: -10, Max: 10},
		placeholder: "e.g. 2*x + 3, -0.5*x - 1",
	},
	Hyperbola: {
		name:        "hyperbola",
		title:       "Hyperbola",
		color:       "#ff6b6b",
		r:           sample.Range{Min: -5, Max: 5},
		placeholder: "e.g. 1/x, (x+2)/(x-3)",
	},
	Trigonometric: {
		name:        "trigonometric",
		title:       "Trigonometric",
		color:       "#ffd166",
		r:           sample.Range{Min: -2 * math.Pi, Max: 2 * math.Pi},
		placeholder: "e.g. sin(x), cos(2*x) + 1",
	},
}

// ErrUnknown is the cause of errors from Parse.
var ErrUnknown = errors.New("unknown category")

// Parse returns the category with the given name, ignoring case.
func Parse(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range All {
		if infos[c].name == n {
			return c, nil
		}
	}
	return Default, errors.Wrapf(ErrUnknown, "%q", name)
}

func (c Category) valid() bool {
	return c >= 0 && int(c) < len(infos)
}

func (c Category) info() info {
	if !c.valid() {
		return infos[Default]
	}
	return infos[c]
}

// String returns the lower-case name of c, as accepted by Parse.
func (c Category) String() string {
	if !c.valid() {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return infos[c].name
}

// Title returns the display name of c.
func (c Category) Title() string { return c.info().title }

// Color returns the line color of c as #rrggbb. Invalid categories use the
// color of Default.
func (c Category) Color() string { return c.info().color }

// Range returns the default x range of c.
func (c Category) Range() sample.Range { return c.info().r }

// Placeholder returns example input for c.
func (c Category) Placeholder() string { return c.info().placeholder }

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, errors.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Classify guesses the category of an example equation from its text. The
// checks apply in order: "^2" is quadratic, "/x" is a hyperbola, sin, cos, or
// tan is trigonometric, and any other x without "^" is linear. If none match,
// ok is false and the caller keeps its current category and range.
func Classify(expr string) (c Category, ok bool) {
	switch {
	case strings.Contains(expr, "^2"):
		return Quadratic, true
	case strings.Contains(expr, "/x"):
		return Hyperbola, true
	case strings.Contains(expr, "sin"), strings.Contains(expr, "cos"), strings.Contains(expr, "tan"):
		return Trigonometric, true
	case strings.Contains(expr, "x") && !strings.Contains(expr, "^"):
		return Linear, true
	}
	return Default, false
}
