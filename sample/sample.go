// Package sample evaluates an expression across a range of x at uniform
// spacing, producing the points of a curve.
package sample

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/mathlab"
)

// DefaultSteps is the number of intervals used when no positive step count is
// given.
const DefaultSteps = 200

// ErrInvalidRange is the cause of every error returned by Range.Validate.
var ErrInvalidRange = errors.New("invalid range")

// Point is one sample of a function. Y is NaN where the function has no
// plottable value.
type Point struct {
	X, Y float64
}

// Gap returns whether the point is excluded from the plotted line.
func (p Point) Gap() bool {
	return math.IsNaN(p.Y)
}

// Range is an interval of x values. A valid range has finite bounds with
// Min < Max.
type Range struct {
	Min, Max float64
}

// Validate returns an error with cause ErrInvalidRange if r is not a valid
// range.
func (r Range) Validate() error {
	if !finite(r.Min) || !finite(r.Max) {
		return errors.Wrapf(ErrInvalidRange, "bounds must be finite numbers, got [%g, %g]", r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return errors.Wrapf(ErrInvalidRange, "min %g must be less than max %g", r.Min, r.Max)
	}
	return nil
}

// Step returns the spacing between samples when r is divided into steps
// intervals.
func (r Range) Step(steps int) float64 {
	return (r.Max - r.Min) / float64(steps)
}

// Sampler samples expressions. The zero value uses DefaultSteps, the default
// evaluation precision, and the standard logger.
type Sampler struct {
	// Steps is the number of intervals. Values <= 0 select DefaultSteps.
	Steps int
	// Prec is the precision of evaluation in bits. Zero selects
	// mathlab.DefaultPrec.
	Prec uint
	// Log receives diagnostics. Nil selects the logrus standard logger.
	Log logrus.FieldLogger
}

// Sample parses src and samples it over r with the default sampler.
func Sample(src string, r Range, steps int) []Point {
	s := Sampler{Steps: steps}
	return s.Sample(src, r)
}

// Sample parses src and samples it over r. If src does not parse, every point
// is a gap.
func (s *Sampler) Sample(src string, r Range) []Point {
	e, err := mathlab.ParseString(src)
	if err != nil {
		s.logger().WithFields(logrus.Fields{
			"expr":  src,
			"error": err,
		}).Debug("expression does not parse; sampling gaps")
	}
	return s.SampleExpr(e, r)
}

// SampleExpr samples e over r. Points start at r.Min and advance by a fixed
// step while x <= r.Max, with at most Steps+1 points. x accumulates the step,
// so rounding can drop the point at r.Max or place the last point slightly
// off it. Points where evaluation fails or gives an infinite result are gaps.
// A nil e samples only gaps. If r is not valid, the result is nil.
func (s *Sampler) SampleExpr(e *mathlab.Expr, r Range) []Point {
	log := s.logger()
	if err := r.Validate(); err != nil {
		log.WithError(err).Debug("not sampling")
		return nil
	}
	steps := s.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}
	step := r.Step(steps)
	ctx := mathlab.NewContext(mathlab.Prec(s.Prec))
	pts := make([]Point, 0, steps+1)
	gaps := 0
	for x := r.Min; x <= r.Max && len(pts) <= steps; x += step {
		y := math.NaN()
		if e != nil {
			v, err := e.At(ctx, x)
			if err == nil && finite(v) {
				y = v
			}
		}
		if math.IsNaN(y) {
			gaps++
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	log.WithFields(logrus.Fields{
		"min":    r.Min,
		"max":    r.Max,
		"points": len(pts),
		"gaps":   gaps,
	}).Debug("sampled")
	return pts
}

func (s *Sampler) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
