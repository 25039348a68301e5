// Package plot turns plot requests into series for a chart display. A Session
// validates the request, samples the function, and creates or updates its one
// display.
package plot

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/mathlab"
	"github.com/zephyrtronium/mathlab/category"
	"github.com/zephyrtronium/mathlab/sample"
)

var (
	// ErrEmptyExpression is the cause of errors for requests with no
	// expression.
	ErrEmptyExpression = errors.New("enter an equation")
	// ErrInvalidRange is the cause of errors for requests whose bounds are
	// not numbers or are not increasing.
	ErrInvalidRange = errors.New("enter a valid range of x values")
)

// Request is a request to plot a function. MinX and MaxX are the text of the
// range fields; they may be constant expressions such as "-2π".
type Request struct {
	Expr     string
	MinX     string
	MaxX     string
	Category category.Category
}

// NewRequest creates a request for an expression over a numeric range.
func NewRequest(expr string, c category.Category, r sample.Range) Request {
	return Request{
		Expr:     expr,
		MinX:     formatBound(r.Min),
		MaxX:     formatBound(r.Max),
		Category: c,
	}
}

// formatBound writes a bound without an exponent so that the expression
// language reads it back as the same number.
func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// exponent matches a number in exponent form inside a larger expression. The
// expression language reads "2e3" as 2 times e3, so such text is ambiguous.
var exponent = regexp.MustCompile(`[0-9.][eE][+-]?[0-9]`)

// ParseRange parses the text of range bounds. Each bound is a constant
// expression. The error, if any, has cause ErrInvalidRange.
func ParseRange(min, max string) (sample.Range, error) {
	lo, err := parseBound(min)
	if err != nil {
		return sample.Range{}, errors.Wrap(err, "min x")
	}
	hi, err := parseBound(max)
	if err != nil {
		return sample.Range{}, errors.Wrap(err, "max x")
	}
	r := sample.Range{Min: lo, Max: hi}
	if err := r.Validate(); err != nil {
		return sample.Range{}, errors.Wrap(ErrInvalidRange, err.Error())
	}
	return r, nil
}

func parseBound(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ErrInvalidRange, "empty bound")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	if exponent.MatchString(s) {
		return 0, errors.Wrapf(ErrInvalidRange, "%q: exponent form in an expression", s)
	}
	v, err := mathlab.EvalString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidRange, "%q: %v", s, err)
	}
	f, _ := v.Float64()
	return f, nil
}

// Series is one plotted function.
type Series struct {
	// Expr is the trimmed expression text.
	Expr string
	// Label is the legend text, "y = <expr>".
	Label string
	// Category is the category that chose the color.
	Category category.Category
	// Color is the line color as #rrggbb.
	Color string
	// Range is the sampled range.
	Range sample.Range
	// Labels holds the x value of each point with two decimals.
	Labels []string
	// Points holds the samples.
	Points []sample.Point
}

// NewSeries creates a series from sampled points.
func NewSeries(expr string, c category.Category, r sample.Range, pts []sample.Point) *Series {
	s := Series{
		Expr:     expr,
		Label:    "y = " + expr,
		Category: c,
		Color:    c.Color(),
		Range:    r,
		Labels:   make([]string, len(pts)),
		Points:   pts,
	}
	for i, p := range pts {
		s.Labels[i] = Label(p.X)
	}
	return &s
}

// Label formats an x value with exactly two decimals. Rounding works on the
// exact binary value with ties away from zero, and a negative value keeps its
// sign even when it rounds to zero, so Label(1.005) is "1.00" and
// Label(-0.004) is "-0.00".
func Label(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 2, 64)
	}
	// 1100 places hold every float64 exactly.
	exact := new(big.Float).SetFloat64(x).Text('f', 1100)
	s := decimal.RequireFromString(exact).StringFixed(2)
	if x < 0 && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// Fill returns the translucent area color as #rrggbbaa.
func (s *Series) Fill() string {
	return s.Color + "20"
}

// Values returns the y value of each point, with NaN for gaps.
func (s *Series) Values() []float64 {
	v := make([]float64, len(s.Points))
	for i, p := range s.Points {
		v[i] = p.Y
	}
	return v
}

// Gaps returns the number of points that are gaps.
func (s *Series) Gaps() int {
	n := 0
	for _, p := range s.Points {
		if p.Gap() {
			n++
		}
	}
	return n
}

// Display is a chart showing a single series.
type Display interface {
	// Update replaces the data, label, and color of the chart in place.
	Update(s *Series) error
	// Destroy releases the chart. The display is not used afterward.
	Destroy()
}

// NewDisplay creates a display initially showing s.
type NewDisplay func(s *Series) (Display, error)

// Selection is the state chosen by clicking an example equation.
type Selection struct {
	Expr     string
	Category category.Category
	Range    sample.Range
}

// SelectExample fills a selection for an example equation. If the equation's
// category cannot be determined, the current category and range are kept.
func SelectExample(expr string, current category.Category, r sample.Range) Selection {
	c, ok := category.Classify(expr)
	if !ok {
		return Selection{Expr: expr, Category: current, Range: r}
	}
	return Selection{Expr: expr, Category: c, Range: c.Range()}
}

// Request returns a plot request for the selection.
func (s Selection) Request() Request {
	return NewRequest(s.Expr, s.Category, s.Range)
}

// Session holds the display for a sequence of plot requests. It is not safe
// for concurrent use.
type Session struct {
	newDisplay NewDisplay
	display    Display
	series     *Series
	sampler    sample.Sampler
	log        logrus.FieldLogger
	err        error
}

// Option configures a Session.
type Option func(*Session)

// WithSampler sets the sampler used for plot requests.
func WithSampler(s sample.Sampler) Option {
	return func(ss *Session) {
		ss.sampler = s
	}
}

// WithLogger sets the logger for the session and its sampler.
func WithLogger(log logrus.FieldLogger) Option {
	return func(ss *Session) {
		ss.log = log
	}
}

// NewSession creates a session that creates displays with newDisplay.
func NewSession(newDisplay NewDisplay, opts ...Option) *Session {
	s := Session{newDisplay: newDisplay}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.sampler.Log == nil {
		s.sampler.Log = s.log
	}
	return &s
}

// Plot validates and samples a request and shows it. The first successful
// plot creates the display; later ones update it in place. Errors from
// validation have cause ErrEmptyExpression or ErrInvalidRange and leave the
// display unchanged. An expression that cannot be evaluated is not an error:
// every point is a gap.
func (s *Session) Plot(req Request) (*Series, error) {
	expr := strings.TrimSpace(req.Expr)
	if expr == "" {
		return nil, s.fail(ErrEmptyExpression)
	}
	r, err := ParseRange(req.MinX, req.MaxX)
	if err != nil {
		return nil, s.fail(err)
	}
	s.err = nil

	series := NewSeries(expr, req.Category, r, s.sampler.Sample(expr, r))
	log := s.log.WithFields(logrus.Fields{
		"expr":     expr,
		"category": req.Category,
		"min":      r.Min,
		"max":      r.Max,
	})
	if n := series.Gaps(); n == len(series.Points) {
		log.Debug("every point is a gap")
	}
	if s.display == nil {
		d, err := s.newDisplay(series)
		if err != nil {
			return nil, s.fail(errors.Wrap(err, "creating chart"))
		}
		s.display = d
		log.Info("created chart")
	} else {
		if err := s.display.Update(series); err != nil {
			return nil, s.fail(errors.Wrap(err, "updating chart"))
		}
		log.Debug("updated chart")
	}
	s.series = series
	return series, nil
}

// Clear destroys the display, if any, and clears the error message.
func (s *Session) Clear() {
	if s.display != nil {
		s.display.Destroy()
		s.display = nil
		s.log.Debug("destroyed chart")
	}
	s.series = nil
	s.err = nil
}

// Display returns the current display, or nil if nothing is plotted.
func (s *Session) Display() Display {
	return s.display
}

// Series returns the series most recently shown, or nil.
func (s *Session) Series() *Series {
	return s.series
}

// Err returns the error from the latest request, or nil if it succeeded or the
// session was cleared since.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) fail(err error) error {
	s.err = err
	s.log.WithError(err).Debug("plot request rejected")
	return err
}
