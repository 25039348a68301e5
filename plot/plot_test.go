package plot

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/zephyrtronium/mathlab/category"
	"github.com/zephyrtronium/mathlab/sample"
)

type fakeDisplay struct {
	shown     []*Series
	destroyed bool
	fail      error
}

func (d *fakeDisplay) Update(s *Series) error {
	if d.fail != nil {
		return d.fail
	}
	d.shown = append(d.shown, s)
	return nil
}

func (d *fakeDisplay) Destroy() {
	d.destroyed = true
}

type fakeFactory struct {
	created []*fakeDisplay
	fail    error
}

func (f *fakeFactory) New(s *Series) (Display, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	d := &fakeDisplay{shown: []*Series{s}}
	f.created = append(f.created, d)
	return d, nil
}

func quiet() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func TestSession(t *testing.T) {
	Convey("Given a session with no chart", t, func() {
		f := &fakeFactory{}
		s := NewSession(f.New, WithLogger(quiet()))

		Convey("When the expression is empty", func() {
			series, err := s.Plot(Request{Expr: "   ", MinX: "-10", MaxX: "10"})

			Convey("It reports EmptyExpression without creating a chart", func() {
				So(series, ShouldBeNil)
				So(errors.Cause(err), ShouldEqual, ErrEmptyExpression)
				So(s.Err(), ShouldEqual, err)
				So(f.created, ShouldBeEmpty)
				So(s.Display(), ShouldBeNil)
			})
		})

		Convey("When the range is empty", func() {
			_, err := s.Plot(Request{Expr: "x", MinX: "5", MaxX: "5"})

			Convey("It reports InvalidRange", func() {
				So(errors.Cause(err), ShouldEqual, ErrInvalidRange)
				So(f.created, ShouldBeEmpty)
			})
		})

		Convey("When a bound is not a number", func() {
			for _, bounds := range [][2]string{{"abc", "10"}, {"-10", ""}, {"x", "1"}, {"0/0", "1"}, {"-10", "1/0"}, {"(", "1"}} {
				_, err := s.Plot(Request{Expr: "x", MinX: bounds[0], MaxX: bounds[1]})
				So(errors.Cause(err), ShouldEqual, ErrInvalidRange)
			}
			So(f.created, ShouldBeEmpty)
		})

		Convey("When a valid quadratic is plotted", func() {
			series, err := s.Plot(Request{Expr: " x^2 ", MinX: "-10", MaxX: "10", Category: category.Quadratic})

			Convey("It creates one chart with the sampled series", func() {
				So(err, ShouldBeNil)
				So(f.created, ShouldHaveLength, 1)
				So(s.Display(), ShouldEqual, f.created[0])
				So(series.Label, ShouldEqual, "y = x^2")
				So(series.Color, ShouldEqual, "#bb86fc")
				So(series.Fill(), ShouldEqual, "#bb86fc20")
				So(len(series.Points), ShouldBeBetweenOrEqual, sample.DefaultSteps, sample.DefaultSteps+1)
				So(series.Labels[0], ShouldEqual, "-10.00")
				So(series.Points[0].Y, ShouldEqual, 100.0)
				So(s.Series(), ShouldEqual, series)
				So(s.Err(), ShouldBeNil)
			})

			Convey("And then re-plotted as a trigonometric function", func() {
				again, err := s.Plot(Request{Expr: "sin(x)", MinX: "-2π", MaxX: "2π", Category: category.Trigonometric})

				Convey("It updates the same chart in place", func() {
					So(err, ShouldBeNil)
					So(f.created, ShouldHaveLength, 1)
					d := f.created[0]
					So(d.shown, ShouldHaveLength, 2)
					So(d.shown[1], ShouldEqual, again)
					So(again.Label, ShouldEqual, "y = sin(x)")
					So(again.Color, ShouldEqual, "#ffd166")
					So(again.Range.Min, ShouldAlmostEqual, -2*math.Pi, 1e-15)
					So(again.Labels[0], ShouldEqual, "-6.28")
				})
			})

			Convey("And then a bad request arrives", func() {
				_, err := s.Plot(Request{Expr: "", MinX: "-10", MaxX: "10"})

				Convey("The chart is untouched", func() {
					So(err, ShouldNotBeNil)
					So(f.created[0].shown, ShouldHaveLength, 1)
					So(s.Display(), ShouldNotBeNil)
				})
			})

			Convey("And then cleared", func() {
				s.Clear()

				Convey("The chart is destroyed and the next plot creates a new one", func() {
					So(f.created[0].destroyed, ShouldBeTrue)
					So(s.Display(), ShouldBeNil)
					So(s.Series(), ShouldBeNil)
					_, err := s.Plot(Request{Expr: "x", MinX: "-1", MaxX: "1"})
					So(err, ShouldBeNil)
					So(f.created, ShouldHaveLength, 2)
				})
			})
		})

		Convey("When an expression cannot be evaluated", func() {
			series, err := s.Plot(Request{Expr: "foo(x", MinX: "-1", MaxX: "1"})

			Convey("It plots an all-gap chart without an error", func() {
				So(err, ShouldBeNil)
				So(f.created, ShouldHaveLength, 1)
				So(series.Gaps(), ShouldEqual, len(series.Points))
				for _, v := range series.Values() {
					So(math.IsNaN(v), ShouldBeTrue)
				}
			})
		})

		Convey("When the chart cannot be created", func() {
			f.fail = errors.New("no canvas")
			_, err := s.Plot(Request{Expr: "x", MinX: "-1", MaxX: "1"})

			Convey("The error is surfaced", func() {
				So(err, ShouldNotBeNil)
				So(errors.Cause(err), ShouldEqual, f.fail)
				So(s.Err(), ShouldEqual, err)
				So(s.Display(), ShouldBeNil)
			})
		})

		Convey("When an error is followed by Clear", func() {
			s.Plot(Request{})
			So(s.Err(), ShouldNotBeNil)
			s.Clear()

			Convey("The error is hidden", func() {
				So(s.Err(), ShouldBeNil)
			})
		})
	})
}

func TestIdenticalRequests(t *testing.T) {
	Convey("Two identical requests yield identical samples", t, func() {
		f := &fakeFactory{}
		s := NewSession(f.New, WithLogger(quiet()), WithSampler(sample.Sampler{Steps: 50}))
		req := NewRequest("1/x", category.Hyperbola, category.Hyperbola.Range())
		a, err := s.Plot(req)
		So(err, ShouldBeNil)
		b, err := s.Plot(req)
		So(err, ShouldBeNil)
		So(b.Labels, ShouldResemble, a.Labels)
		So(len(b.Points), ShouldEqual, len(a.Points))
		for i := range a.Points {
			So(b.Points[i].X, ShouldEqual, a.Points[i].X)
			So(b.Points[i].Gap(), ShouldEqual, a.Points[i].Gap())
		}
		So(f.created, ShouldHaveLength, 1)
	})
}

func TestSelectExample(t *testing.T) {
	Convey("Selecting example equations", t, func() {
		cur := category.Linear
		r := sample.Range{Min: -1, Max: 1}

		Convey("An example with sin selects trigonometric over [-2π, 2π]", func() {
			sel := SelectExample("sin(x)", cur, r)
			So(sel.Expr, ShouldEqual, "sin(x)")
			So(sel.Category, ShouldEqual, category.Trigonometric)
			So(sel.Range, ShouldResemble, sample.Range{Min: -2 * math.Pi, Max: 2 * math.Pi})
		})

		Convey("An example with ^2 selects quadratic over [-10, 10]", func() {
			sel := SelectExample("x^2 - 4", cur, r)
			So(sel.Category, ShouldEqual, category.Quadratic)
			So(sel.Range, ShouldResemble, sample.Range{Min: -10, Max: 10})
		})

		Convey("An unclassified example keeps the current state", func() {
			sel := SelectExample("e^x", cur, r)
			So(sel.Category, ShouldEqual, cur)
			So(sel.Range, ShouldResemble, r)
		})

		Convey("A selection's request plots over its range", func() {
			req := SelectExample("cos(2*x) + 1", cur, r).Request()
			got, err := ParseRange(req.MinX, req.MaxX)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, category.Trigonometric.Range())
			So(req.Category, ShouldEqual, category.Trigonometric)
		})
	})
}

func TestLabel(t *testing.T) {
	Convey("Labels have exactly two decimals", t, func() {
		So(Label(0), ShouldEqual, "0.00")
		So(Label(-10), ShouldEqual, "-10.00")
		So(Label(0.1), ShouldEqual, "0.10")
		So(Label(-2*math.Pi), ShouldEqual, "-6.28")
		So(Label(123.456), ShouldEqual, "123.46")
	})

	Convey("Labels round the binary value with ties away from zero", t, func() {
		So(Label(1.005), ShouldEqual, "1.00")
		So(Label(0.125), ShouldEqual, "0.13")
		So(Label(-0.125), ShouldEqual, "-0.13")
	})

	Convey("Negative labels keep their sign when they round to zero", t, func() {
		So(Label(-0.004), ShouldEqual, "-0.00")
		So(Label(math.Copysign(0, -1)), ShouldEqual, "0.00")
	})
}

func TestParseRange(t *testing.T) {
	Convey("Range bounds are constant expressions", t, func() {
		r, err := ParseRange(" -2π ", "pi*2")
		So(err, ShouldBeNil)
		So(r.Min, ShouldEqual, -2*math.Pi)
		So(r.Max, ShouldEqual, 2*math.Pi)

		_, err = ParseRange("10", "-10")
		So(errors.Cause(err), ShouldEqual, ErrInvalidRange)

		Convey("Exponent form is a plain number", func() {
			r, err := ParseRange("1e-3", "1E2")
			So(err, ShouldBeNil)
			So(r, ShouldResemble, sample.Range{Min: 0.001, Max: 100})
		})

		Convey("Exponent form inside an expression is rejected", func() {
			_, err := ParseRange("2e3*π", "1e4")
			So(errors.Cause(err), ShouldEqual, ErrInvalidRange)
		})

		Convey("The constant e still multiplies", func() {
			r, err := ParseRange("-2e", "2e")
			So(err, ShouldBeNil)
			So(r.Max, ShouldAlmostEqual, 2*math.E)
		})
	})
}

func TestRequestRoundTrip(t *testing.T) {
	Convey("Requests print bounds that parse to the same range", t, func() {
		for _, r := range []sample.Range{
			{Min: -1e6, Max: 1e6},
			{Min: 1e-5, Max: 1},
			{Min: -1e21, Max: 1e21},
			{Min: -2 * math.Pi, Max: 2 * math.Pi},
		} {
			req := NewRequest("x", category.Linear, r)
			So(req.MinX, ShouldNotContainSubstring, "e")
			So(req.MaxX, ShouldNotContainSubstring, "e")
			got, err := ParseRange(req.MinX, req.MaxX)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, r)
		}
	})
}
