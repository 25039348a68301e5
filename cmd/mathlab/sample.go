package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/zephyrtronium/mathlab/category"
	"github.com/zephyrtronium/mathlab/internal/config"
	"github.com/zephyrtronium/mathlab/plot"
)

// rangeOpts are the inputs shared by commands that sample a function.
type rangeOpts struct {
	expr     string
	min, max string
	category string
}

func rangeArgs(cmd *kingpin.CmdClause) *rangeOpts {
	var o rangeOpts
	cmd.Arg("expr", "Function of x.").Required().StringVar(&o.expr)
	cmd.Flag("min", "Lower x bound (default from the category).").StringVar(&o.min)
	cmd.Flag("max", "Upper x bound (default from the category).").StringVar(&o.max)
	cmd.Flag("category", "Function category: quadratic, linear, hyperbola, or trigonometric.").StringVar(&o.category)
	return &o
}

// request builds a plot request, filling omitted bounds from the category.
func (o *rangeOpts) request(cfg config.Config) (plot.Request, error) {
	c := cfg.Category
	if o.category != "" {
		var err error
		if c, err = category.Parse(o.category); err != nil {
			return plot.Request{}, err
		}
	}
	req := plot.NewRequest(o.expr, c, c.Range())
	if o.min != "" {
		req.MinX = o.min
	}
	if o.max != "" {
		req.MaxX = o.max
	}
	return req, nil
}

func runSample(cfg config.Config, o *rangeOpts, steps int, log logrus.FieldLogger, w io.Writer) error {
	req, err := o.request(cfg)
	if err != nil {
		return err
	}
	if steps > 0 {
		cfg.Steps = steps
	}
	sess := plot.NewSession(func(*plot.Series) (plot.Display, error) {
		return tableDisplay{}, nil
	}, plot.WithSampler(cfg.Sampler(log)), plot.WithLogger(log))
	s, err := sess.Plot(req)
	if err != nil {
		return errors.Wrap(err, "sampling")
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"x", s.Label})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, p := range s.Points {
		y := "-"
		if !p.Gap() {
			y = strconv.FormatFloat(p.Y, 'g', 10, 64)
		}
		table.Append([]string{s.Labels[i], y})
	}
	table.SetFooter([]string{"gaps", strconv.Itoa(s.Gaps())})
	table.Render()
	return nil
}

// tableDisplay stands in for a chart when the series is printed instead.
type tableDisplay struct{}

func (tableDisplay) Update(*plot.Series) error { return nil }
func (tableDisplay) Destroy()                  {}
