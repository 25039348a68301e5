package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/zephyrtronium/mathlab/internal/config"
	"github.com/zephyrtronium/mathlab/plot"
	"github.com/zephyrtronium/mathlab/render"
)

type plotOpts struct {
	example bool
	format  string
	out     string
}

func plotArgs(cmd *kingpin.CmdClause) *plotOpts {
	var o plotOpts
	cmd.Flag("example", "Choose the category and range from the expression, as the example buttons do.").BoolVar(&o.example)
	cmd.Flag("format", "Image format, png or svg (default from the output name, else png).").StringVar(&o.format)
	cmd.Flag("out", "Output file.").Short('o').Default("-").StringVar(&o.out)
	return &o
}

func (o *plotOpts) imageFormat() (render.Format, error) {
	switch {
	case o.format != "":
		return render.ParseFormat(o.format)
	case o.out != "-" && filepath.Ext(o.out) != "":
		return render.ParseFormat(filepath.Ext(o.out))
	}
	return render.PNG, nil
}

func runPlot(cfg config.Config, r *rangeOpts, o *plotOpts, log logrus.FieldLogger, stdout io.Writer) error {
	f, err := o.imageFormat()
	if err != nil {
		return err
	}
	req, err := r.request(cfg)
	if err != nil {
		return err
	}
	if o.example {
		rng, err := plot.ParseRange(req.MinX, req.MaxX)
		if err != nil {
			return err
		}
		sel := plot.SelectExample(req.Expr, req.Category, rng).Request()
		// Explicit bounds still win over the example's range.
		if r.min == "" {
			req.MinX = sel.MinX
		}
		if r.max == "" {
			req.MaxX = sel.MaxX
		}
		req.Category = sel.Category
	}

	sess := plot.NewSession(render.New(cfg.Render(log)), plot.WithSampler(cfg.Sampler(log)), plot.WithLogger(log))
	if _, err := sess.Plot(req); err != nil {
		return err
	}
	ch := sess.Display().(*render.Chart)
	defer sess.Clear()

	if o.out == "-" {
		return ch.Render(stdout, f)
	}
	file, err := os.Create(o.out)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := ch.Render(file, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, "writing output")
	}
	log.WithFields(logrus.Fields{"out": o.out, "format": f}).Info("wrote chart")
	return nil
}
