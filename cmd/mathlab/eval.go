package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/zephyrtronium/mathlab"
	"github.com/zephyrtronium/mathlab/internal/config"
)

type evalOpts struct {
	in    string
	verb  string
	given []string
	prec  uint
	lines bool
	echo  bool
	exprs []string
}

func evalArgs(cmd *kingpin.CmdClause) *evalOpts {
	var o evalOpts
	cmd.Flag("in", "Input file (default stdin if no expressions are given).").StringVar(&o.in)
	cmd.Flag("fmt", "Result formatting string.").Default("%g").StringVar(&o.verb)
	cmd.Flag("given", "name=value variable definition (any number of times).").StringsVar(&o.given)
	cmd.Flag("prec", "Precision of calculations in bits (default from config).").Short('p').UintVar(&o.prec)
	cmd.Flag("lines", "Parse separate input lines as separate expressions.").Short('n').BoolVar(&o.lines)
	cmd.Flag("echo", "Print parse trees.").BoolVar(&o.echo)
	cmd.Arg("expr", "Expressions to evaluate.").StringsVar(&o.exprs)
	return &o
}

func runEval(cfg config.Config, o *evalOpts, stdin io.Reader, stdout io.Writer) error {
	prec := o.prec
	if prec == 0 {
		prec = cfg.Precision
	}

	var ins []io.RuneScanner
	f, closer, err := infile(o.in, len(o.exprs) == 0, stdin)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	if f != nil {
		ins = append(ins, f)
	}
	for _, arg := range o.exprs {
		ins = append(ins, strings.NewReader(arg))
	}

	ctx := mathlab.NewContext(mathlab.Prec(prec))
	for _, d := range o.given {
		nm, vl, err := splitGiven(d)
		if err != nil {
			return err
		}
		r, err := mathlab.EvalString(vl, mathlab.Prec(prec))
		if err != nil {
			return errors.Wrapf(err, "setting %s", nm)
		}
		ctx.Set(nm, r)
	}

	var p []*mathlab.Expr
	var opts []mathlab.ParseOption
	if o.lines {
		opts = append(opts, mathlab.StopOn('\n'))
	}
	for _, in := range ins {
		for {
			// Check whether the input is exhausted first.
			if _, _, err := in.ReadRune(); err != nil {
				if err == io.EOF {
					break
				}
				return errors.Wrap(err, "reading input")
			}
			in.UnreadRune()
			a, err := mathlab.Parse(in, opts...)
			if err != nil {
				return err
			}
			p = append(p, a)
		}
	}

	verb := o.verb + "\n"
	for _, a := range p {
		if o.echo {
			fmt.Fprintf(stdout, "%v : ", a)
		}
		r := ctx.Eval(a)
		if r == nil {
			fmt.Fprintln(stdout, ctx.Err())
			continue
		}
		fmt.Fprintf(stdout, verb, r)
	}
	return nil
}

func splitGiven(s string) (name, value string, err error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return "", "", errors.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	return strings.TrimSpace(d[0]), strings.TrimSpace(d[1]), nil
}

func infile(name string, std bool, stdin io.Reader) (io.RuneScanner, io.Closer, error) {
	switch {
	case name != "" && name != "-":
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening input")
		}
		return bufio.NewReader(f), f, nil
	case name == "-", std:
		return bufio.NewReader(stdin), nil, nil
	}
	return nil, nil, nil
}
