package mathlab

import (
	"strconv"
	"unicode"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(*parsectx)
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	eofopt   struct {
		c  bool
		ws string
	}
)

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// funcs is the set of function names that trigger special parsing for ids.
	funcs map[string]Func
	// resv is a reserved parsed node. arglist sets this when it parses a
	// single bracketed term so that the parser can back it out to an implicit
	// multiplication if the function is niladic.
	resv *node
	// wseof is a string containing the whitespace characters that trigger an
	// EOF token from the lexer.
	wseof string
	// ceof indicates whether a comma may end the expression.
	ceof bool
	// owned indicates that funcs is a private copy.
	owned bool
}

func newParsectx(opts []ParseOption) *parsectx {
	p := parsectx{
		names: make(map[string]bool),
		funcs: globalfuncs,
	}
	for _, opt := range opts {
		opt.parseOption(&p)
	}
	return &p
}

// ownfuncs makes p.funcs safe to modify.
func (p *parsectx) ownfuncs() {
	if p.owned {
		return
	}
	m := make(map[string]Func, len(p.funcs)+1)
	for k, v := range p.funcs {
		m[k] = v
	}
	p.funcs = m
	p.owned = true
}

// ParseFunc sets a function for parsing. To disable parsing a function, so
// that its name is parsed as a variable, pass nil for fn.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p *parsectx) {
	p.ownfuncs()
	p.funcs[o.name] = o.fn
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p *parsectx) {
	p.ownfuncs()
	for k, v := range o {
		p.funcs[k] = v
	}
}

// DisableDefaultFuncs disables all default functions and constants during
// parsing. Their names will be parsed as variables instead.
func DisableDefaultFuncs() ParseOption {
	m := make(funcsopt, len(globalfuncs))
	for k := range globalfuncs {
		m[k] = nil
	}
	return m
}

// StopOn tells the parser to treat a list of characters as ending the
// expression. Each rune must be a comma or whitespace codepoint. Whitespace
// does not end an expression where a term is expected, e.g. at the beginning
// of an expression or following an operator or bracket. Commas do not end
// expressions inside bracketed function argument lists.
//
// StopOn overrides the effect of any previous StopOn in the parsing options.
// With no arguments, StopOn produces the default termination behavior, which
// is to parse to EOF.
func StopOn(chars ...rune) ParseOption {
	var o eofopt
	v := make([]rune, 0, len(chars))
	for _, r := range chars {
		switch {
		case r == ',':
			o.c = true
		case unicode.IsSpace(r):
			if !containsRune(v, r) {
				v = append(v, r)
			}
		default:
			panic("mathlab: cannot stop on " + strconv.QuoteRune(r))
		}
	}
	o.ws = string(v)
	return &o
}

func (o *eofopt) parseOption(p *parsectx) {
	p.ceof = o.c
	p.wseof = o.ws
}

func containsRune(v []rune, r rune) bool {
	for _, c := range v {
		if c == r {
			return true
		}
	}
	return false
}
