package mathlab

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. The arguments are passed in args, which
	// has a length for which CanCall returned true. The function must set r
	// to its result and should not use the value of r otherwise. Call may
	// modify the elements of args.
	Call(ctx *Context, args []*big.Float, r *big.Float) error

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the expression parser handles instances of this
	// function:
	//
	// 	1.	If a bracketed list of n > 0 expressions follows a function, the
	//		parser treats it as an argument list if CanCall(n). (If n is 1 and
	//		!CanCall(1) and CanCall(0), then the list is a multiplication;
	//		otherwise, it is rejected.)
	//
	// 	2.	If a bare term follows a function and CanCall(1), then the parser
	//		treats the term as an argument to the function. E.g., "sin x" is
	//		parsed as "sin(x)". (If !CanCall(1), then it is a multiplication.)
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"sin":  Real(math.Sin),
	"cos":  Real(math.Cos),
	"tan":  Real(math.Tan),
	"abs":  Monadic((*big.Float).Abs),
	"sqrt": Monadic((*big.Float).Sqrt),
	"exp":  Monadic(exp),
	"ln":   Monadic(ln),
	"log":  Monadic(log10),

	"π":  Niladic(bigfloat.Pi),
	"pi": Niladic(bigfloat.Pi),
	"e": Niladic(func(out *big.Float) *big.Float {
		one := new(big.Float).SetPrec(out.Prec()).SetInt64(1)
		return bigfloat.Exp(out, one)
	}),
}

func exp(out, in *big.Float) *big.Float {
	if in.IsInf() {
		if in.Signbit() {
			return out.SetInt64(0)
		}
		return out.SetInf(false)
	}
	return bigfloat.Exp(out, in)
}

func ln(out, in *big.Float) *big.Float {
	switch {
	case in.Signbit() && in.Sign() != 0:
		panic(big.ErrNaN{})
	case in.Sign() == 0:
		return out.SetInf(true)
	case in.IsInf():
		return out.SetInf(false)
	}
	return bigfloat.Log(out, in)
}

func log10(out, in *big.Float) *big.Float {
	ln(out, in)
	if out.IsInf() {
		return out
	}
	ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
	return out.Quo(out, bigfloat.Log(ten, ten))
}

type monadic struct {
	f func(out, in *big.Float) *big.Float
}

func (m monadic) Call(ctx *Context, args []*big.Float, r *big.Float) (err error) {
	in := args[0]
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		nan, ok := v.(big.ErrNaN)
		if !ok {
			panic(v)
		}
		err = DomainError{X: new(big.Float).Copy(in), Reason: nan.Error()}
	}()
	r.SetPrec(ctx.Prec())
	m.f(r, in)
	return nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f
// is called on an argument outside its domain, it should panic with a value
// of type big.ErrNaN.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f}
}

// Real wraps a float64 function into a Func. The argument is rounded to the
// nearest float64, and a NaN result is reported as a DomainError.
func Real(f func(float64) float64) Func {
	return monadic{func(out, in *big.Float) *big.Float {
		x, _ := in.Float64()
		// SetFloat64 panics with big.ErrNaN for NaN, which Call recovers.
		return out.SetFloat64(f(x))
	}}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n niladic) Call(ctx *Context, args []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.Prec())
	n.f(r)
	return nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic{f}
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain, e.g. sqrt(-1), 0/0, or (-8)^(1/3).
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument, or 0 if unknown.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
	// Reason is an optional description of the failure.
	Reason string
}

func (err DomainError) Error() string {
	r := "outside domain"
	if err.X != nil {
		r = err.X.String() + " " + r
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	if err.Reason != "" {
		r += ": " + err.Reason
	}
	return r
}
