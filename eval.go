package mathlab

import (
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Var is the name of the variable bound by Expr.At and Evaluate.
const Var = "x"

// DefaultPrec is the precision in bits used by contexts unless Prec is given.
const DefaultPrec = 64

// Context is a context for evaluating expressions. It is not safe to use a
// Context concurrently.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	names map[string]*big.Float
	prec  uint
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	precopt uint
)

func (varopt) ctxOption()  {}
func (precopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// Prec sets the precision of calculations. A precision of 0 selects
// DefaultPrec.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		nums:  make(map[string]*big.Float),
		names: make(map[string]*big.Float),
		prec:  DefaultPrec,
	}
	// Apply the last precision first so that variables are stored with it.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			if p != 0 {
				ctx.prec = uint(p)
			}
			break
		}
	}
	for _, opt := range opts {
		if v, ok := opt.(varopt); ok {
			ctx.Set(v.name, v.val)
		}
	}
	return &ctx
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or an argument to a function is outside
// the function's domain, then the result is nil and ctx.Err returns the error.
// The returned value remains valid until the next call to Eval.
func (ctx *Context) Eval(e *Expr) *big.Float {
	if len(ctx.stack) > 0 {
		// Keep the previous result intact for callers still holding it.
		ctx.stack[0] = nil
	}
	ctx.stack = ctx.stack[:0]
	ctx.err = ctx.guard(e.n)
	if ctx.err != nil {
		return nil
	}
	return ctx.Result()
}

// guard evaluates n, converting arithmetic on NaN-producing operands such as
// Inf-Inf or 0*Inf into a DomainError.
func (ctx *Context) guard(n *node) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		nan, ok := v.(big.ErrNaN)
		if !ok {
			panic(v)
		}
		err = DomainError{Reason: nan.Error()}
	}()
	return n.eval(ctx)
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("mathlab: Context.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("mathlab: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error that occurred during the last evaluation, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	v := ctx.names[name]
	if v == nil {
		v = new(big.Float).SetPrec(ctx.prec)
		ctx.names[name] = v
	}
	v.Set(value)
	return ctx
}

// SetFloat64 sets the value of a variable from a float64. Panics if value is
// NaN.
func (ctx *Context) SetFloat64(name string, value float64) *Context {
	return ctx.Set(name, new(big.Float).SetFloat64(value))
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a cached number from its text.
func (ctx *Context) num(s string) *big.Float {
	if r := ctx.nums[s]; r != nil {
		return r
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	if err != nil {
		// The lexer only produces plain decimals.
		panic("mathlab: invalid number: " + s + " (" + err.Error() + ")")
	}
	ctx.nums[s] = r
	return r
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		ctx.push().Set(ctx.num(n.name))
		return nil
	case nodeName:
		v := ctx.names[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		ctx.push().Set(v)
		return nil
	case nodeCall:
		r := ctx.push()
		k := len(ctx.stack)
		for a := n.right; a != nil; a = a.right {
			if err := a.left.eval(ctx); err != nil {
				return err
			}
		}
		args := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if err := n.fn.Call(ctx, args, r); err != nil {
			if de, ok := err.(DomainError); ok && de.Func == "" {
				de.Func = n.name
				err = de
			}
			return err
		}
		ctx.stack = ctx.stack[:k]
		return nil
	case nodeNeg, nodeNop:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if n.kind == nodeNeg {
			v := ctx.top()
			v.Neg(v)
		}
		return nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return arith(n.kind, l, r)
	default:
		panic("mathlab: invalid AST node " + n.kind.String())
	}
}

// arith sets l to l op r.
func arith(op nodeKind, l, r *big.Float) error {
	switch op {
	case nodeAdd:
		l.Add(l, r)
	case nodeSub:
		l.Sub(l, r)
	case nodeMul:
		l.Mul(l, r)
	case nodeDiv:
		// 0/0 and inf/inf have no value; x/0 is a signed infinity.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return DomainError{X: new(big.Float).Copy(r), Arg: 2, Func: "/"}
		}
		l.Quo(l, r)
	case nodePow:
		return pow(l, l, r)
	}
	return nil
}

// pow sets z to x^y. Integer exponents are computed by repeated squaring so
// that a negative base is allowed and small powers are exact. Other exponents
// require a non-negative base.
func pow(z, x, y *big.Float) error {
	if y.IsInt() {
		if n, acc := y.Int64(); acc == big.Exact {
			powInt(z, x, n)
			return nil
		}
	}
	if x.Sign() < 0 {
		return DomainError{X: new(big.Float).Copy(x), Arg: 1, Func: "^"}
	}
	if x.Sign() == 0 || x.IsInf() || y.IsInf() {
		// bigfloat only handles finite positive operands.
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		r := math.Pow(xf, yf)
		if math.IsNaN(r) {
			return DomainError{X: new(big.Float).Copy(y), Arg: 2, Func: "^"}
		}
		z.SetFloat64(r)
		return nil
	}
	bigfloat.Pow(z, x, y)
	return nil
}

// powInt sets z to x**n by repeated squaring.
func powInt(z, x *big.Float, n int64) {
	neg := n < 0
	// The magnitude is unsigned so that -MinInt64 does not overflow.
	m := uint64(n)
	if neg {
		m = -m
	}
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for ; m > 0; m >>= 1 {
		if m&1 != 0 {
			z.Mul(z, b)
		}
		if m > 1 {
			b.Mul(b, b)
		}
	}
	if !neg {
		return
	}
	if z.Sign() == 0 {
		z.SetInf(z.Signbit())
		return
	}
	one := new(big.Float).SetPrec(z.Prec()).SetInt64(1)
	z.Quo(one, z)
}

// At evaluates e with Var bound to x and rounds the result to a float64.
// Results too large for a float64 become infinities.
func (e *Expr) At(ctx *Context, x float64) (float64, error) {
	if math.IsNaN(x) {
		return math.NaN(), DomainError{Func: Var, Reason: "NaN argument"}
	}
	ctx.SetFloat64(Var, x)
	r := ctx.Eval(e)
	if r == nil {
		return math.NaN(), ctx.Err()
	}
	f, _ := r.Float64()
	return f, nil
}

// Evaluate parses src and evaluates it with Var bound to x.
func Evaluate(src string, x float64, opts ...ContextOption) (float64, error) {
	e, err := ParseString(src)
	if err != nil {
		return math.NaN(), err
	}
	return e.At(NewContext(opts...), x)
}

// Eval is a shortcut to parse an expression and return its result using the
// default functions.
func Eval(src io.RuneScanner, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return ctx.Eval(a), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}
