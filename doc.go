// Package mathlab parses and evaluates formulas of one real variable for
// plotting.
//
// The syntax of expressions is intended to be similar to math you'd write in
// your notes. "2 x" and "2x" are both multiplications, as is "{2}[x](y)".
// "-2^2^n" is the same as "-(2^(2^n))", where "a^b" is exponentiation. Numbers
// are plain decimals: "2e3" is 2 times a variable named e3, not 2000.
//
// The functions sin, cos, tan, abs, sqrt, exp, ln, and log (base 10) are
// available by default, along with the constants π (also pi) and e. Function
// arguments may be bracketed or bare, so "sin x" is "sin(x)".
//
// Parse an expression once and evaluate it for many inputs with Expr.At,
// which binds the variable x. Values are computed with big.Float arithmetic
// and rounded to float64 at the end. Results outside a function's domain,
// like sqrt(-1) or 0/0, are reported as DomainError rather than NaN; division
// of a nonzero number by zero is a signed infinity.
package mathlab
