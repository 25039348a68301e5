package mathlab

import (
	"io"
	"sort"
	"strconv"
	"strings"
)

// Expr = num | name | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = funcname | funcname Expr | funcname ArgList | funcname '^' Expr ArgList
// ArgList = '(' Expr { ',' Expr } ')' | '[' Expr { ',' Expr } ']' | '{' Expr { ',' Expr } '}'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr | Expr Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = Expr '^' Expr

// Expr is a parsed expression that can be evaluated with a context. An Expr
// is immutable and may be evaluated concurrently using distinct contexts.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	p := newParsectx(opts)
	scan := lex(src)
	n, err := p.term(scan, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenSep:
		if !p.ceof {
			return nil, unexpectedEnd(tok, -1)
		}
		if n == nil {
			return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
		}
	default:
		return nil, unexpectedEnd(tok, -1)
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse an expression held in a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// term parses a single term. If there is no error, then term pushes the last
// token it scans, including EOF. If the input is an empty subexpression, the
// result is nil with no error; callers must create an error in contexts where
// empty subexpressions are illegal.
func (p *parsectx) term(scan *lexer, until operator) (*node, error) {
	n, err := p.lhs(scan, until)
	if err != nil || n == nil {
		return nil, err
	}
	if p.resv != nil {
		// lhs parsed a niladic function followed by a bracketed term, so act
		// as though we had just seen an open bracket whose contents are
		// already parsed.
		if !termprec.moreBinding(until) {
			return n, nil
		}
		n = &node{kind: nodeMul, left: n, right: p.resv}
		p.resv = nil
	}
	for {
		tok, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent:
			// Juxtaposition: 2 x -> (2) * (x), a^b x -> (a^b) * (x).
			scan.push(tok)
			if !termprec.moreBinding(until) {
				return n, nil
			}
			rhs, err := p.term(scan, termprec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs}
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := p.term(scan, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, emptyBefore(scan)
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenOpen:
			// lhs consumes brackets that follow a function name, so this is
			// a multiplication: 2 (x) -> (2) * (x), 2 (x)^2 -> (2) * (x^2).
			scan.push(tok)
			if !termprec.moreBinding(until) {
				return n, nil
			}
			rhs, err := p.term(scan, termprec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs}
		case tokenClose, tokenSep, tokenEOF:
			scan.push(tok)
			return n, nil
		default:
			panic("mathlab: unknown token: " + tok.String())
		}
	}
}

// bracketed parses the contents of a bracket pair whose opening token has
// already been scanned, and consumes the matching close bracket.
func (p *parsectx) bracketed(scan *lexer, open lexToken) (*node, error) {
	match := rightbracket(open.text)
	n, err := p.term(scan, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose || end.text != closebrackets[match] {
		return nil, unexpectedEnd(end, match)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
	}
	return n, nil
}

// lhs parses the first component of a term. Operators here are unary, any
// token must be valid as the start of a subexpression, and whitespace that
// would normally end the expression is ignored.
func (p *parsectx) lhs(scan *lexer, until operator) (*node, error) {
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, name: tok.text}, nil
	case tokenIdent:
		fn := p.funcs[tok.text]
		if fn == nil {
			p.names[tok.text] = true
			return &node{kind: nodeName, name: tok.text}, nil
		}
		args, exp, err := p.call(scan, until, fn, tok.text)
		if err != nil {
			return nil, err
		}
		// If fn is niladic and the call looks like fn(a), then args is nil
		// and p.resv holds a.
		n := &node{kind: nodeCall, name: tok.text, fn: fn, right: args}
		if exp != nil {
			exp.left = n
			n = exp
		}
		return n, nil
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := p.term(scan, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, emptyBefore(scan)
		}
		return &node{kind: prec.op, left: rhs}, nil
	case tokenOpen:
		return p.bracketed(scan, tok)
	case tokenClose:
		// This might be the end of a niladic fn(), so let the caller decide.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		if p.ceof {
			scan.push(tok)
			return nil, nil
		}
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("mathlab: unknown token: " + tok.String())
	}
}

// call parses the arguments to a call of fn. The second result, if non-nil,
// is an exponentiation node that the call is the base of, as in sin^2 x.
func (p *parsectx) call(scan *lexer, until operator, fn Func, name string) (*node, *node, error) {
	// Respect whitespace here so that pi\nx doesn't join expressions.
	tok, err := scan.next(p.wseof)
	if err != nil {
		return nil, nil, err
	}
	switch tok.kind {
	case tokenOp:
		if prec := binop(tok.text); prec.moreBinding(powprec) {
			// func^x^y(z) parses as [func(z)]^(x^y).
			up, err := p.term(scan, powprec)
			if err != nil {
				return nil, nil, err
			}
			if up == nil {
				return nil, nil, emptyBefore(scan)
			}
			args, again, err := p.call(scan, until, fn, name)
			if err != nil {
				return nil, nil, err
			}
			if again != nil {
				// e.g. pi^pi(1)^2; the exponent of a call is already taken.
				return nil, nil, &OperatorError{Col: tok.pos, Operator: tok.text}
			}
			return args, &node{kind: nodePow, right: up}, nil
		}
		// Any other operator ends the call like a number or name would.
		fallthrough
	case tokenNum, tokenIdent:
		switch {
		case fn.CanCall(1):
			// exp x -> exp(x)
			scan.push(tok)
			if termprec.moreBinding(until) {
				until = termprec
			}
			rhs, err := p.term(scan, until)
			if err != nil {
				return nil, nil, err
			}
			return &node{kind: nodeArg, left: rhs}, nil, nil
		case fn.CanCall(0):
			// pi x -> (pi) * (x)
			scan.push(tok)
			return nil, nil, nil
		default:
			return nil, nil, &CallError{Col: tok.pos, Func: name, Len: 1}
		}
	case tokenOpen:
		args, n, err := p.arglist(scan, tok.text)
		if err != nil {
			return nil, nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			panic("mathlab: arglist ended on " + end.String() + " instead of close bracket")
		}
		if end.text != closebrackets[rightbracket(tok.text)] {
			return nil, nil, &BracketError{Col: end.pos, Left: tok.text, Right: end.text}
		}
		if !fn.CanCall(n) {
			if p.resv != nil && fn.CanCall(0) {
				// pi(a) -> (pi) * (a)
				return nil, nil, nil
			}
			p.resv = nil
			return nil, nil, &CallError{Col: tok.pos, Func: name, Len: n}
		}
		p.resv = nil
		return args, nil, nil
	case tokenClose, tokenSep, tokenEOF:
		if !fn.CanCall(0) {
			return nil, nil, &CallError{Col: tok.pos, Func: name}
		}
		scan.push(tok)
		return nil, nil, nil
	default:
		panic("mathlab: unknown token: " + tok.String())
	}
}

// arglist parses a bracketed list of zero or more args, leaving the closing
// bracket pushed.
func (p *parsectx) arglist(scan *lexer, open string) (*node, int, error) {
	var head node
	l := &head
	n := 0
	sep := ""
	for {
		rhs, err := p.term(scan, exprprec)
		if err != nil {
			// Reporting the unclosed bracket is more helpful than reporting
			// an empty expression at EOF.
			if ee, ok := err.(*EmptyExpressionError); ok && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: open}
			}
			return nil, 0, err
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			scan.push(end)
			if rhs == nil {
				// f() is allowed, but f(a,) isn't.
				if n != 0 {
					return nil, 0, &EmptyExpressionError{Col: end.pos, End: end.text}
				}
				return nil, 0, nil
			}
			l.right = &node{kind: nodeArg, name: sep, left: rhs}
			if n == 0 {
				// Reserve the argument so that a niladic function can
				// convert f(a) into an implicit multiplication.
				p.resv = rhs
			}
			return head.right, n + 1, nil
		case tokenSep:
			if rhs == nil {
				return nil, 0, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n++
			l.right = &node{kind: nodeArg, name: sep, left: rhs}
			l = l.right
			sep = end.text
		case tokenEOF:
			return nil, 0, &BracketError{Col: end.pos, Left: open}
		default:
			panic("mathlab: arglist term ended on " + end.String())
		}
	}
}

// emptyBefore reports an empty subexpression ending at the pushed token.
func emptyBefore(scan *lexer) error {
	end := scan.must()
	scan.push(end)
	return &EmptyExpressionError{Col: end.pos, End: end.text}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	for i, b := range openbrackets {
		if b == left {
			return i
		}
	}
	panic("mathlab: invalid bracket " + strconv.Quote(left))
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right < 0 {
		return ""
	}
	return openbrackets[right]
}

// unexpectedEnd returns an error appropriate for an unexpected token at the
// end of a subexpression. match is the bracket index that the expression
// should have matched, or -1 if none.
func unexpectedEnd(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match)}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("mathlab: unexpected end of subexpression: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false, true)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

var (
	// termprec is the precedence of juxtaposition. Its prec must match that
	// of multiplication.
	termprec = operator{5, true, nodeMul}
	// powprec is the precedence of exponentiation.
	powprec = binop("^")
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
