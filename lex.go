package mathlab

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// lexToken is one token of an expression. pos is the 1-based column of its
// first rune.
type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	tokenEOF
	tokenNum   // digits with at most one dot
	tokenIdent // variable, constant, or function name
	tokenOp    // one of Operators
	tokenOpen  // one of OpenBrackets
	tokenClose // one of CloseBrackets
	tokenSep   // ","
)

var tokenNames = [...]string{
	tokenNone:  "None",
	tokenEOF:   "EOF",
	tokenNum:   "Num",
	tokenIdent: "Ident",
	tokenOp:    "Op",
	tokenOpen:  "Open",
	tokenClose: "Close",
	tokenSep:   "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// Operators lists the operator runes. × and ÷ are aliases of * and /.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets list the bracket runes. The i-th rune of
// OpenBrackets is closed only by the i-th rune of CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

var (
	openbrackets  = strings.Split(OpenBrackets, "")
	closebrackets = strings.Split(CloseBrackets, "")
)

// symbols maps each single-rune token to its kind.
var symbols = func() map[rune]tokenKind {
	m := map[rune]tokenKind{',': tokenSep}
	for _, r := range Operators {
		m[r] = tokenOp
	}
	for _, r := range OpenBrackets {
		m[r] = tokenOpen
	}
	for _, r := range CloseBrackets {
		m[r] = tokenClose
	}
	return m
}()

// lexer splits an expression into tokens, with one token of lookahead.
type lexer struct {
	src    io.RuneScanner
	text   strings.Builder
	col    int
	pushed lexToken
	done   bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src, col: 1}
}

// push puts tok back to be returned by the following next. Only one token can
// be held at a time.
func (l *lexer) push(tok lexToken) {
	if l.pushed.kind != tokenNone {
		panic("mathlab: double push")
	}
	l.pushed = tok
}

// must takes back the token given to push.
func (l *lexer) must() lexToken {
	tok := l.pushed
	if tok.kind == tokenNone {
		panic("mathlab: no pushed token")
	}
	l.pushed = lexToken{}
	return tok
}

func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next returns the next token. Whitespace separates tokens, except that a rune
// in stop ends the input like EOF does. The end of input is reported once as
// a tokenEOF; after that, next returns io.EOF.
func (l *lexer) next(stop string) (lexToken, error) {
	if l.pushed.kind != tokenNone {
		return l.must(), nil
	}
	if l.done {
		return lexToken{}, io.EOF
	}
	defer l.text.Reset()
	tok := lexToken{pos: l.col}
	for {
		r, err := l.readRune()
		switch {
		case errors.Is(err, io.EOF):
			tok.kind, l.done = tokenEOF, true
			return tok, nil
		case err != nil:
			return tok, err
		case unicode.IsSpace(r):
			if strings.ContainsRune(stop, r) {
				tok.kind, l.done = tokenEOF, true
				return tok, nil
			}
			tok.pos++
			continue
		}

		var scan func() error
		switch {
		case r == '.' || '0' <= r && r <= '9':
			tok.kind, scan = tokenNum, l.scanNum
		case r == '_' || unicode.IsLetter(r):
			tok.kind, scan = tokenIdent, l.scanIdent
		default:
			k, ok := symbols[r]
			if !ok {
				l.text.WriteRune(r)
				return lexToken{pos: tok.pos}, l.error("")
			}
			tok.kind, tok.text = k, string(r)
			return tok, nil
		}
		l.unreadRune()
		if err := scan(); err != nil {
			return lexToken{pos: tok.pos}, err
		}
		tok.text = l.text.String()
		return tok, nil
	}
}

// scanNum reads digits and dots. There is no exponent form, so a letter ends
// the number: "2e3" is 2 then e3 and "2π" is 2 then π.
func (l *lexer) scanNum() error {
	digits, dots := 0, 0
	for {
		r, err := l.readRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if r != '.' && (r < '0' || r > '9') {
			l.unreadRune()
			break
		}
		l.text.WriteRune(r)
		if r == '.' {
			dots++
		} else {
			digits++
		}
	}
	if digits == 0 || dots > 1 {
		return l.error("number")
	}
	return nil
}

// scanIdent reads letters, digits, and underscores. The caller has already
// seen that the first rune is a letter or underscore.
func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.unreadRune()
			return nil
		}
		l.text.WriteRune(r)
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{Text: l.text.String(), Kind: kind, Col: l.col}
}

// LexError reports text that is not a token. It implements InputError.
type LexError struct {
	// Text is the rejected text, ending with the rune that made it invalid.
	Text string
	// Kind is "number" for a malformed number and empty for a stray rune.
	Kind string
	// Col is the column just after the rejected text.
	Col int
}

func (err *LexError) Error() string {
	what := "invalid token"
	if err.Kind != "" {
		what = "invalid " + err.Kind + " token"
	}
	return what + " at column " + strconv.Itoa(err.Col) + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
