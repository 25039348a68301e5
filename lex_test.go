package mathlab

import (
	"io"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	num := func(text string, pos int) lexToken { return lexToken{text: text, kind: tokenNum, pos: pos} }
	id := func(text string, pos int) lexToken { return lexToken{text: text, kind: tokenIdent, pos: pos} }
	op := func(text string, pos int) lexToken { return lexToken{text: text, kind: tokenOp, pos: pos} }
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{num("0", 1)}, 0},
		{"9876543210", []lexToken{num("9876543210", 1)}, 0},
		{"1 0", []lexToken{num("1", 1), num("0", 3)}, 0},
		{"1.0", []lexToken{num("1.0", 1)}, 0},
		{".1", []lexToken{num(".1", 1)}, 0},
		{"1.", []lexToken{num("1.", 1)}, 0},
		{"-1", []lexToken{op("-", 1), num("1", 2)}, 0},
		{"1.1.1", []lexToken{{pos: 1}}, 1},
		{".", []lexToken{{pos: 1}}, 1},
		// no exponent notation: the number stops at the letter
		{"2e3", []lexToken{num("2", 1), id("e3", 2)}, 0},
		{"2x", []lexToken{num("2", 1), id("x", 2)}, 0},
		{"2π", []lexToken{num("2", 1), id("π", 2)}, 0},
		// identifiers
		{"e", []lexToken{id("e", 1)}, 0},
		{"e1", []lexToken{id("e1", 1)}, 0},
		{"π", []lexToken{id("π", 1)}, 0},
		{"eπ", []lexToken{id("eπ", 1)}, 0},
		{"_1234_", []lexToken{id("_1234_", 1)}, 0},
		{"sqrt(", []lexToken{id("sqrt", 1), {text: "(", kind: tokenOpen, pos: 5}}, 0},
		// operators
		{"+", []lexToken{op("+", 1)}, 0},
		{"x^2", []lexToken{id("x", 1), op("^", 2), num("2", 3)}, 0},
		{"a--b", []lexToken{id("a", 1), op("-", 2), op("-", 3), id("b", 4)}, 0},
		{"1×2÷3", []lexToken{num("1", 1), op("×", 2), num("2", 3), op("÷", 4), num("3", 5)}, 0},
		// brackets and separators
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, 0},
		{"[]", []lexToken{{text: "[", kind: tokenOpen, pos: 1}, {text: "]", kind: tokenClose, pos: 2}}, 0},
		{"{}", []lexToken{{text: "{", kind: tokenOpen, pos: 1}, {text: "}", kind: tokenClose, pos: 2}}, 0},
		{"a,b", []lexToken{id("a", 1), {text: ",", kind: tokenSep, pos: 2}, id("b", 3)}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"a$", []lexToken{id("a", 1), {pos: 2}}, 1},
		{"$a", []lexToken{{pos: 1}, id("a", 2)}, 1},
		{"0$", []lexToken{num("0", 1), {pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
		{"x;", []lexToken{id("x", 1), {pos: 2}}, 1},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next("")
			if err == io.EOF {
				t.Errorf("scanning %q: expected token %v but got EOF", c.src, want)
				continue
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		got, err := scan.next("")
		if err != nil || got.kind != tokenEOF {
			t.Errorf("scanning %q: want EOF, got %v with error %v", c.src, got, err)
		}
		if _, err := scan.next(""); err != io.EOF {
			t.Errorf("scanning %q: want io.EOF after EOF token, got %v", c.src, err)
		}
		if c.errs > 0 {
			t.Errorf("scanning %q: not enough errors", c.src)
		}
	}
}

func TestLexStopOnWhitespace(t *testing.T) {
	scan := lex(strings.NewReader("x \ny"))
	tok, err := scan.next("\n")
	if err != nil || tok != (lexToken{text: "x", kind: tokenIdent, pos: 1}) {
		t.Fatalf("want x, got %v with error %v", tok, err)
	}
	tok, err = scan.next("\n")
	if err != nil || tok.kind != tokenEOF {
		t.Errorf("want EOF at newline, got %v with error %v", tok, err)
	}
}

func TestLexErrorPos(t *testing.T) {
	scan := lex(strings.NewReader("1 + $"))
	var err error
	for err == nil {
		_, err = scan.next("")
	}
	lerr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("want *LexError, got %#v", err)
	}
	if lerr.Pos() != 6 || lerr.Text != "$" {
		t.Errorf("wrong error: %#v (%v)", lerr, lerr)
	}
}
