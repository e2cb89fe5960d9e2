// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// An Eagle scanner.

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Token represents an Eagle lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	// Tokens with values
	IDENT  // x
	INT    // 123
	STRING // "foo"
	CHAR   // 'c'

	// Punctuation
	PLUS       // +
	MINUS      // -
	STAR       // *
	SLASH      // /
	PERCENT    // %
	AMP        // &
	PIPE       // |
	CIRCUMFLEX // ^
	TILDE      // ~
	BANG       // !
	ANDAND     // &&
	OROR       // ||
	DOT        // .
	COMMA      // ,
	EQ         // =
	SEMI       // ;
	COLON      // :
	ARROW      // =>
	LPAREN     // (
	RPAREN     // )
	LBRACK     // [
	RBRACK     // ]
	LBRACE     // {
	RBRACE     // }
	LT         // <
	GT         // >
	GE         // >=
	LE         // <=
	EQL        // ==
	NEQ        // !=

	// Keywords
	ALIAS
	BREAK
	CLASS
	CONST
	CONTINUE
	CTOR
	ELSE
	EXTERN
	FALSE
	FOR
	GET
	IF
	LET
	LOOP
	NEW
	OBJECT
	RETURN
	SET
	STRUCT
	THIS
	TO
	TRUE
	VAR
	WHILE

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens.
// Use Sprintf("%#v", tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= PLUS && tok <= NEQ {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL:    "illegal token",
	EOF:        "end of file",
	IDENT:      "identifier",
	INT:        "int literal",
	STRING:     "string literal",
	CHAR:       "char literal",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	AMP:        "&",
	PIPE:       "|",
	CIRCUMFLEX: "^",
	TILDE:      "~",
	BANG:       "!",
	ANDAND:     "&&",
	OROR:       "||",
	DOT:        ".",
	COMMA:      ",",
	EQ:         "=",
	SEMI:       ";",
	COLON:      ":",
	ARROW:      "=>",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACK:     "[",
	RBRACK:     "]",
	LBRACE:     "{",
	RBRACE:     "}",
	LT:         "<",
	GT:         ">",
	GE:         ">=",
	LE:         "<=",
	EQL:        "==",
	NEQ:        "!=",
	ALIAS:      "alias",
	BREAK:      "break",
	CLASS:      "class",
	CONST:      "const",
	CONTINUE:   "continue",
	CTOR:       "ctor",
	ELSE:       "else",
	EXTERN:     "extern",
	FALSE:      "false",
	FOR:        "for",
	GET:        "get",
	IF:         "if",
	LET:        "let",
	LOOP:       "loop",
	NEW:        "new",
	OBJECT:     "object",
	RETURN:     "return",
	SET:        "set",
	STRUCT:     "struct",
	THIS:       "this",
	TO:         "to",
	TRUE:       "true",
	VAR:        "var",
	WHILE:      "while",
}

// keywordToken records the special tokens for
// strings that should not be treated as ordinary identifiers.
var keywordToken = make(map[string]Token)

func init() {
	for tok := ALIAS; tok < maxToken; tok++ {
		keywordToken[tokenNames[tok]] = tok
	}
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<invalid>"
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	if n := strings.Count(s, "\n"); n > 0 {
		p.Line += int32(n)
		s = s[strings.LastIndex(s, "\n")+1:]
		p.Col = 1
	}
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

func (p Position) isBefore(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// An Error describes the nature and position of a scanner or parser error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is a non-empty list of scanner or parser errors.
type ErrorList []Error

func (e ErrorList) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e[0], len(e)-1)
}

// readSource returns the contents of the named file, or of src if non-nil.
func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case nil:
		return ioutil.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

// A token is a scanned token with its value and position.
type token struct {
	tok Token
	pos Position
	end Position
	raw string      // raw text of token
	val interface{} // int64 | string | rune, for literals
}

// A scanner turns source text into a slice of tokens.
// Lexical errors are recorded and scanning continues.
type scanner struct {
	rest []byte // rest of input
	pos  Position
	errs ErrorList
}

func newScanner(filename string, src []byte) *scanner {
	return &scanner{
		rest: src,
		pos:  MakePosition(&filename, 1, 1),
	}
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	sc.errs = append(sc.errs, Error{pos, fmt.Sprintf(format, args...)})
}

// peekRune returns the next rune in the input without consuming it.
func (sc *scanner) peekRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	if b := sc.rest[0]; b < utf8.RuneSelf {
		if b == '\r' {
			return '\n'
		}
		return rune(b)
	}
	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

// readRune consumes and returns the next rune in the input.
// Newlines in Unix, DOS, or Mac format are treated as one rune, '\n'.
func (sc *scanner) readRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	r, size := utf8.DecodeRune(sc.rest)
	sc.rest = sc.rest[size:]
	if r == '\r' {
		if len(sc.rest) > 0 && sc.rest[0] == '\n' {
			sc.rest = sc.rest[1:]
		}
		r = '\n'
	}
	if r == '\n' {
		sc.pos.Line++
		sc.pos.Col = 1
	} else {
		sc.pos.Col++
	}
	return r
}

// scanAll returns every token of the input, terminated by EOF.
func (sc *scanner) scanAll() []token {
	var toks []token
	for {
		t := sc.next()
		if t.tok == ILLEGAL {
			continue
		}
		toks = append(toks, t)
		if t.tok == EOF {
			return toks
		}
	}
}

func (sc *scanner) next() token {
	sc.skipSpaceAndComments()

	start := sc.pos
	text := sc.rest
	c := sc.peekRune()
	if c == 0 {
		return token{tok: EOF, pos: start, end: start}
	}
	mk := func(tok Token, val interface{}) token {
		raw := string(text[:len(text)-len(sc.rest)])
		return token{tok: tok, pos: start, end: sc.pos, raw: raw, val: val}
	}

	switch {
	case isIdentStart(c):
		for isIdent(sc.peekRune()) {
			sc.readRune()
		}
		t := mk(IDENT, nil)
		if k, ok := keywordToken[t.raw]; ok {
			t.tok = k
		}
		return t

	case isDigit(c):
		for isDigit(sc.peekRune()) || sc.peekRune() == '_' {
			sc.readRune()
		}
		t := mk(INT, nil)
		n, err := strconv.ParseInt(strings.ReplaceAll(t.raw, "_", ""), 10, 64)
		if err != nil {
			sc.errorf(start, "The number %s isn't valid Int.", t.raw)
		}
		t.val = n
		return t

	case c == '"':
		s := sc.scanQuoted('"')
		return mk(STRING, s)

	case c == '\'':
		s := sc.scanQuoted('\'')
		var r rune
		if n := utf8.RuneCountInString(s); n != 1 {
			sc.errorf(start, "Char literal must contain exactly one character.")
		} else {
			r, _ = utf8.DecodeRuneInString(s)
		}
		return mk(CHAR, r)
	}

	sc.readRune()
	two := func(next rune, yes, no Token) token {
		if sc.peekRune() == next {
			sc.readRune()
			return mk(yes, nil)
		}
		return mk(no, nil)
	}
	switch c {
	case '+':
		return mk(PLUS, nil)
	case '-':
		return mk(MINUS, nil)
	case '*':
		return mk(STAR, nil)
	case '/':
		return mk(SLASH, nil)
	case '%':
		return mk(PERCENT, nil)
	case '^':
		return mk(CIRCUMFLEX, nil)
	case '~':
		return mk(TILDE, nil)
	case '.':
		return mk(DOT, nil)
	case ',':
		return mk(COMMA, nil)
	case ';':
		return mk(SEMI, nil)
	case ':':
		return mk(COLON, nil)
	case '(':
		return mk(LPAREN, nil)
	case ')':
		return mk(RPAREN, nil)
	case '[':
		return mk(LBRACK, nil)
	case ']':
		return mk(RBRACK, nil)
	case '{':
		return mk(LBRACE, nil)
	case '}':
		return mk(RBRACE, nil)
	case '&':
		return two('&', ANDAND, AMP)
	case '|':
		return two('|', OROR, PIPE)
	case '!':
		return two('=', NEQ, BANG)
	case '<':
		return two('=', LE, LT)
	case '>':
		return two('=', GE, GT)
	case '=':
		switch sc.peekRune() {
		case '=':
			sc.readRune()
			return mk(EQL, nil)
		case '>':
			sc.readRune()
			return mk(ARROW, nil)
		}
		return mk(EQ, nil)
	}

	sc.errorf(start, "Bad character input: '%c'.", c)
	return mk(ILLEGAL, nil)
}

func (sc *scanner) skipSpaceAndComments() {
	for {
		c := sc.peekRune()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\v':
			sc.readRune()
		case c == '/' && len(sc.rest) > 1 && sc.rest[1] == '/':
			for c := sc.peekRune(); c != '\n' && c != 0; c = sc.peekRune() {
				sc.readRune()
			}
		case c == '/' && len(sc.rest) > 1 && sc.rest[1] == '*':
			start := sc.pos
			sc.readRune()
			sc.readRune()
			for {
				if len(sc.rest) == 0 {
					sc.errorf(start, "Unterminated comment.")
					return
				}
				if sc.rest[0] == '*' && len(sc.rest) > 1 && sc.rest[1] == '/' {
					sc.readRune()
					sc.readRune()
					break
				}
				sc.readRune()
			}
		default:
			return
		}
	}
}

// scanQuoted scans a string or char literal delimited by quote
// and returns its unescaped contents.
func (sc *scanner) scanQuoted(quote rune) string {
	start := sc.pos
	sc.readRune() // opening quote
	var buf strings.Builder
	for {
		c := sc.peekRune()
		switch c {
		case 0, '\n':
			if quote == '"' {
				sc.errorf(start, "Unterminated string literal.")
			} else {
				sc.errorf(start, "Unterminated char literal.")
			}
			return buf.String()
		case quote:
			sc.readRune()
			return buf.String()
		case '\\':
			sc.readRune()
			switch e := sc.readRune(); e {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			case '0':
				buf.WriteByte(0)
			case '\\', '"', '\'':
				buf.WriteRune(e)
			default:
				sc.errorf(sc.pos, "Invalid escape sequence '\\%c'.", e)
			}
		default:
			buf.WriteRune(sc.readRune())
		}
	}
}

func isDigit(c rune) bool      { return '0' <= c && c <= '9' }
func isIdentStart(c rune) bool { return c == '_' || c == '$' || unicode.IsLetter(c) }
func isIdent(c rune) bool      { return isIdentStart(c) || unicode.IsDigit(c) }
