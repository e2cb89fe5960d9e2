// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"
)

func scan(src string) (tokens string, err error) {
	sc := newScanner("foo.eg", []byte(src))
	var buf bytes.Buffer
	for _, t := range sc.scanAll() {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		switch t.tok {
		case EOF:
			buf.WriteString("EOF")
		case IDENT:
			buf.WriteString(t.raw)
		case INT:
			fmt.Fprintf(&buf, "%d", t.val)
		case STRING:
			buf.WriteString(strconv.Quote(t.val.(string)))
		case CHAR:
			buf.WriteString(strconv.QuoteRune(t.val.(rune)))
		default:
			buf.WriteString(t.tok.String())
		}
	}
	if len(sc.errs) > 0 {
		return "", sc.errs[0]
	}
	return buf.String(), nil
}

func TestScanner(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, "EOF"},
		{`123`, "123 EOF"},
		{`1_000`, "1000 EOF"},
		{`x.y`, "x . y EOF"},
		{`Print("hello")`, `Print ( "hello" ) EOF`},
		{`let x = 1; var y = x`, "let x = 1 ; var y = x EOF"},
		{`a && b || !c`, "a && b || ! c EOF"},
		{`a & b | c ^ ~d`, "a & b | c ^ ~ d EOF"},
		{`a == b != c <= d >= e < f > g`, "a == b != c <= d >= e < f > g EOF"},
		{`p: Int => 1`, "p : Int => 1 EOF"},
		{`for i = 1 to 5 { }`, "for i = 1 to 5 { } EOF"},
		{`object Point { ctor() {} }`, "object Point { ctor ( ) { } } EOF"},
		{`x: Int8*`, "x : Int8 * EOF"},
		{"a // comment\nb", "a b EOF"},
		{"a /* multi\nline */ b", "a b EOF"},
		{`"a\nb\t\"c\""`, `"a\nb\t\"c\"" EOF`},
		{`'x'`, `'x' EOF`},
		{`'\n'`, `'\n' EOF`},
		{`$eval`, "$eval EOF"},
		{"a\r\nb", "a b EOF"},
		{`"abc`, "foo.eg:1:1: Unterminated string literal."},
		{"\"abc\ndef\"", "foo.eg:1:1: Unterminated string literal."},
		{`'ab'`, "foo.eg:1:1: Char literal must contain exactly one character."},
		{`x # y`, "foo.eg:1:3: Bad character input: '#'."},
		{`"\q"`, `foo.eg:1:4: Invalid escape sequence '\q'.`},
		{`99999999999999999999`, "foo.eg:1:1: The number 99999999999999999999 isn't valid Int."},
		{"/* open", "foo.eg:1:1: Unterminated comment."},
	} {
		got, err := scan(test.input)
		if err != nil {
			got = err.Error()
		}
		if test.want != got {
			t.Errorf("scan `%s` = [%s], want [%s]", test.input, got, test.want)
		}
	}
}

func TestPositions(t *testing.T) {
	sc := newScanner("foo.eg", []byte("let x =\n  \"é\" + y"))
	var got []string
	for _, t := range sc.scanAll() {
		got = append(got, fmt.Sprintf("%s@%d:%d-%d:%d", t.tok, t.pos.Line, t.pos.Col, t.end.Line, t.end.Col))
	}
	want := []string{
		"let@1:1-1:4",
		"identifier@1:5-1:6",
		"=@1:7-1:8",
		"string literal@2:3-2:6",
		"+@2:7-2:8",
		"identifier@2:9-2:10",
		"end of file@2:10-2:10",
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("positions:\ngot  %v\nwant %v", got, want)
	}
}

func TestKeywords(t *testing.T) {
	for tok := ALIAS; tok < maxToken; tok++ {
		name := tok.String()
		if keywordToken[name] != tok {
			t.Errorf("keyword %q does not map to its token", name)
		}
	}
	if tok := Token(PLUS); fmt.Sprintf("%#v", tok) != "'+'" {
		t.Errorf("GoString(PLUS) = %#v", tok)
	}
}
