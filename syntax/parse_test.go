// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"go.eaglelang.org/internal/chunkedfile"
	"go.eaglelang.org/syntax"
)

func TestExprParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`Print(1)`,
			`(CallExpr Fn=Print Args=(1))`},
		{`x + 1`,
			`(BinaryExpr X=x Op=+ Y=1)`},
		{`x.f()`,
			`(CallExpr Fn=(DotExpr X=x Name=f))`},
		{`x[i].f(42)`,
			`(CallExpr Fn=(DotExpr X=(IndexExpr X=x Args=(i)) Name=f) Args=(42))`},
		{`x+y*z`,
			`(BinaryExpr X=x Op=+ Y=(BinaryExpr X=y Op=* Y=z))`},
		{`x%y-z`,
			`(BinaryExpr X=(BinaryExpr X=x Op=% Y=y) Op=- Y=z)`},
		{`a || b && c`,
			`(BinaryExpr X=a Op=|| Y=(BinaryExpr X=b Op=&& Y=c))`},
		{`a | b ^ c & d`,
			`(BinaryExpr X=a Op=| Y=(BinaryExpr X=b Op=^ Y=(BinaryExpr X=c Op=& Y=d)))`},
		{`a == b < c`,
			`(BinaryExpr X=a Op=== Y=(BinaryExpr X=b Op=< Y=c))`},
		{`a - b - c`,
			`(BinaryExpr X=(BinaryExpr X=a Op=- Y=b) Op=- Y=c)`},
		{`-x * !y`,
			`(BinaryExpr X=(UnaryExpr Op=- X=x) Op=* Y=(UnaryExpr Op=! X=y))`},
		{`a = b = 1`,
			`(AssignExpr LHS=a RHS=(AssignExpr LHS=b RHS=1))`},
		{`p.x = 3`,
			`(AssignExpr LHS=(DotExpr X=p Name=x) RHS=3)`},
		{`(Int8)x`,
			`(CastExpr Type=Int8 X=x)`},
		{`(String)(1 + 2)`,
			`(CastExpr Type=String X=(ParenExpr X=(BinaryExpr X=1 Op=+ Y=2)))`},
		{`(x) - 1`,
			`(BinaryExpr X=(ParenExpr X=x) Op=- Y=1)`},
		{`(UInt8*)p`,
			`(CastExpr Type=UInt8* X=p)`},
		{`new Point(1, 2)`,
			`(NewExpr Type=Point Args=(1 2))`},
		{`this.x`,
			`(DotExpr X=(ThisExpr) Name=x)`},
		{`"hi"`,
			`"hi"`},
		{`'c'`,
			`'c'`},
		{`true && false`,
			`(BinaryExpr X=true Op=&& Y=false)`},
		{`f(`,
			`Unexpected token end of file, expected ')'.`},
		{`1 +`,
			`Unexpected token end of file, expected expression.`},
		{`a b`,
			`Unexpected token identifier, expected end of file.`},
	} {
		e, err := syntax.ParseExpr("foo.eg", test.input)
		var got string
		if err != nil {
			got = stripPos(err)
		} else {
			got = treeString(e)
		}
		if test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestStmtParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`Print(1)`,
			`(ExprStmt X=(CallExpr Fn=Print Args=(1)))`},
		{`return 1`,
			`(ReturnStmt Result=1)`},
		{`return`,
			`(ReturnStmt)`},
		{`let x = 1`,
			`(VarDecl Token=let Name=x Init=1)`},
		{`var x: Int16 = 1`,
			`(VarDecl Token=var Name=x Type=Int16 Init=1)`},
		{`if x { break } else continue`,
			`(IfStmt Cond=x Then=(BlockStmt Stmts=((BranchStmt Token=break))) Else=(BranchStmt Token=continue))`},
		{`while x < 10 x = x + 1`,
			`(WhileStmt Cond=(BinaryExpr X=x Op=< Y=10) Body=(ExprStmt X=(AssignExpr LHS=x RHS=(BinaryExpr X=x Op=+ Y=1))))`},
		{`loop { break }`,
			`(LoopStmt Body=(BlockStmt Stmts=((BranchStmt Token=break))))`},
		{`for i = 1 to 5 { x = x + i }`,
			`(ForStmt Var=i Lower=1 Upper=5 Body=(BlockStmt Stmts=((ExprStmt X=(AssignExpr LHS=x RHS=(BinaryExpr X=x Op=+ Y=i))))))`},
		{`f(n: Int): Int { return n }`,
			`(FuncDecl Prototype=(Prototype Name=f Params=((Param Name=n Type=Int)) Result=Int) Body=(BlockStmt Stmts=((ReturnStmt Result=n))))`},
		{`main() { }`,
			`(FuncDecl Prototype=(Prototype Name=main) Body=(BlockStmt))`},
		{`extern Print(text: String)`,
			`(ExternDecl Prototype=(Prototype Name=Print Params=((Param Name=text Type=String))))`},
		{`alias Handle = Int64`,
			`(AliasDecl Name=Handle Type=Int64)`},
		{`const N: Int = 3 * 4`,
			`(ConstDecl Name=N Type=Int Value=(BinaryExpr X=3 Op=* Y=4))`},
		{`object P : Base { x: Int = 1; y: Int }`,
			`(ObjectDecl Token=object Name=P Bases=(Base) Members=((FieldDecl Name=x Type=Int Init=1) (FieldDecl Name=y Type=Int)))`},
		{`struct P { ctor(a: Int) { } }`,
			`(ObjectDecl Token=struct Name=P Members=((CtorDecl Prototype=(Prototype Name=ctor Params=((Param Name=a Type=Int))) Body=(BlockStmt))))`},
		{`class P { m(): Int { return 1 } }`,
			`(ObjectDecl Token=class Name=P Members=((MethodDecl Prototype=(Prototype Name=m Result=Int) Body=(BlockStmt Stmts=((ReturnStmt Result=1))))))`},
		{`object P { n: Int => 1 }`,
			`(ObjectDecl Token=object Name=P Members=((PropertyDecl Name=n Type=Int Get=(BlockStmt Stmts=((ReturnStmt Result=1))))))`},
		{`object P { n: Int { get => 1 set { } } }`,
			`(ObjectDecl Token=object Name=P Members=((PropertyDecl Name=n Type=Int Get=(BlockStmt Stmts=((ReturnStmt Result=1))) Set=(BlockStmt))))`},
		{`object P { [i: Int]: Int => i }`,
			`(ObjectDecl Token=object Name=P Members=((IndexerDecl Params=((Param Name=i Type=Int)) Type=Int Get=(BlockStmt Stmts=((ReturnStmt Result=i))))))`},
	} {
		f, err := syntax.Parse("foo.eg", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		if got := treeString(f.Stmts[0]); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

// TestFileParseTrees tests sequences of statements, and particularly
// the distinction between declarations and calls at top level.
func TestFileParseTrees(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{`var x = 0; for i = 1 to 5 { x = x + i } x`,
			`(VarDecl Token=var Name=x Init=0)
(ForStmt Var=i Lower=1 Upper=5 Body=(BlockStmt Stmts=((ExprStmt X=(AssignExpr LHS=x RHS=(BinaryExpr X=x Op=+ Y=i))))))
(ExprStmt X=x)`},
		{`f(n: Int): Int { return n }
f(3)`,
			`(FuncDecl Prototype=(Prototype Name=f Params=((Param Name=n Type=Int)) Result=Int) Body=(BlockStmt Stmts=((ReturnStmt Result=n))))
(ExprStmt X=(CallExpr Fn=f Args=(3)))`},
		{`g() { }
g()`,
			`(FuncDecl Prototype=(Prototype Name=g) Body=(BlockStmt))
(ExprStmt X=(CallExpr Fn=g))`},
		{`f() {
	return
}`,
			`(FuncDecl Prototype=(Prototype Name=f) Body=(BlockStmt Stmts=((ReturnStmt))))`},
		{"a;;b",
			`(ExprStmt X=a)
(ExprStmt X=b)`},
	} {
		f, err := syntax.Parse("foo.eg", test.input)
		if err != nil {
			t.Errorf("parse `%s` failed: %v", test.input, stripPos(err))
			continue
		}
		var buf bytes.Buffer
		for i, stmt := range f.Stmts {
			if i > 0 {
				buf.WriteByte('\n')
			}
			writeTree(&buf, reflect.ValueOf(stmt))
		}
		if got := buf.String(); test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

// TestCompoundStmt tests handling of REPL-style submissions.
func TestCompoundStmt(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		// blank lines
		{"\n",
			``},
		{"   \n",
			``},
		// simple statements
		{"1\n",
			`(ExprStmt X=1)`},
		{"Print(1)\n",
			`(ExprStmt X=(CallExpr Fn=Print Args=(1)))`},
		{"1;2;3;\n",
			`(ExprStmt X=1)(ExprStmt X=2)(ExprStmt X=3)`},
		// multi-line input continues until complete
		{"f(n: Int): Int {\n  return n\n}\n",
			`(FuncDecl Prototype=(Prototype Name=f Params=((Param Name=n Type=Int)) Result=Int) Body=(BlockStmt Stmts=((ReturnStmt Result=n))))`},
		{"Print(\n1\n)\n",
			`(ExprStmt X=(CallExpr Fn=Print Args=(1)))`},
		// a blank line ends an incomplete submission
		{"if x {\n\n",
			`Unexpected token end of file, expected '}'.`},
	} {
		// Fake readline input from string.
		// The @ suffix, which would cause a scan error,
		// tests that the parser doesn't read more than necessary.
		sc := bufio.NewScanner(strings.NewReader(test.input + "@"))
		readline := func() ([]byte, error) {
			if sc.Scan() {
				return []byte(sc.Text() + "\n"), nil
			}
			return nil, sc.Err()
		}

		var got string
		f, err := syntax.ParseCompoundStmt("foo.eg", readline)
		if err != nil {
			got = stripPos(err)
		} else {
			for _, stmt := range f.Stmts {
				got += treeString(stmt)
			}
		}
		if test.want != got {
			t.Errorf("parse `%s` = %s, want %s", test.input, got, test.want)
		}
	}
}

func stripPos(err error) string {
	s := err.Error()
	if i := strings.Index(s, ": "); i >= 0 {
		s = s[i+len(": "):] // strip file:line:col
	}
	return s
}

// treeString prints a syntax node as a parenthesized tree.
// Idents are printed as foo and Literals as "foo" or 42.
// Structs are printed as (type name=value ...).
// Only non-empty fields are shown.
func treeString(n syntax.Node) string {
	var buf bytes.Buffer
	writeTree(&buf, reflect.ValueOf(n))
	return buf.String()
}

func writeTree(out *bytes.Buffer, x reflect.Value) {
	switch x.Kind() {
	case reflect.String, reflect.Int, reflect.Bool:
		fmt.Fprintf(out, "%v", x.Interface())
	case reflect.Ptr, reflect.Interface:
		if elem := x.Elem(); elem.Kind() == 0 {
			out.WriteString("nil")
		} else {
			writeTree(out, elem)
		}
	case reflect.Struct:
		switch v := x.Interface().(type) {
		case syntax.Literal:
			switch v.Token {
			case syntax.STRING:
				fmt.Fprintf(out, "%q", v.Value)
			case syntax.CHAR:
				fmt.Fprintf(out, "%q", v.Value)
			default:
				fmt.Fprintf(out, "%v", v.Value)
			}
			return
		case syntax.Ident:
			out.WriteString(v.Name)
			return
		case syntax.TypeRef:
			out.WriteString(v.Name.Name + strings.Repeat("*", v.Stars))
			return
		}
		fmt.Fprintf(out, "(%s", strings.TrimPrefix(x.Type().String(), "syntax."))
		for i, n := 0, x.NumField(); i < n; i++ {
			f := x.Field(i)
			if f.Type() == reflect.TypeOf(syntax.Position{}) {
				continue // skip positions
			}
			name := x.Type().Field(i).Name
			if f.Type() == reflect.TypeOf(syntax.Token(0)) {
				fmt.Fprintf(out, " %s=%s", name, f.Interface())
				continue
			}

			switch f.Kind() {
			case reflect.Slice:
				if n := f.Len(); n > 0 {
					fmt.Fprintf(out, " %s=(", name)
					for i := 0; i < n; i++ {
						if i > 0 {
							out.WriteByte(' ')
						}
						writeTree(out, f.Index(i))
					}
					out.WriteByte(')')
				}
				continue
			case reflect.Ptr, reflect.Interface:
				if f.IsNil() {
					continue
				}
			case reflect.Int:
				if f.Int() != 0 {
					fmt.Fprintf(out, " %s=%d", name, f.Int())
				}
				continue
			case reflect.Bool:
				if f.Bool() {
					fmt.Fprintf(out, " %s", name)
				}
				continue
			}
			fmt.Fprintf(out, " %s=", name)
			writeTree(out, f)
		}
		fmt.Fprintf(out, ")")
	default:
		fmt.Fprintf(out, "%T", x.Interface())
	}
}

func TestParseErrors(t *testing.T) {
	filename := dataFile("syntax", "testdata/errors.eg")
	for _, chunk := range chunkedfile.Read(filename, t) {
		_, err := syntax.Parse(filename, chunk.Source)
		switch err := err.(type) {
		case nil:
			// ok
		case syntax.ErrorList:
			for _, err := range err {
				chunk.GotError(int(err.Pos.Line), err.Msg)
			}
		default:
			t.Error(err)
		}
		chunk.Done()
	}
}

func TestSpans(t *testing.T) {
	f, err := syntax.Parse("foo.eg", "\n  f(n: Int): Int { return n }")
	if err != nil {
		t.Fatal(err)
	}
	span := fmt.Sprint(f.Stmts[0].Span())
	want := "foo.eg:2:3 foo.eg:2:30"
	if span != want {
		t.Errorf("wrong span: got %q, want %q", span, want)
	}
}

// dataFile is the same as eagletest.DataFile.
// We make a copy to avoid a dependency cycle.
var dataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", pkgdir, filename)
}

func BenchmarkParse(b *testing.B) {
	filename := dataFile("syntax", "testdata/bench.eg")
	b.StopTimer()
	data, err := os.ReadFile(filename)
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		_, err := syntax.Parse(filename, data)
		if err != nil {
			b.Fatal(err)
		}
	}
}
