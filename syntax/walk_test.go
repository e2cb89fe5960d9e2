package syntax_test

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"

	"go.eaglelang.org/syntax"
)

func TestWalk(t *testing.T) {
	const src = `
for i = 1 to n {
	if x {
		break
	} else {
		f(2 * x, "abc")
	}
}
`
	f, err := syntax.Parse("hello.eg", src)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
File
  ForStmt
    Ident
    Literal
    Ident
    BlockStmt
      IfStmt
        Ident
        BlockStmt
          BranchStmt
        BlockStmt
          ExprStmt
            CallExpr
              Ident
              BinaryExpr
                Literal
                Ident
              Literal`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the identifiers in an Eagle source file
// containing a nonsense program with varied grammar.
func ExampleWalk() {
	const src = `
extern a(b: c)

alias d = e

object f : g {
	h: i = j
	k(): l { return m.n[o] }
}

p(q: r*): s {
	let t = (u)v
	return -w
}
`
	f, err := syntax.Parse("hello.eg", src)
	if err != nil {
		log.Fatal(err)
	}

	var idents []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// Output:
	// a b c d e f g h i j k l m n o p q r s t u v w
}
