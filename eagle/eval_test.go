// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eagle_test

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"

	"go.eaglelang.org/bind"
	"go.eaglelang.org/eagle"
	"go.eaglelang.org/eagletest"
	"go.eaglelang.org/internal/chunkedfile"
	"go.eaglelang.org/symbol"
)

var prelude = eagle.CompilePrelude()

// exec compiles src as a script after the prelude and evaluates it.
func exec(thread *eagle.Thread, filename, src string) (eagle.Value, error) {
	c, err := eagle.CompileSource(true, prelude, filename, src)
	if err != nil {
		return nil, err
	}
	return c.Exec(thread, make(eagle.Globals))
}

func TestExecFile(t *testing.T) {
	testdata := eagletest.DataFile("eagle", ".")
	thread := &eagle.Thread{Name: "test"}
	eagletest.SetReporter(thread, t)
	for _, file := range []string{
		"testdata/control.eg",
		"testdata/object.eg",
		"testdata/value.eg",
	} {
		filename := filepath.Join(testdata, file)
		for _, chunk := range chunkedfile.Read(filename, t) {
			c, err := eagle.CompileSource(!chunk.Option("main"), prelude, filename, chunk.Source)
			if err == nil {
				_, err = c.Exec(thread, make(eagle.Globals))
			}
			switch err := err.(type) {
			case *eagle.EvalError:
				found := false
				for i := range err.CallStack {
					posn := err.CallStack.At(i).Pos
					if posn.Filename() == filename {
						chunk.GotError(int(posn.Line), err.Error())
						found = true
						break
					}
				}
				if !found {
					t.Error(err.Backtrace())
				}
			case bind.ErrorList:
				for _, d := range err {
					chunk.GotError(int(d.Pos.Line), d.Msg)
				}
			case nil:
				// success
			default:
				t.Errorf("\n%s", err)
			}
			chunk.Done()
		}
	}
}

func TestForSum(t *testing.T) {
	v, err := exec(new(eagle.Thread), "sum.eg", `
var result = 0
for i = 1 to 5 {
	result = result + i
}
result
`)
	require.NoError(t, err)
	require.Equal(t, int64(15), v)
}

func TestFactorial(t *testing.T) {
	v, err := exec(new(eagle.Thread), "fact.eg", `
f(n: Int): Int {
	if n <= 1 {
		return 1
	}
	return n * f(n - 1)
}
f(3)
`)
	require.NoError(t, err)
	require.Equal(t, int64(6), v)
}

func TestNoEvaluationOnError(t *testing.T) {
	printed := false
	thread := &eagle.Thread{
		Print: func(*eagle.Thread, string) { printed = true },
	}
	_, err := exec(thread, "bad.eg", `
Print("side effect")
let x: Int = "s"
`)
	require.Error(t, err)
	require.IsType(t, bind.ErrorList{}, err)
	require.Contains(t, err.Error(), "Cannot convert type 'String' to 'Int'.")
	require.False(t, printed, "program with errors was evaluated")
}

func TestPrint(t *testing.T) {
	const src = `
Print("hello")
f() { Print("world") }
f()
`
	buf := new(bytes.Buffer)
	print := func(thread *eagle.Thread, msg string) {
		caller := thread.CallFrame(1)
		fmt.Fprintf(buf, "%s: %s: %s\n", caller.Pos, caller.Name, msg)
	}
	thread := &eagle.Thread{Print: print}
	if _, err := exec(thread, "foo.eg", src); err != nil {
		t.Fatal(err)
	}
	want := "foo.eg:2:1: $eval: hello\n" +
		"foo.eg:3:7: f: world\n"
	if got := buf.String(); got != want {
		t.Errorf("output was %s, want %s", got, want)
	}
}

func TestInput(t *testing.T) {
	var out []string
	thread := &eagle.Thread{
		Input: func(*eagle.Thread) (string, error) { return "Ada", nil },
		Print: func(_ *eagle.Thread, msg string) { out = append(out, msg) },
	}
	_, err := exec(thread, "input.eg", `
let name = Input()
Print("hello, " + name + " (" + StringLength(name) + ")")
`)
	require.NoError(t, err)
	require.Equal(t, []string{"hello, Ada (3)"}, out)
}

func backtrace(t *testing.T, err error) string {
	switch err := err.(type) {
	case *eagle.EvalError:
		return err.Backtrace()
	case nil:
		t.Fatalf("Exec succeeded unexpectedly")
	default:
		t.Fatalf("Exec failed with %v, wanted *EvalError", err)
	}
	panic("unreachable")
}

func TestBacktrace(t *testing.T) {
	const src = `
g(x: Int): Int {
	return 10 / x
}
h(x: Int): Int {
	return g(x - 1)
}
h(1)
`
	_, err := exec(new(eagle.Thread), "crash.eg", src)
	const want = `Traceback (most recent call last):
  crash.eg:8:1: in $eval
  crash.eg:6:9: in h
  crash.eg:3:12: in g
Error: division by zero`
	if got := backtrace(t, err); got != want {
		t.Errorf("error was %s, want %s", got, want)
	}

	// Errors in intrinsics have a frame without a position.
	_, err = exec(new(eagle.Thread), "crash.eg", `
f() {
	Assert(false, "boom")
}
f()
`)
	const want2 = `Traceback (most recent call last):
  crash.eg:5:1: in $eval
  crash.eg:3:2: in f
  <builtin>: in Assert
Error: assertion failed: boom`
	if got := backtrace(t, err); got != want2 {
		t.Errorf("error was %s, want %s", got, want2)
	}
}

func TestTrace(t *testing.T) {
	var calls []string
	thread := &eagle.Thread{
		Print: func(*eagle.Thread, string) {},
		Trace: func(thread *eagle.Thread, fn symbol.Invokable, args []eagle.Value) {
			calls = append(calls, fmt.Sprintf("%d:%s%v", thread.CallStackDepth(), fn.Name(), args))
		},
	}
	_, err := exec(thread, "trace.eg", `
twice(n: Int): Int {
	return n * 2
}
Print("" + twice(21))
`)
	require.NoError(t, err)
	want := []string{"1:$eval[]", "2:twice[21]", "2:Print[42]"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

// TestGlobalsChaining evaluates successive submissions the way the
// REPL does: each is bound on top of the previous one and all share
// one global variable store.
func TestGlobalsChaining(t *testing.T) {
	thread := new(eagle.Thread)
	globals := make(eagle.Globals)
	prev := prelude
	for _, test := range []struct {
		src  string
		want eagle.Value
	}{
		{`var x = 1`, int64(1)},
		{`double(n: Int): Int { return n * 2 }`, nil},
		{`x = double(x + 20)`, int64(42)},
		{`x`, int64(42)},
		{`let x = "shadow"`, "shadow"},
		{`x + "!"`, "shadow!"},
	} {
		c, err := eagle.CompileSource(true, prev, "<stdin>", test.src)
		require.NoError(t, err)
		v, err := c.Exec(thread, globals)
		require.NoError(t, err, test.src)
		require.Equal(t, test.want, v, test.src)
		prev = c
	}

	require.Equal(t, []string{"x"}, globals.Names())
	v, ok := globals.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "shadow", v)
	require.Equal(t, `{x: "shadow"}`, globals.String())
}

// TestGlobalsTopLevel checks that only variables declared by
// top-level statements are exported from the global store.
func TestGlobalsTopLevel(t *testing.T) {
	c, err := eagle.CompileSource(true, prelude, "scopes.eg", `
let x = 1
{
	let x = 2
}
var s = 0
for i = 1 to 3 {
	s = s + i
}
`)
	require.NoError(t, err)
	globals := make(eagle.Globals)
	_, err = c.Exec(new(eagle.Thread), globals)
	require.NoError(t, err)

	require.Equal(t, []string{"s", "x"}, globals.Names())
	v, ok := globals.Lookup("x")
	require.True(t, ok)
	require.Equal(t, int64(1), v)
	_, ok = globals.Lookup("i")
	require.False(t, ok)
	require.Equal(t, `{x: 1, s: 6}`, globals.String())

	st, err := globals.Struct()
	require.NoError(t, err)
	require.Len(t, st.Fields, 2)

	// The next submission sees the same x.
	next, err := eagle.CompileSource(true, c, "<stdin>", `x`)
	require.NoError(t, err)
	v, err = next.Exec(new(eagle.Thread), globals)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestExecNilGlobals(t *testing.T) {
	c, err := eagle.CompileSource(true, prelude, "nil.eg", "var x = 1\nx")
	require.NoError(t, err)
	v, err := c.Exec(new(eagle.Thread), nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestExecMain(t *testing.T) {
	var out []string
	thread := &eagle.Thread{
		Print: func(_ *eagle.Thread, msg string) { out = append(out, msg) },
	}
	c, err := eagle.CompileSource(false, prelude, "main.eg", `
greet(who: String) {
	Print("hello, " + who)
}

main() {
	greet("world")
}
`)
	require.NoError(t, err)
	v, err := c.Exec(thread, make(eagle.Globals))
	require.NoError(t, err)
	require.Nil(t, v)
	require.Equal(t, []string{"hello, world"}, out)

	// A program without main or global statements does nothing.
	c, err = eagle.CompileSource(false, prelude, "lib.eg", `f() {}`)
	require.NoError(t, err)
	v, err = c.Exec(thread, make(eagle.Globals))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestRepeatedExec(t *testing.T) {
	c, err := eagle.CompileSource(true, prelude, "repeat.eg", `
var n = 0
for i = 1 to 3 {
	n = n + i
}
n
`)
	require.NoError(t, err)
	thread := new(eagle.Thread)
	for i := 0; i < 3; i++ {
		v, err := c.Exec(thread, make(eagle.Globals))
		require.NoError(t, err)
		require.Equal(t, int64(6), v)
	}
}

func TestWriteProgram(t *testing.T) {
	c, err := eagle.CompileSource(true, prelude, "w.eg", `
var y = 0
while y < 3 {
	y = y + 1
}
`)
	require.NoError(t, err)
	require.Empty(t, c.Errors())

	var tree, prog strings.Builder
	require.NoError(t, c.WriteTree(&tree))
	require.NoError(t, c.WriteProgram(&prog))
	require.Contains(t, tree.String(), "while y < 3")
	require.NotContains(t, tree.String(), "goto")
	require.Contains(t, prog.String(), "goto")
	require.NotContains(t, prog.String(), "while")
}

func TestToProto(t *testing.T) {
	c, err := eagle.CompileSource(true, prelude, "proto.eg", `
object Point {
	x: Int
	y: Int
	label: String = "p"
	next: Point
}
var p = new Point()
p.x = 3
var big = (UInt)(-1)
var ch = 'z'
var ok = true
`)
	require.NoError(t, err)
	globals := make(eagle.Globals)
	_, err = c.Exec(new(eagle.Thread), globals)
	require.NoError(t, err)

	got, err := globals.Struct()
	require.NoError(t, err)
	want := &structpb.Struct{Fields: map[string]*structpb.Value{
		"p": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"x":     structpb.NewNumberValue(3),
			"y":     structpb.NewNumberValue(0),
			"label": structpb.NewStringValue("p"),
			"next":  structpb.NewNullValue(),
		}}),
		"big": structpb.NewStringValue("18446744073709551615"),
		"ch":  structpb.NewStringValue("z"),
		"ok":  structpb.NewBoolValue(true),
	}}
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("Struct mismatch (-want +got):\n%s", diff)
	}
}

func TestToProtoCycle(t *testing.T) {
	c, err := eagle.CompileSource(true, prelude, "cycle.eg", `
object Node {
	next: Node
}
var n = new Node()
n.next = n
`)
	require.NoError(t, err)
	globals := make(eagle.Globals)
	_, err = c.Exec(new(eagle.Thread), globals)
	require.NoError(t, err)

	_, err = globals.Struct()
	require.EqualError(t, err, "n: cannot export cyclic Node object")

	v, _ := globals.Lookup("n")
	require.Equal(t, "Node{next: ...}", eagle.String(v))
}

func TestCancel(t *testing.T) {
	// A thread cancelled before it begins executes no code.
	{
		thread := new(eagle.Thread)
		thread.Cancel("nope")
		_, err := exec(thread, "precancel.eg", `let x = 1 / 0`)
		if fmt.Sprint(err) != "Eagle computation cancelled: nope" {
			t.Errorf("execution returned error %q, want cancellation", err)
		}

		// cancellation is sticky
		_, err = exec(thread, "precancel.eg", `let x = 1 / 0`)
		if fmt.Sprint(err) != "Eagle computation cancelled: nope" {
			t.Errorf("execution returned error %q, want cancellation", err)
		}
	}
	// A thread cancelled during an intrinsic executes no more code.
	{
		thread := &eagle.Thread{
			Print: func(thread *eagle.Thread, msg string) { thread.Cancel(msg) },
		}
		_, err := exec(thread, "stopit.eg", "Print(\"stop it\")\nlet x = 1 / 0")
		if fmt.Sprint(err) != "Eagle computation cancelled: stop it" {
			t.Errorf("execution returned error %q, want cancellation", err)
		}
	}
}
