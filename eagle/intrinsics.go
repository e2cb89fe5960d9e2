// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eagle

// This file defines the host intrinsics, the implementations of
// extern functions. An extern declaration is bound by name to one of
// a fixed set of intrinsics when it is first called.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.eaglelang.org/symbol"
)

// Prelude declares the extern functions provided by the host.
// Clients typically compile it as the first submission of a chain.
const Prelude = `extern Print(s: String)
extern Input(): String
extern StringLength(s: String): Int
extern Clock(): Int
extern Assert(cond: Bool, msg: String)
`

// An intrinsic is the host implementation of an extern function.
type intrinsic func(thread *Thread, fn *symbol.FunctionSymbol, args []Value) (Value, error)

var intrinsics = map[string]intrinsic{
	"Assert":       assert,
	"Clock":        clock,
	"Input":        input,
	"Print":        print_,
	"StringLength": stringLength,
}

// IsIntrinsic reports whether name is the name of a host intrinsic.
func IsIntrinsic(name string) bool {
	_, ok := intrinsics[name]
	return ok
}

func callIntrinsic(thread *Thread, fn *symbol.FunctionSymbol, args []Value) (Value, error) {
	impl, ok := intrinsics[fn.Name()]
	if !ok {
		return nil, fmt.Errorf("extern function %s is not provided by the host", fn.Name())
	}
	return impl(thread, fn, args)
}

// stringArg returns argument i of an intrinsic call, which must be a String.
func stringArg(fn *symbol.FunctionSymbol, args []Value, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s: missing argument %d", fn.Name(), i+1)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s: for parameter %d, got %s, want String", fn.Name(), i+1, TypeName(args[i]))
	}
	return s, nil
}

// Print(s) writes s and a newline to the thread's output.
// Arguments of other types are printed in their display form.
func print_(thread *Thread, fn *symbol.FunctionSymbol, args []Value) (Value, error) {
	var buf strings.Builder
	for i, arg := range args {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(String(arg))
	}
	if thread.Print != nil {
		thread.Print(thread, buf.String())
	} else {
		fmt.Println(buf.String())
	}
	return nil, nil
}

// Input() reads a line from the thread's input, without its newline.
// At end of input it returns the empty string.
func input(thread *Thread, fn *symbol.FunctionSymbol, args []Value) (Value, error) {
	if thread.Input != nil {
		return thread.Input(thread)
	}
	if thread.stdin == nil {
		thread.stdin = bufio.NewReader(os.Stdin)
	}
	line, err := thread.stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("Input: %v", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// StringLength(s) returns the number of characters of s.
func stringLength(thread *Thread, fn *symbol.FunctionSymbol, args []Value) (Value, error) {
	s, err := stringArg(fn, args, 0)
	if err != nil {
		return nil, err
	}
	return int64(utf8.RuneCountInString(s)), nil
}

// Clock() returns a monotonic time in milliseconds.
func clock(thread *Thread, fn *symbol.FunctionSymbol, args []Value) (Value, error) {
	ms, err := monotonicMillis()
	if err != nil {
		return nil, fmt.Errorf("Clock: %v", err)
	}
	return ms, nil
}

// Assert(cond, msg) fails with msg unless cond holds.
func assert(thread *Thread, fn *symbol.FunctionSymbol, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("Assert: got %d arguments, want 2", len(args))
	}
	if ok, _ := args[0].(bool); ok {
		return nil, nil
	}
	msg := "assertion failed: " + String(args[1])
	if thread.Fail != nil {
		thread.Fail(thread, msg)
		return nil, nil
	}
	return nil, fmt.Errorf("%s", msg)
}
