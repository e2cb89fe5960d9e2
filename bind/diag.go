// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"fmt"
	"sort"

	"go.eaglelang.org/syntax"
)

// A Diagnostic is a semantic error reported by the binder,
// or a syntax error carried through from parsing.
type Diagnostic struct {
	Pos syntax.Position
	Msg string
}

func (d Diagnostic) Error() string { return d.Pos.String() + ": " + d.Msg }

// An ErrorList is a list of diagnostics.
type ErrorList []Diagnostic

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	p, q := l[i].Pos, l[j].Pos
	if p.Filename() != q.Filename() {
		return p.Filename() < q.Filename()
	}
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Sort sorts the list by position, preserving the order of
// diagnostics reported at the same position.
func (l ErrorList) Sort() { sort.Stable(l) }

// Syntax converts the error returned by the parser to a list of
// diagnostics. Errors that are not syntax errors are reported
// at an invalid position.
func Syntax(err error) ErrorList {
	switch err := err.(type) {
	case nil:
		return nil
	case syntax.ErrorList:
		l := make(ErrorList, len(err))
		for i, e := range err {
			l[i] = Diagnostic{e.Pos, e.Msg}
		}
		return l
	case syntax.Error:
		return ErrorList{{err.Pos, err.Msg}}
	}
	return ErrorList{{Msg: err.Error()}}
}

func (l *ErrorList) add(pos syntax.Position, format string, args ...interface{}) {
	*l = append(*l, Diagnostic{pos, fmt.Sprintf(format, args...)})
}
