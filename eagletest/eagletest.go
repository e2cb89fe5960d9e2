// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eagletest defines utilities for testing Eagle programs.
//
// Clients can call SetReporter so that failed Assert calls in the
// program under test are reported to the current Go testing.T
// rather than stopping evaluation.
package eagletest // import "go.eaglelang.org/eagletest"

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"go.eaglelang.org/eagle"
)

// A Reporter is a value to which errors may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Error(args ...interface{})
}

// SetReporter arranges for failed assertions of the Eagle thread to be
// reported to r, with the position of the failing Assert call.
func SetReporter(thread *eagle.Thread, r Reporter) {
	thread.Fail = func(thread *eagle.Thread, msg string) {
		buf := new(strings.Builder)
		stk := thread.CallStack()
		stk.Pop() // the Assert intrinsic
		fmt.Fprintf(buf, "%sError: %s", stk, msg)
		r.Error(buf.String())
	}
}

// DataFile returns the effective filename of the specified
// test data resource, relative to the root of the module.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", pkgdir, filename)
}
