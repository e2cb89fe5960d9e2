// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that source code
// errors are reported in the appropriate places.
//
// A chunked file consists of several chunks of input text separated by
// "---" lines.  Each chunk is an input to the program under test, such
// as the binder.  Lines containing "###" are interpreted as
// expectations of failure: the following text is a sequence of Go
// string literals, each denoting a regular expression that should
// match one failure message reported on that line, in order.
//
// Example:
//
//	let x: Int = "abc" ### "Cannot convert type 'String' to 'Int'."
//	---
//	var y = 1
//	Print(y + z) ### "Symbol 'z' doesn't exist."
//
// A chunk may also contain "option:name" markers, which a client can
// test with Option to configure the program under test.
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each error that actually occurred.  Any
// discrepancy between the actual and expected errors is reported using
// the client's reporter, which is typically a testing.T.
package chunkedfile // import "go.eaglelang.org/internal/chunkedfile"

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"text/scanner"
)

const debug = false

// A Chunk is a portion of a source file.
// It contains a set of expected errors.
type Chunk struct {
	Source   string
	filename string
	report   Reporter
	wantErrs map[int][]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Error messages of the form "file.eg:line:col: ..." are prefixed
// by a newline so that the Go source position added by (*testing.T).Errorf
// appears on a separate line so as not to confused editors.
func Read(filename string, report Reporter) (chunks []Chunk) {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}
	eol := "\n"
	if runtime.GOOS == "windows" {
		eol = "\r\n"
	}
	return readBytes(filename, data, report, eol)
}

func readBytes(filename string, data []byte, report Reporter, eol string) (chunks []Chunk) {
	linenum := 1
	for i, chunk := range strings.Split(string(data), eol+"---"+eol) {
		if debug {
			fmt.Printf("chunk %d at line %d: %s\n", i, linenum, chunk)
		}
		// Pad with newlines so the line numbers match the original file.
		src := strings.Repeat("\n", linenum-1) + chunk

		wantErrs := make(map[int][]*regexp.Regexp)

		// Parse comments of the form:
		// ### "expected error" ["another expected error" ...]
		lines := strings.Split(chunk, "\n")
		for j := 0; j < len(lines); j, linenum = j+1, linenum+1 {
			line := lines[j]
			hashes := strings.Index(line, "###")
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len("###"):])
			patterns, err := unquoteAll(rest)
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, rest)
				continue
			}
			for _, pattern := range patterns {
				rx, err := regexp.Compile(pattern)
				if err != nil {
					report.Errorf("\n%s:%d: %v", filename, linenum, err)
					continue
				}
				wantErrs[linenum] = append(wantErrs[linenum], rx)
				if debug {
					fmt.Printf("\t%d\t%s\n", linenum, rx)
				}
			}
		}
		linenum++

		chunks = append(chunks, Chunk{src, filename, report, wantErrs})
	}
	return chunks
}

// unquoteAll splits s into a sequence of Go string literals.
func unquoteAll(s string) ([]string, error) {
	var sc scanner.Scanner
	sc.Init(strings.NewReader(s))
	sc.Mode = scanner.ScanStrings | scanner.ScanRawStrings
	sc.Error = func(*scanner.Scanner, string) {}
	var out []string
	for tok := sc.Scan(); tok != scanner.EOF; tok = sc.Scan() {
		if tok != scanner.String && tok != scanner.RawString {
			return nil, fmt.Errorf("unexpected %s", sc.TokenText())
		}
		str, err := strconv.Unquote(sc.TokenText())
		if err != nil {
			return nil, err
		}
		out = append(out, str)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no pattern")
	}
	return out, nil
}

// Option reports whether the chunk contains the marker "option:name".
func (chunk *Chunk) Option(name string) bool {
	return strings.Contains(chunk.Source, "option:"+name)
}

// GotError should be called by the client to report an error at a particular line.
// GotError reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(linenum int, msg string) {
	if rxs, ok := chunk.wantErrs[linenum]; ok {
		rx := rxs[0]
		if len(rxs) == 1 {
			delete(chunk.wantErrs, linenum)
		} else {
			chunk.wantErrs[linenum] = rxs[1:]
		}
		if !rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%d: error %q does not match pattern %q", chunk.filename, linenum, msg, rx)
		}
	} else {
		chunk.report.Errorf("\n%s:%d: unexpected error: %v", chunk.filename, linenum, msg)
	}
}

// Done should be called by the client to indicate that the chunk has no more errors.
// Done reports expected errors that did not occur to the chunk's reporter.
func (chunk *Chunk) Done() {
	for linenum, rxs := range chunk.wantErrs {
		for _, rx := range rxs {
			chunk.report.Errorf("\n%s:%d: expected error matching %q", chunk.filename, linenum, rx)
		}
	}
}
