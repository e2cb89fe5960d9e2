// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/eval/print loop for Eagle.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// Each submission is compiled in script mode on top of the previous
// successful submission, so declarations accumulate, and all
// submissions share one global variable store. The REPL reads lines
// until the input parses or a blank line is read. If the submission
// yields a value, the REPL prints it.
//
// Lines beginning with # are meta commands; see #help.
package repl // import "go.eaglelang.org/repl"

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"go.eaglelang.org/eagle"
	"go.eaglelang.org/syntax"
)

var interrupted = make(chan os.Signal, 1)

// REPL executes a read, eval, print loop.
//
// The first submission is bound on top of prelude, which declares
// the extern functions available to the session. While a submission
// is evaluated, a SIGINT (Control-C) cancels the thread; the session
// then continues with a fresh thread.
func REPL(thread *eagle.Thread, prelude *eagle.Compilation) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()

	s := NewSession(thread, prelude, os.Stdout)
	for {
		if err := rep(rl, s); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Eagle errors are printed.
func rep(rl *readline.Instance, s *Session) error {
	// readline returns EOF, ErrInterrupted, or a line including "\n".
	rl.SetPrompt(">>> ")
	next := func() ([]byte, error) {
		line, err := rl.Readline()
		rl.SetPrompt("... ")
		if err != nil {
			return nil, err
		}
		return []byte(line + "\n"), nil
	}

	done := make(chan struct{})
	defer close(done)
	thread := s.Thread
	go func() {
		select {
		case <-interrupted:
			thread.Cancel("interrupted")
		case <-done:
		}
	}()

	err := s.Submit(next)
	if err == io.EOF || err == readline.ErrInterrupt {
		return err
	}
	if err != nil {
		PrintError(err)
	}
	if e, ok := err.(*eagle.EvalError); ok && strings.HasPrefix(e.Msg, "Eagle computation cancelled") {
		// Cancellation is sticky; continue with a fresh thread.
		s.Thread = &eagle.Thread{
			Name:  thread.Name,
			Print: thread.Print,
			Input: thread.Input,
			Fail:  thread.Fail,
			Trace: thread.Trace,
		}
	}
	return nil
}

// A Session is the state of a REPL: the chain of submissions,
// the shared global variables and the display options.
type Session struct {
	Thread *eagle.Thread
	Out    io.Writer // destination of results and meta command output

	prelude     *eagle.Compilation
	previous    *eagle.Compilation
	globals     eagle.Globals
	showTree    bool
	showProgram bool
}

// NewSession returns a session whose first submission is bound on
// top of prelude.
func NewSession(thread *eagle.Thread, prelude *eagle.Compilation, out io.Writer) *Session {
	s := &Session{Thread: thread, Out: out, prelude: prelude}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.previous = s.prelude
	s.globals = make(eagle.Globals)
}

// Globals returns the global variables of the session.
func (s *Session) Globals() eagle.Globals { return s.globals }

// Submit reads one submission using readline, which returns one line
// (including its newline) per call, then compiles and evaluates it.
// It returns the error of readline, or the compilation or evaluation
// error of the submission.
func (s *Session) Submit(readline func() ([]byte, error)) error {
	first, err := readline()
	if err != nil {
		return err
	}
	if cmd := strings.TrimSpace(string(first)); strings.HasPrefix(cmd, "#") {
		return s.meta(cmd)
	}

	replay := true
	f, err := syntax.ParseCompoundStmt("<stdin>", func() ([]byte, error) {
		if replay {
			replay = false
			return first, nil
		}
		return readline()
	})
	if err != nil {
		return err // syntax error, or readline failed
	}
	if len(f.Stmts) == 0 {
		return nil
	}

	c := eagle.NewCompilation(true, s.previous, f)
	if errs := c.Errors(); len(errs) > 0 {
		return errs
	}
	if s.showTree {
		if err := c.WriteTree(s.Out); err != nil {
			return err
		}
	}
	if s.showProgram {
		if err := c.WriteProgram(s.Out); err != nil {
			return err
		}
	}

	// The declarations of a submission that fails at run time
	// remain visible to later ones.
	s.previous = c
	v, err := c.Exec(s.Thread, s.globals)
	if err != nil {
		return err
	}
	if v != nil {
		fmt.Fprintln(s.Out, eagle.Repr(v))
	}
	return nil
}

// metaCommands describes the meta commands, by name.
var metaCommands = map[string]string{
	"#cls":         "Clears the screen.",
	"#help":        "Shows this help.",
	"#reset":       "Forgets all previous submissions and variables.",
	"#showProgram": "Toggles display of the lowered program of each submission.",
	"#showTree":    "Toggles display of the bound tree of each submission.",
}

func (s *Session) meta(cmd string) error {
	switch cmd {
	case "#cls":
		fmt.Fprint(s.Out, "\x1b[2J\x1b[H")
	case "#help":
		names := make([]string, 0, len(metaCommands))
		for name := range metaCommands {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(s.Out, "%-14s %s\n", name, metaCommands[name])
		}
	case "#reset":
		s.reset()
	case "#showProgram":
		s.showProgram = !s.showProgram
		fmt.Fprintln(s.Out, showing(s.showProgram, "lowered programs"))
	case "#showTree":
		s.showTree = !s.showTree
		fmt.Fprintln(s.Out, showing(s.showTree, "bound trees"))
	default:
		return fmt.Errorf("invalid command %s; try #help", cmd)
	}
	return nil
}

func showing(on bool, what string) string {
	if on {
		return "Showing " + what + "."
	}
	return "Not showing " + what + "."
}

// PrintError prints the error to stderr,
// or its backtrace if it is an Eagle evaluation error.
func PrintError(err error) {
	if evalErr, ok := err.(*eagle.EvalError); ok {
		fmt.Fprintln(os.Stderr, evalErr.Backtrace())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
