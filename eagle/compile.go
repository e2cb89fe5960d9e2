// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eagle

import (
	"fmt"
	"io"
	"sort"

	"go.eaglelang.org/bind"
	"go.eaglelang.org/bound"
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

// A Compilation is one submission: a set of parsed files bound on
// top of the declarations of its previous submissions.
//
// Binding happens when the compilation is created; lowering happens
// on the first call to Program.
type Compilation struct {
	Script   bool // global statements form a script function returning a value
	Previous *Compilation
	Files    []*syntax.File

	syntaxErrors bind.ErrorList
	global       *bind.GlobalScope
	program      *bind.Program
}

// NewCompilation binds files on top of previous, which may be nil.
func NewCompilation(script bool, previous *Compilation, files ...*syntax.File) *Compilation {
	return newCompilation(script, previous, files, nil)
}

// CompileSource parses src and binds it on top of previous.
// The filename and src parameters are as for syntax.Parse.
//
// Syntax errors do not make CompileSource fail; they are reported,
// together with the semantic errors, by Errors. The error result is
// non-nil only if the source could not be read.
func CompileSource(script bool, previous *Compilation, filename string, src interface{}) (*Compilation, error) {
	f, err := syntax.Parse(filename, src)
	if f == nil {
		return nil, err
	}
	return newCompilation(script, previous, []*syntax.File{f}, bind.Syntax(err)), nil
}

// CompileFiles parses the named files and binds them as one unit on
// top of previous. Errors are reported as for CompileSource.
func CompileFiles(script bool, previous *Compilation, filenames ...string) (*Compilation, error) {
	var files []*syntax.File
	var errs bind.ErrorList
	for _, filename := range filenames {
		f, err := syntax.Parse(filename, nil)
		if f == nil {
			return nil, err
		}
		files = append(files, f)
		errs = append(errs, bind.Syntax(err)...)
	}
	return newCompilation(script, previous, files, errs), nil
}

// CompilePrelude compiles the declarations of the host intrinsics.
func CompilePrelude() *Compilation {
	c, err := CompileSource(true, nil, "<prelude>", Prelude)
	if err != nil {
		panic(err)
	}
	if err := c.Errors().Err(); err != nil {
		panic(err)
	}
	return c
}

func newCompilation(script bool, previous *Compilation, files []*syntax.File, syntaxErrors bind.ErrorList) *Compilation {
	var prev *bind.GlobalScope
	if previous != nil {
		prev = previous.global
	}
	return &Compilation{
		Script:       script,
		Previous:     previous,
		Files:        files,
		syntaxErrors: syntaxErrors,
		global:       bind.BindGlobalScope(script, prev, files),
	}
}

// GlobalScope returns the bound global scope of the submission.
func (c *Compilation) GlobalScope() *bind.GlobalScope { return c.global }

// Program returns the bound and lowered program of the submission.
func (c *Compilation) Program() *bind.Program {
	if c.program == nil {
		var prev *bind.Program
		if c.Previous != nil {
			prev = c.Previous.Program()
		}
		c.program = bind.BindProgram(prev, c.global)
	}
	return c.program
}

// Errors returns the diagnostics of the submission, sorted by
// position: the syntax errors and binding errors, or, if there are
// none, the errors found while lowering.
func (c *Compilation) Errors() bind.ErrorList {
	errs := append(append(bind.ErrorList(nil), c.syntaxErrors...), c.global.Errors...)
	if len(errs) == 0 {
		return c.Program().Errors
	}
	errs.Sort()
	return errs
}

// Exec evaluates the submission on thread, using globals as the
// global variable store. If the submission has errors it is not
// evaluated, and Exec returns them as a bind.ErrorList.
func (c *Compilation) Exec(thread *Thread, globals Globals) (Value, error) {
	if errs := c.Errors(); len(errs) > 0 {
		return nil, errs
	}
	return thread.Exec(c.Program(), globals)
}

// Symbols returns the functions and variables visible after this
// submission, most recent submission first. A name shadowed by a
// later submission is reported once.
func (c *Compilation) Symbols() []symbol.Symbol {
	seen := make(map[string]bool)
	var syms []symbol.Symbol
	for ; c != nil; c = c.Previous {
		for _, sym := range c.global.Symbols {
			switch sym.(type) {
			case *symbol.FunctionSymbol, *symbol.VariableSymbol:
				if !seen[sym.Name()] {
					seen[sym.Name()] = true
					syms = append(syms, sym)
				}
			}
		}
	}
	return syms
}

// WriteTree writes the bound, unlowered body of the entry point of
// the submission to w.
func (c *Compilation) WriteTree(w io.Writer) error {
	entry := c.global.Script
	if entry == nil {
		entry = c.global.Main
	}
	if entry == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s\n", entry); err != nil {
		return err
	}
	return bound.Fprint(w, c.global.Bodies[entry])
}

// WriteProgram writes every lowered body of the submission to w,
// in declaration order.
func (c *Compilation) WriteProgram(w io.Writer) error {
	p := c.Program()
	fns := make([]symbol.Invokable, 0, len(p.Bodies))
	for fn := range p.Bodies {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].ID() < fns[j].ID() })

	arena := c.global.Arena()
	for _, fn := range fns {
		name := fn.String()
		if m, ok := fn.(symbol.Member); ok {
			name = arena.Owner(m).Name() + "." + name
		}
		if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
			return err
		}
		if err := bound.Fprint(w, p.Bodies[fn]); err != nil {
			return err
		}
	}
	return nil
}
