// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bind implements the Eagle binder: the semantic analysis that
// turns syntax trees into a typed bound tree, reporting every static
// error it finds.
//
// Binding a compilation unit proceeds in three passes over its
// top-level declarations. The first declares user-defined types and
// aliases; the second declares functions, resolves base types and
// declares the members of each type, then locks it; the third binds
// constants, global statements and the body of every function, method,
// constructor and accessor.
//
// BindGlobalScope performs the three passes for one submission,
// BindProgram lowers the bodies it bound and assembles the Program
// consumed by the evaluator. Both may be chained: each submission sees
// the declarations of all previous ones.
package bind // import "go.eaglelang.org/bind"

import (
	"go.eaglelang.org/bound"
	"go.eaglelang.org/internal/lower"
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

// Dialect options.
var (
	// AllowGlobalStatements permits statements at top level outside
	// script mode, where they form the body of a synthesized main.
	AllowGlobalStatements = true
)

// Names of the synthesized entry points.
const (
	MainName   = "main"
	ScriptName = "$eval"
)

// A context is the state shared by a chain of submissions: they all
// allocate symbols in one arena and use one set of built-in types.
type context struct {
	arena  *symbol.Arena
	types  *symbol.TypeRegistry
	ops    *bound.Operators
	labels *bound.LabelGen
}

func newContext() *context {
	arena := symbol.NewArena()
	types := symbol.NewTypeRegistry(arena)
	return &context{
		arena:  arena,
		types:  types,
		ops:    bound.NewOperators(types),
		labels: new(bound.LabelGen),
	}
}

// A GlobalScope is the result of binding one submission.
type GlobalScope struct {
	Previous *GlobalScope
	Errors   ErrorList

	// Symbols holds the top-level symbols declared by this
	// submission, in declaration order.
	Symbols []symbol.Symbol

	// Stmts holds the bound global statements.
	Stmts []bound.Stmt

	// Main or Script, if non-nil, is the entry point whose body is
	// formed from the global statements. At most one is set.
	Main   *symbol.FunctionSymbol
	Script *symbol.FunctionSymbol

	// Bodies maps each invokable declared by this submission,
	// and its entry point, to its bound body before lowering.
	Bodies map[symbol.Invokable]*bound.Block

	// FieldInits maps fields with an initializer to its bound form.
	// The initializer is evaluated with the new object as receiver.
	FieldInits map[*symbol.FieldSymbol]bound.Expr

	funcs []*function // Bodies in binding order
	ctx   *context
}

// Arena returns the arena of the compilation.
func (g *GlobalScope) Arena() *symbol.Arena { return g.ctx.arena }

// Types returns the built-in types of the compilation.
func (g *GlobalScope) Types() *symbol.TypeRegistry { return g.ctx.types }

// Scope returns a fresh scope chain exposing the built-in types and
// the declarations of g and all previous submissions.
func (g *GlobalScope) Scope() *symbol.Scope { return parentScope(g.ctx, g) }

// A function is an invokable whose body is bound in the third pass.
type function struct {
	sym   symbol.Invokable
	pos   syntax.Position
	scope *symbol.Scope // scope enclosing the parameters
	body  *syntax.BlockStmt
}

// BindGlobalScope binds the files of one submission on top of
// previous, which may be nil. In script mode the global statements
// form the body of a function named $eval whose result is the value of
// the submission.
//
// The result is never nil; its Errors field holds the diagnostics.
func BindGlobalScope(script bool, previous *GlobalScope, files []*syntax.File) *GlobalScope {
	ctx := newContext()
	if previous != nil {
		ctx = previous.ctx
	}
	b := &binder{
		ctx:     ctx,
		arena:   ctx.arena,
		types:   ctx.types,
		script:  script,
		aliases: make(map[*symbol.AliasSymbol]*aliasDecl),
		g: &GlobalScope{
			Previous:   previous,
			Bodies:     make(map[symbol.Invokable]*bound.Block),
			FieldInits: make(map[*symbol.FieldSymbol]bound.Expr),
			ctx:        ctx,
		},
	}
	b.scope = ctx.arena.NewScope(parentScope(ctx, previous))
	b.global = b.scope
	b.bindFiles(files)

	g := b.g
	g.Symbols = b.global.Symbols()
	g.Errors = b.errors
	g.Errors.Sort()
	return g
}

// parentScope rebuilds the scope chain of the built-in types and of
// every submission up to and including g, oldest first.
func parentScope(ctx *context, g *GlobalScope) *symbol.Scope {
	var chain []*GlobalScope
	for ; g != nil; g = g.Previous {
		chain = append(chain, g)
	}

	root := ctx.arena.NewScope(nil)
	for _, t := range ctx.types.Builtins() {
		root.Declare(t)
	}
	parent := root
	for i := len(chain) - 1; i >= 0; i-- {
		s := ctx.arena.NewScope(parent)
		for _, sym := range chain[i].Symbols {
			s.Declare(sym)
		}
		parent = s
	}
	return parent
}

// A Program is a bound, lowered submission, ready for evaluation.
type Program struct {
	Previous *Program
	Global   *GlobalScope
	Errors   ErrorList

	Main   *symbol.FunctionSymbol
	Script *symbol.FunctionSymbol

	// Bodies maps each invokable of the submission to its lowered body.
	Bodies map[symbol.Invokable]*bound.Block
}

// Body returns the lowered body of fn, searching previous submissions.
func (p *Program) Body(fn symbol.Invokable) (*bound.Block, bool) {
	for ; p != nil; p = p.Previous {
		if b, ok := p.Bodies[fn]; ok {
			return b, true
		}
	}
	return nil, false
}

// FieldInit returns the bound initializer of field f, if any,
// searching previous submissions.
func (p *Program) FieldInit(f *symbol.FieldSymbol) (bound.Expr, bool) {
	for ; p != nil; p = p.Previous {
		if e, ok := p.Global.FieldInits[f]; ok {
			return e, true
		}
	}
	return nil, false
}

// Entry returns the entry point of the program: its script function,
// its main function, or nil.
func (p *Program) Entry() *symbol.FunctionSymbol {
	if p.Script != nil {
		return p.Script
	}
	return p.Main
}

// BindProgram lowers the bodies bound by global and checks that every
// body with a result returns a value on all paths.
func BindProgram(previous *Program, global *GlobalScope) *Program {
	l := &lower.Lowerer{
		Arena:  global.ctx.arena,
		Types:  global.ctx.types,
		Ops:    global.ctx.ops,
		Labels: global.ctx.labels,
	}
	p := &Program{
		Previous: previous,
		Global:   global,
		Main:     global.Main,
		Script:   global.Script,
		Bodies:   make(map[symbol.Invokable]*bound.Block, len(global.funcs)),
	}
	errors := append(ErrorList(nil), global.Errors...)
	for _, fn := range global.funcs {
		body := l.Lower(global.Bodies[fn.sym])
		p.Bodies[fn.sym] = body
		if fn.sym != symbol.Invokable(global.Script) && returnsValue(fn.sym) && !lower.AllPathsReturn(body) {
			errors.add(fn.pos, "Not all code paths return a value.")
		}
	}
	errors.Sort()
	p.Errors = errors
	return p
}

// returnsValue reports whether fn must return a value on every path.
// (The script function is exempt: it may fall off its end, yielding
// the last value.)
func returnsValue(fn symbol.Invokable) bool {
	if _, ok := fn.(*symbol.ConstructorSymbol); ok {
		return false
	}
	r := fn.Result()
	return !r.IsVoid() && !r.IsError()
}
