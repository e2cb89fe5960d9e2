// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"log"

	"go.eaglelang.org/bound"
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

// ---- Pass 3 ----

// resolveAlias resolves the target of a, declared by this submission,
// on first use.
func (b *binder) resolveAlias(a *symbol.AliasSymbol) *symbol.TypeSymbol {
	if t := a.Target(); t != nil {
		return t
	}
	d, ok := b.aliases[a]
	if !ok {
		return b.types.Error
	}
	if d.resolving {
		b.errorf(d.decl.Name.NamePos, "Alias '%s' is defined in terms of itself.", a.Name())
		a.Resolve(b.types.Error)
		return a.Target()
	}
	d.resolving = true
	outer := b.scope
	b.scope = b.global
	t := b.bindType(d.decl.Type)
	b.scope = outer
	d.resolving = false
	if a.Target() == nil { // not already resolved by a cycle
		a.Resolve(t)
	}
	return a.Target()
}

func (b *binder) bindConst(c *syntax.ConstDecl) {
	init := b.bindExpr(c.Value, false)
	typ := init.Type()
	if c.Type != nil {
		typ = b.bindType(c.Type)
		init = b.convert(syntax.Start(c.Value), init, typ, false)
	}
	value, ok := fold(init)
	if !ok {
		if !init.Type().IsError() {
			b.errorf(syntax.Start(c.Value), "The given expression is not compile time constant.")
		}
		typ, value = b.types.Int, int64(0)
	}
	b.declare(c.Name.NamePos, b.arena.NewConst(c.Name.Name, typ, value))
}

func (b *binder) bindFieldInits(obj *object) {
	if obj.scope == nil {
		return
	}
	outer := b.scope
	b.scope = obj.scope
	defer func() { b.scope = outer }()
	for _, m := range obj.decl.Members {
		d, ok := m.(*syntax.FieldDecl)
		if !ok || d.Init == nil {
			continue
		}
		f := obj.fields[d]
		if f == nil {
			continue // redeclared
		}
		init := b.bindExpr(d.Init, false)
		b.g.FieldInits[f] = b.convert(syntax.Start(d.Init), init, f.Type, false)
	}
}

// bindEntryPoint binds the global statements and forms the entry
// point of the submission.
func (b *binder) bindEntryPoint(files []*syntax.File, firstStmts map[*syntax.File]syntax.Stmt, stmts []syntax.Stmt) {
	if len(firstStmts) > 1 {
		for _, f := range files {
			if s, ok := firstStmts[f]; ok {
				b.errorf(syntax.Start(s), "At most one file can have global statements.")
			}
		}
	}

	var body []bound.Stmt
	for _, s := range stmts {
		body = append(body, b.bindStmt(s, true))
	}
	b.g.Stmts = body

	if b.script {
		if len(stmts) == 0 {
			return
		}
		fn := b.arena.NewFunction(ScriptName, nil, b.types.Any, false)
		b.g.Script = fn
		b.g.Bodies[fn] = scriptBody(body)
		b.later(fn, syntax.Start(stmts[0]), b.global, nil)
		return
	}

	var main *function
	for _, fn := range b.g.funcs {
		if f, ok := fn.sym.(*symbol.FunctionSymbol); ok && f.Name() == MainName {
			main = fn
			break
		}
	}
	if main != nil {
		if len(main.sym.Params()) > 0 || !main.sym.Result().IsVoid() {
			b.errorf(main.pos, "main must not take arguments and not return anything.")
		}
	}
	if len(stmts) == 0 {
		if main != nil {
			b.g.Main = main.sym.(*symbol.FunctionSymbol)
		}
		return
	}
	if !AllowGlobalStatements {
		b.errorf(syntax.Start(stmts[0]), "Global statements are not allowed; declare a main function.")
	}
	if main != nil {
		b.errorf(main.pos, "Cannot declare main function when global statements are used.")
		return
	}
	fn := b.arena.NewFunction(MainName, nil, b.types.Void, false)
	b.g.Main = fn
	b.g.Bodies[fn] = &bound.Block{Stmts: body}
	b.later(fn, syntax.Start(stmts[0]), b.global, nil)
}

// scriptBody returns the body of the script function: the value of a
// sole expression statement is returned; otherwise the script returns
// the last value computed.
func scriptBody(stmts []bound.Stmt) *bound.Block {
	if len(stmts) == 1 {
		if s, ok := stmts[0].(*bound.ExprStmt); ok && !s.X.Type().IsVoid() {
			return &bound.Block{Stmts: []bound.Stmt{&bound.Return{Result: s.X}}}
		}
	}
	if len(stmts) > 0 {
		if _, ok := stmts[len(stmts)-1].(*bound.Return); ok {
			return &bound.Block{Stmts: stmts}
		}
	}
	body := append(stmts[:len(stmts):len(stmts)], &bound.Return{})
	return &bound.Block{Stmts: body}
}

// bindBody binds the body of an invokable in a fresh scope holding
// its parameters.
func (b *binder) bindBody(fn *function) *bound.Block {
	outerScope, outerFn, outerLoops := b.scope, b.fn, b.loops
	defer func() { b.scope, b.fn, b.loops = outerScope, outerFn, outerLoops }()

	b.scope = b.arena.NewScope(fn.scope)
	b.fn = fn.sym
	b.loops = nil
	for _, p := range fn.sym.Params() {
		b.scope.Declare(p)
	}
	return b.bindBlock(fn.body)
}

// ---- Statements ----

// bindStmt binds a statement. Global statements are those at top level.
func (b *binder) bindStmt(s syntax.Stmt, global bool) bound.Stmt {
	switch s := s.(type) {
	case *syntax.BlockStmt:
		return b.bindBlock(s)

	case *syntax.VarDecl:
		init := b.bindExpr(s.Init, false)
		typ := init.Type()
		if s.Type != nil {
			typ = b.bindType(s.Type)
		}
		init = b.convert(syntax.Start(s.Init), init, typ, false)
		v := b.declareVariable(s.Name, typ, s.Token == syntax.LET)
		return &bound.VarDecl{Var: v, Init: init}

	case *syntax.ExprStmt:
		x := b.bindExpr(s.X, true)
		if !(global && b.script) {
			switch x.(type) {
			case *bound.ErrorExpr, *bound.Assign, *bound.Call, *bound.MethodCall, *bound.New:
			default:
				b.errorf(syntax.Start(s.X), "Only assignment and call expressions can be used as a statement.")
			}
		}
		return &bound.ExprStmt{X: x}

	case *syntax.IfStmt:
		cond := b.bindConverted(s.Cond, b.types.Bool)
		then := b.bindStmt(s.Then, false)
		var els bound.Stmt
		if s.Else != nil {
			els = b.bindStmt(s.Else, false)
		}
		return &bound.If{Cond: cond, Then: then, Else: els}

	case *syntax.WhileStmt:
		cond := b.bindConverted(s.Cond, b.types.Bool)
		body, brk, cont := b.bindLoopBody(s.Body)
		return &bound.While{Cond: cond, Body: body, Break: brk, Continue: cont}

	case *syntax.LoopStmt:
		body, brk, cont := b.bindLoopBody(s.Body)
		return &bound.Loop{Body: body, Break: brk, Continue: cont}

	case *syntax.ForStmt:
		lower := b.bindConverted(s.Lower, b.types.Int)
		upper := b.bindConverted(s.Upper, b.types.Int)
		outer := b.scope
		b.scope = b.arena.NewScope(outer)
		// The loop variable is an Int even if a bound failed to bind.
		v := b.declareVariable(s.Var, b.types.Int, false)
		body, brk, cont := b.bindLoopBody(s.Body)
		b.scope = outer
		return &bound.For{Var: v, Lower: lower, Upper: upper, Body: body, Break: brk, Continue: cont}

	case *syntax.BranchStmt:
		if len(b.loops) == 0 {
			b.errorf(s.TokenPos, "The keyword '%s' can only be used inside of loops.", s.Token)
			return &bound.ExprStmt{X: b.errorExpr()}
		}
		l := b.loops[len(b.loops)-1]
		if s.Token == syntax.BREAK {
			return &bound.Goto{Label: l.brk}
		}
		return &bound.Goto{Label: l.cont}

	case *syntax.ReturnStmt:
		return b.bindReturn(s)

	case nil:
		return &bound.Block{} // dropped by the parser after an error
	}
	log.Fatalf("%s: unexpected statement %T", syntax.Start(s), s)
	panic("unreachable")
}

func (b *binder) bindBlock(block *syntax.BlockStmt) *bound.Block {
	if block == nil {
		return &bound.Block{}
	}
	outer := b.scope
	b.scope = b.arena.NewScope(outer)
	defer func() { b.scope = outer }()

	stmts := make([]bound.Stmt, 0, len(block.Stmts))
	for _, s := range block.Stmts {
		stmts = append(stmts, b.bindStmt(s, false))
	}
	return &bound.Block{Stmts: stmts}
}

// bindLoopBody binds a loop body with fresh break and continue labels.
func (b *binder) bindLoopBody(body syntax.Stmt) (s bound.Stmt, brk, cont *bound.Label) {
	brk, cont = b.ctx.labels.Loop()
	b.loops = append(b.loops, loop{brk, cont})
	s = b.bindStmt(body, false)
	b.loops = b.loops[:len(b.loops)-1]
	return s, brk, cont
}

func (b *binder) bindReturn(s *syntax.ReturnStmt) bound.Stmt {
	if b.fn == nil {
		switch {
		case b.script:
			if s.Result == nil {
				return &bound.Return{}
			}
			return &bound.Return{Result: b.bindExpr(s.Result, false)}
		case s.Result != nil:
			b.errorf(s.Return, "Since the function '%s' does not return a value the 'return' keyword cannot be followed by an expression.", MainName)
		}
		return &bound.Return{}
	}

	result := b.fn.Result()
	if _, ok := b.fn.(*symbol.ConstructorSymbol); ok {
		result = b.types.Void
	}
	if result.IsVoid() {
		if s.Result != nil {
			b.errorf(s.Return, "Since the function '%s' does not return a value the 'return' keyword cannot be followed by an expression.", b.fn.Name())
		}
		return &bound.Return{}
	}
	if s.Result == nil {
		if !result.IsError() {
			b.errorf(s.Return, "An expression of type '%s' is expected.", result)
		}
		return &bound.Return{Result: b.errorExpr()}
	}
	return &bound.Return{Result: b.bindConverted(s.Result, result)}
}

// declareVariable declares a variable in the current scope: a global
// one for global statements, a local one in an invokable.
func (b *binder) declareVariable(id *syntax.Ident, typ *symbol.TypeSymbol, readOnly bool) *symbol.VariableSymbol {
	v := b.arena.NewVariable(id.Name, typ, readOnly, b.fn == nil)
	v.TopLevel = b.fn == nil && b.scope == b.global
	b.declare(id.NamePos, v)
	return v
}
