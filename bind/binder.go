// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"log"
	"strings"

	"go.eaglelang.org/bound"
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

const (
	getterPrefix = "<>Get_"
	setterPrefix = "<>Set_"
	indexerName  = "Item"
	valueParam   = "value"
)

type binder struct {
	ctx    *context
	arena  *symbol.Arena
	types  *symbol.TypeRegistry
	errors ErrorList
	g      *GlobalScope

	script bool
	global *symbol.Scope    // the submission's scope
	scope  *symbol.Scope    // the current scope
	fn     symbol.Invokable // enclosing invokable; nil for global statements
	loops  []loop           // enclosing loops, innermost last

	aliases map[*symbol.AliasSymbol]*aliasDecl
}

type loop struct {
	brk, cont *bound.Label
}

type aliasDecl struct {
	decl      *syntax.AliasDecl
	resolving bool
}

// An object is a user-defined type declared by the submission.
type object struct {
	decl    *syntax.ObjectDecl
	t       *symbol.TypeSymbol
	builder *symbol.TypeBuilder // nil for a built-in name
	scope   *symbol.Scope
	fields  map[*syntax.FieldDecl]*symbol.FieldSymbol
}

func (b *binder) errorf(pos syntax.Position, format string, args ...interface{}) {
	b.errors.add(pos, format, args...)
}

// bindFiles performs the three binding passes over the files of a submission.
func (b *binder) bindFiles(files []*syntax.File) {
	var (
		objects []*object
		aliases []*symbol.AliasSymbol
		funcs   []syntax.Stmt // *FuncDecl | *ExternDecl
		consts  []*syntax.ConstDecl
		stmts   []syntax.Stmt
	)
	firstStmts := make(map[*syntax.File]syntax.Stmt)
	for _, f := range files {
		for _, s := range f.Stmts {
			switch s := s.(type) {
			case *syntax.ObjectDecl:
				objects = append(objects, &object{decl: s})
			case *syntax.AliasDecl:
				a := b.arena.NewAlias(s.Name.Name)
				b.aliases[a] = &aliasDecl{decl: s}
				aliases = append(aliases, a)
			case *syntax.FuncDecl, *syntax.ExternDecl:
				funcs = append(funcs, s)
			case *syntax.ConstDecl:
				consts = append(consts, s)
			default:
				if _, ok := firstStmts[f]; !ok {
					firstStmts[f] = s
				}
				stmts = append(stmts, s)
			}
		}
	}

	// Pass 1: types and aliases.
	for _, obj := range objects {
		b.declareType(obj)
	}
	for _, a := range aliases {
		b.declare(b.aliases[a].decl.Name.NamePos, a)
	}

	// Pass 2: base types, functions and members.
	for _, obj := range objects {
		b.declareBases(obj)
	}
	b.checkBaseCycles(objects)
	for _, s := range funcs {
		b.declareFunction(s)
	}
	for _, obj := range objects {
		b.declareMembers(obj)
	}

	// Pass 3: bodies.
	for _, a := range aliases {
		b.resolveAlias(a)
	}
	for _, c := range consts {
		b.bindConst(c)
	}
	for _, obj := range objects {
		b.bindFieldInits(obj)
	}
	b.bindEntryPoint(files, firstStmts, stmts)
	for _, fn := range b.g.funcs {
		if _, done := b.g.Bodies[fn.sym]; !done {
			b.g.Bodies[fn.sym] = b.bindBody(fn)
		}
	}
}

// declare adds sym to the current scope, reporting a redeclaration.
func (b *binder) declare(pos syntax.Position, sym symbol.Symbol) bool {
	if !b.scope.Declare(sym) {
		b.errorf(pos, "Symbol '%s' is already declared.", sym.Name())
		return false
	}
	return true
}

// ---- Pass 1 ----

func (b *binder) declareType(obj *object) {
	name := obj.decl.Name.Name
	if t, ok := b.types.Lookup(name); ok {
		// A declaration of a built-in name denotes the built-in type.
		obj.t = t
		b.scope.Declare(t)
		return
	}
	obj.t, obj.builder = b.arena.NewType(name)
	b.declare(obj.decl.Name.NamePos, obj.t)
}

// ---- Pass 2 ----

func (b *binder) declareBases(obj *object) {
	if obj.builder == nil || len(obj.decl.Bases) == 0 {
		return
	}
	var bases []*symbol.TypeSymbol
	for _, ref := range obj.decl.Bases {
		if t := b.bindType(ref); !t.IsError() {
			bases = append(bases, t)
		}
	}
	obj.builder.SetBases(bases)
}

// checkBaseCycles reports each user-defined type that is its own
// direct or transitive base, and clears its bases.
func (b *binder) checkBaseCycles(objects []*object) {
	builders := make(map[*symbol.TypeSymbol]*symbol.TypeBuilder)
	for _, obj := range objects {
		if obj.builder != nil {
			builders[obj.t] = obj.builder
		}
	}
	basesOf := func(t *symbol.TypeSymbol) []*symbol.TypeSymbol {
		if tb, ok := builders[t]; ok {
			return tb.Bases()
		}
		return t.Bases()
	}
	for _, obj := range objects {
		if obj.builder == nil {
			continue
		}
		cycle := symbol.FindBaseCycle(obj.t, basesOf)
		if cycle == nil || cycle[0] != obj.t {
			continue
		}
		var path []string
		for _, t := range cycle {
			path = append(path, t.Name())
		}
		b.errorf(obj.decl.Name.NamePos,
			"Type '%s' has a cyclic base type dependency: %s.",
			obj.t, strings.Join(path, " -> "))
		obj.builder.SetBases(nil)
	}
}

func (b *binder) declareFunction(s syntax.Stmt) {
	var proto *syntax.Prototype
	var body *syntax.BlockStmt
	switch s := s.(type) {
	case *syntax.FuncDecl:
		proto, body = &s.Prototype, s.Body
	case *syntax.ExternDecl:
		proto = &s.Prototype
	}
	params := b.bindParams(proto.Params)
	fn := b.arena.NewFunction(proto.Name.Name, params, b.bindResult(proto.Result), body == nil)
	if !b.declare(proto.Name.NamePos, fn) || body == nil {
		return
	}
	b.later(fn, proto.Name.NamePos, b.scope, body)
}

// later schedules the body of fn for binding in the third pass.
func (b *binder) later(fn symbol.Invokable, pos syntax.Position, scope *symbol.Scope, body *syntax.BlockStmt) {
	b.g.funcs = append(b.g.funcs, &function{fn, pos, scope, body})
}

// bindParams creates the parameter symbols of a declaration, reporting
// and dropping duplicates.
func (b *binder) bindParams(decls []*syntax.Param) []*symbol.ParameterSymbol {
	var params []*symbol.ParameterSymbol
	seen := make(map[string]bool)
	for _, p := range decls {
		typ := b.bindType(p.Type)
		if seen[p.Name.Name] {
			b.errorf(p.Name.NamePos, "A parameter with the name '%s' already exists.", p.Name.Name)
			continue
		}
		seen[p.Name.Name] = true
		params = append(params, b.arena.NewParameter(p.Name.Name, typ, len(params)))
	}
	return params
}

func (b *binder) bindResult(ref *syntax.TypeRef) *symbol.TypeSymbol {
	if ref == nil {
		return b.types.Void
	}
	return b.bindType(ref)
}

func (b *binder) declareMembers(obj *object) {
	if obj.builder == nil {
		for _, m := range obj.decl.Members {
			b.errorf(syntax.Start(m), "Type '%s' is built in and cannot declare members.", obj.t)
		}
		return
	}
	t, tb := obj.t, obj.builder
	obj.scope = b.arena.NewTypeScope(b.scope, t, tb)
	obj.fields = make(map[*syntax.FieldDecl]*symbol.FieldSymbol)
	outer := b.scope
	b.scope = obj.scope
	defer func() { b.scope = outer }()

	hasCtor := false
	for _, m := range obj.decl.Members {
		switch m := m.(type) {
		case *syntax.FieldDecl:
			f := b.arena.NewField(t, m.Name.Name, b.bindType(m.Type))
			if b.declare(m.Name.NamePos, f) {
				obj.fields[m] = f
			}

		case *syntax.MethodDecl:
			params := b.bindParams(m.Params)
			meth := b.arena.NewMethod(t, m.Name.Name, params, b.bindResult(m.Result))
			if b.declare(m.Name.NamePos, meth) {
				b.later(meth, m.Name.NamePos, obj.scope, m.Body)
			}

		case *syntax.CtorDecl:
			hasCtor = true
			ctor := b.arena.NewConstructor(t, b.bindParams(m.Params), false)
			if b.declare(m.Name.NamePos, ctor) {
				b.later(ctor, m.Name.NamePos, obj.scope, m.Body)
			}

		case *syntax.PropertyDecl:
			typ := b.bindType(m.Type)
			var get, set *symbol.MethodSymbol
			if m.Get != nil {
				get = b.arena.NewMethod(t, getterPrefix+m.Name.Name, nil, typ)
			}
			if m.Set != nil {
				value := b.arena.NewParameter(valueParam, typ, 0)
				set = b.arena.NewMethod(t, setterPrefix+m.Name.Name, []*symbol.ParameterSymbol{value}, b.types.Void)
			}
			prop := b.arena.NewProperty(t, m.Name.Name, typ, get, set)
			if b.declare(m.Name.NamePos, prop) {
				if get != nil {
					b.later(get, syntax.Start(m.Get), obj.scope, m.Get)
				}
				if set != nil {
					b.later(set, syntax.Start(m.Set), obj.scope, m.Set)
				}
			}

		case *syntax.IndexerDecl:
			typ := b.bindType(m.Type)
			params := b.bindParams(m.Params)
			var get, set *symbol.MethodSymbol
			if m.Get != nil {
				get = b.arena.NewMethod(t, getterPrefix+indexerName, params, typ)
			}
			if m.Set != nil {
				var setParams []*symbol.ParameterSymbol
				for _, p := range params {
					setParams = append(setParams, b.arena.NewParameter(p.Name(), p.Type, p.Index))
				}
				setParams = append(setParams, b.arena.NewParameter(valueParam, typ, len(params)))
				set = b.arena.NewMethod(t, setterPrefix+indexerName, setParams, b.types.Void)
			}
			ix := b.arena.NewIndexer(t, params, typ, get, set)
			if b.declare(m.Lbrack, ix) {
				if get != nil {
					b.later(get, syntax.Start(m.Get), obj.scope, m.Get)
				}
				if set != nil {
					b.later(set, syntax.Start(m.Set), obj.scope, m.Set)
				}
			}

		default:
			log.Fatalf("%s: unexpected member %T", syntax.Start(m), m)
			panic("unreachable")
		}
	}
	if !hasCtor {
		ctor := b.arena.NewConstructor(t, nil, true)
		tb.Declare(ctor)
		b.g.Bodies[ctor] = &bound.Block{}
		b.later(ctor, obj.decl.Name.NamePos, obj.scope, nil)
	}
	tb.Lock()
}
