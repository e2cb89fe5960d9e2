// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"fmt"
	"log"

	"go.eaglelang.org/bound"
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

func (b *binder) errorExpr() bound.Expr { return &bound.ErrorExpr{Err: b.types.Error} }

// bindType resolves a type reference. Unknown names are reported and
// yield the error type.
func (b *binder) bindType(ref *syntax.TypeRef) *symbol.TypeSymbol {
	id := ref.Name
	if id.Name == "" {
		return b.types.Error // already reported by the parser
	}
	t := b.lookupType(id.Name)
	if t == nil {
		b.errorf(id.NamePos, "Type '%s' doesn't exist.", id.Name)
		return b.types.Error
	}
	for i := 0; i < ref.Stars; i++ {
		t = b.types.Pointer(t)
	}
	return t
}

// lookupType finds the innermost type or alias named name,
// ignoring other kinds of symbol.
func (b *binder) lookupType(name string) *symbol.TypeSymbol {
	for s := b.scope; s != nil; s = s.Parent() {
		syms := s.Local(name)
		for i := len(syms) - 1; i >= 0; i-- {
			switch sym := syms[i].(type) {
			case *symbol.TypeSymbol:
				return sym
			case *symbol.AliasSymbol:
				return b.resolveAlias(sym)
			}
		}
	}
	return nil
}

// bindExpr binds an expression whose value is used. Property and
// indexer reads become getter calls. Unless canBeVoid, an expression
// without a value is an error.
func (b *binder) bindExpr(e syntax.Expr, canBeVoid bool) bound.Expr {
	x := b.bindExprInternal(e)
	switch y := x.(type) {
	case *bound.PropertyExpr:
		if y.Property.Getter == nil {
			b.errorf(syntax.Start(e), "Cannot read set only property.")
			return b.errorExpr()
		}
		x = &bound.MethodCall{Pos: syntax.Start(e), Receiver: y.X, Method: y.Property.Getter}
	case *bound.IndexExpr:
		if y.Indexer.Getter == nil {
			b.errorf(syntax.Start(e), "Cannot read set only indexer.")
			return b.errorExpr()
		}
		x = &bound.MethodCall{Pos: syntax.Start(e), Receiver: y.X, Method: y.Indexer.Getter, Args: y.Args}
	}
	if !canBeVoid && x.Type().IsVoid() {
		b.errorf(syntax.Start(e), "Expression must have a value.")
		return b.errorExpr()
	}
	return x
}

// bindConverted binds e and converts it implicitly to type t.
func (b *binder) bindConverted(e syntax.Expr, t *symbol.TypeSymbol) bound.Expr {
	return b.convert(syntax.Start(e), b.bindExpr(e, false), t, false)
}

// convert converts x to type t, reporting a missing conversion or,
// unless explicit is set, an explicit one. Errors involving the
// error type are not reported.
func (b *binder) convert(pos syntax.Position, x bound.Expr, t *symbol.TypeSymbol, explicit bool) bound.Expr {
	from := x.Type()
	if from.IsError() || t.IsError() {
		return b.errorExpr()
	}
	switch c := symbol.Classify(from, t); {
	case !c.Exists():
		b.errorf(pos, "Cannot convert type '%s' to '%s'.", from, t)
		return b.errorExpr()
	case c.IsIdentity():
		return x
	case c.IsExplicit() && !explicit:
		b.errorf(pos, "Cannot convert type '%s' to '%s'. An explicit conversion exists (are you missing a cast?)", from, t)
	}
	return &bound.Conversion{Pos: pos, T: t, X: x}
}

func (b *binder) bindExprInternal(e syntax.Expr) bound.Expr {
	switch e := e.(type) {
	case *syntax.Ident:
		return b.bindName(e)

	case *syntax.Literal:
		switch v := e.Value.(type) {
		case int64:
			return &bound.Literal{Value: v, T: b.types.Int}
		case string:
			return &bound.Literal{Value: v, T: b.types.String}
		case rune:
			return &bound.Literal{Value: v, T: b.types.Char}
		case bool:
			return &bound.Literal{Value: v, T: b.types.Bool}
		}
		return b.errorExpr() // malformed literal, already reported

	case *syntax.ParenExpr:
		return b.bindExprInternal(e.X)

	case *syntax.UnaryExpr:
		x := b.bindExpr(e.X, false)
		if x.Type().IsError() {
			return b.errorExpr()
		}
		op := b.ctx.ops.Unary(e.Op, x.Type())
		if op == nil {
			b.errorf(e.OpPos, "Unary operator '%s' is not defined for type '%s'.", e.Op, x.Type())
			return b.errorExpr()
		}
		return &bound.Unary{Op: op, X: x}

	case *syntax.BinaryExpr:
		return b.bindBinary(e)

	case *syntax.AssignExpr:
		return b.bindAssign(e)

	case *syntax.CallExpr:
		return b.bindCall(e)

	case *syntax.DotExpr:
		x := b.bindExpr(e.X, false)
		if x.Type().IsError() {
			return b.errorExpr()
		}
		members := x.Type().Lookup(e.Name.Name)
		if len(members) == 0 {
			b.errorf(e.Name.NamePos, "Type '%s' doesn't have a member called '%s'.", x.Type(), e.Name.Name)
			return b.errorExpr()
		}
		switch m := members[0].(type) {
		case *symbol.FieldSymbol:
			return &bound.FieldExpr{X: x, Field: m}
		case *symbol.PropertySymbol:
			return &bound.PropertyExpr{X: x, Property: m}
		default:
			b.errorf(e.Name.NamePos, "Reference '%s' is a '%s' and cannot be used as a value.", m.Name(), m.Kind())
			return b.errorExpr()
		}

	case *syntax.IndexExpr:
		x := b.bindExpr(e.X, false)
		if x.Type().IsError() {
			return b.errorExpr()
		}
		var candidates []*symbol.IndexerSymbol
		for _, m := range x.Type().Lookup(indexerName) {
			if ix, ok := m.(*symbol.IndexerSymbol); ok {
				candidates = append(candidates, ix)
			}
		}
		if len(candidates) == 0 {
			b.errorf(e.Lbrack, "Cannot apply indexing with [] to an expression of type '%s'.", x.Type())
			return b.errorExpr()
		}
		ix := candidates[0]
		for _, c := range candidates {
			if len(c.Params()) == len(e.Args) {
				ix = c
				break
			}
		}
		args, ok := b.bindArgs(e.Lbrack, indexerName, ix.Params(), e.Args)
		if !ok {
			return b.errorExpr()
		}
		return &bound.IndexExpr{X: x, Indexer: ix, Args: args}

	case *syntax.CastExpr:
		t := b.bindType(e.Type)
		x := b.bindExpr(e.X, false)
		return b.convert(e.Lparen, x, t, true)

	case *syntax.NewExpr:
		t := b.bindType(e.Type)
		if t.IsError() {
			return b.errorExpr()
		}
		return b.bindNew(syntax.Start(e.Type), t, e.Args)

	case *syntax.ThisExpr:
		t := b.scope.EnclosingType()
		if t == nil {
			b.errorf(e.This, "This is not allowed in this scope.")
			return b.errorExpr()
		}
		return &bound.This{T: t}
	}
	log.Fatalf("%s: unexpected expression %T", syntax.Start(e), e)
	panic("unreachable")
}

// bindName binds an identifier in expression position.
func (b *binder) bindName(id *syntax.Ident) bound.Expr {
	if id.Name == "" {
		return b.errorExpr() // already reported by the parser
	}
	sym, ok := b.scope.Lookup(id.Name)
	if !ok {
		b.undefined(id, isValue)
		return b.errorExpr()
	}
	switch sym := sym.(type) {
	case *symbol.VariableSymbol:
		return &bound.VarExpr{Var: sym}
	case *symbol.ParameterSymbol:
		return &bound.ParamExpr{Param: sym}
	case *symbol.ConstSymbol:
		return &bound.Literal{Value: sym.Value, T: sym.Type}
	case *symbol.FieldSymbol:
		return &bound.FieldExpr{X: &bound.This{T: b.arena.Owner(sym)}, Field: sym}
	case *symbol.PropertySymbol:
		return &bound.PropertyExpr{X: &bound.This{T: b.arena.Owner(sym)}, Property: sym}
	}
	b.errorf(id.NamePos, "Reference '%s' is a '%s' and cannot be used as a value.", id.Name, sym.Kind())
	return b.errorExpr()
}

// undefined reports an undefined name, suggesting a similar one
// whose kind fits the use.
func (b *binder) undefined(id *syntax.Ident, fits func(symbol.Symbol) bool) {
	msg := fmt.Sprintf("Symbol '%s' doesn't exist.", id.Name)
	if n := symbol.Suggest(id.Name, b.scope, fits); n != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", n)
	}
	b.errorf(id.NamePos, "%s", msg)
}

// Kinds of names, as used by bindName, bindAssign and bindCall.

func isValue(sym symbol.Symbol) bool {
	switch sym.Kind() {
	case symbol.GlobalVariableKind, symbol.LocalVariableKind, symbol.ParameterKind,
		symbol.ConstKind, symbol.FieldKind, symbol.PropertyKind:
		return true
	}
	return false
}

func isAssignable(sym symbol.Symbol) bool {
	switch sym.Kind() {
	case symbol.GlobalVariableKind, symbol.LocalVariableKind, symbol.FieldKind, symbol.PropertyKind:
		return true
	}
	return false
}

func isCallable(sym symbol.Symbol) bool {
	switch sym.Kind() {
	case symbol.FunctionKind, symbol.MethodKind, symbol.TypeKind, symbol.AliasKind:
		return true
	}
	return false
}

func (b *binder) bindBinary(e *syntax.BinaryExpr) bound.Expr {
	x := b.bindExpr(e.X, false)
	y := b.bindExpr(e.Y, false)
	xt, yt := x.Type(), y.Type()
	if xt.IsError() || yt.IsError() {
		return b.errorExpr()
	}
	op := b.ctx.ops.Binary(e.Op, xt, yt)
	if op == nil && !symbol.Identical(xt, yt) {
		// Widen one operand to the type of the other.
		if c := symbol.Classify(yt, xt); c.IsImplicit() {
			y = b.convert(syntax.Start(e.Y), y, xt, false)
		} else if symbol.Classify(xt, yt).IsImplicit() {
			x = b.convert(syntax.Start(e.X), x, yt, false)
		} else {
			b.convert(syntax.Start(e.Y), y, xt, false)
			return b.errorExpr()
		}
		op = b.ctx.ops.Binary(e.Op, x.Type(), y.Type())
	}
	if op == nil {
		b.errorf(e.OpPos, "Binary operator '%s' is not defined for types '%s' and '%s'.", e.Op, xt, yt)
		return b.errorExpr()
	}
	return &bound.Binary{Pos: e.OpPos, X: x, Op: op, Y: y}
}

func (b *binder) bindAssign(e *syntax.AssignExpr) bound.Expr {
	var target bound.Expr
	switch lhs := unparen(e.LHS).(type) {
	case *syntax.Ident:
		if lhs.Name == "" {
			return b.errorExpr()
		}
		sym, ok := b.scope.Lookup(lhs.Name)
		if !ok {
			b.undefined(lhs, isAssignable)
			return b.errorExpr()
		}
		switch sym := sym.(type) {
		case *symbol.VariableSymbol:
			if sym.ReadOnly {
				b.errorf(lhs.NamePos, "Variable '%s' is read-only and cannot be assigned to.", sym.Name())
			}
			target = &bound.VarExpr{Var: sym}
		case *symbol.FieldSymbol, *symbol.PropertySymbol:
			target = b.bindName(lhs)
		default:
			b.errorf(lhs.NamePos, "Reference '%s' is a '%s'. The assignment target must be an assignable variable, field, property or indexer.", sym.Name(), sym.Kind())
			return b.errorExpr()
		}

	case *syntax.DotExpr, *syntax.IndexExpr:
		target = b.bindExprInternal(lhs)

	default:
		b.errorf(syntax.Start(e.LHS), "The assignment target must be an assignable variable, field, property or indexer.")
		return b.errorExpr()
	}

	switch t := target.(type) {
	case *bound.ErrorExpr:
		return t
	case *bound.PropertyExpr:
		if t.Property.Setter == nil {
			b.errorf(syntax.Start(e.LHS), "Property '%s' is read-only and cannot be assigned to.", t.Property.Name())
		}
	case *bound.IndexExpr:
		if t.Indexer.Setter == nil {
			b.errorf(syntax.Start(e.LHS), "Indexer of type '%s' is read-only and cannot be assigned to.", t.X.Type())
		}
	}
	value := b.bindConverted(e.RHS, target.Type())
	return &bound.Assign{Target: target, Value: value}
}

func unparen(e syntax.Expr) syntax.Expr {
	for {
		p, ok := e.(*syntax.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func (b *binder) bindCall(e *syntax.CallExpr) bound.Expr {
	pos := syntax.Start(e)
	switch fn := unparen(e.Fn).(type) {
	case *syntax.DotExpr:
		recv := b.bindExpr(fn.X, false)
		if recv.Type().IsError() {
			return b.errorExpr()
		}
		members := recv.Type().Lookup(fn.Name.Name)
		if len(members) == 0 {
			b.errorf(fn.Name.NamePos, "Type '%s' doesn't have a member called '%s'.", recv.Type(), fn.Name.Name)
			return b.errorExpr()
		}
		var candidates []symbol.Invokable
		for _, m := range members {
			if m, ok := m.(*symbol.MethodSymbol); ok {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			b.errorf(fn.Name.NamePos, "Reference '%s' is a '%s'. The target must be a function, method or delegate.", fn.Name.Name, members[0].Kind())
			return b.errorExpr()
		}
		m := overload(candidates, len(e.Args)).(*symbol.MethodSymbol)
		args, ok := b.bindArgs(pos, m.Name(), m.Params(), e.Args)
		if !ok {
			return b.errorExpr()
		}
		return &bound.MethodCall{Pos: pos, Receiver: recv, Method: m, Args: args}

	case *syntax.Ident:
		if fn.Name == "" {
			return b.errorExpr()
		}
		syms := b.scope.LookupAll(fn.Name)
		if len(syms) == 0 {
			b.undefined(fn, isCallable)
			return b.errorExpr()
		}
		switch sym := syms[len(syms)-1].(type) {
		case *symbol.TypeSymbol:
			return b.bindNew(pos, sym, e.Args)
		case *symbol.AliasSymbol:
			t := b.resolveAlias(sym)
			if t.IsError() {
				return b.errorExpr()
			}
			return b.bindNew(pos, t, e.Args)
		case *symbol.FunctionSymbol, *symbol.MethodSymbol:
			var candidates []symbol.Invokable
			for _, s := range syms {
				if s.Kind() == sym.Kind() {
					candidates = append(candidates, s.(symbol.Invokable))
				}
			}
			callee := overload(candidates, len(e.Args))
			args, ok := b.bindArgs(pos, callee.Name(), callee.Params(), e.Args)
			if !ok {
				return b.errorExpr()
			}
			if f, ok := callee.(*symbol.FunctionSymbol); ok {
				return &bound.Call{Pos: pos, Fn: f, Args: args}
			}
			// The receiver is that of the calling frame.
			return &bound.MethodCall{Pos: pos, Method: callee.(*symbol.MethodSymbol), Args: args}
		default:
			b.errorf(fn.NamePos, "Reference '%s' is a '%s'. The target must be a function, method or delegate.", fn.Name, sym.Kind())
			return b.errorExpr()
		}
	}
	b.errorf(syntax.Start(e.Fn), "The call target must be a function, method or type name.")
	return b.errorExpr()
}

// bindNew binds the construction of an object of type t.
func (b *binder) bindNew(pos syntax.Position, t *symbol.TypeSymbol, argExprs []syntax.Expr) bound.Expr {
	var candidates []symbol.Invokable
	for _, c := range t.Constructors() {
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		b.errorf(pos, "Type '%s' doesn't have a member called 'ctor'.", t)
		return b.errorExpr()
	}
	ctor := overload(candidates, len(argExprs)).(*symbol.ConstructorSymbol)
	args, ok := b.bindArgs(pos, t.Name(), ctor.Params(), argExprs)
	if !ok {
		return b.errorExpr()
	}
	return &bound.New{Pos: pos, Ctor: ctor, Args: args}
}

// overload selects among same-named invokables: the first whose arity
// is n, or else the first, so that the argument count is reported
// against it.
func overload(candidates []symbol.Invokable, n int) symbol.Invokable {
	for _, c := range candidates {
		if len(c.Params()) == n {
			return c
		}
	}
	return candidates[0]
}

// bindArgs binds call arguments, converting each implicitly to the
// type of its parameter. It reports false if the count is wrong.
func (b *binder) bindArgs(pos syntax.Position, name string, params []*symbol.ParameterSymbol, argExprs []syntax.Expr) ([]bound.Expr, bool) {
	if len(argExprs) != len(params) {
		b.errorf(pos, "Function '%s' requires %d arguments but was given %d.", name, len(params), len(argExprs))
		return nil, false
	}
	args := make([]bound.Expr, len(argExprs))
	for i, a := range argExprs {
		args[i] = b.bindConverted(a, params[i].Type)
	}
	return args, true
}
