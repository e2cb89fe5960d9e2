// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"log"

	"go.eaglelang.org/bound"
)

// A Rewriter transforms a bound tree bottom-up.
//
// By default it rewrites the children of each node and returns the
// node itself when no child changed, so that an unchanged tree comes
// back as the identical instance. The Stmt and Expr hooks, if set, see
// every node first: they return a replacement and true to override
// the default for that node, or false to fall back to it. A hook may
// call back into the Rewriter to rewrite children.
type Rewriter struct {
	Stmt func(r *Rewriter, s bound.Stmt) (bound.Stmt, bool)
	Expr func(r *Rewriter, e bound.Expr) (bound.Expr, bool)
}

// RewriteStmt rewrites a statement.
func (r *Rewriter) RewriteStmt(s bound.Stmt) bound.Stmt {
	if r.Stmt != nil {
		if res, ok := r.Stmt(r, s); ok {
			return res
		}
	}

	switch s := s.(type) {
	case *bound.Block:
		return r.RewriteBlock(s)

	case *bound.VarDecl:
		init := r.RewriteExpr(s.Init)
		if init == s.Init {
			return s
		}
		return &bound.VarDecl{Var: s.Var, Init: init}

	case *bound.ExprStmt:
		x := r.RewriteExpr(s.X)
		if x == s.X {
			return s
		}
		return &bound.ExprStmt{X: x}

	case *bound.If:
		cond := r.RewriteExpr(s.Cond)
		then := r.RewriteStmt(s.Then)
		var els bound.Stmt
		if s.Else != nil {
			els = r.RewriteStmt(s.Else)
		}
		if cond == s.Cond && then == s.Then && els == s.Else {
			return s
		}
		return &bound.If{Cond: cond, Then: then, Else: els}

	case *bound.While:
		cond := r.RewriteExpr(s.Cond)
		body := r.RewriteStmt(s.Body)
		if cond == s.Cond && body == s.Body {
			return s
		}
		return &bound.While{Cond: cond, Body: body, Break: s.Break, Continue: s.Continue}

	case *bound.Loop:
		body := r.RewriteStmt(s.Body)
		if body == s.Body {
			return s
		}
		return &bound.Loop{Body: body, Break: s.Break, Continue: s.Continue}

	case *bound.For:
		lo := r.RewriteExpr(s.Lower)
		hi := r.RewriteExpr(s.Upper)
		body := r.RewriteStmt(s.Body)
		if lo == s.Lower && hi == s.Upper && body == s.Body {
			return s
		}
		return &bound.For{Var: s.Var, Lower: lo, Upper: hi, Body: body, Break: s.Break, Continue: s.Continue}

	case *bound.LabelStmt, *bound.Goto:
		return s

	case *bound.CondGoto:
		cond := r.RewriteExpr(s.Cond)
		if cond == s.Cond {
			return s
		}
		return &bound.CondGoto{Label: s.Label, Cond: cond, JumpIfTrue: s.JumpIfTrue}

	case *bound.Return:
		if s.Result == nil {
			return s
		}
		res := r.RewriteExpr(s.Result)
		if res == s.Result {
			return s
		}
		return &bound.Return{Result: res}
	}
	log.Fatalf("%T: unexpected statement", s)
	panic("unreachable")
}

// RewriteBlock rewrites each statement of a block.
func (r *Rewriter) RewriteBlock(b *bound.Block) *bound.Block {
	var stmts []bound.Stmt // allocated on first change
	for i, s := range b.Stmts {
		res := r.RewriteStmt(s)
		if res != s && stmts == nil {
			stmts = make([]bound.Stmt, i, len(b.Stmts))
			copy(stmts, b.Stmts[:i])
		}
		if stmts != nil {
			stmts = append(stmts, res)
		}
	}
	if stmts == nil {
		return b
	}
	return &bound.Block{Stmts: stmts}
}

// RewriteExpr rewrites an expression.
func (r *Rewriter) RewriteExpr(e bound.Expr) bound.Expr {
	if r.Expr != nil {
		if res, ok := r.Expr(r, e); ok {
			return res
		}
	}

	switch e := e.(type) {
	case *bound.ErrorExpr, *bound.Literal, *bound.VarExpr, *bound.ParamExpr, *bound.This:
		return e

	case *bound.FieldExpr:
		x := r.RewriteExpr(e.X)
		if x == e.X {
			return e
		}
		return &bound.FieldExpr{X: x, Field: e.Field}

	case *bound.PropertyExpr:
		x := r.RewriteExpr(e.X)
		if x == e.X {
			return e
		}
		return &bound.PropertyExpr{X: x, Property: e.Property}

	case *bound.IndexExpr:
		x := r.RewriteExpr(e.X)
		args, changed := r.rewriteExprs(e.Args)
		if x == e.X && !changed {
			return e
		}
		return &bound.IndexExpr{X: x, Indexer: e.Indexer, Args: args}

	case *bound.Conversion:
		x := r.RewriteExpr(e.X)
		if x == e.X {
			return e
		}
		return &bound.Conversion{Pos: e.Pos, T: e.T, X: x}

	case *bound.Unary:
		x := r.RewriteExpr(e.X)
		if x == e.X {
			return e
		}
		return &bound.Unary{Op: e.Op, X: x}

	case *bound.Binary:
		x := r.RewriteExpr(e.X)
		y := r.RewriteExpr(e.Y)
		if x == e.X && y == e.Y {
			return e
		}
		return &bound.Binary{Pos: e.Pos, X: x, Op: e.Op, Y: y}

	case *bound.Assign:
		target := r.RewriteExpr(e.Target)
		value := r.RewriteExpr(e.Value)
		if target == e.Target && value == e.Value {
			return e
		}
		return &bound.Assign{Target: target, Value: value}

	case *bound.Call:
		args, changed := r.rewriteExprs(e.Args)
		if !changed {
			return e
		}
		return &bound.Call{Pos: e.Pos, Fn: e.Fn, Args: args}

	case *bound.MethodCall:
		recv := e.Receiver
		if recv != nil {
			recv = r.RewriteExpr(recv)
		}
		args, changed := r.rewriteExprs(e.Args)
		if recv == e.Receiver && !changed {
			return e
		}
		return &bound.MethodCall{Pos: e.Pos, Receiver: recv, Method: e.Method, Args: args}

	case *bound.New:
		args, changed := r.rewriteExprs(e.Args)
		if !changed {
			return e
		}
		return &bound.New{Pos: e.Pos, Ctor: e.Ctor, Args: args}
	}
	log.Fatalf("%T: unexpected expression", e)
	panic("unreachable")
}

// rewriteExprs rewrites a list of expressions, returning the original
// slice if no element changed.
func (r *Rewriter) rewriteExprs(exprs []bound.Expr) ([]bound.Expr, bool) {
	var res []bound.Expr
	for i, e := range exprs {
		x := r.RewriteExpr(e)
		if x != e && res == nil {
			res = make([]bound.Expr, i, len(exprs))
			copy(res, exprs[:i])
		}
		if res != nil {
			res = append(res, x)
		}
	}
	if res == nil {
		return exprs, false
	}
	return res, true
}
