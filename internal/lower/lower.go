// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lower rewrites bound function bodies into the flat form
// executed by the evaluator: a single block of declarations,
// expression statements, labels, gotos, conditional gotos and returns.
package lower // import "go.eaglelang.org/internal/lower"

import (
	"log"

	"go.eaglelang.org/bound"
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

// Debug enables a check that every lowered body is flat.
var Debug = false

// A Lowerer lowers the bodies of one compilation.
type Lowerer struct {
	Arena  *symbol.Arena
	Types  *symbol.TypeRegistry
	Ops    *bound.Operators
	Labels *bound.LabelGen
}

// Lower returns the flat form of the body s.
// Lowering a body that is already flat returns it unchanged.
func (l *Lowerer) Lower(s bound.Stmt) *bound.Block {
	r := &Rewriter{Stmt: l.lowerStmt}
	b := Flatten(r.RewriteStmt(s))
	if Debug {
		for _, s := range b.Stmts {
			switch s.(type) {
			case *bound.VarDecl, *bound.ExprStmt, *bound.LabelStmt,
				*bound.Goto, *bound.CondGoto, *bound.Return:
			default:
				log.Fatalf("lowered body contains %T", s)
			}
		}
	}
	return b
}

func (l *Lowerer) lowerStmt(r *Rewriter, s bound.Stmt) (bound.Stmt, bool) {
	switch s := s.(type) {
	case *bound.If:
		if s.Else == nil {
			// gotoFalse <cond> end
			// <then>
			// end:
			end := l.Labels.New()
			return r.RewriteStmt(&bound.Block{Stmts: []bound.Stmt{
				&bound.CondGoto{Label: end, Cond: s.Cond, JumpIfTrue: false},
				s.Then,
				&bound.LabelStmt{Label: end},
			}}), true
		}
		// gotoFalse <cond> else
		// <then>
		// goto end
		// else:
		// <else>
		// end:
		els, end := l.Labels.New(), l.Labels.New()
		return r.RewriteStmt(&bound.Block{Stmts: []bound.Stmt{
			&bound.CondGoto{Label: els, Cond: s.Cond, JumpIfTrue: false},
			s.Then,
			&bound.Goto{Label: end},
			&bound.LabelStmt{Label: els},
			s.Else,
			&bound.LabelStmt{Label: end},
		}}), true

	case *bound.While:
		// goto continue
		// body:
		// <body>
		// continue:
		// gotoTrue <cond> body
		// break:
		body := l.Labels.New()
		return r.RewriteStmt(&bound.Block{Stmts: []bound.Stmt{
			&bound.Goto{Label: s.Continue},
			&bound.LabelStmt{Label: body},
			s.Body,
			&bound.LabelStmt{Label: s.Continue},
			&bound.CondGoto{Label: body, Cond: s.Cond, JumpIfTrue: true},
			&bound.LabelStmt{Label: s.Break},
		}}), true

	case *bound.Loop:
		// continue:
		// <body>
		// goto continue
		// break:
		return r.RewriteStmt(&bound.Block{Stmts: []bound.Stmt{
			&bound.LabelStmt{Label: s.Continue},
			s.Body,
			&bound.Goto{Label: s.Continue},
			&bound.LabelStmt{Label: s.Break},
		}}), true

	case *bound.For:
		// {
		//     var <var> = <lower>
		//     let <>upperBound = <upper>
		//     while <var> <= <>upperBound {
		//         <body>
		//         continue:
		//         <var> = <var> + 1
		//     }
		// }
		t := s.Var.Type
		upper := l.Arena.NewVariable("<>upperBound", t, true, s.Var.IsGlobal())
		v := &bound.VarExpr{Var: s.Var}
		step := &bound.Literal{Value: one(t), T: t}
		return r.RewriteStmt(&bound.Block{Stmts: []bound.Stmt{
			&bound.VarDecl{Var: s.Var, Init: s.Lower},
			&bound.VarDecl{Var: upper, Init: s.Upper},
			&bound.While{
				Cond: &bound.Binary{X: v, Op: l.op(syntax.LE, t), Y: &bound.VarExpr{Var: upper}},
				Body: &bound.Block{Stmts: []bound.Stmt{
					s.Body,
					&bound.LabelStmt{Label: s.Continue},
					&bound.ExprStmt{X: &bound.Assign{
						Target: v,
						Value:  &bound.Binary{X: v, Op: l.op(syntax.PLUS, t), Y: step},
					}},
				}},
				Break:    s.Break,
				Continue: l.Labels.New(),
			},
		}}), true
	}
	return nil, false
}

func (l *Lowerer) op(tok syntax.Token, t *symbol.TypeSymbol) *bound.BinaryOp {
	op := l.Ops.Binary(tok, t, t)
	if op == nil {
		log.Fatalf("no operator %s for loop variable of type %s", tok, t)
	}
	return op
}

// one returns the literal 1 of integer type t.
func one(t *symbol.TypeSymbol) interface{} {
	if t.IsSigned() {
		return int64(1)
	}
	return uint64(1)
}

// Flatten returns the statements of s, with nested blocks spliced
// into their parents, as a single block. If s is already a block
// without nested blocks, Flatten returns it.
func Flatten(s bound.Stmt) *bound.Block {
	if b, ok := s.(*bound.Block); ok && isFlat(b) {
		return b
	}
	var stmts []bound.Stmt
	var visit func(s bound.Stmt)
	visit = func(s bound.Stmt) {
		if b, ok := s.(*bound.Block); ok {
			for _, s := range b.Stmts {
				visit(s)
			}
			return
		}
		stmts = append(stmts, s)
	}
	visit(s)
	return &bound.Block{Stmts: stmts}
}

func isFlat(b *bound.Block) bool {
	for _, s := range b.Stmts {
		if _, ok := s.(*bound.Block); ok {
			return false
		}
	}
	return true
}
