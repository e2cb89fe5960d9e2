// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		walkStmts(n.Stmts, f)

	case *FuncDecl:
		walkPrototype(&n.Prototype, f)
		Walk(n.Body, f)

	case *ExternDecl:
		walkPrototype(&n.Prototype, f)

	case *AliasDecl:
		Walk(n.Name, f)
		Walk(n.Type, f)

	case *ConstDecl:
		Walk(n.Name, f)
		if n.Type != nil {
			Walk(n.Type, f)
		}
		Walk(n.Value, f)

	case *ObjectDecl:
		Walk(n.Name, f)
		for _, base := range n.Bases {
			Walk(base, f)
		}
		for _, m := range n.Members {
			Walk(m, f)
		}

	case *FieldDecl:
		Walk(n.Name, f)
		Walk(n.Type, f)
		if n.Init != nil {
			Walk(n.Init, f)
		}

	case *MethodDecl:
		walkPrototype(&n.Prototype, f)
		Walk(n.Body, f)

	case *CtorDecl:
		walkPrototype(&n.Prototype, f)
		Walk(n.Body, f)

	case *PropertyDecl:
		Walk(n.Name, f)
		Walk(n.Type, f)
		walkAccessors(n.Get, n.Set, f)

	case *IndexerDecl:
		for _, param := range n.Params {
			Walk(param, f)
		}
		Walk(n.Type, f)
		walkAccessors(n.Get, n.Set, f)

	case *Param:
		Walk(n.Name, f)
		Walk(n.Type, f)

	case *TypeRef:
		Walk(n.Name, f)

	case *BlockStmt:
		walkStmts(n.Stmts, f)

	case *VarDecl:
		Walk(n.Name, f)
		if n.Type != nil {
			Walk(n.Type, f)
		}
		Walk(n.Init, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *IfStmt:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}

	case *WhileStmt:
		Walk(n.Cond, f)
		Walk(n.Body, f)

	case *LoopStmt:
		Walk(n.Body, f)

	case *ForStmt:
		Walk(n.Var, f)
		Walk(n.Lower, f)
		Walk(n.Upper, f)
		Walk(n.Body, f)

	case *BranchStmt:
		// no-op

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *Ident, *Literal, *ThisExpr:
		// no-op

	case *ParenExpr:
		Walk(n.X, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *AssignExpr:
		Walk(n.LHS, f)
		Walk(n.RHS, f)

	case *CallExpr:
		Walk(n.Fn, f)
		walkExprs(n.Args, f)

	case *DotExpr:
		Walk(n.X, f)
		Walk(n.Name, f)

	case *IndexExpr:
		Walk(n.X, f)
		walkExprs(n.Args, f)

	case *CastExpr:
		Walk(n.Type, f)
		Walk(n.X, f)

	case *NewExpr:
		Walk(n.Type, f)
		walkExprs(n.Args, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkPrototype(proto *Prototype, f func(Node) bool) {
	Walk(proto.Name, f)
	for _, param := range proto.Params {
		Walk(param, f)
	}
	if proto.Result != nil {
		Walk(proto.Result, f)
	}
}

func walkAccessors(get, set *BlockStmt, f func(Node) bool) {
	if get != nil {
		Walk(get, f)
	}
	if set != nil {
		Walk(set, f)
	}
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}

func walkExprs(exprs []Expr, f func(Node) bool) {
	for _, expr := range exprs {
		Walk(expr, f)
	}
}
