// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bound defines the bound tree: the typed, validated program
// representation produced by the binder and consumed, after lowering,
// by the evaluator.
//
// Bound nodes are immutable once constructed. A rewriting pass that
// changes nothing beneath a node returns that same node, so callers
// may detect a no-op by pointer comparison.
package bound // import "go.eaglelang.org/bound"

import (
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

// A Node is a node in the bound tree: a Stmt or an Expr.
type Node interface {
	node()
}

// A Stmt is a bound statement.
//
// Before lowering, a statement is one of *Block, *VarDecl, *ExprStmt,
// *If, *While, *Loop, *For, *Goto or *Return (break and continue are
// bound directly to gotos). Lowering replaces the structured
// statements with *LabelStmt, *Goto and *CondGoto.
type Stmt interface {
	Node
	stmt()
}

// An Expr is a bound expression. Its Type is never nil; an expression
// that failed to bind has the error type.
type Expr interface {
	Node
	Type() *symbol.TypeSymbol
	expr()
}

func (*Block) stmt()     {}
func (*VarDecl) stmt()   {}
func (*ExprStmt) stmt()  {}
func (*If) stmt()        {}
func (*While) stmt()     {}
func (*Loop) stmt()      {}
func (*For) stmt()       {}
func (*LabelStmt) stmt() {}
func (*Goto) stmt()      {}
func (*CondGoto) stmt()  {}
func (*Return) stmt()    {}

func (*ErrorExpr) expr()    {}
func (*Literal) expr()      {}
func (*VarExpr) expr()      {}
func (*ParamExpr) expr()    {}
func (*FieldExpr) expr()    {}
func (*PropertyExpr) expr() {}
func (*IndexExpr) expr()    {}
func (*Conversion) expr()   {}
func (*Unary) expr()        {}
func (*Binary) expr()       {}
func (*Assign) expr()       {}
func (*Call) expr()         {}
func (*MethodCall) expr()   {}
func (*New) expr()          {}
func (*This) expr()         {}

func (*Block) node()        {}
func (*VarDecl) node()      {}
func (*ExprStmt) node()     {}
func (*If) node()           {}
func (*While) node()        {}
func (*Loop) node()         {}
func (*For) node()          {}
func (*LabelStmt) node()    {}
func (*Goto) node()         {}
func (*CondGoto) node()     {}
func (*Return) node()       {}
func (*ErrorExpr) node()    {}
func (*Literal) node()      {}
func (*VarExpr) node()      {}
func (*ParamExpr) node()    {}
func (*FieldExpr) node()    {}
func (*PropertyExpr) node() {}
func (*IndexExpr) node()    {}
func (*Conversion) node()   {}
func (*Unary) node()        {}
func (*Binary) node()       {}
func (*Assign) node()       {}
func (*Call) node()         {}
func (*MethodCall) node()   {}
func (*New) node()          {}
func (*This) node()         {}

// ---- Statements ----

// A Block is a sequence of statements.
type Block struct {
	Stmts []Stmt
}

// A VarDecl declares a variable and assigns its initial value.
type VarDecl struct {
	Var  *symbol.VariableSymbol
	Init Expr
}

// An ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	X Expr
}

// An If is a conditional statement; Else may be nil.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// A While loop runs Body while Cond holds.
type While struct {
	Cond     Expr
	Body     Stmt
	Break    *Label
	Continue *Label
}

// A Loop runs Body until a break.
type Loop struct {
	Body     Stmt
	Break    *Label
	Continue *Label
}

// A For loop runs Body for Var = Lower to Upper inclusive.
type For struct {
	Var      *symbol.VariableSymbol
	Lower    Expr
	Upper    Expr
	Body     Stmt
	Break    *Label
	Continue *Label
}

// A LabelStmt marks a jump target.
type LabelStmt struct {
	Label *Label
}

// A Goto jumps unconditionally to Label.
type Goto struct {
	Label *Label
}

// A CondGoto jumps to Label if Cond evaluates to JumpIfTrue.
type CondGoto struct {
	Label      *Label
	Cond       Expr
	JumpIfTrue bool
}

// A Return ends the current invocation; Result may be nil.
type Return struct {
	Result Expr
}

// ---- Expressions ----

// An ErrorExpr stands for an expression that failed to bind.
type ErrorExpr struct {
	Err *symbol.TypeSymbol // the error type
}

// A Literal is a constant value:
// int64 for signed integers, uint64 for unsigned ones,
// bool, string, or rune for Char.
type Literal struct {
	Value interface{}
	T     *symbol.TypeSymbol
}

// A VarExpr reads a variable.
type VarExpr struct {
	Var *symbol.VariableSymbol
}

// A ParamExpr reads a parameter of the current invocation.
type ParamExpr struct {
	Param *symbol.ParameterSymbol
}

// A FieldExpr reads a field of the object X.
type FieldExpr struct {
	X     Expr
	Field *symbol.FieldSymbol
}

// A PropertyExpr reads (through its getter) or, as an assignment
// target, writes (through its setter) a property of X.
type PropertyExpr struct {
	X        Expr
	Property *symbol.PropertySymbol
}

// An IndexExpr reads or writes X[Args] through an indexer.
type IndexExpr struct {
	X       Expr
	Indexer *symbol.IndexerSymbol
	Args    []Expr
}

// A Conversion converts X to type T.
type Conversion struct {
	Pos syntax.Position
	T   *symbol.TypeSymbol
	X   Expr
}

// A Unary is a unary operation.
type Unary struct {
	Op *UnaryOp
	X  Expr
}

// A Binary is a binary operation.
type Binary struct {
	Pos syntax.Position // of the operator
	X   Expr
	Op  *BinaryOp
	Y   Expr
}

// An Assign stores Value into Target, a *VarExpr, *FieldExpr,
// *PropertyExpr or *IndexExpr, and yields the stored value.
type Assign struct {
	Target Expr
	Value  Expr
}

// A Call invokes a free function.
type Call struct {
	Pos  syntax.Position
	Fn   *symbol.FunctionSymbol
	Args []Expr
}

// A MethodCall invokes a method on Receiver. A nil Receiver means
// the receiver of the calling frame.
type MethodCall struct {
	Pos      syntax.Position
	Receiver Expr
	Method   *symbol.MethodSymbol
	Args     []Expr
}

// A New creates an object and runs its constructor.
type New struct {
	Pos  syntax.Position
	Ctor *symbol.ConstructorSymbol
	Args []Expr
}

// A This is the receiver of the current method, constructor or accessor.
type This struct {
	T *symbol.TypeSymbol
}

func (x *ErrorExpr) Type() *symbol.TypeSymbol    { return x.Err }
func (x *Literal) Type() *symbol.TypeSymbol      { return x.T }
func (x *VarExpr) Type() *symbol.TypeSymbol      { return x.Var.Type }
func (x *ParamExpr) Type() *symbol.TypeSymbol    { return x.Param.Type }
func (x *FieldExpr) Type() *symbol.TypeSymbol    { return x.Field.Type }
func (x *PropertyExpr) Type() *symbol.TypeSymbol { return x.Property.Type }
func (x *IndexExpr) Type() *symbol.TypeSymbol    { return x.Indexer.Type }
func (x *Conversion) Type() *symbol.TypeSymbol   { return x.T }
func (x *Unary) Type() *symbol.TypeSymbol        { return x.Op.Result }
func (x *Binary) Type() *symbol.TypeSymbol       { return x.Op.Result }
func (x *Assign) Type() *symbol.TypeSymbol       { return x.Target.Type() }
func (x *Call) Type() *symbol.TypeSymbol         { return x.Fn.Result() }
func (x *MethodCall) Type() *symbol.TypeSymbol   { return x.Method.Result() }
func (x *New) Type() *symbol.TypeSymbol          { return x.Ctor.Result() }
func (x *This) Type() *symbol.TypeSymbol         { return x.T }
