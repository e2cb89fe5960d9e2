// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides an Eagle parser and abstract syntax tree.
package syntax // import "go.eaglelang.org/syntax"

// A Node is a node in an Eagle syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents an Eagle compilation unit: one source file or
// one REPL submission.
type File struct {
	Path  string
	Stmts []Stmt // declarations and global statements, in source order
	EOF   Position
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return x.EOF, x.EOF
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is an Eagle statement or top-level declaration.
type Stmt interface {
	Node
	stmt()
}

func (*AliasDecl) stmt()  {}
func (*BlockStmt) stmt()  {}
func (*BranchStmt) stmt() {}
func (*ConstDecl) stmt()  {}
func (*ExprStmt) stmt()   {}
func (*ExternDecl) stmt() {}
func (*ForStmt) stmt()    {}
func (*FuncDecl) stmt()   {}
func (*IfStmt) stmt()     {}
func (*LoopStmt) stmt()   {}
func (*ObjectDecl) stmt() {}
func (*ReturnStmt) stmt() {}
func (*VarDecl) stmt()    {}
func (*WhileStmt) stmt()  {}

// A TypeRef denotes a type: Name, or Name followed by one or more '*'.
type TypeRef struct {
	Name  *Ident
	Stars int // pointer depth
	end   Position
}

func (x *TypeRef) Span() (start, end Position) {
	return x.Name.NamePos, x.end
}

// A Param is a function parameter: Name: Type.
type Param struct {
	Name *Ident
	Type *TypeRef
}

func (x *Param) Span() (start, end Position) {
	_, end = x.Type.Span()
	return x.Name.NamePos, end
}

// A Prototype is the signature shared by functions, methods,
// externs and constructors.
type Prototype struct {
	Name   *Ident
	Lparen Position
	Params []*Param
	Rparen Position
	Result *TypeRef // may be nil, meaning Void
}

func (x *Prototype) Span() (start, end Position) {
	if x.Result != nil {
		_, end = x.Result.Span()
	} else {
		end = x.Rparen.add(")")
	}
	return x.Name.NamePos, end
}

// A FuncDecl represents a function definition: name(params): Result { Body }.
type FuncDecl struct {
	Prototype
	Body *BlockStmt
}

func (x *FuncDecl) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.Name.NamePos, end
}

// An ExternDecl declares a host-provided function without a body.
type ExternDecl struct {
	Extern Position
	Prototype
}

func (x *ExternDecl) Span() (start, end Position) {
	_, end = x.Prototype.Span()
	return x.Extern, end
}

// An AliasDecl introduces an alternative name for a type: alias Name = Type.
type AliasDecl struct {
	Alias Position
	Name  *Ident
	Type  *TypeRef
}

func (x *AliasDecl) Span() (start, end Position) {
	_, end = x.Type.Span()
	return x.Alias, end
}

// A ConstDecl declares a compile-time constant: const Name[: Type] = Value.
type ConstDecl struct {
	Const Position
	Name  *Ident
	Type  *TypeRef // may be nil
	Value Expr
}

func (x *ConstDecl) Span() (start, end Position) {
	_, end = x.Value.Span()
	return x.Const, end
}

// An ObjectDecl declares a user-defined type:
// object|struct|class Name[: Base, ...] { Members }.
type ObjectDecl struct {
	Keyword Position
	Token   Token // = OBJECT | STRUCT | CLASS
	Name    *Ident
	Bases   []*TypeRef
	Members []Member
	Rbrace  Position
}

func (x *ObjectDecl) Span() (start, end Position) {
	return x.Keyword, x.Rbrace.add("}")
}

// A Member is a member declaration of an ObjectDecl.
type Member interface {
	Node
	member()
}

func (*CtorDecl) member()     {}
func (*FieldDecl) member()    {}
func (*IndexerDecl) member()  {}
func (*MethodDecl) member()   {}
func (*PropertyDecl) member() {}

// A FieldDecl declares a field: Name: Type [= Init].
type FieldDecl struct {
	Name *Ident
	Type *TypeRef
	Init Expr // may be nil
}

func (x *FieldDecl) Span() (start, end Position) {
	if x.Init != nil {
		_, end = x.Init.Span()
	} else {
		_, end = x.Type.Span()
	}
	return x.Name.NamePos, end
}

// A MethodDecl declares a method: name(params)[: Result] { Body }.
type MethodDecl struct {
	Prototype
	Body *BlockStmt
}

func (x *MethodDecl) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.Name.NamePos, end
}

// A CtorDecl declares a constructor: ctor(params) { Body }.
// Its Prototype.Name is the ctor keyword, as an identifier.
type CtorDecl struct {
	Prototype
	Body *BlockStmt
}

func (x *CtorDecl) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.Name.NamePos, end
}

// A PropertyDecl declares a property with an optional getter and setter:
//	p: T => expr
//	p: T { get => expr  set { ... } }
// The setter body sees the assigned value as the parameter "value".
type PropertyDecl struct {
	Name   *Ident
	Type   *TypeRef
	Get    *BlockStmt // may be nil
	Set    *BlockStmt // may be nil
	EndPos Position
}

func (x *PropertyDecl) Span() (start, end Position) {
	return x.Name.NamePos, x.EndPos
}

// An IndexerDecl declares an indexer: [params]: T => expr, or with
// get/set accessors like a property.
type IndexerDecl struct {
	Lbrack Position
	Params []*Param
	Type   *TypeRef
	Get    *BlockStmt // may be nil
	Set    *BlockStmt // may be nil
	EndPos Position
}

func (x *IndexerDecl) Span() (start, end Position) {
	return x.Lbrack, x.EndPos
}

// A BlockStmt is a braced statement list.
type BlockStmt struct {
	Lbrace Position
	Stmts  []Stmt
	Rbrace Position
}

func (x *BlockStmt) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// A VarDecl declares a local or global variable:
// let|var Name[: Type] = Init.
type VarDecl struct {
	Keyword Position
	Token   Token // = LET (read-only) | VAR
	Name    *Ident
	Type    *TypeRef // may be nil
	Init    Expr
}

func (x *VarDecl) Span() (start, end Position) {
	_, end = x.Init.Span()
	return x.Keyword, end
}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An IfStmt is a conditional: if Cond Then [else Else].
type IfStmt struct {
	If      Position
	Cond    Expr
	Then    Stmt
	ElsePos Position
	Else    Stmt // may be nil
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.Else
	if body == nil {
		body = x.Then
	}
	_, end = body.Span()
	return x.If, end
}

// A WhileStmt is a pre-tested loop: while Cond Body.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  Stmt
}

func (x *WhileStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.While, end
}

// A LoopStmt is an unconditional loop: loop Body.
type LoopStmt struct {
	Loop Position
	Body Stmt
}

func (x *LoopStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.Loop, end
}

// A ForStmt is a counted loop over an inclusive range:
// for Var = Lower to Upper Body.
type ForStmt struct {
	For   Position
	Var   *Ident
	Lower Expr
	Upper Expr
	Body  Stmt
}

func (x *ForStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.For, end
}

// A BranchStmt changes the flow of control: break, continue.
type BranchStmt struct {
	Token    Token // = BREAK | CONTINUE
	TokenPos Position
}

func (x *BranchStmt) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Token.String())
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Return Position
	Result Expr // may be nil
}

func (x *ReturnStmt) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	_, end = x.Result.Span()
	return x.Return, end
}

// An Expr is an Eagle expression.
type Expr interface {
	Node
	expr()
}

func (*AssignExpr) expr() {}
func (*BinaryExpr) expr() {}
func (*CallExpr) expr()   {}
func (*CastExpr) expr()   {}
func (*DotExpr) expr()    {}
func (*Ident) expr()      {}
func (*IndexExpr) expr()  {}
func (*Literal) expr()    {}
func (*NewExpr) expr()    {}
func (*ParenExpr) expr()  {}
func (*ThisExpr) expr()   {}
func (*UnaryExpr) expr()  {}

// An Ident represents an identifier.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal number, string, character or boolean.
type Literal struct {
	Token    Token // = INT | STRING | CHAR | TRUE | FALSE
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = int64 | string | rune | bool
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// An AssignExpr represents an assignment: LHS = RHS.
// Assignment is right-associative and yields the assigned value.
type AssignExpr struct {
	LHS   Expr
	OpPos Position
	RHS   Expr
}

func (x *AssignExpr) Span() (start, end Position) {
	start, _ = x.LHS.Span()
	_, end = x.RHS.Span()
	return start, end
}

// A CallExpr represents a function call expression: Fn(Args).
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A DotExpr represents a field, property or method selector: X.Name.
type DotExpr struct {
	X    Expr
	Dot  Position
	Name *Ident
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return
}

// An IndexExpr represents an indexer access: X[Args].
type IndexExpr struct {
	X      Expr
	Lbrack Position
	Args   []Expr
	Rbrack Position
}

func (x *IndexExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack.add("]")
}

// A CastExpr represents an explicit conversion: (Type)X.
type CastExpr struct {
	Lparen Position
	Type   *TypeRef
	X      Expr
}

func (x *CastExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.Lparen, end
}

// A NewExpr represents object construction: new Type(Args).
type NewExpr struct {
	New    Position
	Type   *TypeRef
	Args   []Expr
	Rparen Position
}

func (x *NewExpr) Span() (start, end Position) {
	return x.New, x.Rparen.add(")")
}

// A ThisExpr denotes the receiver of the enclosing method.
type ThisExpr struct {
	This Position
}

func (x *ThisExpr) Span() (start, end Position) {
	return x.This, x.This.add("this")
}
