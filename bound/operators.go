// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bound

import (
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

// A UnaryOpKind identifies a unary operation.
type UnaryOpKind uint8

const (
	Identity UnaryOpKind = iota
	Negation
	LogicalNot
	BitwiseComplement
)

// A UnaryOp is an entry in the unary operator table.
type UnaryOp struct {
	Token   syntax.Token
	Kind    UnaryOpKind
	Operand *symbol.TypeSymbol
	Result  *symbol.TypeSymbol
}

// A BinaryOpKind identifies a binary operation.
type BinaryOpKind uint8

const (
	Addition BinaryOpKind = iota
	Subtraction
	Multiplication
	Division
	Modulo
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	LogicalAnd
	LogicalOr
	Equal
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
	Concatenation
)

// A BinaryOp is an entry in the binary operator table.
type BinaryOp struct {
	Token  syntax.Token
	Kind   BinaryOpKind
	Left   *symbol.TypeSymbol
	Right  *symbol.TypeSymbol
	Result *symbol.TypeSymbol
}

// Operators holds the fixed built-in operator tables of one
// compilation, expressed over its registry's types.
type Operators struct {
	unary  []*UnaryOp
	binary []*BinaryOp
}

// NewOperators builds the operator tables for the types of r.
func NewOperators(r *symbol.TypeRegistry) *Operators {
	ops := new(Operators)
	un := func(tok syntax.Token, kind UnaryOpKind, t *symbol.TypeSymbol) {
		ops.unary = append(ops.unary, &UnaryOp{tok, kind, t, t})
	}
	bin := func(tok syntax.Token, kind BinaryOpKind, x, y, z *symbol.TypeSymbol) {
		ops.binary = append(ops.binary, &BinaryOp{tok, kind, x, y, z})
	}
	numeric := func(t *symbol.TypeSymbol) {
		bin(syntax.PLUS, Addition, t, t, t)
		bin(syntax.MINUS, Subtraction, t, t, t)
		bin(syntax.STAR, Multiplication, t, t, t)
		bin(syntax.SLASH, Division, t, t, t)
		bin(syntax.PERCENT, Modulo, t, t, t)
		bin(syntax.AMP, BitwiseAnd, t, t, t)
		bin(syntax.PIPE, BitwiseOr, t, t, t)
		bin(syntax.CIRCUMFLEX, BitwiseXor, t, t, t)
		bin(syntax.EQL, Equal, t, t, r.Bool)
		bin(syntax.NEQ, NotEqual, t, t, r.Bool)
		bin(syntax.LT, Less, t, t, r.Bool)
		bin(syntax.LE, LessOrEqual, t, t, r.Bool)
		bin(syntax.GT, Greater, t, t, r.Bool)
		bin(syntax.GE, GreaterOrEqual, t, t, r.Bool)
	}

	signed := []*symbol.TypeSymbol{r.Int8, r.Int16, r.Int32, r.Int64, r.Int}
	unsigned := []*symbol.TypeSymbol{r.Char, r.UInt8, r.UInt16, r.UInt32, r.UInt64, r.UInt}
	for _, t := range signed {
		numeric(t)
		un(syntax.PLUS, Identity, t)
		un(syntax.MINUS, Negation, t)
		un(syntax.TILDE, BitwiseComplement, t)
	}
	for _, t := range unsigned {
		numeric(t)
		un(syntax.PLUS, Identity, t)
		un(syntax.TILDE, BitwiseComplement, t)
	}

	bin(syntax.ANDAND, LogicalAnd, r.Bool, r.Bool, r.Bool)
	bin(syntax.OROR, LogicalOr, r.Bool, r.Bool, r.Bool)
	bin(syntax.AMP, BitwiseAnd, r.Bool, r.Bool, r.Bool)
	bin(syntax.PIPE, BitwiseOr, r.Bool, r.Bool, r.Bool)
	bin(syntax.CIRCUMFLEX, BitwiseXor, r.Bool, r.Bool, r.Bool)
	bin(syntax.EQL, Equal, r.Bool, r.Bool, r.Bool)
	bin(syntax.NEQ, NotEqual, r.Bool, r.Bool, r.Bool)
	un(syntax.BANG, LogicalNot, r.Bool)

	// A string may be concatenated with any scalar on its right.
	for _, t := range append(append([]*symbol.TypeSymbol{r.Bool}, unsigned...), signed...) {
		bin(syntax.PLUS, Concatenation, r.String, t, r.String)
	}
	bin(syntax.PLUS, Concatenation, r.String, r.String, r.String)
	bin(syntax.EQL, Equal, r.String, r.String, r.Bool)
	bin(syntax.NEQ, NotEqual, r.String, r.String, r.Bool)
	return ops
}

// Unary returns the operator for tok applied to an operand of type t,
// or nil if there is none.
func (ops *Operators) Unary(tok syntax.Token, t *symbol.TypeSymbol) *UnaryOp {
	for _, op := range ops.unary {
		if op.Token == tok && symbol.Identical(op.Operand, t) {
			return op
		}
	}
	return nil
}

// Binary returns the operator for tok applied to operands of types x
// and y, or nil if there is none.
func (ops *Operators) Binary(tok syntax.Token, x, y *symbol.TypeSymbol) *BinaryOp {
	for _, op := range ops.binary {
		if op.Token == tok && symbol.Identical(op.Left, x) && symbol.Identical(op.Right, y) {
			return op
		}
	}
	return nil
}
