// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbol defines the symbols, scopes and types of an Eagle
// compilation, and the rules for converting between types.
//
// Every symbol and scope of a compilation lives in one Arena and is
// identified by a stable integer ID. Back-references (a member to its
// owning type, a scope to its parent) are IDs resolved through the
// arena, never owning pointers.
//
// Types are built in two steps: a TypeBuilder collects the base types
// and members of a user-defined type during member declaration, and its
// Lock method publishes them, once, into the immutable TypeSymbol.
package symbol // import "go.eaglelang.org/symbol"

import (
	"bytes"
	"fmt"
)

// A Kind identifies the variant of a Symbol.
type Kind uint8

const (
	TypeKind Kind = iota
	FunctionKind
	MethodKind
	ConstructorKind
	FieldKind
	PropertyKind
	IndexerKind
	ParameterKind
	GlobalVariableKind
	LocalVariableKind
	ConstKind
	AliasKind
)

var kindNames = [...]string{
	TypeKind:           "Type",
	FunctionKind:       "Function",
	MethodKind:         "Method",
	ConstructorKind:    "Constructor",
	FieldKind:          "Field",
	PropertyKind:       "Property",
	IndexerKind:        "Indexer",
	ParameterKind:      "Parameter",
	GlobalVariableKind: "GlobalVariable",
	LocalVariableKind:  "LocalVariable",
	ConstKind:          "Const",
	AliasKind:          "Alias",
}

func (k Kind) String() string { return kindNames[k] }

// overloadable reports whether symbols of this kind may share a name
// when their parameter types differ.
func (k Kind) overloadable() bool {
	switch k {
	case FunctionKind, MethodKind, ConstructorKind, IndexerKind:
		return true
	}
	return false
}

// An ID identifies a symbol within its Arena.
type ID int32

// NoID is the ID of no symbol.
const NoID ID = -1

// A Symbol is a named, kinded semantic entity produced by binding.
//
// The set of implementations is closed: *TypeSymbol, *FunctionSymbol,
// *MethodSymbol, *ConstructorSymbol, *FieldSymbol, *PropertySymbol,
// *IndexerSymbol, *ParameterSymbol, *VariableSymbol, *ConstSymbol and
// *AliasSymbol.
type Symbol interface {
	Kind() Kind
	Name() string
	ID() ID
	String() string
	symbol()
}

// common holds the fields shared by all symbols.
type common struct {
	id   ID
	name string
}

func (c *common) ID() ID         { return c.id }
func (c *common) Name() string   { return c.name }
func (c *common) String() string { return c.name }
func (*common) symbol()          {}

// An Invokable is a symbol with a parameter list and a body (or an
// extern host implementation): a function, method or constructor.
type Invokable interface {
	Symbol
	Params() []*ParameterSymbol
	Result() *TypeSymbol
}

// A Member is a symbol declared inside a user-defined type.
type Member interface {
	Symbol
	Owner() ID // ID of the owning *TypeSymbol
}

// A FunctionSymbol is a free function, possibly extern.
type FunctionSymbol struct {
	common
	params []*ParameterSymbol
	result *TypeSymbol
	Extern bool // declared without a body; provided by the host
}

func (*FunctionSymbol) Kind() Kind                   { return FunctionKind }
func (f *FunctionSymbol) Params() []*ParameterSymbol { return f.params }
func (f *FunctionSymbol) Result() *TypeSymbol        { return f.result }
func (f *FunctionSymbol) String() string             { return signature(f.name, f.params, f.result) }

// A MethodSymbol is a method of a user-defined type, including the
// synthesized accessor methods of properties and indexers.
type MethodSymbol struct {
	common
	owner  ID
	params []*ParameterSymbol
	result *TypeSymbol
}

func (*MethodSymbol) Kind() Kind                   { return MethodKind }
func (m *MethodSymbol) Owner() ID                  { return m.owner }
func (m *MethodSymbol) Params() []*ParameterSymbol { return m.params }
func (m *MethodSymbol) Result() *TypeSymbol        { return m.result }
func (m *MethodSymbol) String() string             { return signature(m.name, m.params, m.result) }

// A ConstructorSymbol is a constructor of a user-defined type.
// Its result is the owning type.
type ConstructorSymbol struct {
	common
	owner  ID
	params []*ParameterSymbol
	result *TypeSymbol
	// Synthesized is set for the default constructor of a type
	// that declares none.
	Synthesized bool
}

func (*ConstructorSymbol) Kind() Kind                   { return ConstructorKind }
func (c *ConstructorSymbol) Owner() ID                  { return c.owner }
func (c *ConstructorSymbol) Params() []*ParameterSymbol { return c.params }
func (c *ConstructorSymbol) Result() *TypeSymbol        { return c.result }
func (c *ConstructorSymbol) String() string             { return signature(c.name, c.params, nil) }

// A FieldSymbol is a field of a user-defined type.
type FieldSymbol struct {
	common
	owner ID
	Type  *TypeSymbol
	Index int // position among the fields of the owner
}

func (*FieldSymbol) Kind() Kind  { return FieldKind }
func (f *FieldSymbol) Owner() ID { return f.owner }

// A PropertySymbol is a property; reads and writes are calls to its
// getter and setter methods, either of which may be absent.
type PropertySymbol struct {
	common
	owner  ID
	Type   *TypeSymbol
	Getter *MethodSymbol
	Setter *MethodSymbol
}

func (*PropertySymbol) Kind() Kind  { return PropertyKind }
func (p *PropertySymbol) Owner() ID { return p.owner }

// An IndexerSymbol is an indexer, x[args], with getter and setter methods.
type IndexerSymbol struct {
	common
	owner  ID
	params []*ParameterSymbol
	Type   *TypeSymbol
	Getter *MethodSymbol
	Setter *MethodSymbol
}

func (*IndexerSymbol) Kind() Kind                   { return IndexerKind }
func (x *IndexerSymbol) Owner() ID                  { return x.owner }
func (x *IndexerSymbol) Params() []*ParameterSymbol { return x.params }

// A ParameterSymbol is a parameter of an invokable.
type ParameterSymbol struct {
	common
	Type  *TypeSymbol
	Index int // position in the parameter list
}

func (*ParameterSymbol) Kind() Kind { return ParameterKind }

// A VariableSymbol is a global or local variable.
type VariableSymbol struct {
	common
	Type     *TypeSymbol
	ReadOnly bool // declared with let
	TopLevel bool // declared by a global statement outside any block
	global   bool
}

func (v *VariableSymbol) Kind() Kind {
	if v.global {
		return GlobalVariableKind
	}
	return LocalVariableKind
}

// IsGlobal reports whether v is stored in the global variable store.
func (v *VariableSymbol) IsGlobal() bool { return v.global }

// A ConstSymbol is a compile-time constant.
type ConstSymbol struct {
	common
	Type  *TypeSymbol
	Value interface{} // int64 | uint64 | bool | string | rune
}

func (*ConstSymbol) Kind() Kind { return ConstKind }

// An AliasSymbol is an alternative name for a type. Its target is
// unset until the binder resolves it.
type AliasSymbol struct {
	common
	target *TypeSymbol
}

func (*AliasSymbol) Kind() Kind { return AliasKind }

// Target returns the aliased type, or nil if it is not yet resolved.
func (a *AliasSymbol) Target() *TypeSymbol { return a.target }

// Resolve sets the aliased type. It panics if the alias is already resolved.
func (a *AliasSymbol) Resolve(t *TypeSymbol) {
	if a.target != nil {
		panic(fmt.Sprintf("alias %s resolved twice", a.name))
	}
	a.target = t
}

// signature formats an invokable as name(T1, T2): R.
func signature(name string, params []*ParameterSymbol, result *TypeSymbol) string {
	var buf bytes.Buffer
	buf.WriteString(name)
	buf.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.Type.String())
	}
	buf.WriteByte(')')
	if result != nil {
		buf.WriteString(": ")
		buf.WriteString(result.String())
	}
	return buf.String()
}

// sameParams reports whether two parameter lists have the same
// arity and identical types in each position.
func sameParams(x, y []*ParameterSymbol) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Identical(x[i].Type, y[i].Type) {
			return false
		}
	}
	return true
}

// paramsOf returns the parameter list of an overloadable symbol.
func paramsOf(sym Symbol) []*ParameterSymbol {
	switch sym := sym.(type) {
	case Invokable:
		return sym.Params()
	case *IndexerSymbol:
		return sym.Params()
	}
	return nil
}
