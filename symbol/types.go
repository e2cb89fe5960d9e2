// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

import "fmt"

// A Special classifies the built-in types.
// User-defined types are NotSpecial.
type Special uint8

const (
	NotSpecial Special = iota
	ErrorType
	VoidType
	AnyType
	BoolType
	StringType
	CharType
	Int8Type
	Int16Type
	Int32Type
	Int64Type
	UInt8Type
	UInt16Type
	UInt32Type
	UInt64Type
	IntType
	UIntType
	Float32Type
	Float64Type
	PointerType
)

var specials = [...]struct {
	name   string
	bits   int
	signed bool
}{
	ErrorType:   {"?", 0, false},
	VoidType:    {"Void", 0, false},
	AnyType:     {"Any", 0, false},
	BoolType:    {"Bool", 8, false},
	StringType:  {"String", 0, false},
	CharType:    {"Char", 16, false},
	Int8Type:    {"Int8", 8, true},
	Int16Type:   {"Int16", 16, true},
	Int32Type:   {"Int32", 32, true},
	Int64Type:   {"Int64", 64, true},
	UInt8Type:   {"UInt8", 8, false},
	UInt16Type:  {"UInt16", 16, false},
	UInt32Type:  {"UInt32", 32, false},
	UInt64Type:  {"UInt64", 64, false},
	IntType:     {"Int", 64, true},
	UIntType:    {"UInt", 64, false},
	Float32Type: {"Float32", 32, true},
	Float64Type: {"Float64", 64, true},
}

// A TypeSymbol is a built-in, pointer or user-defined type.
//
// A TypeSymbol is immutable once published. The members and base types
// of a user-defined type are supplied by its TypeBuilder, whose Lock
// method is the only writer.
type TypeSymbol struct {
	common
	special Special
	elem    *TypeSymbol // for pointers
	bases   []*TypeSymbol
	members []Symbol
	fields  []*FieldSymbol
	locked  bool
}

func (*TypeSymbol) Kind() Kind { return TypeKind }

// String returns the display name of the type; pointers print as T*.
func (t *TypeSymbol) String() string {
	if t.special == PointerType {
		return t.elem.String() + "*"
	}
	return t.name
}

// Special returns the built-in category of the type.
func (t *TypeSymbol) Special() Special { return t.special }

// Elem returns the element type of a pointer type, or nil.
func (t *TypeSymbol) Elem() *TypeSymbol { return t.elem }

func (t *TypeSymbol) IsError() bool   { return t.special == ErrorType }
func (t *TypeSymbol) IsVoid() bool    { return t.special == VoidType }
func (t *TypeSymbol) IsAny() bool     { return t.special == AnyType }
func (t *TypeSymbol) IsBool() bool    { return t.special == BoolType }
func (t *TypeSymbol) IsString() bool  { return t.special == StringType }
func (t *TypeSymbol) IsChar() bool    { return t.special == CharType }
func (t *TypeSymbol) IsPointer() bool { return t.special == PointerType }
func (t *TypeSymbol) IsFloat() bool   { return t.special == Float32Type || t.special == Float64Type }

// IsInteger reports whether t is one of the sized or native integer types.
func (t *TypeSymbol) IsInteger() bool { return Int8Type <= t.special && t.special <= UIntType }

// IsObject reports whether t is a user-defined type.
func (t *TypeSymbol) IsObject() bool { return t.special == NotSpecial }

// IsSigned reports whether t is a signed numeric type.
func (t *TypeSymbol) IsSigned() bool { return specials[t.special].signed }

// Bits returns the width in bits of a numeric type, Bool or Char, or zero.
func (t *TypeSymbol) Bits() int {
	if t.special == PointerType {
		return 64
	}
	return specials[t.special].bits
}

// Locked reports whether the type's members have been published.
// Built-in and pointer types are always locked.
func (t *TypeSymbol) Locked() bool { return t.locked }

// Bases returns the base types of a user-defined type.
func (t *TypeSymbol) Bases() []*TypeSymbol { return t.bases }

// Members returns the members of a user-defined type in declaration order.
// The result must not be modified.
func (t *TypeSymbol) Members() []Symbol { return t.members }

// Fields returns the fields of a user-defined type, ordered by Index.
func (t *TypeSymbol) Fields() []*FieldSymbol { return t.fields }

// Lookup returns the members of t named name, in declaration order.
func (t *TypeSymbol) Lookup(name string) []Symbol {
	var syms []Symbol
	for _, m := range t.members {
		if m.Name() == name {
			syms = append(syms, m)
		}
	}
	return syms
}

// Constructors returns the constructors of t.
func (t *TypeSymbol) Constructors() []*ConstructorSymbol {
	var ctors []*ConstructorSymbol
	for _, m := range t.members {
		if c, ok := m.(*ConstructorSymbol); ok {
			ctors = append(ctors, c)
		}
	}
	return ctors
}

// Identical reports whether x and y denote the same type.
// Pointer types are identical when their element types are.
func Identical(x, y *TypeSymbol) bool {
	if x == y {
		return true
	}
	if x.special == PointerType && y.special == PointerType {
		return Identical(x.elem, y.elem)
	}
	return false
}

// A TypeRegistry holds the built-in type singletons of one compilation
// and interns its pointer types. It is created once per compilation
// (or per chain of submissions) and passed explicitly to the phases
// that need it.
type TypeRegistry struct {
	Error, Void, Any, Bool, String, Char *TypeSymbol

	Int8, Int16, Int32, Int64     *TypeSymbol
	UInt8, UInt16, UInt32, UInt64 *TypeSymbol
	Int, UInt                     *TypeSymbol

	arena    *Arena
	builtins []*TypeSymbol
	byName   map[string]*TypeSymbol
	pointers map[*TypeSymbol]*TypeSymbol
}

// NewTypeRegistry creates the built-in types of a compilation in arena.
func NewTypeRegistry(arena *Arena) *TypeRegistry {
	r := &TypeRegistry{
		arena:    arena,
		byName:   make(map[string]*TypeSymbol),
		pointers: make(map[*TypeSymbol]*TypeSymbol),
	}
	mk := func(s Special) *TypeSymbol {
		t := &TypeSymbol{special: s, locked: true}
		t.name = specials[s].name
		arena.add(t)
		r.builtins = append(r.builtins, t)
		r.byName[t.name] = t
		return t
	}
	r.Error = mk(ErrorType)
	r.Void = mk(VoidType)
	r.Any = mk(AnyType)
	r.Bool = mk(BoolType)
	r.String = mk(StringType)
	r.Char = mk(CharType)
	r.Int8 = mk(Int8Type)
	r.Int16 = mk(Int16Type)
	r.Int32 = mk(Int32Type)
	r.Int64 = mk(Int64Type)
	r.UInt8 = mk(UInt8Type)
	r.UInt16 = mk(UInt16Type)
	r.UInt32 = mk(UInt32Type)
	r.UInt64 = mk(UInt64Type)
	r.Int = mk(IntType)
	r.UInt = mk(UIntType)
	return r
}

// Arena returns the arena in which the registry's types live.
func (r *TypeRegistry) Arena() *Arena { return r.arena }

// Builtins returns the built-in types, excluding the error type,
// in the order they are seeded into the root scope.
func (r *TypeRegistry) Builtins() []*TypeSymbol { return r.builtins[1:] }

// Lookup returns the built-in type with the given name.
func (r *TypeRegistry) Lookup(name string) (*TypeSymbol, bool) {
	t, ok := r.byName[name]
	if !ok || t.IsError() {
		return nil, false
	}
	return t, true
}

// Pointer returns the pointer type whose element type is elem.
func (r *TypeRegistry) Pointer(elem *TypeSymbol) *TypeSymbol {
	if elem.IsError() {
		return elem
	}
	if p, ok := r.pointers[elem]; ok {
		return p
	}
	p := &TypeSymbol{special: PointerType, elem: elem, locked: true}
	p.name = fmt.Sprintf("%s*", elem)
	r.arena.add(p)
	r.pointers[elem] = p
	return p
}
