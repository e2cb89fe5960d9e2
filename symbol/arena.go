// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

// An Arena owns the symbols and scopes of one compilation and assigns
// each a stable integer ID. An Arena is not safe for concurrent use.
type Arena struct {
	symbols []Symbol
	scopes  []*Scope
}

// NewArena returns an empty arena.
func NewArena() *Arena { return new(Arena) }

type hasCommon interface{ base() *common }

func (c *common) base() *common { return c }

func (a *Arena) add(sym Symbol) {
	c := sym.(hasCommon).base()
	c.id = ID(len(a.symbols))
	a.symbols = append(a.symbols, sym)
}

// Len returns the number of symbols in the arena.
func (a *Arena) Len() int { return len(a.symbols) }

// Symbol returns the symbol with the given ID.
func (a *Arena) Symbol(id ID) Symbol { return a.symbols[id] }

// Type returns the type with the given ID.
// It panics if the symbol is not a type.
func (a *Arena) Type(id ID) *TypeSymbol { return a.symbols[id].(*TypeSymbol) }

// Owner returns the type that declares member m.
func (a *Arena) Owner(m Member) *TypeSymbol { return a.Type(m.Owner()) }

// Scope returns the scope with the given ID.
func (a *Arena) Scope(id ScopeID) *Scope { return a.scopes[id] }

// NewType creates a user-defined type and the builder that will
// populate it.
func (a *Arena) NewType(name string) (*TypeSymbol, *TypeBuilder) {
	t := &TypeSymbol{special: NotSpecial}
	t.name = name
	a.add(t)
	return t, &TypeBuilder{t: t}
}

// NewFunction creates a free function.
func (a *Arena) NewFunction(name string, params []*ParameterSymbol, result *TypeSymbol, extern bool) *FunctionSymbol {
	f := &FunctionSymbol{params: params, result: result, Extern: extern}
	f.name = name
	a.add(f)
	return f
}

// NewMethod creates a method of owner.
func (a *Arena) NewMethod(owner *TypeSymbol, name string, params []*ParameterSymbol, result *TypeSymbol) *MethodSymbol {
	m := &MethodSymbol{owner: owner.id, params: params, result: result}
	m.name = name
	a.add(m)
	return m
}

// NewConstructor creates a constructor of owner.
func (a *Arena) NewConstructor(owner *TypeSymbol, params []*ParameterSymbol, synthesized bool) *ConstructorSymbol {
	c := &ConstructorSymbol{owner: owner.id, params: params, result: owner, Synthesized: synthesized}
	c.name = "ctor"
	a.add(c)
	return c
}

// NewField creates a field of owner. Its Index is assigned when it is
// declared in the owner's builder.
func (a *Arena) NewField(owner *TypeSymbol, name string, typ *TypeSymbol) *FieldSymbol {
	f := &FieldSymbol{owner: owner.id, Type: typ, Index: -1}
	f.name = name
	a.add(f)
	return f
}

// NewProperty creates a property of owner.
func (a *Arena) NewProperty(owner *TypeSymbol, name string, typ *TypeSymbol, get, set *MethodSymbol) *PropertySymbol {
	p := &PropertySymbol{owner: owner.id, Type: typ, Getter: get, Setter: set}
	p.name = name
	a.add(p)
	return p
}

// NewIndexer creates an indexer of owner.
func (a *Arena) NewIndexer(owner *TypeSymbol, params []*ParameterSymbol, typ *TypeSymbol, get, set *MethodSymbol) *IndexerSymbol {
	x := &IndexerSymbol{owner: owner.id, params: params, Type: typ, Getter: get, Setter: set}
	x.name = "Item"
	a.add(x)
	return x
}

// NewParameter creates the index'th parameter of an invokable.
func (a *Arena) NewParameter(name string, typ *TypeSymbol, index int) *ParameterSymbol {
	p := &ParameterSymbol{Type: typ, Index: index}
	p.name = name
	a.add(p)
	return p
}

// NewVariable creates a global or local variable.
func (a *Arena) NewVariable(name string, typ *TypeSymbol, readOnly, global bool) *VariableSymbol {
	v := &VariableSymbol{Type: typ, ReadOnly: readOnly, global: global}
	v.name = name
	a.add(v)
	return v
}

// NewConst creates a compile-time constant.
func (a *Arena) NewConst(name string, typ *TypeSymbol, value interface{}) *ConstSymbol {
	c := &ConstSymbol{Type: typ, Value: value}
	c.name = name
	a.add(c)
	return c
}

// NewAlias creates an unresolved type alias.
func (a *Arena) NewAlias(name string) *AliasSymbol {
	x := new(AliasSymbol)
	x.name = name
	a.add(x)
	return x
}
