// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

import "sort"

// A ScopeID identifies a scope within its Arena.
type ScopeID int32

// NoScope is the parent of a root scope.
const NoScope ScopeID = -1

// A Scope is a lexical symbol table with a parent.
//
// A type scope is the scope of a user-defined type's members: its
// declarations go to the type's builder (or, once the type is locked,
// are not permitted) and its lookups see the type's members.
type Scope struct {
	id      ScopeID
	parent  ScopeID
	arena   *Arena
	names   map[string][]Symbol
	order   []Symbol
	typ     *TypeSymbol
	builder *TypeBuilder
}

// NewScope creates a scope nested in parent, which may be nil.
func (a *Arena) NewScope(parent *Scope) *Scope {
	s := &Scope{
		id:     ScopeID(len(a.scopes)),
		parent: NoScope,
		arena:  a,
		names:  make(map[string][]Symbol),
	}
	if parent != nil {
		s.parent = parent.id
	}
	a.scopes = append(a.scopes, s)
	return s
}

// NewTypeScope creates the member scope of type t nested in parent.
// If b is non-nil, declarations in the scope go to b; otherwise t must
// be locked and the scope is read-only.
func (a *Arena) NewTypeScope(parent *Scope, t *TypeSymbol, b *TypeBuilder) *Scope {
	if b == nil && !t.locked {
		panic("type scope of unlocked type " + t.name + " needs a builder")
	}
	s := a.NewScope(parent)
	s.typ = t
	s.builder = b
	return s
}

// ID returns the scope's ID in its arena.
func (s *Scope) ID() ScopeID { return s.id }

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope {
	if s.parent == NoScope {
		return nil
	}
	return s.arena.scopes[s.parent]
}

// Type returns the type whose members this scope holds, or nil if it
// is not a type scope.
func (s *Scope) Type() *TypeSymbol { return s.typ }

// EnclosingType returns the type of the innermost enclosing type scope, or nil.
func (s *Scope) EnclosingType() *TypeSymbol {
	for ; s != nil; s = s.Parent() {
		if s.typ != nil {
			return s.typ
		}
	}
	return nil
}

// Declare adds sym to the scope. It reports false, leaving the scope
// unchanged, if sym conflicts with a symbol of the same name already
// declared at this level.
//
// Variables never conflict; a later variable shadows an earlier symbol.
// Functions, methods, constructors and indexers may share a name with
// others of the same kind whose parameter types differ. Any other
// repetition of a name is a conflict.
func (s *Scope) Declare(sym Symbol) bool {
	if s.typ != nil {
		m, ok := sym.(Member)
		if !ok || s.builder == nil {
			panic("cannot declare " + sym.Name() + " in member scope of " + s.typ.name)
		}
		return s.builder.Declare(m)
	}
	if conflicts(s.names[sym.Name()], sym) {
		return false
	}
	s.names[sym.Name()] = append(s.names[sym.Name()], sym)
	s.order = append(s.order, sym)
	return true
}

// conflicts reports whether sym may not be declared alongside existing.
func conflicts(existing []Symbol, sym Symbol) bool {
	if len(existing) == 0 {
		return false
	}
	k := sym.Kind()
	if k == GlobalVariableKind || k == LocalVariableKind {
		return false
	}
	if !k.overloadable() {
		return true
	}
	for _, e := range existing {
		if e.Kind() != k || sameParams(paramsOf(e), paramsOf(sym)) {
			return true
		}
	}
	return false
}

// Local returns the symbols named name declared at this level, in
// declaration order.
func (s *Scope) Local(name string) []Symbol {
	if s.typ != nil {
		if s.builder != nil && !s.typ.locked {
			return s.builder.Lookup(name)
		}
		return s.typ.Lookup(name)
	}
	return s.names[name]
}

// Lookup searches the scope and its ancestors, innermost first, and
// returns the most recently declared symbol named name at the first
// level that has one.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	syms := s.LookupAll(name)
	if len(syms) == 0 {
		return nil, false
	}
	return syms[len(syms)-1], true
}

// LookupAll returns every symbol named name at the innermost level
// that declares the name, in declaration order. Callers use it to
// enumerate the candidates of an overloaded name.
func (s *Scope) LookupAll(name string) []Symbol {
	for ; s != nil; s = s.Parent() {
		if syms := s.Local(name); len(syms) > 0 {
			return syms
		}
	}
	return nil
}

// Symbols returns the symbols declared at this level, in declaration order.
func (s *Scope) Symbols() []Symbol {
	if s.typ != nil {
		if s.builder != nil && !s.typ.locked {
			return s.builder.members
		}
		return s.typ.members
	}
	return s.order
}

// Names returns the sorted, distinct names visible from s.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for ; s != nil; s = s.Parent() {
		for _, sym := range s.Symbols() {
			if !seen[sym.Name()] {
				seen[sym.Name()] = true
				names = append(names, sym.Name())
			}
		}
	}
	sort.Strings(names)
	return names
}
