// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

import "fmt"

// A TypeBuilder accumulates the base types and members of a
// user-defined type until Lock publishes them into its TypeSymbol.
// A builder may not be used after Lock.
type TypeBuilder struct {
	t       *TypeSymbol
	bases   []*TypeSymbol
	members []Symbol
	fields  []*FieldSymbol
	done    bool
}

// Type returns the type under construction.
func (b *TypeBuilder) Type() *TypeSymbol { return b.t }

// SetBases records the base types of the type.
func (b *TypeBuilder) SetBases(bases []*TypeSymbol) {
	b.check()
	b.bases = bases
}

// Bases returns the base types recorded so far.
func (b *TypeBuilder) Bases() []*TypeSymbol { return b.bases }

// Declare adds a member to the type. It reports false, leaving the
// type unchanged, if the member conflicts with one already declared.
func (b *TypeBuilder) Declare(m Member) bool {
	b.check()
	if m.Owner() != b.t.id {
		panic(fmt.Sprintf("member %s declared in %s, owned by #%d", m.Name(), b.t.name, m.Owner()))
	}
	if conflicts(b.Lookup(m.Name()), m) {
		return false
	}
	if f, ok := m.(*FieldSymbol); ok {
		f.Index = len(b.fields)
		b.fields = append(b.fields, f)
	}
	b.members = append(b.members, m)
	return true
}

// Lookup returns the members declared so far named name.
func (b *TypeBuilder) Lookup(name string) []Symbol {
	var syms []Symbol
	for _, m := range b.members {
		if m.Name() == name {
			syms = append(syms, m)
		}
	}
	return syms
}

// Lock publishes the bases and members into the type and retires the builder.
func (b *TypeBuilder) Lock() *TypeSymbol {
	b.check()
	b.done = true
	t := b.t
	t.bases = b.bases
	t.members = b.members
	t.fields = b.fields
	t.locked = true
	return t
}

func (b *TypeBuilder) check() {
	if b.done {
		panic(fmt.Sprintf("type %s is locked", b.t.name))
	}
}
