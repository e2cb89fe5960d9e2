// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"go.eaglelang.org/symbol"
)

func params(a *symbol.Arena, types ...*symbol.TypeSymbol) []*symbol.ParameterSymbol {
	var ps []*symbol.ParameterSymbol
	for i, t := range types {
		ps = append(ps, a.NewParameter(string(rune('a'+i)), t, i))
	}
	return ps
}

func TestDeclareConflicts(t *testing.T) {
	a := symbol.NewArena()
	r := symbol.NewTypeRegistry(a)
	s := a.NewScope(nil)

	f := a.NewFunction("f", params(a, r.Int), r.Void, false)
	require.True(t, s.Declare(f))

	// Same parameter types: conflict.
	require.False(t, s.Declare(a.NewFunction("f", params(a, r.Int), r.Int, false)))
	// Different parameter types or arity: overload.
	require.True(t, s.Declare(a.NewFunction("f", params(a, r.String), r.Void, false)))
	require.True(t, s.Declare(a.NewFunction("f", params(a, r.Int, r.Int), r.Void, false)))
	// A constant may not share a function's name.
	require.False(t, s.Declare(a.NewConst("f", r.Int, int64(1))))
	// A variable always may, and shadows it.
	v := a.NewVariable("f", r.Int, false, true)
	require.True(t, s.Declare(v))
	got, ok := s.Lookup("f")
	require.True(t, ok)
	require.Equal(t, symbol.Symbol(v), got)
	// ...after which functions conflict with the variable.
	require.False(t, s.Declare(a.NewFunction("f", params(a, r.Bool), r.Void, false)))

	// Variables shadow variables at the same level.
	x1 := a.NewVariable("x", r.Int, false, true)
	x2 := a.NewVariable("x", r.String, true, true)
	require.True(t, s.Declare(x1))
	require.True(t, s.Declare(x2))
	got, _ = s.Lookup("x")
	require.Equal(t, symbol.Symbol(x2), got)

	// Other kinds never repeat.
	require.True(t, s.Declare(a.NewConst("k", r.Int, int64(1))))
	require.False(t, s.Declare(a.NewConst("k", r.Int, int64(2))))
	require.True(t, s.Declare(a.NewAlias("A")))
	require.False(t, s.Declare(a.NewAlias("A")))
}

func TestLookupShadowing(t *testing.T) {
	a := symbol.NewArena()
	r := symbol.NewTypeRegistry(a)
	outer := a.NewScope(nil)
	inner := a.NewScope(outer)
	require.Equal(t, outer, inner.Parent())
	require.Nil(t, outer.Parent())

	g := a.NewVariable("x", r.Int, false, true)
	l := a.NewVariable("x", r.String, false, false)
	outer.Declare(g)
	inner.Declare(l)

	got, _ := inner.Lookup("x")
	require.Equal(t, symbol.LocalVariableKind, got.Kind())
	got, _ = outer.Lookup("x")
	require.Equal(t, symbol.GlobalVariableKind, got.Kind())
	_, ok := inner.Lookup("y")
	require.False(t, ok)

	// LookupAll stops at the innermost level declaring the name.
	f1 := a.NewFunction("f", nil, r.Void, false)
	f2 := a.NewFunction("f", params(a, r.Int), r.Void, false)
	f3 := a.NewFunction("f", params(a, r.Bool), r.Void, false)
	outer.Declare(f1)
	inner.Declare(f2)
	inner.Declare(f3)
	require.Equal(t, []symbol.Symbol{f2, f3}, inner.LookupAll("f"))
	require.Equal(t, []symbol.Symbol{f1}, outer.LookupAll("f"))
}

func TestTypeScope(t *testing.T) {
	a := symbol.NewArena()
	r := symbol.NewTypeRegistry(a)
	global := a.NewScope(nil)
	point, b := a.NewType("Point")
	require.True(t, global.Declare(point))
	require.False(t, point.Locked())

	members := a.NewTypeScope(global, point, b)
	x := a.NewField(point, "X", r.Int)
	y := a.NewField(point, "Y", r.Int)
	require.True(t, members.Declare(x))
	require.True(t, members.Declare(y))
	require.False(t, members.Declare(a.NewField(point, "X", r.String)))
	require.True(t, members.Declare(a.NewMethod(point, "Move", params(a, r.Int), r.Void)))
	require.True(t, members.Declare(a.NewMethod(point, "Move", params(a, r.Int, r.Int), r.Void)))
	require.True(t, members.Declare(a.NewConstructor(point, nil, false)))
	require.False(t, members.Declare(a.NewConstructor(point, nil, false)))

	// Members are visible through the scope before the type is locked,
	// and outer names through its parent.
	got, ok := members.Lookup("X")
	require.True(t, ok)
	require.Equal(t, symbol.Symbol(x), got)
	got, ok = members.Lookup("Point")
	require.True(t, ok)
	require.Equal(t, symbol.Symbol(point), got)
	require.Empty(t, point.Members())

	b.Lock()
	require.True(t, point.Locked())
	require.Equal(t, []*symbol.FieldSymbol{x, y}, point.Fields())
	require.Equal(t, 1, y.Index)
	require.Len(t, point.Lookup("Move"), 2)
	require.Len(t, point.Constructors(), 1)
	require.Equal(t, point, a.Owner(x))

	// A locked type's builder and read-only scope reject declarations.
	require.Panics(t, func() { b.Declare(a.NewField(point, "Z", r.Int)) })
	ro := a.NewTypeScope(global, point, nil)
	require.Len(t, ro.Local("Move"), 2)
	require.Panics(t, func() { ro.Declare(a.NewField(point, "Z", r.Int)) })
	require.Equal(t, point, a.NewScope(ro).EnclosingType())
	require.Nil(t, global.EnclosingType())

	// Members of another type are rejected.
	other, ob := a.NewType("Other")
	require.Panics(t, func() { ob.Declare(a.NewField(point, "W", r.Int)) })
	ob.Lock()
	require.Empty(t, other.Fields())
}

func TestArenaIDs(t *testing.T) {
	a := symbol.NewArena()
	r := symbol.NewTypeRegistry(a)
	if a.Len() != len(r.Builtins())+1 {
		t.Fatalf("arena holds %d symbols, want %d", a.Len(), len(r.Builtins())+1)
	}
	for i := 0; i < a.Len(); i++ {
		if id := a.Symbol(symbol.ID(i)).ID(); id != symbol.ID(i) {
			t.Errorf("symbol %d has ID %d", i, id)
		}
	}
	s := a.NewScope(nil)
	if a.Scope(s.ID()) != s {
		t.Errorf("scope ID does not resolve")
	}
	if got := a.Type(r.Int.ID()); got != r.Int {
		t.Errorf("Type(%d) = %s, want Int", r.Int.ID(), got)
	}
}

func TestRootNames(t *testing.T) {
	a := symbol.NewArena()
	r := symbol.NewTypeRegistry(a)
	root := a.NewScope(nil)
	for _, t := range r.Builtins() {
		root.Declare(t)
	}
	inner := a.NewScope(root)
	inner.Declare(a.NewVariable("count", r.Int, false, false))
	got := strings.Join(inner.Names(), " ")
	want := "Any Bool Char Int Int16 Int32 Int64 Int8 String UInt UInt16 UInt32 UInt64 UInt8 Void count"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.Lookup("?"); ok {
		t.Errorf("error type is visible by name")
	}
}

func TestSignatureString(t *testing.T) {
	a := symbol.NewArena()
	r := symbol.NewTypeRegistry(a)
	f := a.NewFunction("Print", params(a, r.String, r.Pointer(r.Int)), r.Void, true)
	if got, want := f.String(), "Print(String, Int*): Void"; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
