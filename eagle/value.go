// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eagle

// This file defines the run-time values of the evaluator.

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"go.eaglelang.org/bound"
	"go.eaglelang.org/symbol"
)

// A Value is the result of evaluating an Eagle expression.
//
// Scalars share their representation with constant folding:
// int64 for signed integers, uint64 for unsigned ones, rune for Char,
// bool and string. Objects are *Object. A Void result is nil.
type Value = interface{}

// An Object is an instance of a user-defined type.
//
// The fields of an object are created by its construction and hold
// values of any representation; the evaluator does not enforce a
// layout beyond what the binder has checked.
type Object struct {
	Type   *symbol.TypeSymbol
	fields map[*symbol.FieldSymbol]Value
}

func newObject(t *symbol.TypeSymbol) *Object {
	o := &Object{Type: t, fields: make(map[*symbol.FieldSymbol]Value, len(t.Fields()))}
	for _, f := range t.Fields() {
		o.fields[f] = zeroValue(f.Type)
	}
	return o
}

// Field returns the value of field f of o.
func (o *Object) Field(f *symbol.FieldSymbol) Value { return o.fields[f] }

// SetField sets the value of field f of o.
func (o *Object) SetField(f *symbol.FieldSymbol, v Value) { o.fields[f] = v }

func (o *Object) String() string {
	var buf bytes.Buffer
	writeValue(&buf, o, nil)
	return buf.String()
}

// writeValue writes x to out. path is used to detect cycles.
func writeValue(out *bytes.Buffer, x Value, path []*Object) {
	switch x := x.(type) {
	case nil:
		out.WriteString("nil")
	case string:
		out.WriteString(strconv.Quote(x))
	case rune:
		out.WriteString(strconv.QuoteRune(x))
	case *Object:
		if x == nil {
			out.WriteString("nil")
			return
		}
		for _, o := range path {
			if o == x {
				out.WriteString("...") // cycle
				return
			}
		}
		out.WriteString(x.Type.Name())
		out.WriteByte('{')
		for i, f := range x.Type.Fields() {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(f.Name())
			out.WriteString(": ")
			writeValue(out, x.fields[f], append(path, x))
		}
		out.WriteByte('}')
	default:
		out.WriteString(bound.Str(x))
	}
}

// Repr returns the source-like representation of a value:
// strings and Chars are quoted, objects list their fields.
func Repr(v Value) string {
	var buf bytes.Buffer
	writeValue(&buf, v, nil)
	return buf.String()
}

// String returns the display form of a value, as printed by Print.
func String(v Value) string {
	if o, ok := v.(*Object); ok {
		return o.String()
	}
	return bound.Str(v)
}

// TypeName describes the run-time representation of v.
func TypeName(v Value) string {
	if o, ok := v.(*Object); ok && o != nil {
		return o.Type.Name()
	}
	return bound.TypeName(v)
}

// zeroValue returns the value of an uninitialized field of type t.
func zeroValue(t *symbol.TypeSymbol) Value {
	switch {
	case t.IsBool():
		return false
	case t.IsString():
		return ""
	case t.IsChar():
		return rune(0)
	case t.IsInteger() && t.IsSigned():
		return int64(0)
	case t.IsInteger():
		return uint64(0)
	}
	return nil
}

// convert converts v to type t at run time.
func convert(v Value, t *symbol.TypeSymbol) (Value, error) {
	if t.IsObject() || t.IsPointer() {
		if o, ok := v.(*Object); v == nil || ok && (o == nil || symbol.Identical(o.Type, t)) {
			return v, nil
		}
		return nil, fmt.Errorf("cannot convert %s to %s", TypeName(v), t)
	}
	return bound.Convert(v, t)
}

// Globals is the global variable store of an evaluation. Successive
// submissions of a REPL session share one store.
type Globals map[*symbol.VariableSymbol]Value

// Names returns the sorted, distinct names of the variables in g.
func (g Globals) Names() []string {
	var names []string
	for _, v := range g.latest() {
		names = append(names, v.Name())
	}
	sort.Strings(names)
	return names
}

// Lookup returns the value of the most recently declared global
// variable named name.
func (g Globals) Lookup(name string) (Value, bool) {
	for _, v := range g.latest() {
		if v.Name() == name {
			return g[v], true
		}
	}
	return nil, false
}

// latest returns, for each name, the most recently declared top-level
// variable. Symbols are numbered in declaration order across
// submissions. Variables declared in blocks or loops, and those
// introduced by lowering, are not visible to later submissions and
// are omitted.
func (g Globals) latest() []*symbol.VariableSymbol {
	byName := make(map[string]*symbol.VariableSymbol)
	for v := range g {
		if !v.TopLevel {
			continue
		}
		if prev, ok := byName[v.Name()]; !ok || prev.ID() < v.ID() {
			byName[v.Name()] = v
		}
	}
	vars := make([]*symbol.VariableSymbol, 0, len(byName))
	for _, v := range byName {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID() < vars[j].ID() })
	return vars
}

func (g Globals) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range g.latest() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(v.Name())
		buf.WriteString(": ")
		writeValue(&buf, g[v], nil)
	}
	buf.WriteByte('}')
	return buf.String()
}
