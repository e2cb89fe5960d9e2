// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import "go.eaglelang.org/bound"

// fold computes the value of a constant expression: a literal, or a
// unary, binary or conversion operation on constant operands.
// It reports false if e is not constant or its evaluation fails.
func fold(e bound.Expr) (interface{}, bool) {
	switch e := e.(type) {
	case *bound.Literal:
		return e.Value, true

	case *bound.Conversion:
		x, ok := fold(e.X)
		if !ok {
			return nil, false
		}
		v, err := bound.Convert(x, e.T)
		return v, err == nil

	case *bound.Unary:
		x, ok := fold(e.X)
		if !ok {
			return nil, false
		}
		return e.Op.Apply(x), true

	case *bound.Binary:
		x, ok := fold(e.X)
		if !ok {
			return nil, false
		}
		y, ok := fold(e.Y)
		if !ok {
			return nil, false
		}
		v, err := e.Op.Apply(x, y)
		return v, err == nil
	}
	return nil, false
}
