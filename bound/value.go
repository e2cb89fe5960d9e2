// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bound

// This file defines the arithmetic of the built-in operators and
// conversions over scalar values, shared by constant folding and
// evaluation. Scalars are represented as:
//
//	signed integers    int64, wrapped to the width of their type
//	unsigned integers  uint64, wrapped to the width of their type
//	Char               rune, in [0, 0xFFFF]
//	Bool               bool
//	String             string

import (
	"errors"
	"fmt"
	"strconv"

	"go.eaglelang.org/symbol"
)

// ErrDivisionByZero is returned by integer division or modulo by zero.
var ErrDivisionByZero = errors.New("division by zero")

// Apply applies the unary operator to x.
func (op *UnaryOp) Apply(x interface{}) interface{} {
	switch op.Kind {
	case Identity:
		return x
	case LogicalNot:
		return !x.(bool)
	case Negation:
		return Wrap(-x.(int64), op.Result)
	case BitwiseComplement:
		switch x := x.(type) {
		case int64:
			return Wrap(^x, op.Result)
		case uint64:
			return Wrap(^x, op.Result)
		case rune:
			return Wrap(^x, op.Result)
		}
	}
	panic(fmt.Sprintf("unary %s on %T", op.Token, x))
}

// Apply applies the binary operator to x and y.
// The logical operators do not short-circuit here; the caller
// decides whether to evaluate y.
func (op *BinaryOp) Apply(x, y interface{}) (interface{}, error) {
	switch op.Kind {
	case Concatenation:
		return x.(string) + Str(y), nil
	case Equal:
		return x == y, nil
	case NotEqual:
		return x != y, nil
	case LogicalAnd:
		return x.(bool) && y.(bool), nil
	case LogicalOr:
		return x.(bool) || y.(bool), nil
	}

	if x, ok := x.(bool); ok {
		y := y.(bool)
		switch op.Kind {
		case BitwiseAnd:
			return x && y, nil
		case BitwiseOr:
			return x || y, nil
		case BitwiseXor:
			return x != y, nil
		}
	}

	switch x := x.(type) {
	case int64:
		return signedOp(op, x, y.(int64))
	case uint64:
		return unsignedOp(op, x, y.(uint64))
	case rune:
		z, err := unsignedOp(op, uint64(x), uint64(y.(rune)))
		if u, ok := z.(uint64); ok {
			return rune(u), err
		}
		return z, err
	}
	panic(fmt.Sprintf("binary %s on %T", op.Token, x))
}

func signedOp(op *BinaryOp, x, y int64) (interface{}, error) {
	switch op.Kind {
	case Addition:
		return Wrap(x+y, op.Result), nil
	case Subtraction:
		return Wrap(x-y, op.Result), nil
	case Multiplication:
		return Wrap(x*y, op.Result), nil
	case Division, Modulo:
		if y == 0 {
			return nil, ErrDivisionByZero
		}
		if op.Kind == Division {
			return Wrap(x/y, op.Result), nil
		}
		return Wrap(x%y, op.Result), nil
	case BitwiseAnd:
		return x & y, nil
	case BitwiseOr:
		return x | y, nil
	case BitwiseXor:
		return x ^ y, nil
	case Less:
		return x < y, nil
	case LessOrEqual:
		return x <= y, nil
	case Greater:
		return x > y, nil
	case GreaterOrEqual:
		return x >= y, nil
	}
	panic(fmt.Sprintf("binary %s on Int", op.Token))
}

func unsignedOp(op *BinaryOp, x, y uint64) (interface{}, error) {
	switch op.Kind {
	case Addition:
		return Wrap(x+y, op.Result), nil
	case Subtraction:
		return Wrap(x-y, op.Result), nil
	case Multiplication:
		return Wrap(x*y, op.Result), nil
	case Division, Modulo:
		if y == 0 {
			return nil, ErrDivisionByZero
		}
		if op.Kind == Division {
			return x / y, nil
		}
		return x % y, nil
	case BitwiseAnd:
		return x & y, nil
	case BitwiseOr:
		return x | y, nil
	case BitwiseXor:
		return x ^ y, nil
	case Less:
		return x < y, nil
	case LessOrEqual:
		return x <= y, nil
	case Greater:
		return x > y, nil
	case GreaterOrEqual:
		return x >= y, nil
	}
	panic(fmt.Sprintf("binary %s on UInt", op.Token))
}

// Wrap truncates an integer or Char value to the width of type t,
// sign-extending signed types, and returns it in t's representation.
func Wrap(v interface{}, t *symbol.TypeSymbol) interface{} {
	var bits uint64
	switch v := v.(type) {
	case int64:
		bits = uint64(v)
	case uint64:
		bits = v
	case rune:
		bits = uint64(v)
	default:
		panic(fmt.Sprintf("Wrap(%T)", v))
	}
	n := uint(t.Bits())
	if t.IsChar() {
		return rune(bits & 0xFFFF)
	}
	if t.IsSigned() {
		s := int64(bits)
		if n < 64 {
			s = s << (64 - n) >> (64 - n)
		}
		return s
	}
	if n < 64 {
		bits &= 1<<n - 1
	}
	return bits
}

// Convert converts the scalar v to type to, following an existing
// identity, implicit or explicit conversion. Conversions from Any
// check the dynamic value; they and string parsing may fail.
func Convert(v interface{}, to *symbol.TypeSymbol) (interface{}, error) {
	switch {
	case to.IsAny():
		return v, nil

	case to.IsString():
		switch v.(type) {
		case string, bool, int64, uint64:
			return Str(v), nil
		}

	case to.IsBool():
		switch v := v.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as Bool", v)
			}
			return b, nil
		}

	case to.IsChar():
		if v, ok := v.(rune); ok {
			return v, nil
		}

	case to.IsInteger():
		switch v := v.(type) {
		case int64, uint64:
			return Wrap(v, to), nil
		case string:
			return parseInt(v, to)
		}
	}
	return nil, fmt.Errorf("cannot convert %s to %s", TypeName(v), to)
}

func parseInt(s string, to *symbol.TypeSymbol) (interface{}, error) {
	if to.IsSigned() {
		i, err := strconv.ParseInt(s, 10, to.Bits())
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as %s", s, to)
		}
		return i, nil
	}
	u, err := strconv.ParseUint(s, 10, to.Bits())
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as %s", s, to)
	}
	return u, nil
}

// Str returns the display form of a scalar: strings unquoted,
// Chars as the character itself.
func Str(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case rune:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// TypeName describes the representation of a scalar for error messages.
func TypeName(v interface{}) string {
	switch v.(type) {
	case string:
		return "String"
	case rune:
		return "Char"
	case bool:
		return "Bool"
	case int64:
		return "Int"
	case uint64:
		return "UInt"
	case nil:
		return "Void"
	}
	return fmt.Sprintf("%T", v)
}
