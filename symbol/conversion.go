// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

// A Conversion classifies how a value of one type may become a value
// of another.
type Conversion uint8

const (
	None     Conversion = iota // no conversion exists
	Identity                   // the types are identical
	Implicit                   // converts without a cast
	Explicit                   // requires a cast
)

var conversionNames = [...]string{
	None:     "None",
	Identity: "Identity",
	Implicit: "Implicit",
	Explicit: "Explicit",
}

func (c Conversion) String() string { return conversionNames[c] }

func (c Conversion) Exists() bool     { return c != None }
func (c Conversion) IsIdentity() bool { return c == Identity }
func (c Conversion) IsImplicit() bool { return c == Identity || c == Implicit }
func (c Conversion) IsExplicit() bool { return c == Explicit }

// Classify returns the conversion from type from to type to.
func Classify(from, to *TypeSymbol) Conversion {
	if Identical(from, to) {
		return Identity
	}

	if !from.IsVoid() && to.IsAny() {
		return Implicit
	}
	if from.IsAny() && !to.IsVoid() {
		return Explicit
	}

	// Formatting and parsing.
	if (from.IsBool() || from.IsInteger()) && to.IsString() {
		return Explicit
	}
	if from.IsString() && (to.IsBool() || to.IsInteger()) {
		return Explicit
	}

	if from.IsInteger() && to.IsInteger() {
		// Widening is implicit unless it would drop the sign.
		if from.IsSigned() == to.IsSigned() || to.IsSigned() {
			if from.Bits() < to.Bits() {
				return Implicit
			}
		}
		return Explicit
	}

	if from.IsInteger() && to.IsFloat() {
		return Implicit
	}
	if from.IsFloat() && to.IsInteger() {
		return Explicit
	}
	return None
}
