// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eagle

// This file exports evaluation results as protocol buffer messages
// of the well-known google.protobuf.Value family.

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// maxExactInt is the largest magnitude of an integer that a
// google.protobuf.Value number represents exactly.
const maxExactInt = 1 << 53

// ToProto converts a value to a google.protobuf.Value.
//
// Void becomes null and Chars become one-character strings. Integers
// become numbers, or decimal strings if a float64 cannot hold them
// exactly. Objects become structs of their fields.
// ToProto fails if an object refers to itself.
func ToProto(v Value) (*structpb.Value, error) {
	return toProto(v, nil)
}

func toProto(v Value, path []*Object) (*structpb.Value, error) {
	switch v := v.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case bool:
		return structpb.NewBoolValue(v), nil
	case string:
		return structpb.NewStringValue(v), nil
	case rune:
		return structpb.NewStringValue(string(v)), nil
	case int64:
		if -maxExactInt <= v && v <= maxExactInt {
			return structpb.NewNumberValue(float64(v)), nil
		}
		return structpb.NewStringValue(strconv.FormatInt(v, 10)), nil
	case uint64:
		if v <= maxExactInt {
			return structpb.NewNumberValue(float64(v)), nil
		}
		return structpb.NewStringValue(strconv.FormatUint(v, 10)), nil
	case *Object:
		if v == nil {
			return structpb.NewNullValue(), nil
		}
		for _, o := range path {
			if o == v {
				return nil, fmt.Errorf("cannot export cyclic %s object", v.Type.Name())
			}
		}
		path = append(path, v)
		s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(v.fields))}
		for _, f := range v.Type.Fields() {
			x, err := toProto(v.fields[f], path)
			if err != nil {
				return nil, err
			}
			s.Fields[f.Name()] = x
		}
		return structpb.NewStructValue(s), nil
	}
	return nil, fmt.Errorf("cannot export value of type %T", v)
}

// Struct converts the latest variable of each name in g to a field
// of a google.protobuf.Struct.
func (g Globals) Struct() (*structpb.Struct, error) {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value)}
	for _, v := range g.latest() {
		x, err := ToProto(g[v])
		if err != nil {
			return nil, fmt.Errorf("%s: %v", v.Name(), err)
		}
		s.Fields[v.Name()] = x
	}
	return s, nil
}
