// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol_test

import (
	"fmt"
	"strings"
	"testing"

	"go.eaglelang.org/symbol"
)

func TestFindBaseCycle(t *testing.T) {
	for _, test := range []struct {
		edges string // "A:B" means A has base B
		start string
		want  string
	}{
		{"", "A", "[]"},
		{"A:B B:C", "A", "[]"},
		{"A:A", "A", "[A A]"},
		{"A:B B:A", "A", "[A B A]"},
		{"A:B B:A", "B", "[B A B]"},
		{"C:A A:B B:A", "C", "[A B A]"},
		{"A:B A:C C:D D:C", "A", "[C D C]"},
		{"A:B B:C C:A", "B", "[B C A B]"},
	} {
		a := symbol.NewArena()
		types := make(map[string]*symbol.TypeSymbol)
		get := func(name string) *symbol.TypeSymbol {
			if types[name] == nil {
				types[name], _ = a.NewType(name)
			}
			return types[name]
		}
		bases := make(map[*symbol.TypeSymbol][]*symbol.TypeSymbol)
		for _, edge := range strings.Fields(test.edges) {
			i := strings.IndexByte(edge, ':')
			from, to := get(edge[:i]), get(edge[i+1:])
			bases[from] = append(bases[from], to)
		}
		cycle := symbol.FindBaseCycle(get(test.start), func(t *symbol.TypeSymbol) []*symbol.TypeSymbol {
			return bases[t]
		})
		var names []string
		for _, t := range cycle {
			names = append(names, t.Name())
		}
		if got := fmt.Sprint(names); got != test.want {
			t.Errorf("FindBaseCycle(%q, %s) = %s, want %s", test.edges, test.start, got, test.want)
		}
	}
}
