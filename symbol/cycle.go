// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol

// FindBaseCycle searches the base-type graph reachable from t for a
// cycle and returns the types along it, with the first type repeated
// at the end (A, B, A). It returns nil if there is no cycle.
//
// The bases function supplies the edges, so that the check can run
// before any type is locked.
func FindBaseCycle(t *TypeSymbol, bases func(*TypeSymbol) []*TypeSymbol) []*TypeSymbol {
	const (
		white = iota // unvisited
		grey         // on the current path
		black        // finished
	)
	color := make(map[*TypeSymbol]int)
	var path []*TypeSymbol
	var visit func(t *TypeSymbol) []*TypeSymbol
	visit = func(t *TypeSymbol) []*TypeSymbol {
		color[t] = grey
		path = append(path, t)
		for _, base := range bases(t) {
			switch color[base] {
			case grey:
				for i, p := range path {
					if p == base {
						cycle := append([]*TypeSymbol(nil), path[i:]...)
						return append(cycle, base)
					}
				}
			case white:
				if cycle := visit(base); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		color[t] = black
		return nil
	}
	return visit(t)
}
