// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import "go.eaglelang.org/bound"

// AllPathsReturn reports whether every path through the lowered body b
// ends in a return statement, that is, whether control can never run
// off the end of b. Conditional gotos on constant conditions are
// treated as unconditional.
func AllPathsReturn(b *bound.Block) bool {
	labels := make(map[*bound.Label]int)
	for i, s := range b.Stmts {
		if s, ok := s.(*bound.LabelStmt); ok {
			labels[s.Label] = i
		}
	}

	end := len(b.Stmts)
	seen := make([]bool, end+1)
	work := []int{0}
	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[i] {
			continue
		}
		seen[i] = true
		if i == end {
			return false
		}
		switch s := b.Stmts[i].(type) {
		case *bound.Return:
			// no successor
		case *bound.Goto:
			work = append(work, labels[s.Label])
		case *bound.CondGoto:
			if lit, ok := s.Cond.(*bound.Literal); ok {
				if lit.Value == s.JumpIfTrue {
					work = append(work, labels[s.Label])
				} else {
					work = append(work, i+1)
				}
				break
			}
			work = append(work, labels[s.Label], i+1)
		default:
			work = append(work, i+1)
		}
	}
	return true
}
