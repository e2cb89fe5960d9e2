// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bound

import "fmt"

// A Label is an opaque jump target. Labels are compared by identity;
// the name is for printing only.
type Label struct {
	Name string
}

func (l *Label) String() string { return l.Name }

// A LabelGen generates labels numbered by a monotonically increasing
// counter. One generator serves a whole compilation, so that no two
// labels of a program share a name.
type LabelGen struct {
	n int
}

// Loop returns the break and continue labels of a new loop.
func (g *LabelGen) Loop() (brk, cont *Label) {
	g.n++
	return &Label{fmt.Sprintf("break_%d", g.n)}, &Label{fmt.Sprintf("continue_%d", g.n)}
}

// New returns a fresh label for control flow introduced by lowering.
func (g *LabelGen) New() *Label {
	g.n++
	return &Label{fmt.Sprintf("label_%d", g.n)}
}
