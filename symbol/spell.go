package symbol

// This file defines a simple spell checker for use in name resolution
// errors ("Symbol 'pritn' doesn't exist. Did you mean 'Print'?")

import (
	"strings"
	"unicode"
)

// Suggest returns the name visible from s that is nearest to x,
// or "" if none is close enough. Each name is classified by the
// symbol that a lookup from s would find. Names whose symbol satisfies
// fits are tried first, so a value is suggested where a value is
// needed even if a function name is closer. Among names at the same
// distance, the innermost wins.
func Suggest(x string, s *Scope, fits func(Symbol) bool) string {
	var fitting, other []string
	seen := make(map[string]bool)
	for ; s != nil; s = s.Parent() {
		syms := s.Symbols()
		// Later declarations at one level shadow earlier ones.
		for i := len(syms) - 1; i >= 0; i-- {
			name := syms[i].Name()
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			if fits == nil || fits(syms[i]) {
				fitting = append(fitting, name)
			} else {
				other = append(other, name)
			}
		}
	}
	if n := Nearest(x, fitting); n != "" {
		return n
	}
	return Nearest(x, other)
}

// Nearest returns the element of candidates
// nearest to x using the Levenshtein metric,
// or "" if none is close enough. Ties go to the earliest candidate.
func Nearest(x string, candidates []string) string {
	// Ignore underscores and case when matching.
	fold := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r == '_' {
				return -1
			}
			return unicode.ToLower(r)
		}, s)
	}

	x = fold(x)

	var best string
	bestD := (len(x) + 1) / 2 // allow up to 50% typos
	for _, c := range candidates {
		d := levenshtein(x, fold(c), bestD)
		if d < bestD {
			bestD = d
			best = c
		}
	}
	return best
}

// levenshtein returns the non-negative Levenshtein edit distance
// between the byte strings x and y.
//
// If the computed distance exceeds max,
// the function may return early with an approximate value > max.
func levenshtein(x, y string, max int) int {
	// Let x be the shorter string.
	if len(x) > len(y) {
		x, y = y, x
	}

	// Remove common prefix.
	i := 0
	for i < len(x) && x[i] == y[i] {
		i++
	}
	x, y = x[i:], y[i:]
	if x == "" {
		return len(y)
	}

	row := make([]int, len(y)+1)
	for i := range row {
		row[i] = i
	}

	for i := 1; i <= len(x); i++ {
		row[0] = i
		best := i
		prev := i - 1
		for j := 1; j <= len(y); j++ {
			a := prev + b2i(x[i-1] != y[j-1]) // substitution
			b := 1 + row[j-1]                 // deletion
			c := 1 + row[j]                   // insertion
			k := min(a, min(b, c))
			prev, row[j] = row[j], k
			best = min(best, k)
		}
		if best > max {
			return best
		}
	}
	return row[len(y)]
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func min(x, y int) int {
	if x < y {
		return x
	} else {
		return y
	}
}
