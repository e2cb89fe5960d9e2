package repl_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.eaglelang.org/bind"
	"go.eaglelang.org/eagle"
	"go.eaglelang.org/repl"
)

// lines returns a readline function that yields the given lines.
func lines(input ...string) func() ([]byte, error) {
	return func() ([]byte, error) {
		if len(input) == 0 {
			return nil, io.EOF
		}
		line := input[0]
		input = input[1:]
		return []byte(line + "\n"), nil
	}
}

func TestSession(t *testing.T) {
	var out strings.Builder
	s := repl.NewSession(new(eagle.Thread), eagle.CompilePrelude(), &out)

	// A multi-line declaration is read until it parses.
	next := lines(
		"square(n: Int): Int {",
		"	return n * n",
		"}",
		"var x = 3",
		"square(x) + 1",
		"let x = \"s\"",
		"x",
	)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Submit(next))
	}
	require.Equal(t, io.EOF, s.Submit(next))
	require.Equal(t, "3\n10\n\"s\"\n\"s\"\n", out.String())

	v, ok := s.Globals().Lookup("x")
	require.True(t, ok)
	require.Equal(t, "s", v)
}

func TestSessionErrors(t *testing.T) {
	var out strings.Builder
	s := repl.NewSession(new(eagle.Thread), eagle.CompilePrelude(), &out)

	// A submission with errors is discarded.
	err := s.Submit(lines(`let y: Int = "no"`))
	require.IsType(t, bind.ErrorList{}, err)
	err = s.Submit(lines(`y`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "y")

	// A run-time failure keeps the declarations.
	err = s.Submit(lines(`let z = 1 / 0`))
	require.IsType(t, &eagle.EvalError{}, err)
	require.NoError(t, s.Submit(lines(`f(): Int { return 7 }`)))
	require.NoError(t, s.Submit(lines(`f()`)))
	require.Equal(t, "7\n", out.String())
}

func TestMetaCommands(t *testing.T) {
	var out strings.Builder
	s := repl.NewSession(new(eagle.Thread), eagle.CompilePrelude(), &out)

	require.NoError(t, s.Submit(lines("var n = 1")))
	require.NoError(t, s.Submit(lines("#reset")))
	require.Error(t, s.Submit(lines("n")), "n survived #reset")
	require.Empty(t, s.Globals())

	// Each call reads one submission; the loop spans several lines.
	require.NoError(t, s.Submit(lines("var k = 0")))
	out.Reset()
	require.NoError(t, s.Submit(lines("#showProgram")))
	require.NoError(t, s.Submit(lines("while k < 2 {", "k = k + 1", "}")))
	require.Contains(t, out.String(), "Showing lowered programs.")
	require.Contains(t, out.String(), "goto")

	out.Reset()
	require.NoError(t, s.Submit(lines("#showProgram")))
	require.NoError(t, s.Submit(lines("#showTree")))
	require.NoError(t, s.Submit(lines("k")))
	require.Equal(t, "Not showing lowered programs.\nShowing bound trees.\n$eval(): Any\n{\n    return k\n}\n2\n", out.String())

	out.Reset()
	require.NoError(t, s.Submit(lines("#help")))
	require.Contains(t, out.String(), "#showTree")

	err := s.Submit(lines("#emit"))
	require.EqualError(t, err, "invalid command #emit; try #help")
}
