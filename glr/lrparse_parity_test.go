package glr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsix/hydra/automaton"
	"github.com/parsix/hydra/lrparse"
)

// TestGLRAgreesWithDeterministicParseOnUnambiguousGrammar is the kind of
// higher-level end-to-end check where testify's require earns its keep:
// on an unambiguous grammar, the GLR driver's single surviving derivation
// must read the same as the deterministic lrparse.Parser's tree, and a
// plain reflect.DeepEqual-style failure message would be far less useful
// than require.Equal's diff when the two disagree.
func TestGLRAgreesWithDeterministicParseOnUnambiguousGrammar(t *testing.T) {
	g := buildUnambiguousSumGrammar(t)

	glrTable, err := automaton.Generate(g, automaton.LALR, true)
	require.NoError(t, err)
	lrTable, err := automaton.Generate(g, automaton.LALR, false)
	require.NoError(t, err)
	require.Empty(t, lrTable.Conflicts, "an unambiguous grammar should generate no residual conflicts")

	const input = "1+2+3"

	forest, errs := New(g, glrTable).Parse(input)
	require.Empty(t, errs)
	require.NotNil(t, forest.Root())
	tree, err := forest.FirstTree()
	require.NoError(t, err)

	node, errs := lrparse.New(g, lrTable).Parse(input)
	require.Empty(t, errs)
	require.NotNil(t, node)

	require.Equal(t, node.String(), tree.String(),
		"GLR's sole derivation and the deterministic parse should read identically")
}
