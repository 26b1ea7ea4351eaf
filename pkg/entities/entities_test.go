package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvolutionTreeSize(t *testing.T) {
	var nilTree *EvolutionTree
	assert.Equal(t, 0, nilTree.Size())

	tree := &EvolutionTree{Name: "eevee", EvolvesTo: []EvolutionTree{
		{Name: "vaporeon"},
		{Name: "jolteon"},
		{Name: "flareon", EvolvesTo: []EvolutionTree{{Name: "imaginary"}}},
	}}
	assert.Equal(t, 5, tree.Size())
}

func TestPageEncodesNullCursors(t *testing.T) {
	next := "offset=20&limit=20"
	raw, err := json.Marshal(Page{Next: &next, Pokemons: []Card{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"next":"offset=20&limit=20","previous":null,"pokemons":[]}`, string(raw))
}
