package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"card", "evolution-tree", "page", "pokemon"}, Names())
}

func TestLookupPokemon(t *testing.T) {
	s, ok := Lookup("pokemon")
	require.True(t, ok)
	assert.Equal(t, "Pokemon", s.Title)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok, "schema: %s", raw)
	for _, field := range []string{"id", "name", "types", "stats", "abilities", "image", "evolutions"} {
		assert.Contains(t, props, field)
	}
}

func TestLookupRecursiveTree(t *testing.T) {
	s, ok := Lookup("evolution-tree")
	require.True(t, ok)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "evolvesTo")
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("trainer")
	assert.False(t, ok)
}
