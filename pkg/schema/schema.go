package schema

import (
	"slices"

	"github.com/invopop/jsonschema"

	"pokedex/pkg/entities"
)

func generateSchema[T any](title string) *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
	}
	var v T
	s := r.Reflect(v)
	s.Title = title
	return s
}

var schemas = map[string]*jsonschema.Schema{
	"pokemon":        generateSchema[entities.Pokemon]("Pokemon"),
	"card":           generateSchema[entities.Card]("Card"),
	"page":           generateSchema[entities.Page]("Page"),
	"evolution-tree": generateSchema[entities.EvolutionTree]("EvolutionTree"),
}

// Lookup returns the JSON Schema of an exposed response type.
func Lookup(name string) (*jsonschema.Schema, bool) {
	s, ok := schemas[name]
	return s, ok
}

// Names lists the available schemas in sorted order.
func Names() []string {
	names := make([]string, 0, len(schemas))
	for n := range schemas {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
