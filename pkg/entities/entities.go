package entities

// Summary is one row of the upstream index, used only to drive enrichment.
type Summary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pokemon is the denormalized detail record served by /pokemons/:identifier.
type Pokemon struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Height     float64     `json:"height"`
	Weight     float64     `json:"weight"`
	Types      []string    `json:"types" jsonschema_description:"Type names in slot order"`
	Stats      []int       `json:"stats" jsonschema_description:"Base stats in upstream order (hp, attack, defense, special-attack, special-defense, speed)"`
	Abilities  []string    `json:"abilities"`
	Image      string      `json:"image"`
	Evolutions []Evolution `json:"evolutions" jsonschema_description:"Linear evolution line, base form first, following the first branch only"`
}

// Evolution is one step of the linear lineage, ordered base form first.
type Evolution struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Card is the enriched row returned by listing and type filtering.
type Card struct {
	Name  string   `json:"name"`
	ID    int      `json:"id"`
	Image string   `json:"image"`
	Types []string `json:"types"`
}

// Page is one window of the catalog. Next and Previous hold only the query
// string of the upstream cursor, or nil at either end.
type Page struct {
	Next     *string `json:"next" jsonschema_description:"Query string of the next page, e.g. offset=20&limit=20"`
	Previous *string `json:"previous" jsonschema_description:"Query string of the previous page"`
	Pokemons []Card  `json:"pokemons"`
}

// EvolutionTree is the full branching chain. ID is zero when the species
// URL carried no numeric id.
type EvolutionTree struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	EvolvesTo []EvolutionTree `json:"evolvesTo" jsonschema_description:"Every direct evolution of this node"`
}

// Size counts the nodes in the tree.
func (t *EvolutionTree) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for i := range t.EvolvesTo {
		n += t.EvolvesTo[i].Size()
	}
	return n
}
