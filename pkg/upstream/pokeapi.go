package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"pokedex/pkg/entities"
)

// IndexPage is the body of GET /pokemon?offset&limit.
type IndexPage struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []entities.Summary `json:"results"`
}

// PokemonRecord holds the fields of GET /pokemon/{id} this service reads.
type PokemonRecord struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
	Types   []struct {
		Slot int      `json:"slot"`
		Type Resource `json:"type"`
	} `json:"types"`
	Species Resource `json:"species"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
	Stats []struct {
		BaseStat int      `json:"base_stat"`
		Stat     Resource `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Ability  Resource `json:"ability"`
		IsHidden bool     `json:"is_hidden"`
	} `json:"abilities"`
}

// Resource is the upstream {name, url} reference.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (p *PokemonRecord) TypeNames() []string {
	out := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		out = append(out, t.Type.Name)
	}
	return out
}

func (p *PokemonRecord) BaseStats() []int {
	out := make([]int, 0, len(p.Stats))
	for _, s := range p.Stats {
		out = append(out, s.BaseStat)
	}
	return out
}

func (p *PokemonRecord) AbilityNames() []string {
	out := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		out = append(out, a.Ability.Name)
	}
	return out
}

// Card projects the record onto a listing row.
func (p *PokemonRecord) Card() entities.Card {
	return entities.Card{
		Name:  p.Name,
		ID:    p.ID,
		Image: p.Sprites.FrontDefault,
		Types: p.TypeNames(),
	}
}

// SpeciesRecord is the part of GET {species.url} this service reads.
type SpeciesRecord struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

// ChainRecord is the body of GET {evolution_chain.url}.
type ChainRecord struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is one node of the upstream evolution tree.
type ChainLink struct {
	Species   Resource    `json:"species"`
	EvolvesTo []ChainLink `json:"evolves_to"`
}

// TypeRecord is the body of GET /type/{name}.
type TypeRecord struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Pokemon []struct {
		Slot    int      `json:"slot"`
		Pokemon Resource `json:"pokemon"`
	} `json:"pokemon"`
}

// Members returns the referenced pokemon in upstream order.
func (t *TypeRecord) Members() []entities.Summary {
	out := make([]entities.Summary, 0, len(t.Pokemon))
	for _, p := range t.Pokemon {
		out = append(out, entities.Summary{Name: p.Pokemon.Name, URL: p.Pokemon.URL})
	}
	return out
}

func (c *Client) ListPokemon(ctx context.Context, offset, limit int) (*IndexPage, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var page IndexPage
	if err := c.Get(ctx, "/pokemon?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Pokemon fetches one pokemon by name or numeric id.
func (c *Client) Pokemon(ctx context.Context, ident string) (*PokemonRecord, error) {
	var rec PokemonRecord
	if err := c.Get(ctx, "/pokemon/"+url.PathEscape(ident), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Species(ctx context.Context, speciesURL string) (*SpeciesRecord, error) {
	if speciesURL == "" {
		return nil, fmt.Errorf("%w: pokemon has no species url", ErrMissingLink)
	}
	var rec SpeciesRecord
	if err := c.Get(ctx, speciesURL, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) EvolutionChain(ctx context.Context, chainURL string) (*ChainRecord, error) {
	if chainURL == "" {
		return nil, fmt.Errorf("%w: species has no evolution chain url", ErrMissingLink)
	}
	var rec ChainRecord
	if err := c.Get(ctx, chainURL, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Type(ctx context.Context, name string) (*TypeRecord, error) {
	var rec TypeRecord
	if err := c.Get(ctx, "/type/"+url.PathEscape(name), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// IDFromURL extracts the trailing numeric segment of a resource URL such as
// https://pokeapi.co/api/v2/pokemon-species/25/. It returns 0 when absent.
func IDFromURL(raw string) int {
	seg := strings.TrimRight(raw, "/")
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	id, err := strconv.Atoi(seg)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// QueryOf keeps only the query string of an upstream cursor URL.
func QueryOf(cursor *string) *string {
	if cursor == nil {
		return nil
	}
	_, q, ok := strings.Cut(*cursor, "?")
	if !ok || q == "" {
		return nil
	}
	return &q
}
