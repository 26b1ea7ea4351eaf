package aggregator

import (
	"context"
	"fmt"

	"pokedex/pkg/entities"
	"pokedex/pkg/flight"
	"pokedex/pkg/upstream"
)

// Detail assembles one pokemon with its linear evolution line. A pokemon
// the upstream does not know yields (nil, nil, nil). Evolution members that
// cannot be fetched are skipped and reported as failures.
func (a *Aggregator) Detail(ctx context.Context, identifier string) (p *entities.Pokemon, failures []ItemFailure, err error) {
	defer func() { a.metrics.Aggregate(OpDetail, err != nil) }()

	records := flight.NewGroup(func(ident string) (*upstream.PokemonRecord, error) {
		return a.pokemon(ctx, ident)
	})

	rec, err := records.Get(identifier)
	if err != nil {
		if upstream.IsNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, &DetailError{Identifier: identifier, Err: err}
	}
	records.Seed(rec.Name, rec)

	chain, err := a.chainOf(ctx, rec)
	if err != nil {
		return nil, nil, &DetailError{Identifier: identifier, Err: err}
	}

	path, err := firstBranch(&chain.Chain, a.cfg.MaxChainSteps)
	if err != nil {
		return nil, nil, &DetailError{Identifier: identifier, Err: err}
	}

	evolutions := make([]entities.Evolution, 0, len(path))
	for _, node := range path {
		name := node.Species.Name
		member, err := records.Get(name)
		if err != nil {
			failures = append(failures, ItemFailure{Op: OpEvolution, Item: name, Err: err})
			continue
		}
		evolutions = append(evolutions, entities.Evolution{
			ID:    member.ID,
			Name:  name,
			Image: member.Sprites.FrontDefault,
		})
	}
	a.metrics.Dropped(OpEvolution, len(failures))

	return &entities.Pokemon{
		ID:         rec.ID,
		Name:       rec.Name,
		Height:     rec.Height,
		Weight:     rec.Weight,
		Types:      rec.TypeNames(),
		Stats:      rec.BaseStats(),
		Abilities:  rec.AbilityNames(),
		Image:      rec.Sprites.FrontDefault,
		Evolutions: evolutions,
	}, failures, nil
}

// firstBranch projects the chain onto the path reached by always taking the
// first evolves_to child. Branches past the first are ignored.
func firstBranch(root *upstream.ChainLink, limit int) ([]*upstream.ChainLink, error) {
	var path []*upstream.ChainLink
	for node := root; node != nil; {
		if len(path) == limit {
			return nil, fmt.Errorf("%w: more than %d steps", ErrChainTooLong, limit)
		}
		path = append(path, node)
		if len(node.EvolvesTo) == 0 {
			break
		}
		node = &node.EvolvesTo[0]
	}
	return path, nil
}

// EvolutionTree returns the full branching evolution chain of a pokemon.
// Ids come from the species URLs; no per-node fetch is made.
func (a *Aggregator) EvolutionTree(ctx context.Context, identifier string) (tree *entities.EvolutionTree, err error) {
	defer func() { a.metrics.Aggregate(OpTree, err != nil) }()

	rec, err := a.pokemon(ctx, identifier)
	if err != nil {
		if upstream.IsNotFound(err) {
			return nil, nil
		}
		return nil, &DetailError{Identifier: identifier, Err: err}
	}

	chain, err := a.chainOf(ctx, rec)
	if err != nil {
		return nil, &DetailError{Identifier: identifier, Err: err}
	}

	t, err := buildTree(&chain.Chain, 1, a.cfg.MaxChainSteps)
	if err != nil {
		return nil, &DetailError{Identifier: identifier, Err: err}
	}
	return &t, nil
}

func buildTree(link *upstream.ChainLink, depth, limit int) (entities.EvolutionTree, error) {
	if depth > limit {
		return entities.EvolutionTree{}, fmt.Errorf("%w: deeper than %d steps", ErrChainTooLong, limit)
	}
	node := entities.EvolutionTree{
		ID:        upstream.IDFromURL(link.Species.URL),
		Name:      link.Species.Name,
		EvolvesTo: make([]entities.EvolutionTree, 0, len(link.EvolvesTo)),
	}
	for i := range link.EvolvesTo {
		child, err := buildTree(&link.EvolvesTo[i], depth+1, limit)
		if err != nil {
			return entities.EvolutionTree{}, err
		}
		node.EvolvesTo = append(node.EvolvesTo, child)
	}
	return node, nil
}
