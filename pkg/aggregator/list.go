package aggregator

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"pokedex/pkg/entities"
	"pokedex/pkg/upstream"
)

// List fetches one page of the catalog and enriches every row. Rows that
// fail enrichment are dropped and reported; only a failed index fetch is
// fatal.
func (a *Aggregator) List(ctx context.Context, offset, limit int) (page *entities.Page, failures []ItemFailure, err error) {
	defer func() { a.metrics.Aggregate(OpList, err != nil) }()

	if offset < 0 || limit <= 0 {
		return nil, nil, &ListError{Offset: offset, Limit: limit, Err: fmt.Errorf("%w: offset must be >= 0 and limit > 0", ErrInvalidArgument)}
	}

	index, err := upstream.Do(ctx, a.policy(), func(ctx context.Context) (*upstream.IndexPage, error) {
		return a.client.ListPokemon(ctx, offset, limit)
	})
	if err != nil {
		return nil, nil, &ListError{Offset: offset, Limit: limit, Err: err}
	}

	results := index.Results
	if len(results) > limit {
		results = results[:limit]
	}

	cards, failures := a.enrich(ctx, OpList, results)
	return &entities.Page{
		Next:     upstream.QueryOf(index.Next),
		Previous: upstream.QueryOf(index.Previous),
		Pokemons: cards,
	}, failures, nil
}

// ByType lists every pokemon of a type, enriched like List.
func (a *Aggregator) ByType(ctx context.Context, name string) (cards []entities.Card, failures []ItemFailure, err error) {
	defer func() { a.metrics.Aggregate(OpType, err != nil) }()

	if name == "" {
		return nil, nil, &TypeError{Name: name, Err: fmt.Errorf("%w: empty type name", ErrInvalidArgument)}
	}

	rec, err := upstream.Do(ctx, a.policy(), func(ctx context.Context) (*upstream.TypeRecord, error) {
		return a.client.Type(ctx, name)
	})
	if err != nil {
		return nil, nil, &TypeError{Name: name, Err: err}
	}

	cards, failures = a.enrich(ctx, OpType, rec.Members())
	return cards, failures, nil
}

// enrich fetches every member concurrently and joins on all of them. The
// output keeps the input order with failed members removed.
func (a *Aggregator) enrich(ctx context.Context, op string, members []entities.Summary) ([]entities.Card, []ItemFailure) {
	cards := make([]entities.Card, len(members))
	errs := make([]error, len(members))

	var g errgroup.Group
	g.SetLimit(a.cfg.FanoutLimit)
	for i, m := range members {
		g.Go(func() error {
			ident := identOf(m)
			if ident == "" {
				errs[i] = fmt.Errorf("%w: member has neither name nor url", upstream.ErrMissingLink)
				return nil
			}
			rec, err := a.pokemon(ctx, ident)
			if err != nil {
				errs[i] = err
				return nil
			}
			cards[i] = rec.Card()
			return nil
		})
	}
	_ = g.Wait()

	out := make([]entities.Card, 0, len(members))
	var failures []ItemFailure
	for i, m := range members {
		if errs[i] != nil {
			failures = append(failures, ItemFailure{Op: op, Item: m.Name, Err: errs[i]})
			continue
		}
		out = append(out, cards[i])
	}
	a.metrics.Dropped(op, len(failures))
	return out, failures
}

func identOf(m entities.Summary) string {
	if m.Name != "" {
		return m.Name
	}
	if id := upstream.IDFromURL(m.URL); id > 0 {
		return strconv.Itoa(id)
	}
	return ""
}
