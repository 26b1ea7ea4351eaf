// Package aggregator turns many catalog API calls into the single responses
// served by this service. Every upstream call gets its own retry budget;
// per-item failures are returned next to the result and never logged here.
package aggregator

import (
	"cmp"
	"context"

	"pokedex/pkg/metrics"
	"pokedex/pkg/upstream"
)

// Operation names used in ItemFailure.Op and metrics labels.
const (
	OpDetail    = "detail"
	OpEvolution = "evolution"
	OpTree      = "tree"
	OpList      = "list"
	OpType      = "type"
)

const (
	DefaultMaxChainSteps = 16
	DefaultFanoutLimit   = 16
)

// Upstream is the part of the catalog client the aggregator needs.
type Upstream interface {
	ListPokemon(ctx context.Context, offset, limit int) (*upstream.IndexPage, error)
	Pokemon(ctx context.Context, ident string) (*upstream.PokemonRecord, error)
	Species(ctx context.Context, speciesURL string) (*upstream.SpeciesRecord, error)
	EvolutionChain(ctx context.Context, chainURL string) (*upstream.ChainRecord, error)
	Type(ctx context.Context, name string) (*upstream.TypeRecord, error)
}

type Config struct {
	Retry upstream.Policy
	// MaxChainSteps bounds the evolution walk.
	MaxChainSteps int
	// FanoutLimit caps concurrent enrichment calls per aggregate.
	FanoutLimit int
}

type Aggregator struct {
	client  Upstream
	cfg     Config
	metrics *metrics.Collector
}

func New(client Upstream, cfg Config, m *metrics.Collector) *Aggregator {
	cfg.MaxChainSteps = cmp.Or(max(cfg.MaxChainSteps, 0), DefaultMaxChainSteps)
	cfg.FanoutLimit = cmp.Or(max(cfg.FanoutLimit, 0), DefaultFanoutLimit)
	return &Aggregator{client: client, cfg: cfg, metrics: m}
}

func (a *Aggregator) policy() upstream.Policy {
	p := a.cfg.Retry
	notify := p.OnRetry
	p.OnRetry = func(attempt int, err error) {
		a.metrics.Retry()
		if notify != nil {
			notify(attempt, err)
		}
	}
	return p
}

func (a *Aggregator) pokemon(ctx context.Context, ident string) (*upstream.PokemonRecord, error) {
	return upstream.Do(ctx, a.policy(), func(ctx context.Context) (*upstream.PokemonRecord, error) {
		return a.client.Pokemon(ctx, ident)
	})
}

// chainOf follows pokemon -> species -> evolution chain.
func (a *Aggregator) chainOf(ctx context.Context, rec *upstream.PokemonRecord) (*upstream.ChainRecord, error) {
	species, err := upstream.Do(ctx, a.policy(), func(ctx context.Context) (*upstream.SpeciesRecord, error) {
		return a.client.Species(ctx, rec.Species.URL)
	})
	if err != nil {
		return nil, err
	}
	return upstream.Do(ctx, a.policy(), func(ctx context.Context) (*upstream.ChainRecord, error) {
		return a.client.EvolutionChain(ctx, species.EvolutionChain.URL)
	})
}
