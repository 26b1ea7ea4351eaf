package server

import (
	"cmp"
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/ksuid"

	"pokedex/pkg/aggregator"
	"pokedex/pkg/entities"
	"pokedex/pkg/metrics"
)

const DefaultPageLimit = 10

// Aggregator is the set of read operations the HTTP layer exposes.
type Aggregator interface {
	List(ctx context.Context, offset, limit int) (*entities.Page, []aggregator.ItemFailure, error)
	Detail(ctx context.Context, identifier string) (*entities.Pokemon, []aggregator.ItemFailure, error)
	EvolutionTree(ctx context.Context, identifier string) (*entities.EvolutionTree, error)
	ByType(ctx context.Context, name string) ([]entities.Card, []aggregator.ItemFailure, error)
}

type Options struct {
	Logger       *log.Logger
	Metrics      *metrics.Collector
	DefaultLimit int
}

type Server struct {
	Echo       *echo.Echo
	Aggregator Aggregator
	Metrics    *metrics.Collector
	Log        *log.Logger
	Ctx        context.Context

	DefaultLimit int
}

func NewServer(ctx context.Context, agg Aggregator, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ksuid.New().String() },
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "pokedex"})
	}

	s := &Server{
		Echo:         e,
		Aggregator:   agg,
		Metrics:      opts.Metrics,
		Log:          logger,
		Ctx:          ctx,
		DefaultLimit: cmp.Or(opts.DefaultLimit, DefaultPageLimit),
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)
	s.Echo.GET("/healthz", s.handleGetHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	s.Echo.GET("/schemas", s.handleListSchemas)
	s.Echo.GET("/schemas/:name", s.handleGetSchema)

	pokemons := s.Echo.Group("/pokemons")
	pokemons.GET("", s.handleListPokemons)
	pokemons.GET("/type/:type", s.handleGetPokemonsByType)
	pokemons.GET("/:identifier", s.handleGetPokemon)
	pokemons.GET("/:identifier/evolutions/tree", s.handleGetEvolutionTree)
}

func (s *Server) Start(addr string) error {
	s.Log.Info("Server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.Log.Info("Shutting down server...")
	return s.Echo.Shutdown(ctx)
}
