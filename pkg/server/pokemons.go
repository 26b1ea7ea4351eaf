package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pokedex/pkg/aggregator"
	"pokedex/pkg/utils"
)

// GET /pokemons?offset=&limit=
func (s *Server) handleListPokemons(c echo.Context) error {
	offset, limit := 0, s.DefaultLimit
	err := echo.QueryParamsBinder(c).
		Int("offset", &offset).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("offset and limit must be integers"))
	}
	if offset < 0 || limit <= 0 {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("offset must be >= 0 and limit > 0"))
	}

	page, failures, err := s.Aggregator.List(c.Request().Context(), offset, limit)
	s.logFailures(c, failures)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GET /pokemons/:identifier
//
// An unknown identifier answers 200 with a null body.
func (s *Server) handleGetPokemon(c echo.Context) error {
	identifier := utils.Lower(c.Param("identifier"))
	if identifier == "" {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("identifier is required"))
	}

	p, failures, err := s.Aggregator.Detail(c.Request().Context(), identifier)
	s.logFailures(c, failures)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// GET /pokemons/:identifier/evolutions/tree
func (s *Server) handleGetEvolutionTree(c echo.Context) error {
	identifier := utils.Lower(c.Param("identifier"))
	if identifier == "" {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("identifier is required"))
	}

	tree, err := s.Aggregator.EvolutionTree(c.Request().Context(), identifier)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, tree)
}

// GET /pokemons/type/:type
func (s *Server) handleGetPokemonsByType(c echo.Context) error {
	name := utils.Lower(c.Param("type"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("type is required"))
	}

	cards, failures, err := s.Aggregator.ByType(c.Request().Context(), name)
	s.logFailures(c, failures)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, cards)
}

func statusFor(err error) int {
	if errors.Is(err, aggregator.ErrInvalidArgument) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	s.Log.Error("request failed",
		"path", c.Path(),
		"status", status,
		"request_id", requestID(c),
		"err", err,
	)
	return c.JSON(status, utils.ErrJSON(err.Error()))
}

func (s *Server) logFailures(c echo.Context, failures []aggregator.ItemFailure) {
	for _, f := range failures {
		s.Log.Warn("dropped item",
			"op", f.Op,
			"item", f.Item,
			"request_id", requestID(c),
			"err", f.Err,
		)
	}
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
