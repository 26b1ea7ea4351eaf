package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pokedex/pkg/schema"
	"pokedex/pkg/utils"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Pokedex Aggregation API",
		"status":  "ok",
	})
}

func (s *Server) handleGetHealth(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleListSchemas(c echo.Context) error {
	return c.JSON(http.StatusOK, schema.Names())
}

// GET /schemas/:name
func (s *Server) handleGetSchema(c echo.Context) error {
	sch, ok := schema.Lookup(utils.Lower(c.Param("name")))
	if !ok {
		return c.JSON(http.StatusNotFound, utils.ErrJSON("unknown schema"))
	}
	return c.JSON(http.StatusOK, sch)
}
