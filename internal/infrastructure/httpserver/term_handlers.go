package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/termwise/glossary-saas/internal/core/domain/term"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

func (s *Server) listTerms(c echo.Context) error {
	filter := &term.ListFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil {
		filter.Offset = offset
	}

	terms, total, err := s.termService.ListTerms(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list terms")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"terms":  terms,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (s *Server) getTerm(c echo.Context) error {
	slug := c.Param("slug")
	t, err := s.termService.GetTerm(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, ports.ErrTermNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "term not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load term")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"term": t,
	})
}

func (s *Server) getTermSections(c echo.Context) error {
	slug := c.Param("slug")
	t, err := s.termService.GetTerm(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, ports.ErrTermNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "term not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load term")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"term_id":  t.ID,
		"slug":     t.Slug,
		"sections": t.Sections,
	})
}
