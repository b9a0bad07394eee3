package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/termwise/glossary-saas/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getOwnProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	profile, err := s.userService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, profile)
}

// getOwnQuota reports current standing without consuming a view, so the
// frontend can render remaining-views badges freely.
func (s *Server) getOwnQuota(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	status, err := s.accessService.QuotaStatus(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "quota status unavailable")
	}

	return c.JSON(http.StatusOK, status)
}
