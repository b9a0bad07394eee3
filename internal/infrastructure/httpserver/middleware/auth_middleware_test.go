package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termwise/glossary-saas/internal/core/domain/auth"
	"github.com/termwise/glossary-saas/internal/infrastructure/httpserver/helpers"
	"github.com/termwise/glossary-saas/test/mocks"
)

func runJWT(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func validatingAuthService(userID uuid.UUID) *mocks.AuthServiceMock {
	return &mocks.AuthServiceMock{
		ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			if tokenString != "good-token" {
				return nil, assert.AnError
			}
			return &auth.Claims{UserID: userID, Email: "reader@example.com"}, nil
		},
	}
}

func TestRequireJWT_ValidToken(t *testing.T) {
	userID := uuid.New()
	mw := NewJWTMiddleware(validatingAuthService(userID), quietLogger())

	c, err := runJWT(t, mw.RequireJWT(), "Bearer good-token")
	require.NoError(t, err)

	got, ok := helpers.GetUserIDRaw(c)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestRequireJWT_MissingHeader(t *testing.T) {
	mw := NewJWTMiddleware(validatingAuthService(uuid.New()), quietLogger())

	_, err := runJWT(t, mw.RequireJWT(), "")
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireJWT_InvalidToken(t *testing.T) {
	mw := NewJWTMiddleware(validatingAuthService(uuid.New()), quietLogger())

	_, err := runJWT(t, mw.RequireJWT(), "Bearer forged")
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOptionalJWT_NoHeaderContinuesAnonymous(t *testing.T) {
	mw := NewJWTMiddleware(validatingAuthService(uuid.New()), quietLogger())

	c, err := runJWT(t, mw.OptionalJWT(), "")
	require.NoError(t, err)
	assert.False(t, helpers.IsAuthenticated(c))
}

func TestOptionalJWT_InvalidTokenContinuesAnonymous(t *testing.T) {
	// Content routes must fall back to the anonymous tier rather than 401.
	mw := NewJWTMiddleware(validatingAuthService(uuid.New()), quietLogger())

	c, err := runJWT(t, mw.OptionalJWT(), "Bearer expired")
	require.NoError(t, err)
	assert.False(t, helpers.IsAuthenticated(c))
}

func TestOptionalJWT_ValidTokenResolvesUser(t *testing.T) {
	userID := uuid.New()
	mw := NewJWTMiddleware(validatingAuthService(userID), quietLogger())

	c, err := runJWT(t, mw.OptionalJWT(), "Bearer good-token")
	require.NoError(t, err)

	got, ok := helpers.GetUserIDRaw(c)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}
