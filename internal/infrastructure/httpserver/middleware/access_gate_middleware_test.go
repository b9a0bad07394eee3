package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termwise/glossary-saas/internal/core/domain/access"
	"github.com/termwise/glossary-saas/internal/infrastructure/httpserver/helpers"
	"github.com/termwise/glossary-saas/test/mocks"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func gateRequest(t *testing.T, svc *mocks.AccessServiceMock, previewable bool, userID *uuid.UUID, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/terms/transformer", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.9")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		helpers.SetUserID(c, *userID)
	}

	gate := NewAccessGateMiddleware(svc, "/upgrade", quietLogger(), nil)
	err := gate.Gate(previewable)(handler)(c)
	require.NoError(t, err)
	return rec
}

func termHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"slug":  "transformer",
		"title": "Transformer",
		"sections": []map[string]any{
			{"name": "definition", "content": strings.Repeat("x", 500)},
			{"name": "history", "content": strings.Repeat("y", 500)},
		},
	})
}

func TestGate_AllowPassesThrough(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.AccessServiceMock{
		AuthorizeFn: func(ctx context.Context, id uuid.UUID, previewable bool) *access.Decision {
			assert.Equal(t, userID, id)
			return &access.Decision{
				Kind:       access.DecisionAllow,
				Reason:     access.ReasonWithinQuota,
				DailyLimit: 50,
				Remaining:  49,
				ResetAt:    access.NextUTCMidnight(time.Now()),
			}
		},
	}

	rec := gateRequest(t, svc, true, &userID, termHandler)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "50", rec.Header().Get("X-Quota-Limit"))
	assert.Equal(t, "49", rec.Header().Get("X-Quota-Remaining"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "preview")
	sections := body["sections"].([]any)
	content := sections[0].(map[string]any)["content"].(string)
	assert.Len(t, content, 500, "allowed responses are never truncated")
}

func TestGate_AnonymousUsesClientAddress(t *testing.T) {
	var gotKey string
	svc := &mocks.AccessServiceMock{
		AuthorizeFn: func(ctx context.Context, id uuid.UUID, previewable bool) *access.Decision {
			t.Fatal("anonymous requests must not hit the authenticated path")
			return nil
		},
		AuthorizeAnonymousFn: func(ctx context.Context, clientKey string, previewable bool) *access.Decision {
			gotKey = clientKey
			return &access.Decision{Kind: access.DecisionAllow, Reason: access.ReasonWithinQuota, DailyLimit: 10, Remaining: 9}
		},
	}

	rec := gateRequest(t, svc, true, nil, termHandler)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.9", gotKey)
}

func TestGate_DenyReturns200WithUpgradePrompt(t *testing.T) {
	userID := uuid.New()
	resetAt := access.NextUTCMidnight(time.Now())
	svc := &mocks.AccessServiceMock{
		AuthorizeFn: func(ctx context.Context, id uuid.UUID, previewable bool) *access.Decision {
			return &access.Decision{
				Kind:       access.DecisionDeny,
				Reason:     access.ReasonQuotaExhausted,
				DailyLimit: 50,
				ResetAt:    resetAt,
			}
		},
	}

	handlerCalled := false
	rec := gateRequest(t, svc, false, &userID, func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusOK)
	})

	assert.False(t, handlerCalled, "the handler must not run on a refusal")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Allowed    bool      `json:"allowed"`
		Reason     string    `json:"reason"`
		DailyLimit int       `json:"daily_limit"`
		ResetAt    time.Time `json:"reset_at"`
		UpgradeURL string    `json:"upgrade_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Allowed)
	assert.Equal(t, "quota_exhausted", body.Reason)
	assert.Equal(t, 50, body.DailyLimit)
	assert.True(t, resetAt.Equal(body.ResetAt))
	assert.Equal(t, "/upgrade", body.UpgradeURL)
}

func TestGate_DegradedServiceReasonSurvivesToBody(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.AccessServiceMock{
		AuthorizeFn: func(ctx context.Context, id uuid.UUID, previewable bool) *access.Decision {
			return &access.Decision{Kind: access.DecisionDeny, Reason: access.ReasonServiceDegraded, DailyLimit: 50}
		},
	}

	rec := gateRequest(t, svc, false, &userID, termHandler)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "service_degraded", body["reason"], "an outage must not read as an exhausted quota")
}

func TestGate_PreviewTruncatesContentFields(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.AccessServiceMock{
		AuthorizeFn: func(ctx context.Context, id uuid.UUID, previewable bool) *access.Decision {
			return &access.Decision{
				Kind:         access.DecisionAllowWithPreview,
				Reason:       access.ReasonQuotaExhausted,
				DailyLimit:   50,
				PreviewChars: 100,
			}
		},
	}

	rec := gateRequest(t, svc, true, &userID, termHandler)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["preview"])
	assert.Equal(t, "/upgrade", body["upgrade_url"])
	assert.Equal(t, "Transformer", body["title"], "only content fields are truncated")

	sections := body["sections"].([]any)
	for _, s := range sections {
		content := s.(map[string]any)["content"].(string)
		assert.Len(t, content, 103, "100 runes plus ellipsis")
		assert.True(t, strings.HasSuffix(content, "..."))
	}
}

func TestGate_PreviewLeavesShortContentAlone(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.AccessServiceMock{
		AuthorizeFn: func(ctx context.Context, id uuid.UUID, previewable bool) *access.Decision {
			return &access.Decision{Kind: access.DecisionAllowWithPreview, Reason: access.ReasonQuotaExhausted, PreviewChars: 100}
		},
	}

	rec := gateRequest(t, svc, true, &userID, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"content": "short"})
	})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "short", body["content"])
	assert.Equal(t, true, body["preview"])
}

func TestTruncateRunes_MultibyteSafe(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := truncateRunes(s, 4)
	assert.Equal(t, strings.Repeat("é", 4)+"...", got)

	// At or under the limit, the string is untouched.
	assert.Equal(t, s, truncateRunes(s, 10))
	assert.Equal(t, s, truncateRunes(s, 100))
}
