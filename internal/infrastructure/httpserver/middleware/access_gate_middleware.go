package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/domain/access"
	"github.com/termwise/glossary-saas/internal/core/ports"
	"github.com/termwise/glossary-saas/internal/infrastructure/httpserver/helpers"
)

// AccessGateMiddleware enforces the freemium tiers on content-read routes.
// It resolves the caller (authenticated or anonymous), asks the access
// service for a decision, and enforces it: pass-through, server-side preview
// truncation, or a structured upgrade prompt.
type AccessGateMiddleware struct {
	access     ports.AccessService
	upgradeURL string
	logger     *logrus.Logger
	decisions  *prometheus.CounterVec
}

func NewAccessGateMiddleware(accessService ports.AccessService, upgradeURL string, logger *logrus.Logger, decisions *prometheus.CounterVec) *AccessGateMiddleware {
	return &AccessGateMiddleware{
		access:     accessService,
		upgradeURL: upgradeURL,
		logger:     logger,
		decisions:  decisions,
	}
}

// quotaDeniedResponse is the body returned when a request is refused.
// It always names an upgrade path; a refusal is never a bare error page.
type quotaDeniedResponse struct {
	Allowed    bool              `json:"allowed"`
	Reason     access.ReasonCode `json:"reason"`
	DailyLimit int               `json:"daily_limit"`
	ResetAt    time.Time         `json:"reset_at"`
	UpgradeURL string            `json:"upgrade_url"`
}

// Gate returns middleware for one content route. previewable routes degrade
// to truncated content when the quota is exhausted; the rest get the upgrade
// prompt.
func (m *AccessGateMiddleware) Gate(previewable bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var decision *access.Decision
			// Anonymous callers are a separate, stricter tier resolved
			// before any record lookup.
			if userID, ok := helpers.GetUserIDRaw(c); ok {
				decision = m.access.Authorize(c.Request().Context(), userID, previewable)
			} else {
				decision = m.access.AuthorizeAnonymous(c.Request().Context(), c.RealIP(), previewable)
			}

			helpers.SetAccessDecision(c, decision)
			m.setQuotaHeaders(c, decision)
			if m.decisions != nil {
				m.decisions.WithLabelValues(string(decision.Kind), string(decision.Reason)).Inc()
			}

			switch decision.Kind {
			case access.DecisionAllow:
				return next(c)

			case access.DecisionAllowWithPreview:
				return m.serveTruncated(c, next, decision)

			default:
				// 200 rather than 429: the frontend renders the upgrade
				// prompt inline, and a non-2xx status would route it into
				// generic error handling. A product decision, not an
				// oversight.
				return c.JSON(http.StatusOK, &quotaDeniedResponse{
					Allowed:    false,
					Reason:     decision.Reason,
					DailyLimit: decision.DailyLimit,
					ResetAt:    decision.ResetAt,
					UpgradeURL: m.upgradeURL,
				})
			}
		}
	}
}

func (m *AccessGateMiddleware) setQuotaHeaders(c echo.Context, d *access.Decision) {
	h := c.Response().Header()
	h.Set("X-Quota-Limit", strconv.Itoa(d.DailyLimit))
	h.Set("X-Quota-Remaining", strconv.Itoa(d.Remaining))
	h.Set("X-Quota-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}

// serveTruncated runs the handler against a buffer and truncates content
// fields before anything reaches the wire. Truncation must happen server-side;
// client-side truncation would ship the full content to the browser.
func (m *AccessGateMiddleware) serveTruncated(c echo.Context, next echo.HandlerFunc, decision *access.Decision) error {
	rec := &bufferedResponseWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
	original := c.Response().Writer
	c.Response().Writer = rec

	err := next(c)
	c.Response().Writer = original
	if err != nil {
		return err
	}

	body, rewritten := m.rewritePreview(rec.buf.Bytes(), decision.PreviewChars)
	if !rewritten && m.logger != nil {
		m.logger.WithFields(logrus.Fields{"path": c.Path()}).Warn("preview rewrite skipped: response body is not a JSON object")
	}

	original.Header().Del(echo.HeaderContentLength)
	original.WriteHeader(rec.status)
	_, werr := original.Write(body)
	return werr
}

// rewritePreview truncates every "content" string field and attaches the
// preview metadata. Non-object bodies pass through untouched.
func (m *AccessGateMiddleware) rewritePreview(body []byte, previewChars int) ([]byte, bool) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return body, false
	}

	truncateContentFields(doc, previewChars)
	doc["preview"] = true
	doc["upgrade_url"] = m.upgradeURL

	out, err := json.Marshal(doc)
	if err != nil {
		return body, false
	}
	return out, true
}

func truncateContentFields(v any, limit int) {
	switch node := v.(type) {
	case map[string]any:
		for key, val := range node {
			if key == "content" {
				if s, ok := val.(string); ok {
					node[key] = truncateRunes(s, limit)
					continue
				}
			}
			truncateContentFields(val, limit)
		}
	case []any:
		for _, item := range node {
			truncateContentFields(item, limit)
		}
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// bufferedResponseWriter captures the handler's output without committing it.
type bufferedResponseWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *bufferedResponseWriter) WriteHeader(code int) {
	w.status = code
}

func (w *bufferedResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}
