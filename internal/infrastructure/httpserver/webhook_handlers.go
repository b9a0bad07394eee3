package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/termwise/glossary-saas/internal/core/domain/purchase"
)

// purchaseWebhook receives verified purchase events from the payment
// provider. The request body is authenticated with an HMAC-SHA256 signature
// over the raw payload; this route is the only path that activates premium.
func (s *Server) purchaseWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	signature := c.Request().Header.Get("X-Webhook-Signature")
	if !s.verifyWebhookSignature(body, signature) {
		if s.logger != nil {
			s.logger.WithField("ip", c.RealIP()).Warn("purchase webhook signature mismatch")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	var event purchase.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event payload")
	}

	if err := s.purchaseSvc.HandlePurchaseEvent(c.Request().Context(), &event); err != nil {
		// Non-2xx makes the provider retry; premium activation is
		// idempotent, so retries are safe.
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process event")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "processed"})
}

func (s *Server) verifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" || s.config.PurchaseWebhookSecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.config.PurchaseWebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
