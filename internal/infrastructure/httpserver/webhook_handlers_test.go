package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termwise/glossary-saas/internal/core/domain/purchase"
	"github.com/termwise/glossary-saas/test/mocks"
)

const webhookSecret = "whsec_test"

func newTestServer(purchaseSvc *mocks.PurchaseServiceMock) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(&ServerConfig{
		UpgradeURL:            "/upgrade",
		PurchaseWebhookSecret: webhookSecret,
	}, logger, ServerDeps{
		UserService:     &mocks.UserServiceMock{},
		AuthService:     &mocks.AuthServiceMock{},
		TermService:     &mocks.TermServiceMock{},
		AccessService:   &mocks.AccessServiceMock{},
		PurchaseService: purchaseSvc,
	})
}

func signPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(s *Server, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/purchase", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestPurchaseWebhook_ValidSignature(t *testing.T) {
	userID := uuid.New()
	var handled *purchase.Event
	svc := &mocks.PurchaseServiceMock{
		HandlePurchaseEventFn: func(ctx context.Context, event *purchase.Event) error {
			handled = event
			return nil
		},
	}
	s := newTestServer(svc)

	body, err := json.Marshal(purchase.Event{
		OrderID: "ord_123",
		UserID:  userID,
		Product: purchase.ProductLifetimePremium,
	})
	require.NoError(t, err)

	rec := postWebhook(s, body, signPayload(webhookSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, handled)
	assert.Equal(t, "ord_123", handled.OrderID)
	assert.Equal(t, userID, handled.UserID)
}

func TestPurchaseWebhook_BadSignature(t *testing.T) {
	svc := &mocks.PurchaseServiceMock{
		HandlePurchaseEventFn: func(ctx context.Context, event *purchase.Event) error {
			t.Fatal("unsigned events must never reach the service")
			return nil
		},
	}
	s := newTestServer(svc)

	body := []byte(`{"order_id":"ord_123","product":"lifetime_premium"}`)

	rec := postWebhook(s, body, signPayload("some-other-secret", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postWebhook(s, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPurchaseWebhook_SignatureCoversExactBody(t *testing.T) {
	s := newTestServer(&mocks.PurchaseServiceMock{})

	body := []byte(`{"order_id":"ord_123","product":"lifetime_premium"}`)
	sig := signPayload(webhookSecret, body)

	// A tampered body fails against the original signature.
	tampered := []byte(`{"order_id":"ord_999","product":"lifetime_premium"}`)
	rec := postWebhook(s, tampered, sig)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPurchaseWebhook_MalformedPayload(t *testing.T) {
	s := newTestServer(&mocks.PurchaseServiceMock{})

	body := []byte(`not json`)
	rec := postWebhook(s, body, signPayload(webhookSecret, body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurchaseWebhook_ServiceFailureTriggersRetry(t *testing.T) {
	svc := &mocks.PurchaseServiceMock{
		HandlePurchaseEventFn: func(ctx context.Context, event *purchase.Event) error {
			return assert.AnError
		},
	}
	s := newTestServer(svc)

	body := []byte(`{"order_id":"ord_123","product":"lifetime_premium"}`)
	rec := postWebhook(s, body, signPayload(webhookSecret, body))

	// Non-2xx so the provider retries; activation is idempotent.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
