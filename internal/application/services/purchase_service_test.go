package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termwise/glossary-saas/internal/core/domain/purchase"
	"github.com/termwise/glossary-saas/internal/core/domain/user"
	"github.com/termwise/glossary-saas/test/mocks"
)

func TestHandlePurchaseEvent_ActivatesPremium(t *testing.T) {
	userID := uuid.New()
	var premiumSet bool
	var mailed bool

	accessRepo := &mocks.AccessRecordRepositoryMock{
		SetPremiumFn: func(ctx context.Context, got uuid.UUID) error {
			assert.Equal(t, userID, got)
			premiumSet = true
			return nil
		},
	}
	userRepo := &mocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			return &user.User{ID: id, Email: "reader@example.com"}, nil
		},
	}
	emailSvc := &mocks.EmailServiceMock{
		SendPremiumActivatedEmailFn: func(ctx context.Context, u *user.User) error {
			mailed = true
			return nil
		},
	}
	svc := NewPurchaseService(accessRepo, userRepo, emailSvc, quietLogger())

	err := svc.HandlePurchaseEvent(context.Background(), &purchase.Event{
		OrderID:     "ord_123",
		UserID:      userID,
		Product:     purchase.ProductLifetimePremium,
		PurchasedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, premiumSet)
	assert.True(t, mailed)
}

func TestHandlePurchaseEvent_UnknownProductIgnored(t *testing.T) {
	accessRepo := &mocks.AccessRecordRepositoryMock{
		SetPremiumFn: func(ctx context.Context, id uuid.UUID) error {
			t.Fatal("SetPremium must not be called for unknown products")
			return nil
		},
	}
	svc := NewPurchaseService(accessRepo, &mocks.UserRepositoryMock{}, nil, quietLogger())

	err := svc.HandlePurchaseEvent(context.Background(), &purchase.Event{
		OrderID: "ord_456",
		UserID:  uuid.New(),
		Product: "monthly_newsletter",
	})
	assert.NoError(t, err)
}

func TestHandlePurchaseEvent_ReplayIsIdempotent(t *testing.T) {
	userID := uuid.New()
	calls := 0
	accessRepo := &mocks.AccessRecordRepositoryMock{
		SetPremiumFn: func(ctx context.Context, id uuid.UUID) error {
			calls++
			return nil
		},
	}
	svc := NewPurchaseService(accessRepo, &mocks.UserRepositoryMock{}, nil, quietLogger())

	ev := &purchase.Event{OrderID: "ord_789", UserID: userID, Product: purchase.ProductLifetimePremium}
	require.NoError(t, svc.HandlePurchaseEvent(context.Background(), ev))
	require.NoError(t, svc.HandlePurchaseEvent(context.Background(), ev))
	assert.Equal(t, 2, calls, "SetPremium is monotonic, replays just set the flag again")
}

func TestHandlePurchaseEvent_StoreFailurePropagates(t *testing.T) {
	accessRepo := &mocks.AccessRecordRepositoryMock{
		SetPremiumFn: func(ctx context.Context, id uuid.UUID) error {
			return errors.New("connection refused")
		},
	}
	svc := NewPurchaseService(accessRepo, &mocks.UserRepositoryMock{}, nil, quietLogger())

	err := svc.HandlePurchaseEvent(context.Background(), &purchase.Event{
		OrderID: "ord_999",
		UserID:  uuid.New(),
		Product: purchase.ProductLifetimePremium,
	})
	assert.Error(t, err, "the webhook handler relies on this to trigger provider retries")
}
