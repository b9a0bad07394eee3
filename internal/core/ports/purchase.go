package ports

import (
	"context"

	"github.com/termwise/glossary-saas/internal/core/domain/purchase"
)

// PurchaseService applies verified purchase events. It is the only writer of
// the premium flag; it never initiates payments.
type PurchaseService interface {
	HandlePurchaseEvent(ctx context.Context, event *purchase.Event) error
}
