package purchase

import (
	"time"

	"github.com/google/uuid"
)

// Event is the payload delivered by the external payment provider's webhook
// once a one-time purchase has been verified. It is the only source of
// premium activations; this service never initiates or reverses purchases.
type Event struct {
	OrderID     string    `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	Product     string    `json:"product"`
	PurchasedAt time.Time `json:"purchased_at"`
}

const ProductLifetimePremium = "lifetime_premium"
