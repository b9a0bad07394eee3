package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/termwise/glossary-saas/internal/core/domain/access"
)

var (
	// ErrAccessRecordNotFound means no row exists for the user.
	ErrAccessRecordNotFound = errors.New("access record not found")
	// ErrMalformedAccessRecord means a row exists but could not be decoded.
	// Callers fall back to fresh-user defaults instead of failing the request.
	ErrMalformedAccessRecord = errors.New("malformed access record")
)

// AccessRecordRepository persists per-user access state.
// RecordView must be atomic per user: day rollover and increment happen in a
// single statement so concurrent requests never lose increments.
type AccessRecordRepository interface {
	Create(ctx context.Context, rec *access.UserAccessRecord) error
	Get(ctx context.Context, userID uuid.UUID) (*access.UserAccessRecord, error)
	// RecordView resets the counter when last_view_date differs from day,
	// then increments, and returns the post-increment count for that day.
	RecordView(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
	// SetPremium marks the user premium. Idempotent; premium is monotonic
	// in this subsystem (no downgrade path).
	SetPremium(ctx context.Context, userID uuid.UUID) error
}

// AnonymousQuotaRepository tracks daily view counters for unauthenticated
// clients. Implementations must increment atomically.
type AnonymousQuotaRepository interface {
	// IncrementDay bumps the counter for clientKey on the given UTC day and
	// returns the post-increment count. ttl bounds key retention.
	IncrementDay(ctx context.Context, clientKey string, day time.Time, ttl time.Duration) (int, error)
}

// AccessService is the single decision point for gated content reads.
// Authorize consumes one view attempt; every failure folds into a
// conservative decision (fail closed), so callers always get a Decision.
type AccessService interface {
	Authorize(ctx context.Context, userID uuid.UUID, previewable bool) *access.Decision
	AuthorizeAnonymous(ctx context.Context, clientKey string, previewable bool) *access.Decision
	// QuotaStatus is a read-only snapshot; it never consumes a view.
	QuotaStatus(ctx context.Context, userID uuid.UUID) (*access.QuotaStatus, error)
}
