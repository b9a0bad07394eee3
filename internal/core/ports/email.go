package ports

import (
	"context"

	"github.com/termwise/glossary-saas/internal/core/domain/user"
)

// EmailService sends transactional mail. Implementations must not block
// request handling on provider latency beyond the passed context.
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, u *user.User) error
	SendPremiumActivatedEmail(ctx context.Context, u *user.User) error
}
