package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/termwise/glossary-saas/internal/core/domain/auth"
	"github.com/termwise/glossary-saas/internal/core/domain/user"
)

// TokenRepository stores refresh tokens (e.g., in Redis with TTL).
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	// GetRefreshTokenUser returns the owner of a stored refresh token.
	GetRefreshTokenUser(ctx context.Context, token string) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error)
	ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error)
}
