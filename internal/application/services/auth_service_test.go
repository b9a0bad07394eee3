package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	config "github.com/termwise/glossary-saas/configs"
	"github.com/termwise/glossary-saas/internal/core/domain/auth"
	"github.com/termwise/glossary-saas/internal/core/domain/user"
	"github.com/termwise/glossary-saas/test/mocks"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          "test-secret-not-for-production",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{
		ID:           uuid.New(),
		Email:        "reader@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	u := activeUser(t, "correct horse battery")
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			assert.Equal(t, u.Email, email)
			return u, nil
		},
	}
	stored := map[string]uuid.UUID{}
	tokenRepo := &mocks.TokenRepositoryMock{
		StoreRefreshTokenFn: func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
			stored[token] = userID
			return nil
		},
	}
	svc := NewAuthService(userRepo, tokenRepo, testJWTConfig(), quietLogger())

	tokens, err := svc.Login(context.Background(), &auth.LoginRequest{Email: u.Email, Password: "correct horse battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), tokens.ExpiresIn)
	assert.Contains(t, stored, tokens.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	u := activeUser(t, "correct horse battery")
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	svc := NewAuthService(userRepo, &mocks.TokenRepositoryMock{}, testJWTConfig(), quietLogger())

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: u.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLogin_UnknownEmailGetsSameError(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable.
	svc := NewAuthService(&mocks.UserRepositoryMock{}, &mocks.TokenRepositoryMock{}, testJWTConfig(), quietLogger())

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLogin_DisabledAccount(t *testing.T) {
	u := activeUser(t, "correct horse battery")
	u.IsActive = false
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	svc := NewAuthService(userRepo, &mocks.TokenRepositoryMock{}, testJWTConfig(), quietLogger())

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: u.Email, Password: "correct horse battery"})
	assert.Error(t, err)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	u := activeUser(t, "pw-does-not-matter")
	svc := NewAuthService(&mocks.UserRepositoryMock{}, &mocks.TokenRepositoryMock{}, testJWTConfig(), quietLogger())

	tokens, err := svc.GenerateTokens(context.Background(), u)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	u := activeUser(t, "pw-does-not-matter")
	issuer := NewAuthService(&mocks.UserRepositoryMock{}, &mocks.TokenRepositoryMock{}, testJWTConfig(), quietLogger())
	tokens, err := issuer.GenerateTokens(context.Background(), u)
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	verifier := NewAuthService(&mocks.UserRepositoryMock{}, &mocks.TokenRepositoryMock{}, otherCfg, quietLogger())

	_, err = verifier.ValidateToken(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService(&mocks.UserRepositoryMock{}, &mocks.TokenRepositoryMock{}, testJWTConfig(), quietLogger())
	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}

func TestRefreshToken_RotatesToken(t *testing.T) {
	u := activeUser(t, "pw-does-not-matter")
	store := map[string]uuid.UUID{"old-refresh": u.ID}
	tokenRepo := &mocks.TokenRepositoryMock{
		StoreRefreshTokenFn: func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
			store[token] = userID
			return nil
		},
		GetRefreshTokenUserFn: func(ctx context.Context, token string) (uuid.UUID, error) {
			id, ok := store[token]
			if !ok {
				return uuid.Nil, assert.AnError
			}
			return id, nil
		},
		DeleteRefreshTokenFn: func(ctx context.Context, token string) error {
			delete(store, token)
			return nil
		},
	}
	userRepo := &mocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil },
	}
	svc := NewAuthService(userRepo, tokenRepo, testJWTConfig(), quietLogger())

	tokens, err := svc.RefreshToken(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.NotContains(t, store, "old-refresh", "used refresh token must be revoked")
	assert.Contains(t, store, tokens.RefreshToken)

	// The revoked token cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), "old-refresh")
	assert.Error(t, err)
}
