package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/termwise/glossary-saas/internal/core/domain/access"
	"github.com/termwise/glossary-saas/internal/core/domain/auth"
	"github.com/termwise/glossary-saas/internal/core/domain/purchase"
	"github.com/termwise/glossary-saas/internal/core/domain/term"
	"github.com/termwise/glossary-saas/internal/core/domain/user"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

// AccessRecordRepositoryMock is a lightweight mock for AccessRecordRepository
type AccessRecordRepositoryMock struct {
	CreateFn     func(ctx context.Context, rec *access.UserAccessRecord) error
	GetFn        func(ctx context.Context, userID uuid.UUID) (*access.UserAccessRecord, error)
	RecordViewFn func(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
	SetPremiumFn func(ctx context.Context, userID uuid.UUID) error
}

func (m *AccessRecordRepositoryMock) Create(ctx context.Context, rec *access.UserAccessRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, rec)
	}
	return nil
}
func (m *AccessRecordRepositoryMock) Get(ctx context.Context, userID uuid.UUID) (*access.UserAccessRecord, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return nil, ports.ErrAccessRecordNotFound
}
func (m *AccessRecordRepositoryMock) RecordView(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	if m.RecordViewFn != nil {
		return m.RecordViewFn(ctx, userID, day)
	}
	return 1, nil
}
func (m *AccessRecordRepositoryMock) SetPremium(ctx context.Context, userID uuid.UUID) error {
	if m.SetPremiumFn != nil {
		return m.SetPremiumFn(ctx, userID)
	}
	return nil
}

// AnonymousQuotaRepositoryMock mocks the anonymous counter store
type AnonymousQuotaRepositoryMock struct {
	IncrementDayFn func(ctx context.Context, clientKey string, day time.Time, ttl time.Duration) (int, error)
}

func (m *AnonymousQuotaRepositoryMock) IncrementDay(ctx context.Context, clientKey string, day time.Time, ttl time.Duration) (int, error) {
	if m.IncrementDayFn != nil {
		return m.IncrementDayFn(ctx, clientKey, day, ttl)
	}
	return 1, nil
}

// UserRepository mock
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
	UpdateFn     func(ctx context.Context, u *user.User) error
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}

// TermRepository mock
type TermRepositoryMock struct {
	ListFn      func(ctx context.Context, filter *term.ListFilter) ([]*term.Term, error)
	CountFn     func(ctx context.Context, filter *term.ListFilter) (int, error)
	GetBySlugFn func(ctx context.Context, slug string) (*term.Term, error)
}

func (m *TermRepositoryMock) List(ctx context.Context, filter *term.ListFilter) ([]*term.Term, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}
func (m *TermRepositoryMock) Count(ctx context.Context, filter *term.ListFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}
	return 0, nil
}
func (m *TermRepositoryMock) GetBySlug(ctx context.Context, slug string) (*term.Term, error) {
	if m.GetBySlugFn != nil {
		return m.GetBySlugFn(ctx, slug)
	}
	return nil, ports.ErrTermNotFound
}

// TokenRepository mock
type TokenRepositoryMock struct {
	StoreRefreshTokenFn   func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshTokenUserFn func(ctx context.Context, token string) (uuid.UUID, error)
	DeleteRefreshTokenFn  func(ctx context.Context, token string) error
}

func (m *TokenRepositoryMock) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.StoreRefreshTokenFn != nil {
		return m.StoreRefreshTokenFn(ctx, userID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) GetRefreshTokenUser(ctx context.Context, token string) (uuid.UUID, error) {
	if m.GetRefreshTokenUserFn != nil {
		return m.GetRefreshTokenUserFn(ctx, token)
	}
	return uuid.Nil, fmt.Errorf("not found")
}
func (m *TokenRepositoryMock) DeleteRefreshToken(ctx context.Context, token string) error {
	if m.DeleteRefreshTokenFn != nil {
		return m.DeleteRefreshTokenFn(ctx, token)
	}
	return nil
}

// EmailService mock
type EmailServiceMock struct {
	SendWelcomeEmailFn          func(ctx context.Context, u *user.User) error
	SendPremiumActivatedEmailFn func(ctx context.Context, u *user.User) error
}

func (m *EmailServiceMock) SendWelcomeEmail(ctx context.Context, u *user.User) error {
	if m.SendWelcomeEmailFn != nil {
		return m.SendWelcomeEmailFn(ctx, u)
	}
	return nil
}
func (m *EmailServiceMock) SendPremiumActivatedEmail(ctx context.Context, u *user.User) error {
	if m.SendPremiumActivatedEmailFn != nil {
		return m.SendPremiumActivatedEmailFn(ctx, u)
	}
	return nil
}

// AccessService mock
type AccessServiceMock struct {
	AuthorizeFn          func(ctx context.Context, userID uuid.UUID, previewable bool) *access.Decision
	AuthorizeAnonymousFn func(ctx context.Context, clientKey string, previewable bool) *access.Decision
	QuotaStatusFn        func(ctx context.Context, userID uuid.UUID) (*access.QuotaStatus, error)
}

func (m *AccessServiceMock) Authorize(ctx context.Context, userID uuid.UUID, previewable bool) *access.Decision {
	if m.AuthorizeFn != nil {
		return m.AuthorizeFn(ctx, userID, previewable)
	}
	return &access.Decision{Kind: access.DecisionAllow, Reason: access.ReasonWithinQuota}
}
func (m *AccessServiceMock) AuthorizeAnonymous(ctx context.Context, clientKey string, previewable bool) *access.Decision {
	if m.AuthorizeAnonymousFn != nil {
		return m.AuthorizeAnonymousFn(ctx, clientKey, previewable)
	}
	return &access.Decision{Kind: access.DecisionAllow, Reason: access.ReasonWithinQuota}
}
func (m *AccessServiceMock) QuotaStatus(ctx context.Context, userID uuid.UUID) (*access.QuotaStatus, error) {
	if m.QuotaStatusFn != nil {
		return m.QuotaStatusFn(ctx, userID)
	}
	return nil, fmt.Errorf("not implemented")
}

// AuthService mock
type AuthServiceMock struct {
	LoginFn          func(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshTokenFn   func(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	LogoutFn         func(ctx context.Context, refreshToken string) error
	GenerateTokensFn func(ctx context.Context, u *user.User) (*auth.AuthTokens, error)
	ValidateTokenFn  func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, refreshToken)
	}
	return nil
}
func (m *AuthServiceMock) GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error) {
	if m.GenerateTokensFn != nil {
		return m.GenerateTokensFn(ctx, u)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, fmt.Errorf("invalid token")
}

// UserService mock
type UserServiceMock struct {
	RegisterFn   func(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	GetUserFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetProfileFn func(ctx context.Context, id uuid.UUID) (*user.Profile, error)
}

func (m *UserServiceMock) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *UserServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserServiceMock) GetProfile(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}

// TermService mock
type TermServiceMock struct {
	ListTermsFn func(ctx context.Context, filter *term.ListFilter) ([]*term.Term, int, error)
	GetTermFn   func(ctx context.Context, slug string) (*term.Term, error)
}

func (m *TermServiceMock) ListTerms(ctx context.Context, filter *term.ListFilter) ([]*term.Term, int, error) {
	if m.ListTermsFn != nil {
		return m.ListTermsFn(ctx, filter)
	}
	return nil, 0, nil
}
func (m *TermServiceMock) GetTerm(ctx context.Context, slug string) (*term.Term, error) {
	if m.GetTermFn != nil {
		return m.GetTermFn(ctx, slug)
	}
	return nil, ports.ErrTermNotFound
}

// PurchaseService mock
type PurchaseServiceMock struct {
	HandlePurchaseEventFn func(ctx context.Context, event *purchase.Event) error
}

func (m *PurchaseServiceMock) HandlePurchaseEvent(ctx context.Context, event *purchase.Event) error {
	if m.HandlePurchaseEventFn != nil {
		return m.HandlePurchaseEventFn(ctx, event)
	}
	return nil
}
