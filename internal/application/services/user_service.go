package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/termwise/glossary-saas/internal/core/domain/access"
	"github.com/termwise/glossary-saas/internal/core/domain/user"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

type UserService struct {
	userRepo   ports.UserRepository
	accessRepo ports.AccessRecordRepository
	emailSvc   ports.EmailService
	graceDays  int
	logger     *logrus.Logger
}

func NewUserService(userRepo ports.UserRepository, accessRepo ports.AccessRecordRepository, emailSvc ports.EmailService, graceDays int, logger *logrus.Logger) ports.UserService {
	return &UserService{
		userRepo:   userRepo,
		accessRepo: accessRepo,
		emailSvc:   emailSvc,
		graceDays:  graceDays,
		logger:     logger,
	}
}

// Register creates the account plus its access record. The access record is
// what the decision engine gates on, so it is written in the same flow.
func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, user.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.accessRepo.Create(ctx, access.NewRecord(u.ID, now)); err != nil {
		// The decision engine tolerates a missing record (fresh-user
		// defaults), so registration still succeeds.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Error("failed to create access record")
		}
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcomeEmail(ctx, u); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("failed to send welcome email")
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	}

	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile joins the account with its access tier for the /me endpoint.
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &user.Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}

	rec, err := s.accessRepo.Get(ctx, id)
	if err == nil && rec != nil {
		profile.IsPremium = rec.IsPremium
		profile.InGrace = access.IsInGracePeriod(rec.AccountCreatedAt, time.Now(), s.graceDays)
	}

	return profile, nil
}
