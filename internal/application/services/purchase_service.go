package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/domain/purchase"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

// PurchaseService applies verified purchase events from the payment
// provider's webhook. It is the only writer of the premium flag; the flag is
// monotonic here, so replayed events are harmless.
type PurchaseService struct {
	accessRepo ports.AccessRecordRepository
	userRepo   ports.UserRepository
	emailSvc   ports.EmailService
	logger     *logrus.Logger
}

func NewPurchaseService(accessRepo ports.AccessRecordRepository, userRepo ports.UserRepository, emailSvc ports.EmailService, logger *logrus.Logger) ports.PurchaseService {
	return &PurchaseService{
		accessRepo: accessRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
		logger:     logger,
	}
}

func (s *PurchaseService) HandlePurchaseEvent(ctx context.Context, event *purchase.Event) error {
	if event.Product != purchase.ProductLifetimePremium {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"order_id": event.OrderID, "product": event.Product}).Warn("ignoring purchase event for unknown product")
		}
		return nil
	}

	if err := s.accessRepo.SetPremium(ctx, event.UserID); err != nil {
		return fmt.Errorf("failed to activate premium: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": event.UserID, "order_id": event.OrderID}).Info("premium activated")
	}

	if s.emailSvc != nil {
		if u, err := s.userRepo.GetByID(ctx, event.UserID); err == nil {
			if err := s.emailSvc.SendPremiumActivatedEmail(ctx, u); err != nil && s.logger != nil {
				s.logger.WithFields(logrus.Fields{"user_id": event.UserID}).WithError(err).Warn("failed to send premium activation email")
			}
		}
	}

	return nil
}
