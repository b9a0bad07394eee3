package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/domain/access"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

// AccessService is the decision engine for the freemium tiers. Precedence is
// deliberate and first-match-wins: premium, then grace window, then daily
// quota. Every repository failure folds into a conservative decision here so
// the HTTP layer never fails open on an access-control bug.
type AccessService struct {
	records   ports.AccessRecordRepository
	anonymous ports.AnonymousQuotaRepository
	config    *AccessPolicyConfig
	logger    *logrus.Logger
}

// AccessPolicyConfig groups the policy knobs for the decision engine.
type AccessPolicyConfig struct {
	GraceDays           int
	DailyLimit          int
	AnonymousDailyLimit int
	PreviewChars        int
	AnonymousKeyPrefix  string
}

func NewAccessService(records ports.AccessRecordRepository, anonymous ports.AnonymousQuotaRepository, cfg *AccessPolicyConfig, logger *logrus.Logger) ports.AccessService {
	// Apply defaults
	c := AccessPolicyConfig{
		GraceDays:           7,
		DailyLimit:          50,
		AnonymousDailyLimit: 10,
		PreviewChars:        600,
		AnonymousKeyPrefix:  "quota:anon",
	}
	if cfg != nil {
		if cfg.GraceDays >= 0 {
			c.GraceDays = cfg.GraceDays
		}
		if cfg.DailyLimit > 0 {
			c.DailyLimit = cfg.DailyLimit
		}
		if cfg.AnonymousDailyLimit > 0 {
			c.AnonymousDailyLimit = cfg.AnonymousDailyLimit
		}
		if cfg.PreviewChars > 0 {
			c.PreviewChars = cfg.PreviewChars
		}
		if cfg.AnonymousKeyPrefix != "" {
			c.AnonymousKeyPrefix = cfg.AnonymousKeyPrefix
		}
	}
	return &AccessService{records: records, anonymous: anonymous, config: &c, logger: logger}
}

// Authorize consumes one view attempt for an authenticated user and decides
// between pass-through, preview degradation, and an upgrade prompt.
func (s *AccessService) Authorize(ctx context.Context, userID uuid.UUID, previewable bool) *access.Decision {
	now := time.Now()

	rec, err := s.records.Get(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrAccessRecordNotFound), errors.Is(err, ports.ErrMalformedAccessRecord):
		// Treat as a fresh account rather than failing the request. The
		// record is healed on the next registration-path write.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Warn("access record missing or malformed; using fresh-user defaults")
		}
		rec = access.NewRecord(userID, now)
	default:
		return s.degraded(userID, err, now)
	}

	if now.Before(rec.AccountCreatedAt) {
		// Clock skew: grace evaluation below fails closed, but it is worth
		// a log line since it means stored timestamps are ahead of us.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"user_id":            userID,
				"account_created_at": rec.AccountCreatedAt,
			}).Warn("clock skew detected: account created in the future")
		}
	}

	if rec.IsPremium {
		// Views are still counted for analytics but never gate access.
		if _, err := s.records.RecordView(ctx, userID, access.UTCDay(now)); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Warn("failed to record premium view")
		}
		return &access.Decision{
			Kind:       access.DecisionAllow,
			Reason:     access.ReasonPremium,
			DailyLimit: s.config.DailyLimit,
			Remaining:  s.config.DailyLimit,
			ResetAt:    access.NextUTCMidnight(now),
		}
	}

	if access.IsInGracePeriod(rec.AccountCreatedAt, now, s.config.GraceDays) {
		if _, err := s.records.RecordView(ctx, userID, access.UTCDay(now)); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Warn("failed to record grace-period view")
		}
		return &access.Decision{
			Kind:       access.DecisionAllow,
			Reason:     access.ReasonGracePeriod,
			DailyLimit: s.config.DailyLimit,
			Remaining:  s.config.DailyLimit,
			ResetAt:    access.NextUTCMidnight(now),
		}
	}

	// The attempt is counted whether or not it ends up allowed, so repeated
	// denied requests cannot reset the quota on retry.
	count, err := s.records.RecordView(ctx, userID, access.UTCDay(now))
	if err != nil {
		return s.degraded(userID, err, now)
	}

	return s.quotaDecision(count, s.config.DailyLimit, previewable, now)
}

// AuthorizeAnonymous applies the stricter unauthenticated tier keyed by
// client address. There is no access record and no grace period.
func (s *AccessService) AuthorizeAnonymous(ctx context.Context, clientKey string, previewable bool) *access.Decision {
	now := time.Now()

	// Keep counters around past the day boundary so late retries still see
	// the exhausted state; the key carries the day, so there is no bleed-over.
	count, err := s.anonymous.IncrementDay(ctx, s.config.AnonymousKeyPrefix+":"+clientKey, access.UTCDay(now), 48*time.Hour)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"client": clientKey}).WithError(err).Error("anonymous quota store unavailable; failing closed")
		}
		return &access.Decision{
			Kind:       access.DecisionDeny,
			Reason:     access.ReasonServiceDegraded,
			DailyLimit: s.config.AnonymousDailyLimit,
			ResetAt:    access.NextUTCMidnight(now),
		}
	}

	return s.quotaDecision(count, s.config.AnonymousDailyLimit, previewable, now)
}

// QuotaStatus returns the current standing without consuming a view.
func (s *AccessService) QuotaStatus(ctx context.Context, userID uuid.UUID) (*access.QuotaStatus, error) {
	now := time.Now()

	rec, err := s.records.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrAccessRecordNotFound) || errors.Is(err, ports.ErrMalformedAccessRecord) {
			rec = access.NewRecord(userID, now)
		} else {
			return nil, err
		}
	}

	used := rec.DailyViewCount
	if !access.SameUTCDay(rec.LastViewDate, now) {
		// Stored counter belongs to a previous day.
		used = 0
	}
	remaining := s.config.DailyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return &access.QuotaStatus{
		IsPremium:  rec.IsPremium,
		InGrace:    access.IsInGracePeriod(rec.AccountCreatedAt, now, s.config.GraceDays),
		DailyLimit: s.config.DailyLimit,
		Used:       used,
		Remaining:  remaining,
		ResetAt:    access.NextUTCMidnight(now),
	}, nil
}

// quotaDecision maps a post-increment count to a decision. The limit is
// inclusive: the request that reaches it is allowed, the next one is the
// first refusal.
func (s *AccessService) quotaDecision(count, limit int, previewable bool, now time.Time) *access.Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	if count <= limit {
		return &access.Decision{
			Kind:       access.DecisionAllow,
			Reason:     access.ReasonWithinQuota,
			DailyLimit: limit,
			Remaining:  remaining,
			ResetAt:    access.NextUTCMidnight(now),
		}
	}

	if previewable {
		return &access.Decision{
			Kind:         access.DecisionAllowWithPreview,
			Reason:       access.ReasonQuotaExhausted,
			DailyLimit:   limit,
			Remaining:    0,
			ResetAt:      access.NextUTCMidnight(now),
			PreviewChars: s.config.PreviewChars,
		}
	}

	return &access.Decision{
		Kind:       access.DecisionDeny,
		Reason:     access.ReasonQuotaExhausted,
		DailyLimit: limit,
		Remaining:  0,
		ResetAt:    access.NextUTCMidnight(now),
	}
}

// degraded is the fail-closed outcome for persistence failures. The reason
// code keeps it distinguishable from an ordinary exhausted quota.
func (s *AccessService) degraded(userID uuid.UUID, err error, now time.Time) *access.Decision {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("access record store unavailable; failing closed")
	}
	return &access.Decision{
		Kind:       access.DecisionDeny,
		Reason:     access.ReasonServiceDegraded,
		DailyLimit: s.config.DailyLimit,
		ResetAt:    access.NextUTCMidnight(now),
	}
}
