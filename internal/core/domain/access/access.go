package access

import (
	"time"

	"github.com/google/uuid"
)

// UserAccessRecord is the per-user access state row. is_premium is written
// only by the purchase webhook path; account_created_at is immutable;
// daily_view_count is meaningful only relative to last_view_date.
type UserAccessRecord struct {
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	IsPremium        bool      `json:"is_premium" db:"is_premium"`
	AccountCreatedAt time.Time `json:"account_created_at" db:"account_created_at"`
	DailyViewCount   int       `json:"daily_view_count" db:"daily_view_count"`
	LastViewDate     time.Time `json:"last_view_date" db:"last_view_date"`
}

// NewRecord returns the access record created at registration time.
func NewRecord(userID uuid.UUID, now time.Time) *UserAccessRecord {
	return &UserAccessRecord{
		UserID:           userID,
		IsPremium:        false,
		AccountCreatedAt: now.UTC(),
		DailyViewCount:   0,
	}
}

type DecisionKind string

const (
	DecisionAllow            DecisionKind = "allow"
	DecisionAllowWithPreview DecisionKind = "allow_with_preview"
	DecisionDeny             DecisionKind = "deny_with_upgrade_prompt"
)

// ReasonCode explains a decision to the frontend. ReasonServiceDegraded is
// deliberately distinct from ReasonQuotaExhausted so "out of views" and
// "service degraded" render differently.
type ReasonCode string

const (
	ReasonPremium         ReasonCode = "premium"
	ReasonGracePeriod     ReasonCode = "grace_period"
	ReasonWithinQuota     ReasonCode = "within_quota"
	ReasonQuotaExhausted  ReasonCode = "quota_exhausted"
	ReasonServiceDegraded ReasonCode = "service_degraded"
)

// Decision is the single outcome type for every gated request.
type Decision struct {
	Kind         DecisionKind `json:"kind"`
	Reason       ReasonCode   `json:"reason"`
	DailyLimit   int          `json:"daily_limit"`
	Remaining    int          `json:"remaining"`
	ResetAt      time.Time    `json:"reset_at"`
	PreviewChars int          `json:"preview_chars,omitempty"`
}

func (d *Decision) Allowed() bool {
	return d.Kind == DecisionAllow || d.Kind == DecisionAllowWithPreview
}

// QuotaStatus is a read-only snapshot for the /me/quota endpoint.
// It never consumes a view.
type QuotaStatus struct {
	IsPremium  bool      `json:"is_premium"`
	InGrace    bool      `json:"in_grace_period"`
	DailyLimit int       `json:"daily_limit"`
	Used       int       `json:"used"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// IsInGracePeriod reports whether a user is still inside the onboarding
// window of graceDays after account creation. Clock skew (now before
// accountCreatedAt) fails closed: the grace period is treated as expired
// rather than granting unbounded access.
func IsInGracePeriod(accountCreatedAt, now time.Time, graceDays int) bool {
	if graceDays <= 0 {
		return false
	}
	if now.Before(accountCreatedAt) {
		return false
	}
	return now.Sub(accountCreatedAt) < time.Duration(graceDays)*24*time.Hour
}

// UTCDay truncates t to its UTC calendar day.
func UTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NextUTCMidnight is when daily counters roll over.
func NextUTCMidnight(t time.Time) time.Time {
	return UTCDay(t).AddDate(0, 0, 1)
}

// SameUTCDay reports whether a and b fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	return UTCDay(a).Equal(UTCDay(b))
}
