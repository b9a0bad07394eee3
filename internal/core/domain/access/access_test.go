package access

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsInGracePeriod(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		createdAt time.Time
		graceDays int
		want      bool
	}{
		{"freshly created account", now, 7, true},
		{"three days old", now.Add(-3 * 24 * time.Hour), 7, true},
		{"one second before expiry", now.Add(-7*24*time.Hour + time.Second), 7, true},
		{"exactly at expiry", now.Add(-7 * 24 * time.Hour), 7, false},
		{"well past expiry", now.Add(-30 * 24 * time.Hour), 7, false},
		{"zero grace days disables the window", now, 0, false},
		{"negative grace days disables the window", now, -1, false},
		{"account created in the future fails closed", now.Add(time.Hour), 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInGracePeriod(tt.createdAt, now, tt.graceDays))
		})
	}
}

func TestUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)

	// 01:30 on the 10th in UTC+5 is still the 9th in UTC.
	local := time.Date(2026, 3, 10, 1, 30, 0, 0, loc)
	day := UTCDay(local)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), day)

	// Truncation keeps the UTC calendar date.
	utc := time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), UTCDay(utc))
}

func TestNextUTCMidnight(t *testing.T) {
	at := time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), NextUTCMidnight(at))

	// Just before midnight still rolls to the next day.
	late := time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), NextUTCMidnight(late))
}

func TestSameUTCDay(t *testing.T) {
	a := time.Date(2026, 3, 9, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameUTCDay(a, b))
	assert.False(t, SameUTCDay(b, c))

	// Same instant in different zones is the same UTC day.
	loc := time.FixedZone("UTC-8", -8*3600)
	assert.True(t, SameUTCDay(a, a.In(loc)))
}

func TestNewRecord(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	rec := NewRecord(id, now)

	assert.Equal(t, id, rec.UserID)
	assert.False(t, rec.IsPremium)
	assert.Equal(t, 0, rec.DailyViewCount)
	assert.Equal(t, now.UTC(), rec.AccountCreatedAt)
}

func TestDecisionAllowed(t *testing.T) {
	assert.True(t, (&Decision{Kind: DecisionAllow}).Allowed())
	assert.True(t, (&Decision{Kind: DecisionAllowWithPreview}).Allowed())
	assert.False(t, (&Decision{Kind: DecisionDeny}).Allowed())
}
