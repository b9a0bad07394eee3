package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/domain/access"
	"github.com/termwise/glossary-saas/internal/core/ports"
	"github.com/termwise/glossary-saas/internal/infrastructure/db"
)

// AccessRecordRepository implements per-user access state on Postgres.
// RecordView performs rollover and increment in a single UPDATE so the
// counter never loses increments under concurrent requests.
type AccessRecordRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewAccessRecordRepository(database *db.Database, logger *logrus.Logger) ports.AccessRecordRepository {
	return &AccessRecordRepository{
		db:     database,
		logger: logger,
	}
}

// dateParam renders a UTC calendar day for a DATE column comparison,
// avoiding implicit timestamptz casts that depend on the session timezone.
func dateParam(t time.Time) string {
	return access.UTCDay(t).Format("2006-01-02")
}

func (r *AccessRecordRepository) Create(ctx context.Context, rec *access.UserAccessRecord) error {
	query := `
		INSERT INTO user_access_records (user_id, is_premium, account_created_at, daily_view_count, last_view_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING`

	_, err := r.db.DB.ExecContext(ctx, query,
		rec.UserID, rec.IsPremium, rec.AccountCreatedAt, rec.DailyViewCount, dateParam(rec.AccountCreatedAt))
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": rec.UserID}).WithError(err).Error("db: failed to create access record")
		}
		return fmt.Errorf("failed to create access record: %w", err)
	}

	return nil
}

func (r *AccessRecordRepository) Get(ctx context.Context, userID uuid.UUID) (*access.UserAccessRecord, error) {
	var rec access.UserAccessRecord
	query := `
		SELECT user_id, is_premium, account_created_at, daily_view_count, last_view_date
		FROM user_access_records
		WHERE user_id = $1`

	err := r.db.DB.GetContext(ctx, &rec, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ports.ErrAccessRecordNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to get access record")
		}
		return nil, fmt.Errorf("failed to get access record: %w", err)
	}

	return &rec, nil
}

// RecordView counts one view attempt for the given UTC day. Rollover happens
// before the increment: a stale last_view_date resets the counter to 1.
func (r *AccessRecordRepository) RecordView(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	query := `
		UPDATE user_access_records
		SET daily_view_count = CASE
				WHEN last_view_date = $2 THEN daily_view_count + 1
				ELSE 1
			END,
			last_view_date = $2
		WHERE user_id = $1
		RETURNING daily_view_count`

	var count int
	err := r.db.DB.GetContext(ctx, &count, query, userID, dateParam(day))
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ports.ErrAccessRecordNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to record view")
		}
		return 0, fmt.Errorf("failed to record view: %w", err)
	}

	return count, nil
}

func (r *AccessRecordRepository) SetPremium(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE user_access_records SET is_premium = TRUE WHERE user_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to set premium flag")
		}
		return fmt.Errorf("failed to set premium flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ports.ErrAccessRecordNotFound
	}

	return nil
}
