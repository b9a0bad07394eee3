package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/domain/term"
	"github.com/termwise/glossary-saas/internal/core/ports"
	"github.com/termwise/glossary-saas/internal/infrastructure/db"
)

// TermRepository reads glossary terms and their sections from Postgres.
type TermRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewTermRepository(database *db.Database, logger *logrus.Logger) ports.TermRepository {
	return &TermRepository{
		db:     database,
		logger: logger,
	}
}

func (r *TermRepository) List(ctx context.Context, filter *term.ListFilter) ([]*term.Term, error) {
	var terms []*term.Term
	query := `
		SELECT id, slug, title, short_definition, category, created_at, updated_at
		FROM terms
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR slug ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR category = $2)
		ORDER BY title ASC
		LIMIT $3 OFFSET $4`

	err := r.db.DB.SelectContext(ctx, &terms, query, filter.Query, filter.Category, filter.Limit, filter.Offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": filter.Query, "category": filter.Category}).WithError(err).Error("db: failed to list terms")
		}
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}

	return terms, nil
}

func (r *TermRepository) Count(ctx context.Context, filter *term.ListFilter) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM terms
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR slug ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR category = $2)`

	err := r.db.DB.GetContext(ctx, &count, query, filter.Query, filter.Category)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to count terms")
		}
		return 0, fmt.Errorf("failed to count terms: %w", err)
	}

	return count, nil
}

func (r *TermRepository) GetBySlug(ctx context.Context, slug string) (*term.Term, error) {
	var t term.Term
	query := `
		SELECT id, slug, title, short_definition, category, created_at, updated_at
		FROM terms
		WHERE slug = $1`

	err := r.db.DB.GetContext(ctx, &t, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ports.ErrTermNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"slug": slug}).WithError(err).Error("db: failed to get term by slug")
		}
		return nil, fmt.Errorf("failed to get term by slug: %w", err)
	}

	sectionsQuery := `
		SELECT id, term_id, name, position, content
		FROM term_sections
		WHERE term_id = $1
		ORDER BY position ASC`

	if err := r.db.DB.SelectContext(ctx, &t.Sections, sectionsQuery, t.ID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"slug": slug}).WithError(err).Error("db: failed to load term sections")
		}
		return nil, fmt.Errorf("failed to load term sections: %w", err)
	}

	return &t, nil
}
