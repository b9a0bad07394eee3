package ports

import (
	"context"
	"errors"

	"github.com/termwise/glossary-saas/internal/core/domain/term"
)

var ErrTermNotFound = errors.New("term not found")

// TermRepository reads glossary content. Authoring happens in an external
// generation pipeline; this API surface is read-only.
type TermRepository interface {
	List(ctx context.Context, filter *term.ListFilter) ([]*term.Term, error)
	Count(ctx context.Context, filter *term.ListFilter) (int, error)
	// GetBySlug returns the term with its sections ordered by position.
	GetBySlug(ctx context.Context, slug string) (*term.Term, error)
}

// TermService defines glossary business logic
type TermService interface {
	ListTerms(ctx context.Context, filter *term.ListFilter) ([]*term.Term, int, error)
	GetTerm(ctx context.Context, slug string) (*term.Term, error)
}
