package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/domain/term"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

type TermService struct {
	repo   ports.TermRepository
	logger *logrus.Logger
}

func NewTermService(repo ports.TermRepository, logger *logrus.Logger) ports.TermService {
	return &TermService{repo: repo, logger: logger}
}

func (s *TermService) ListTerms(ctx context.Context, filter *term.ListFilter) ([]*term.Term, int, error) {
	if filter == nil {
		filter = &term.ListFilter{}
	}
	filter.Normalize()

	terms, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list terms: %w", err)
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count terms: %w", err)
	}

	return terms, count, nil
}

func (s *TermService) GetTerm(ctx context.Context, slug string) (*term.Term, error) {
	t, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"slug": slug}).WithError(err).Debug("term lookup failed")
		}
		return nil, err
	}
	return t, nil
}
