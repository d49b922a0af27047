package memory

import (
	"context"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
)

func (s *Store) CreateReview(_ context.Context, review domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[review.ReviewerID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := s.users[review.RevieweeID]; !ok {
		return domain.ErrNotFound
	}
	for _, r := range s.reviews {
		if r.ReviewerID == review.ReviewerID && r.RevieweeID == review.RevieweeID {
			return domain.ErrConflict
		}
	}

	s.reviews = append(s.reviews, review)
	return nil
}

func (s *Store) ListReviewsForUser(_ context.Context, revieweeID string) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Review{}
	for _, r := range s.reviews {
		if r.RevieweeID == revieweeID {
			result = append(result, r)
		}
	}
	sortNewestFirst(result, func(r domain.Review) time.Time { return r.CreatedAt })
	return result, nil
}
