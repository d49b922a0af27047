package mysql

import (
	"context"
	"fmt"

	"github.com/jbeshir/template-catalog/internal/domain"
)

func (r *Repository) CreateReview(ctx context.Context, review domain.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, reviewer_id, reviewee_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		review.ID, review.ReviewerID, review.RevieweeID, review.Rating, review.Comment, review.CreatedAt,
	)
	if isDuplicateEntry(err) {
		return domain.ErrConflict
	}
	if isMissingReference(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

func (r *Repository) ListReviewsForUser(ctx context.Context, revieweeID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reviewer_id, reviewee_id, rating, COALESCE(comment, ''), created_at
		FROM reviews
		WHERE reviewee_id = ?
		ORDER BY created_at DESC, id`,
		revieweeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ReviewerID, &rv.RevieweeID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return reviews, nil
}
