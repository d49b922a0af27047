package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

const maxReviewCommentLength = 2000

type CreateReviewRequest struct {
	ReviewerRef string
	RevieweeRef string
	Rating      int
	Comment     string
}

// CreateReview lets one user rate another. A user may review another user at most once and
// may never review themself.
type CreateReview struct {
	Resolvers Resolvers
	Creator   datasources.ReviewCreator
	Now       func() time.Time
	NewID     func() string
}

func NewCreateReview(resolvers Resolvers, creator datasources.ReviewCreator) *CreateReview {
	return &CreateReview{
		Resolvers: resolvers,
		Creator:   creator,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
	}
}

func (c *CreateReview) Execute(ctx context.Context, req CreateReviewRequest) (domain.Review, error) {
	if req.Rating < domain.MinReviewRating || req.Rating > domain.MaxReviewRating {
		return domain.Review{}, fmt.Errorf("%w: rating %d outside %d..%d", domain.ErrValidationFailed,
			req.Rating, domain.MinReviewRating, domain.MaxReviewRating)
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > maxReviewCommentLength {
		return domain.Review{}, fmt.Errorf("%w: comment longer than %d bytes",
			domain.ErrValidationFailed, maxReviewCommentLength)
	}

	reviewer, err := c.Resolvers.Actor(ctx, req.ReviewerRef)
	if err != nil {
		return domain.Review{}, err
	}
	reviewee, err := c.Resolvers.TargetUser(ctx, req.RevieweeRef)
	if err != nil {
		return domain.Review{}, err
	}
	if reviewer.ID == reviewee.ID {
		return domain.Review{}, domain.ErrSelfReview
	}

	review := domain.Review{
		ID:         c.NewID(),
		ReviewerID: reviewer.ID,
		RevieweeID: reviewee.ID,
		Rating:     req.Rating,
		Comment:    comment,
		CreatedAt:  c.Now(),
	}

	err = c.Creator.CreateReview(ctx, review)
	switch {
	case errors.Is(err, domain.ErrConflict):
		return domain.Review{}, domain.ErrAlreadyReviewed
	case errors.Is(err, domain.ErrNotFound):
		return domain.Review{}, fmt.Errorf("%w: user deleted while reviewing", domain.ErrTargetNotFound)
	case err != nil:
		return domain.Review{}, fmt.Errorf("creating review: %w", err)
	}
	return review, nil
}

// ListReviews returns the reviews a user has received, newest first.
type ListReviews struct {
	Resolvers Resolvers
	Lister    datasources.ReviewLister
}

func (c *ListReviews) Execute(ctx context.Context, req UserRefRequest) ([]domain.Review, error) {
	user, err := c.Resolvers.TargetUser(ctx, req.UserRef)
	if err != nil {
		return nil, err
	}

	reviews, err := c.Lister.ListReviewsForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for user %s: %w", user.ID, err)
	}
	return reviews, nil
}
