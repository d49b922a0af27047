// Package command holds the catalog's use cases. Transports depend only on Command, so
// each use case can be swapped for a fake in handler tests.
package command

import (
	"context"

	"github.com/jbeshir/template-catalog/internal/domain"
)

// Command is the generic interface for all commands.
// Req is the request type and Res is the result type.
type Command[Req, Res any] interface {
	Execute(ctx context.Context, req Req) (Res, error)
}

// Empty is used as the request or result type for commands that take or return nothing.
type Empty struct{}

var (
	_ Command[RecordInteractionRequest, RecordInteractionResult]       = (*RecordInteraction)(nil)
	_ Command[DeleteInteractionRequest, domain.Interaction]            = (*DeleteInteraction)(nil)
	_ Command[FavoriteRequest, RecordInteractionResult]                = (*AddFavorite)(nil)
	_ Command[FavoriteRequest, Empty]                                  = (*RemoveFavorite)(nil)
	_ Command[ListUserInteractionsRequest, []domain.Interaction]       = (*ListUserInteractions)(nil)
	_ Command[TemplateRefRequest, []domain.TemplateInteraction]        = (*ListTemplateInteractions)(nil)
	_ Command[TemplateRefRequest, domain.InteractionStats]             = (*TemplateInteractionStats)(nil)
	_ Command[UserRefRequest, []domain.Template]                       = (*ListUserFavorites)(nil)
	_ Command[TemplateRefRequest, domain.Template]                     = (*GetTemplate)(nil)
	_ Command[ListTrendingTemplatesRequest, []domain.TrendingTemplate] = (*ListTrendingTemplates)(nil)
	_ Command[CreateReviewRequest, domain.Review]                      = (*CreateReview)(nil)
	_ Command[UserRefRequest, []domain.Review]                         = (*ListReviews)(nil)
	_ Command[Empty, ReconcileCountersResult]                          = (*ReconcileCounters)(nil)
)
