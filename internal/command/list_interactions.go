package command

import (
	"context"
	"fmt"

	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

type ListUserInteractionsRequest struct {
	UserRef string
	// Kind restricts the listing to one kind when set.
	Kind *domain.InteractionKind
}

// ListUserInteractions returns a user's interactions, newest first.
type ListUserInteractions struct {
	Resolvers Resolvers
	Lister    datasources.InteractionLister
}

func (c *ListUserInteractions) Execute(
	ctx context.Context,
	req ListUserInteractionsRequest,
) ([]domain.Interaction, error) {
	if req.Kind != nil && !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, *req.Kind)
	}

	user, err := c.Resolvers.TargetUser(ctx, req.UserRef)
	if err != nil {
		return nil, err
	}

	interactions, err := c.Lister.ListUserInteractions(ctx, user.ID, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("listing interactions for user %s: %w", user.ID, err)
	}
	return interactions, nil
}

type TemplateRefRequest struct {
	TemplateRef string
}

// ListTemplateInteractions returns a template's interactions with the public profile of
// each interacting user, newest first.
type ListTemplateInteractions struct {
	Resolvers Resolvers
	Lister    datasources.InteractionLister
}

func (c *ListTemplateInteractions) Execute(
	ctx context.Context,
	req TemplateRefRequest,
) ([]domain.TemplateInteraction, error) {
	template, err := c.Resolvers.Target(ctx, req.TemplateRef)
	if err != nil {
		return nil, err
	}

	interactions, err := c.Lister.ListTemplateInteractions(ctx, template.ID)
	if err != nil {
		return nil, fmt.Errorf("listing interactions for template %s: %w", template.ID, err)
	}
	return interactions, nil
}

// TemplateInteractionStats counts a template's live interactions by kind over all time.
type TemplateInteractionStats struct {
	Resolvers Resolvers
	Lister    datasources.InteractionLister
}

func (c *TemplateInteractionStats) Execute(
	ctx context.Context,
	req TemplateRefRequest,
) (domain.InteractionStats, error) {
	template, err := c.Resolvers.Target(ctx, req.TemplateRef)
	if err != nil {
		return nil, err
	}

	counts, err := c.Lister.CountTemplateInteractionsByKind(ctx, template.ID)
	if err != nil {
		return nil, fmt.Errorf("counting interactions for template %s: %w", template.ID, err)
	}

	stats := domain.NewInteractionStats()
	for kind, n := range counts {
		stats[kind] = n
	}
	return stats, nil
}

type UserRefRequest struct {
	UserRef string
}

// ListUserFavorites returns the templates in a user's favorites set, in the order they were added.
type ListUserFavorites struct {
	Resolvers Resolvers
	Favorites datasources.UserFavoritesLister
	Templates datasources.TemplateFetcher
}

func (c *ListUserFavorites) Execute(ctx context.Context, req UserRefRequest) ([]domain.Template, error) {
	user, err := c.Resolvers.TargetUser(ctx, req.UserRef)
	if err != nil {
		return nil, err
	}

	ids, err := c.Favorites.ListUserFavoriteTemplateIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites for user %s: %w", user.ID, err)
	}

	templates, err := c.Templates.FetchTemplatesByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching favorite templates: %w", err)
	}
	return templates, nil
}
