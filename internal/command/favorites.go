package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

type FavoriteRequest struct {
	UserRef     string
	TemplateRef string
}

// AddFavorite makes a template one of the user's favorites. The favorite interaction takes
// over the pair's exclusive slot, so a prior like or dislike is transitioned away. The set
// insert happens in the same store write as the ledger change.
type AddFavorite struct {
	Recorder *RecordInteraction
}

func NewAddFavorite(recorder *RecordInteraction) *AddFavorite {
	return &AddFavorite{Recorder: recorder}
}

func (c *AddFavorite) Execute(ctx context.Context, req FavoriteRequest) (RecordInteractionResult, error) {
	return c.Recorder.Execute(ctx, RecordInteractionRequest{
		UserRef:     req.UserRef,
		TemplateRef: req.TemplateRef,
		Kind:        domain.InteractionKindFavorite,
	})
}

// RemoveFavorite removes a template from the user's favorites and deletes the favorite
// interaction if the pair's exclusive slot still holds one.
type RemoveFavorite struct {
	Resolvers Resolvers
	Store     LedgerStore
	Favorites datasources.FavoritesPruner
	Config    LedgerConfig
}

func NewRemoveFavorite(
	resolvers Resolvers,
	store LedgerStore,
	favorites datasources.FavoritesPruner,
	config LedgerConfig,
) *RemoveFavorite {
	return &RemoveFavorite{Resolvers: resolvers, Store: store, Favorites: favorites, Config: config}
}

func (c *RemoveFavorite) Execute(ctx context.Context, req FavoriteRequest) (Empty, error) {
	user, err := c.Resolvers.Actor(ctx, req.UserRef)
	if err != nil {
		return Empty{}, err
	}
	template, err := c.Resolvers.Target(ctx, req.TemplateRef)
	if err != nil {
		return Empty{}, err
	}

	if err := c.removeFavoriteInteraction(ctx, user.ID, template.ID); err != nil {
		return Empty{}, err
	}

	// Clears a set entry the ledger no longer backs. A favorite recorded concurrently keeps it.
	if err := c.Favorites.PruneFavorite(ctx, user.ID, template.ID); err != nil {
		return Empty{}, fmt.Errorf("pruning favorite: %w", err)
	}
	return Empty{}, nil
}

func (c *RemoveFavorite) removeFavoriteInteraction(ctx context.Context, userID, templateID string) error {
	logger := domain.LoggerFromContext(ctx)

	for attempt := 1; attempt <= c.Config.attempts(); attempt++ {
		current, err := c.Store.GetExclusiveInteraction(ctx, userID, templateID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading exclusive interaction: %w", err)
		}
		if current.Kind != domain.InteractionKindFavorite {
			return nil
		}

		err = c.Store.RemoveInteraction(ctx, current, current.Kind.RemovedEffects())
		switch {
		case err == nil:
			logger.DebugContext(ctx, "deleted favorite interaction", "interactionID", current.ID)
			return nil
		case errors.Is(err, domain.ErrNotFound):
			// Removed concurrently.
			return nil
		case errors.Is(err, domain.ErrConflict):
			continue
		default:
			return fmt.Errorf("removing favorite interaction: %w", err)
		}
	}

	return fmt.Errorf("%w: removing favorite for user %s on template %s",
		domain.ErrConstraintViolation, userID, templateID)
}
