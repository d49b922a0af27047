package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/jbeshir/template-catalog/internal/domain"
)

type DeleteInteractionRequest struct {
	InteractionID string
}

// DeleteInteraction removes an interaction and undoes its effect on counters and favorites.
type DeleteInteraction struct {
	Store  LedgerStore
	Config LedgerConfig
}

func NewDeleteInteraction(store LedgerStore, config LedgerConfig) *DeleteInteraction {
	return &DeleteInteraction{Store: store, Config: config}
}

func (c *DeleteInteraction) Execute(ctx context.Context, req DeleteInteractionRequest) (domain.Interaction, error) {
	logger := domain.LoggerFromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= c.Config.attempts(); attempt++ {
		// The kind is re-read on every attempt, since a concurrent transition changes which
		// effects have to be undone.
		interaction, err := c.Store.GetInteractionByID(ctx, req.InteractionID)
		if err != nil {
			return domain.Interaction{}, fmt.Errorf("fetching interaction %s: %w", req.InteractionID, err)
		}

		err = c.Store.RemoveInteraction(ctx, interaction, interaction.Kind.RemovedEffects())
		if err == nil {
			logger.DebugContext(ctx, "deleted interaction",
				"interactionID", interaction.ID, "kind", interaction.Kind)
			return interaction, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Interaction{}, fmt.Errorf("removing interaction %s: %w", req.InteractionID, err)
		}
		lastErr = err
	}

	return domain.Interaction{}, fmt.Errorf("%w: deleting interaction %s: %w",
		domain.ErrConstraintViolation, req.InteractionID, lastErr)
}
