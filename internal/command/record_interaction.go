package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

// DefaultLedgerMaxAttempts allows the initial attempt plus one retry after a conflict.
const DefaultLedgerMaxAttempts = 2

// LedgerConfig tunes how ledger commands react to concurrent writers.
type LedgerConfig struct {
	// MaxAttempts bounds how many times a write is planned and applied before a conflict
	// is surfaced as domain.ErrConstraintViolation.
	MaxAttempts int
}

func (c LedgerConfig) attempts() int {
	if c.MaxAttempts < 1 {
		return DefaultLedgerMaxAttempts
	}
	return c.MaxAttempts
}

// LedgerStore is the subset of the store the ledger commands write through.
type LedgerStore interface {
	datasources.ExclusiveInteractionGetter
	datasources.InteractionByIDGetter
	datasources.InteractionWriter
}

type RecordInteractionRequest struct {
	UserRef     string
	TemplateRef string
	Kind        domain.InteractionKind
}

type RecordInteractionResult struct {
	Interaction domain.Interaction
	Outcome     domain.TransitionOutcome
}

// RecordInteraction records that a user performed an action on a template. Exclusive kinds
// occupy a single slot per (user, template) pair, so recording one replaces whichever
// exclusive kind was there before.
type RecordInteraction struct {
	Resolvers Resolvers
	Store     LedgerStore
	Config    LedgerConfig
	Now       func() time.Time
	NewID     func() string
}

func NewRecordInteraction(resolvers Resolvers, store LedgerStore, config LedgerConfig) *RecordInteraction {
	return &RecordInteraction{
		Resolvers: resolvers,
		Store:     store,
		Config:    config,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
	}
}

func (c *RecordInteraction) Execute(ctx context.Context, req RecordInteractionRequest) (RecordInteractionResult, error) {
	if !req.Kind.Valid() {
		return RecordInteractionResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidKind, req.Kind)
	}

	user, err := c.Resolvers.Actor(ctx, req.UserRef)
	if err != nil {
		return RecordInteractionResult{}, err
	}
	template, err := c.Resolvers.Target(ctx, req.TemplateRef)
	if err != nil {
		return RecordInteractionResult{}, err
	}

	if !req.Kind.Exclusive() {
		return c.recordUnbounded(ctx, user.ID, template.ID, req.Kind)
	}
	return c.recordExclusive(ctx, user.ID, template.ID, req.Kind)
}

func (c *RecordInteraction) recordUnbounded(
	ctx context.Context,
	userID, templateID string,
	kind domain.InteractionKind,
) (RecordInteractionResult, error) {
	var lastErr error
	for attempt := 1; attempt <= c.Config.attempts(); attempt++ {
		interaction := domain.Interaction{
			ID:         c.NewID(),
			UserID:     userID,
			TemplateID: templateID,
			Kind:       kind,
			CreatedAt:  c.Now(),
		}

		err := c.Store.InsertInteraction(ctx, interaction, kind.CreatedEffects())
		switch {
		case err == nil:
			return RecordInteractionResult{Interaction: interaction, Outcome: domain.TransitionCreated}, nil
		case errors.Is(err, domain.ErrContention):
			lastErr = err
			continue
		case errors.Is(err, domain.ErrConflict):
			return RecordInteractionResult{}, fmt.Errorf("%w: duplicate %s interaction %s: %w",
				domain.ErrInvariantViolation, kind, interaction.ID, err)
		default:
			return RecordInteractionResult{}, c.writeError(err)
		}
	}

	return RecordInteractionResult{}, fmt.Errorf("%w: recording %s for user %s on template %s: %w",
		domain.ErrConstraintViolation, kind, userID, templateID, lastErr)
}

func (c *RecordInteraction) recordExclusive(
	ctx context.Context,
	userID, templateID string,
	kind domain.InteractionKind,
) (RecordInteractionResult, error) {
	logger := domain.LoggerFromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= c.Config.attempts(); attempt++ {
		result, err := c.applyExclusive(ctx, userID, templateID, kind)
		if err == nil {
			logger.DebugContext(ctx, "recorded interaction",
				"interactionID", result.Interaction.ID, "kind", kind, "outcome", result.Outcome.String())
			return result, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return RecordInteractionResult{}, err
		}

		lastErr = err
		logger.DebugContext(ctx, "interaction write conflicted, re-reading slot",
			"userID", userID, "templateID", templateID, "attempt", attempt)
	}

	return RecordInteractionResult{}, fmt.Errorf("%w: recording %s for user %s on template %s: %w",
		domain.ErrConstraintViolation, kind, userID, templateID, lastErr)
}

// applyExclusive reads the slot, plans the transition and applies it with a single store call.
// A domain.ErrConflict return means another writer changed the slot in between.
func (c *RecordInteraction) applyExclusive(
	ctx context.Context,
	userID, templateID string,
	kind domain.InteractionKind,
) (RecordInteractionResult, error) {
	var existing *domain.Interaction
	current, err := c.Store.GetExclusiveInteraction(ctx, userID, templateID)
	switch {
	case err == nil:
		existing = &current
	case errors.Is(err, domain.ErrNotFound):
	default:
		return RecordInteractionResult{}, fmt.Errorf("reading exclusive interaction: %w", err)
	}

	plan := domain.PlanTransition(existing, kind)
	switch plan.Outcome {
	case domain.TransitionUnchanged:
		return RecordInteractionResult{Interaction: current, Outcome: plan.Outcome}, nil

	case domain.TransitionUpdated:
		at := c.Now()
		if err := c.Store.TransitionInteraction(ctx, current, kind, at, plan.Effects); err != nil {
			return RecordInteractionResult{}, c.writeError(err)
		}
		current.Kind = kind
		current.CreatedAt = at
		return RecordInteractionResult{Interaction: current, Outcome: plan.Outcome}, nil

	default:
		interaction := domain.Interaction{
			ID:         c.NewID(),
			UserID:     userID,
			TemplateID: templateID,
			Kind:       kind,
			CreatedAt:  c.Now(),
		}
		if err := c.Store.InsertInteraction(ctx, interaction, plan.Effects); err != nil {
			return RecordInteractionResult{}, c.writeError(err)
		}
		return RecordInteractionResult{Interaction: interaction, Outcome: plan.Outcome}, nil
	}
}

// writeError passes conflicts through for the retry loop. A missing reference at write time
// means the user or template was deleted after resolution.
func (c *RecordInteraction) writeError(err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w: deleted while recording interaction", domain.ErrTargetNotFound)
	default:
		return fmt.Errorf("writing interaction: %w", err)
	}
}
