package command

import (
	"context"
	"fmt"

	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

type ReconcileCountersResult struct {
	Drifts    []domain.CounterDrift
	Favorites domain.FavoritesRepair
}

// ReconcileCounters rebuilds template like and dislike counters and users' favorites sets
// from the interaction ledger, which is the source of truth for both.
type ReconcileCounters struct {
	Reconciler datasources.CounterReconciler
}

func NewReconcileCounters(reconciler datasources.CounterReconciler) *ReconcileCounters {
	return &ReconcileCounters{Reconciler: reconciler}
}

func (c *ReconcileCounters) Execute(ctx context.Context, _ Empty) (ReconcileCountersResult, error) {
	logger := domain.LoggerFromContext(ctx)

	drifts, err := c.Reconciler.ReconcileTemplateCounters(ctx)
	if err != nil {
		return ReconcileCountersResult{}, fmt.Errorf("reconciling template counters: %w", err)
	}
	for _, d := range drifts {
		logger.WarnContext(ctx, "repaired drifted template counters",
			"templateID", d.TemplateID,
			"storedLikes", d.StoredLikes, "actualLikes", d.ActualLikes,
			"storedDislikes", d.StoredDislikes, "actualDislikes", d.ActualDislikes)
	}

	repair, err := c.Reconciler.ReconcileFavorites(ctx)
	if err != nil {
		return ReconcileCountersResult{}, fmt.Errorf("reconciling favorites: %w", err)
	}
	if repair.Added > 0 || repair.Removed > 0 {
		logger.WarnContext(ctx, "repaired favorites sets", "added", repair.Added, "removed", repair.Removed)
	}

	logger.InfoContext(ctx, "reconciliation complete",
		"driftedTemplates", len(drifts), "favoritesAdded", repair.Added, "favoritesRemoved", repair.Removed)
	return ReconcileCountersResult{Drifts: drifts, Favorites: repair}, nil
}
