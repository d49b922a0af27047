package app

import (
	"context"
	"time"

	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

// ReconcileJob periodically rebuilds counters and favorites sets from the ledger until
// its context is cancelled. A failed run is logged and retried on the next tick.
type ReconcileJob struct {
	Cmd      command.Command[command.Empty, command.ReconcileCountersResult]
	Interval time.Duration
}

func (j *ReconcileJob) Run(ctx context.Context) error {
	logger := domain.LoggerFromContext(ctx).With("component", "reconcile")
	ctx = domain.ContextWithLogger(ctx, logger)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := j.Cmd.Execute(ctx, command.Empty{}); err != nil {
				logger.ErrorContext(ctx, "reconciliation run failed", "error", err)
			}
		}
	}
}
