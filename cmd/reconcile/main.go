// Command reconcile rebuilds template counters and favorites sets from the interaction
// ledger once and exits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jbeshir/template-catalog/internal/app"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx := context.Background()

	logLevel := slog.LevelInfo
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := logLevel.UnmarshalText([]byte(lvl)); err != nil {
			fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL: %s\n", lvl)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	ctx = domain.ContextWithLogger(ctx, logger)

	if err := run(ctx); err != nil {
		logger.ErrorContext(ctx, "reconciliation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dataset, err := app.SetupDatasetRepository(ctx, nil)
	if err != nil {
		return fmt.Errorf("setting up dataset repository: %w", err)
	}

	_, err = command.NewReconcileCounters(dataset).Execute(ctx, command.Empty{})
	return err
}
