package app

import (
	"context"

	"github.com/jbeshir/template-catalog/internal/command"
)

// LedgerConfigFromEnv reads the conflict retry budget shared by every ledger write.
func LedgerConfigFromEnv(ctx context.Context) command.LedgerConfig {
	return command.LedgerConfig{
		MaxAttempts: MustGetEnvAsInt(ctx, "LEDGER_MAX_ATTEMPTS"),
	}
}
