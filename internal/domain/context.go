package domain

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerContextKey contextKey = "logger"

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := ctx.Value(loggerContextKey)
	if logger == nil {
		logger = slog.Default()
	}

	return logger.(*slog.Logger)
}

const userContextKey contextKey = "user"

// ContextWithUserID records the authenticated caller. Only the auth middleware sets it.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	userID := ctx.Value(userContextKey)
	if userID == nil {
		userID = ""
	}
	return userID.(string)
}

// AuthMethod identifies how a request was authenticated.
type AuthMethod string

const (
	AuthMethodNone          AuthMethod = ""
	AuthMethodAuth0         AuthMethod = "auth0"
	AuthMethodTrustedHeader AuthMethod = "trusted_header"
)

const authMethodContextKey contextKey = "auth_method"

func ContextWithAuthMethod(ctx context.Context, method AuthMethod) context.Context {
	return context.WithValue(ctx, authMethodContextKey, method)
}

func AuthMethodFromContext(ctx context.Context) AuthMethod {
	method, ok := ctx.Value(authMethodContextKey).(AuthMethod)
	if !ok {
		return AuthMethodNone
	}
	return method
}

// CatalogUserIDFromContext returns the authenticated user id when it names a catalog user.
// Only trusted_header identities do; an auth0 subject such as "auth0|..." is not a user id,
// username or email, so callers authenticated that way must name themselves explicitly.
func CatalogUserIDFromContext(ctx context.Context) string {
	if AuthMethodFromContext(ctx) != AuthMethodTrustedHeader {
		return ""
	}
	return UserIDFromContext(ctx)
}
