package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/stretchr/testify/mock"
)

func testContext() func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		ctx := domain.ContextWithLogger(r.Context(), slog.New(slog.DiscardHandler))
		return r.WithContext(ctx)
	}
}

// testContextWithUserID authenticates the request as a catalog user, the way the trusted
// header validator does.
func testContextWithUserID(userID string) func(r *http.Request) *http.Request {
	return testContextWithAuth(userID, domain.AuthMethodTrustedHeader)
}

func testContextWithAuth(userID string, method domain.AuthMethod) func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		ctx := domain.ContextWithLogger(r.Context(), slog.New(slog.DiscardHandler))
		if userID != "" {
			ctx = domain.ContextWithUserID(ctx, userID)
			ctx = domain.ContextWithAuthMethod(ctx, method)
		}
		return r.WithContext(ctx)
	}
}

// mockCommand is a testify mock satisfying command.Command for any request and result type.
type mockCommand[Req, Res any] struct {
	mock.Mock
}

func (m *mockCommand[Req, Res]) Execute(ctx context.Context, req Req) (Res, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(Res)
	return res, args.Error(1)
}
