package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health handles GET /healthz. It fails if any pinger fails within the timeout.
type Health struct {
	Pingers map[string]Pinger
	Timeout time.Duration
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (c Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(c.Pingers))}
	status := http.StatusOK
	for name, p := range c.Pingers {
		if err := p.PingContext(pingCtx); err != nil {
			logger.ErrorContext(ctx, "health check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(ctx, w, status, resp)
}
