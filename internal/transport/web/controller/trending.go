package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

type TrendingCommand = command.Command[command.ListTrendingTemplatesRequest, []domain.TrendingTemplate]

func trendingRequestFromRequest(r *http.Request) (command.ListTrendingTemplatesRequest, error) {
	req := command.ListTrendingTemplatesRequest{
		Kind:       domain.InteractionKind(mux.Vars(r)["kind"]),
		WindowDays: command.DefaultTrendingWindowDays,
		Limit:      command.DefaultTrendingLimit,
	}

	q := r.URL.Query()
	if q.Has("limit") {
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			return command.ListTrendingTemplatesRequest{}, fmt.Errorf("%w: unable to parse limit: %w",
				domain.ErrValidationFailed, err)
		}
		req.Limit = limit
	}
	if q.Has("days") {
		days, err := strconv.Atoi(q.Get("days"))
		if err != nil {
			return command.ListTrendingTemplatesRequest{}, fmt.Errorf("%w: unable to parse days: %w",
				domain.ErrValidationFailed, err)
		}
		req.WindowDays = days
	}
	return req, nil
}

type TrendingListResponse struct {
	Data     []domain.TrendingTemplate `json:"data"`
	Metadata TrendingListMetadata      `json:"metadata"`
}

type TrendingListMetadata struct {
	Kind       domain.InteractionKind `json:"kind"`
	WindowDays int                    `json:"window_days"`
	Limit      int                    `json:"limit"`
}

// TrendingList handles GET /v1/templates/trending/{kind}.
type TrendingList struct {
	TrendingCmd TrendingCommand
	CacheMaxAge time.Duration
}

func (c TrendingList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := trendingRequestFromRequest(r)
	if err != nil {
		writeCommandError(ctx, w, err, "unable to parse trending query", http.StatusNotFound)
		return
	}

	results, err := c.TrendingCmd.Execute(ctx, req)
	if err != nil {
		writeCommandError(ctx, w, err, "unable to list trending templates", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	writeJSON(ctx, w, http.StatusOK, TrendingListResponse{
		Data: results,
		Metadata: TrendingListMetadata{
			Kind:       req.Kind,
			WindowDays: req.WindowDays,
			Limit:      req.Limit,
		},
	})
}
