package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

type InteractionsListResponse[T any] struct {
	Data []T `json:"data"`
}

// UserInteractionsList handles GET /v1/interactions/user/{user_ref}.
type UserInteractionsList struct {
	ListCmd command.Command[command.ListUserInteractionsRequest, []domain.Interaction]
}

func (c UserInteractionsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := command.ListUserInteractionsRequest{UserRef: mux.Vars(r)["user_ref"]}
	if q := r.URL.Query(); q.Has("interactionType") {
		kind, err := domain.ParseInteractionKind(q.Get("interactionType"))
		if err != nil {
			writeCommandError(ctx, w, err, "invalid interaction type filter", http.StatusNotFound)
			return
		}
		req.Kind = &kind
	}

	interactions, err := c.ListCmd.Execute(ctx, req)
	if err != nil {
		writeCommandError(ctx, w, err, "unable to list user interactions", http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusOK, InteractionsListResponse[domain.Interaction]{Data: interactions})
}

// TemplateInteractionsList handles GET /v1/interactions/template/{template_ref}.
type TemplateInteractionsList struct {
	ListCmd command.Command[command.TemplateRefRequest, []domain.TemplateInteraction]
}

func (c TemplateInteractionsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	interactions, err := c.ListCmd.Execute(ctx, command.TemplateRefRequest{TemplateRef: mux.Vars(r)["template_ref"]})
	if err != nil {
		writeCommandError(ctx, w, err, "unable to list template interactions", http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusOK, InteractionsListResponse[domain.TemplateInteraction]{Data: interactions})
}

// TemplateInteractionStats handles GET /v1/interactions/stats/template/{template_ref}.
type TemplateInteractionStats struct {
	StatsCmd command.Command[command.TemplateRefRequest, domain.InteractionStats]
}

func (c TemplateInteractionStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := c.StatsCmd.Execute(ctx, command.TemplateRefRequest{TemplateRef: mux.Vars(r)["template_ref"]})
	if err != nil {
		writeCommandError(ctx, w, err, "unable to count template interactions", http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusOK, stats)
}
