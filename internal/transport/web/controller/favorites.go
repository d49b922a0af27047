package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

func favoriteRequest(r *http.Request) command.FavoriteRequest {
	vars := mux.Vars(r)
	return command.FavoriteRequest{UserRef: vars["user_ref"], TemplateRef: vars["template_ref"]}
}

// FavoriteAdd handles POST /v1/users/{user_ref}/favorites/{template_ref}.
type FavoriteAdd struct {
	AddCmd command.Command[command.FavoriteRequest, command.RecordInteractionResult]
}

func (c FavoriteAdd) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := favoriteRequest(r)
	logger := domain.LoggerFromContext(r.Context())
	ctx := domain.ContextWithLogger(r.Context(), logger.With("template_ref", req.TemplateRef))

	if _, err := c.AddCmd.Execute(ctx, req); err != nil {
		writeCommandError(ctx, w, err, "unable to add favorite", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FavoriteRemove handles DELETE /v1/users/{user_ref}/favorites/{template_ref}.
type FavoriteRemove struct {
	RemoveCmd command.Command[command.FavoriteRequest, command.Empty]
}

func (c FavoriteRemove) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := favoriteRequest(r)
	logger := domain.LoggerFromContext(r.Context())
	ctx := domain.ContextWithLogger(r.Context(), logger.With("template_ref", req.TemplateRef))

	if _, err := c.RemoveCmd.Execute(ctx, req); err != nil {
		writeCommandError(ctx, w, err, "unable to remove favorite", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FavoritesList handles GET /v1/users/{user_ref}/favorites.
type FavoritesList struct {
	ListCmd command.Command[command.UserRefRequest, []domain.Template]
}

func (c FavoritesList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	templates, err := c.ListCmd.Execute(ctx, command.UserRefRequest{UserRef: mux.Vars(r)["user_ref"]})
	if err != nil {
		writeCommandError(ctx, w, err, "unable to list favorites", http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusOK, TemplatesListResponse{Data: templates})
}
