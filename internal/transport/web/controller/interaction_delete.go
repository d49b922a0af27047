package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

// InteractionDelete handles DELETE /v1/interactions/{interaction_id}.
type InteractionDelete struct {
	DeleteCmd command.Command[command.DeleteInteractionRequest, domain.Interaction]
}

func (c InteractionDelete) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["interaction_id"]
	logger := domain.LoggerFromContext(r.Context())
	ctx := domain.ContextWithLogger(r.Context(), logger.With("interaction_id", id))

	if _, err := c.DeleteCmd.Execute(ctx, command.DeleteInteractionRequest{InteractionID: id}); err != nil {
		writeCommandError(ctx, w, err, "unable to delete interaction", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
