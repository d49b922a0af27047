package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

const maxRequestBodyBytes = 64 * 1024

type InteractionRecordRequest struct {
	UserRef         string `json:"userRef"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	TemplateRef     string `json:"templateRef"`
	InteractionType string `json:"interactionType"`
}

// userRef picks the first identifier the caller supplied, falling back to the authenticated
// catalog user.
func (r InteractionRecordRequest) userRef(authenticatedUserID string) string {
	for _, ref := range []string{r.UserRef, r.Username, r.Email} {
		if ref != "" {
			return ref
		}
	}
	return authenticatedUserID
}

// missingRefsMessage tells an auth0 caller why its identity was not used as the user reference.
func missingRefsMessage(ctx context.Context) string {
	if domain.AuthMethodFromContext(ctx) == domain.AuthMethodAuth0 {
		return "user and template references are required; auth0 identities are not catalog users"
	}
	return "user and template references are required"
}

type InteractionRecordResponse struct {
	Interaction domain.Interaction `json:"interaction"`
	Outcome     string             `json:"outcome"`
}

// InteractionRecord handles POST /v1/interactions.
type InteractionRecord struct {
	RecordCmd command.Command[command.RecordInteractionRequest, command.RecordInteractionResult]
}

func (c InteractionRecord) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	var body InteractionRecordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&body); err != nil {
		logger.InfoContext(ctx, "unable to parse request body", "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	kind, err := domain.ParseInteractionKind(body.InteractionType)
	if err != nil {
		writeCommandError(ctx, w, err, "invalid interaction type", http.StatusBadRequest)
		return
	}

	userRef := body.userRef(domain.CatalogUserIDFromContext(ctx))
	if userRef == "" || body.TemplateRef == "" {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: missingRefsMessage(ctx)})
		return
	}

	ctx = domain.ContextWithLogger(ctx, logger.With("template_ref", body.TemplateRef, "kind", kind))
	result, err := c.RecordCmd.Execute(ctx, command.RecordInteractionRequest{
		UserRef:     userRef,
		TemplateRef: body.TemplateRef,
		Kind:        kind,
	})
	if err != nil {
		writeCommandError(ctx, w, err, "unable to record interaction", http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if result.Outcome == domain.TransitionCreated {
		status = http.StatusCreated
	}
	writeJSON(ctx, w, status, InteractionRecordResponse{
		Interaction: result.Interaction,
		Outcome:     result.Outcome.String(),
	})
}
