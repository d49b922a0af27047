package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

type ReviewCreateRequest struct {
	ReviewerRef string `json:"reviewerRef"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

// ReviewCreate handles POST /v1/users/{user_ref}/reviews.
type ReviewCreate struct {
	CreateCmd command.Command[command.CreateReviewRequest, domain.Review]
}

func (c ReviewCreate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	var body ReviewCreateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&body); err != nil {
		logger.InfoContext(ctx, "unable to parse request body", "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	reviewerRef := body.ReviewerRef
	if reviewerRef == "" {
		reviewerRef = domain.CatalogUserIDFromContext(ctx)
	}
	if reviewerRef == "" {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "reviewer reference is required"})
		return
	}

	review, err := c.CreateCmd.Execute(ctx, command.CreateReviewRequest{
		ReviewerRef: reviewerRef,
		RevieweeRef: mux.Vars(r)["user_ref"],
		Rating:      body.Rating,
		Comment:     body.Comment,
	})
	if err != nil {
		writeCommandError(ctx, w, err, "unable to create review", http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, review)
}

type ReviewsListResponse struct {
	Data []domain.Review `json:"data"`
}

// ReviewsList handles GET /v1/users/{user_ref}/reviews.
type ReviewsList struct {
	ListCmd command.Command[command.UserRefRequest, []domain.Review]
}

func (c ReviewsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reviews, err := c.ListCmd.Execute(ctx, command.UserRefRequest{UserRef: mux.Vars(r)["user_ref"]})
	if err != nil {
		writeCommandError(ctx, w, err, "unable to list reviews", http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ReviewsListResponse{Data: reviews})
}
