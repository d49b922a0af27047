package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
)

type TemplatesList struct {
	Lister interface {
		datasources.TemplateLister
		datasources.TemplateFetcher
	}
	CacheMaxAge time.Duration
}

type TemplatesListResponse struct {
	Data     []domain.Template      `json:"data"`
	Metadata *TemplatesListMetadata `json:"metadata,omitempty"`
}

type TemplatesListMetadata struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

func (c TemplatesList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	filters, err := templateFiltersFromQuery(r.URL.Query())
	if err != nil {
		logger.InfoContext(ctx, "unable to parse template filters in query string", "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	options, err := templateListOptionsFromQuery(r.URL.Query())
	if err != nil {
		logger.InfoContext(ctx, "unable to parse template list options in query string", "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	templateIDs, err := c.Lister.ListTemplateIDs(ctx, filters, options)
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch template IDs", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	total, err := c.Lister.TotalMatchingTemplates(ctx, filters)
	if err != nil {
		logger.ErrorContext(ctx, "unable to count matching templates", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	templates, err := c.Lister.FetchTemplatesByID(ctx, templateIDs)
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch template metadata", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	writeJSON(ctx, w, http.StatusOK, TemplatesListResponse{
		Data: templates,
		Metadata: &TemplatesListMetadata{
			Page:     options.Page,
			PageSize: options.PageSize,
			Total:    total,
		},
	})
}
