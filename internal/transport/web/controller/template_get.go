package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jbeshir/template-catalog/internal/command"
	"github.com/jbeshir/template-catalog/internal/domain"
)

// TemplateGet handles GET /v1/templates/{template_ref}.
type TemplateGet struct {
	GetCmd      command.Command[command.TemplateRefRequest, domain.Template]
	CacheMaxAge time.Duration
}

func (c TemplateGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	template, err := c.GetCmd.Execute(ctx, command.TemplateRefRequest{TemplateRef: mux.Vars(r)["template_ref"]})
	if err != nil {
		writeCommandError(ctx, w, err, "unable to fetch template", http.StatusNotFound)
		return
	}

	if domain.UserIDFromContext(ctx) == "" {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	}
	writeJSON(ctx, w, http.StatusOK, template)
}
