package command

import (
	"context"

	"github.com/jbeshir/template-catalog/internal/domain"
)

// GetTemplate looks up a single template by id or title.
type GetTemplate struct {
	Resolvers Resolvers
}

func (c *GetTemplate) Execute(ctx context.Context, req TemplateRefRequest) (domain.Template, error) {
	return c.Resolvers.Target(ctx, req.TemplateRef)
}
