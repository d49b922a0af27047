package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const templateURIPrefix = "template://"

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			templateURIPrefix+"{id}",
			"Individual template from the catalog",
			mcp.WithTemplateDescription(
				"Fetch a specific template by its id. Includes title, description, "+
					"category, tags, creator and like and dislike counts."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleTemplateResource,
	)
}

func (s *Server) handleTemplateResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, ok := strings.CutPrefix(uri, templateURIPrefix)
	if !ok {
		return nil, fmt.Errorf("invalid template URI format: %s", uri)
	}
	if id == "" {
		return nil, fmt.Errorf("missing id in URI: %s", uri)
	}

	template, err := s.client.GetTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template %s: %w", id, err)
	}

	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
