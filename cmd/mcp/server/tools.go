package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jbeshir/template-catalog/cmd/mcp/client"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleSearchTemplates(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	filters := parseSearchFilters(request.GetArguments())

	templates, err := s.client.SearchTemplates(ctx, filters)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to search templates: %v", err)), nil
	}

	return formatListResult("template", templates)
}

func parseSearchFilters(args map[string]any) client.SearchFilters {
	filters := client.SearchFilters{
		PageSize: 20,
	}

	if title, ok := args["title"].(string); ok {
		filters.Title = strings.TrimSpace(title)
	}
	if category, ok := args["category"].(string); ok {
		filters.Category = category
	}
	if tags, ok := args["tags"].(string); ok && tags != "" {
		filters.Tags = splitAndTrim(tags)
	}
	if sort, ok := args["sort"].(string); ok {
		filters.Sort = sort
	}
	if minLikes, ok := args["min_likes"].(float64); ok && minLikes > 0 {
		filters.MinLikes = int64(minLikes)
	}
	if page, ok := args["page"].(float64); ok && page > 0 {
		filters.Page = int(page)
	}
	if pageSize, ok := args["page_size"].(float64); ok && pageSize > 0 {
		filters.PageSize = min(int(pageSize), 200)
	}

	return filters
}

func splitAndTrim(s string) []string {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func (s *Server) handleGetTemplate(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	templateRef, ok := request.GetArguments()["template"].(string)
	if !ok || templateRef == "" {
		return mcp.NewToolResultError("template is required"), nil
	}

	template, err := s.client.GetTemplate(ctx, templateRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get template: %v", err)), nil
	}

	return formatJSONResult(template)
}

func (s *Server) handleTrendingTemplates(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kind, ok := args["kind"].(string)
	if !ok || kind == "" {
		return mcp.NewToolResultError("kind is required"), nil
	}

	var days, limit int
	if d, ok := args["days"].(float64); ok && d > 0 {
		days = int(d)
	}
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = min(int(l), 100)
	}

	trending, err := s.client.TrendingTemplates(ctx, kind, days, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to rank trending templates: %v", err)), nil
	}

	return formatListResult("trending template", trending)
}

func (s *Server) handleTemplateStats(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	templateRef, ok := request.GetArguments()["template"].(string)
	if !ok || templateRef == "" {
		return mcp.NewToolResultError("template is required"), nil
	}

	stats, err := s.client.TemplateStats(ctx, templateRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get template stats: %v", err)), nil
	}

	return formatJSONResult(stats)
}

func (s *Server) handleRecordInteraction(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	templateRef, ok := args["template"].(string)
	if !ok || templateRef == "" {
		return mcp.NewToolResultError("template is required"), nil
	}
	kind, ok := args["kind"].(string)
	if !ok || kind == "" {
		return mcp.NewToolResultError("kind is required"), nil
	}
	userRef, _ := args["user"].(string)

	result, err := s.client.RecordInteraction(ctx, userRef, templateRef, kind)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record interaction: %v", err)), nil
	}

	msg := fmt.Sprintf("Recorded %s on template %s (%s)", kind, result.Interaction.TemplateID, result.Outcome)
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleListUserInteractions(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userRef, ok := args["user"].(string)
	if !ok || userRef == "" {
		return mcp.NewToolResultError("user is required"), nil
	}
	kind, _ := args["kind"].(string)

	interactions, err := s.client.ListUserInteractions(ctx, userRef, kind)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list interactions: %v", err)), nil
	}

	return formatListResult("interaction", interactions)
}

func (s *Server) handleListFavorites(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	userRef, ok := request.GetArguments()["user"].(string)
	if !ok || userRef == "" {
		return mcp.NewToolResultError("user is required"), nil
	}

	templates, err := s.client.ListFavorites(ctx, userRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list favorites: %v", err)), nil
	}

	return formatListResult("favorite template", templates)
}

func (s *Server) handleSetFavorite(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userRef, ok := args["user"].(string)
	if !ok || userRef == "" {
		return mcp.NewToolResultError("user is required"), nil
	}
	templateRef, ok := args["template"].(string)
	if !ok || templateRef == "" {
		return mcp.NewToolResultError("template is required"), nil
	}
	favorite, ok := args["favorite"].(bool)
	if !ok {
		return mcp.NewToolResultError("favorite is required (true or false)"), nil
	}

	if err := s.client.SetFavorite(ctx, userRef, templateRef, favorite); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update favorite: %v", err)), nil
	}

	action := "added to"
	if !favorite {
		action = "removed from"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Template %s %s favorites of %s", templateRef, action, userRef)), nil
}

func formatListResult[T any](noun string, items []T) (*mcp.CallToolResult, error) {
	if len(items) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %ss found.", noun)), nil
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format %ss: %v", noun, err)), nil
	}

	msg := fmt.Sprintf("Found %d %s(s):\n\n%s", len(items), noun, string(data))
	return mcp.NewToolResultText(msg), nil
}

func formatJSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
