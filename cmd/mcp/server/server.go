// Package server provides the MCP server implementation.
package server

import (
	"github.com/jbeshir/template-catalog/cmd/mcp/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the template catalog.
type Server struct {
	client    *client.Client
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server with the given API client.
func NewServer(apiClient *client.Client) *Server {
	s := &Server{
		client: apiClient,
	}

	s.mcpServer = server.NewMCPServer(
		"template-catalog",
		"1.0.0",
		server.WithResourceCapabilities(true, false),
		server.WithLogging(),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("search_templates",
		mcp.WithDescription(
			"Search catalog templates by title, category, tags or minimum likes. "+
				"Returns matching templates, newest first unless a sort is given."),
		mcp.WithString("title",
			mcp.Description("Case-insensitive substring to match in template titles"),
		),
		mcp.WithString("category",
			mcp.Description("Exact category to match (e.g., 'resume', 'poster')"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags the template must all carry"),
		),
		mcp.WithNumber("min_likes",
			mcp.Description("Only include templates with at least this many likes"),
		),
		mcp.WithString("sort",
			mcp.Description("Comma-separated orderings from created_at, likes, title; suffix _desc to reverse"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number for pagination (1-indexed, default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Templates per page (default: 20, max: 200)"),
		),
	), s.handleSearchTemplates)

	s.mcpServer.AddTool(mcp.NewTool("get_template",
		mcp.WithDescription("Get a template by its id or exact title, including like and dislike counts."),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("The template id or exact title"),
		),
	), s.handleGetTemplate)

	s.mcpServer.AddTool(mcp.NewTool("trending_templates",
		mcp.WithDescription(
			"Rank templates by how many interactions of one kind they received recently. "+
				"Each result carries windowed and all-time like and favorite counts."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Enum("like", "favorite"),
			mcp.Description("Interaction kind to rank by: like or favorite"),
		),
		mcp.WithNumber("days",
			mcp.Description("Size of the trailing window in days (default: 7)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of templates to return (default: 10, max: 100)"),
		),
	), s.handleTrendingTemplates)

	s.mcpServer.AddTool(mcp.NewTool("template_stats",
		mcp.WithDescription("Count a template's interactions by kind over all time."),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("The template id or exact title"),
		),
	), s.handleTemplateStats)

	s.mcpServer.AddTool(mcp.NewTool("record_interaction",
		mcp.WithDescription(
			"Record an interaction with a template. Like, dislike and favorite replace each "+
				"other, so a user holds at most one of them per template; views and downloads accumulate."),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("The template id or exact title"),
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Enum("like", "dislike", "favorite", "view", "download"),
			mcp.Description("Interaction kind to record"),
		),
		mcp.WithString("user",
			mcp.Description("User id, username or email to act as (default: the configured user)"),
		),
	), s.handleRecordInteraction)

	s.mcpServer.AddTool(mcp.NewTool("list_user_interactions",
		mcp.WithDescription("List a user's interactions with templates, newest first."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User id, username or email"),
		),
		mcp.WithString("kind",
			mcp.Description("Only include interactions of this kind"),
		),
	), s.handleListUserInteractions)

	s.mcpServer.AddTool(mcp.NewTool("list_favorites",
		mcp.WithDescription("List the templates in a user's favorites."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User id, username or email"),
		),
	), s.handleListFavorites)

	s.mcpServer.AddTool(mcp.NewTool("set_favorite",
		mcp.WithDescription("Add a template to, or remove it from, a user's favorites."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User id, username or email"),
		),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("The template id or exact title"),
		),
		mcp.WithBoolean("favorite",
			mcp.Required(),
			mcp.Description("Whether to add (true) or remove (false) the favorite"),
		),
	), s.handleSetFavorite)
}
