// Package main provides the entry point for the template catalog MCP server.
//
// The server lets agents browse templates, read trending rankings and record interactions
// through the catalog's HTTP API.
//
// Configuration:
//
//	TEMPLATE_CATALOG_API_URL    - Base URL of the API (default: http://localhost:8080)
//	TEMPLATE_CATALOG_AUTH_TOKEN - Bearer token sent with every request (optional)
//	TEMPLATE_CATALOG_USER_ID    - User id to act as behind a trusted proxy (optional)
//
// Usage:
//
//	mcp add template-catalog --transport stdio \
//	  --env TEMPLATE_CATALOG_USER_ID=... \
//	  -- /path/to/template-catalog-mcp
package main

import (
	"log"
	"os"

	"github.com/jbeshir/template-catalog/cmd/mcp/client"
	"github.com/jbeshir/template-catalog/cmd/mcp/server"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	apiURL := os.Getenv("TEMPLATE_CATALOG_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	apiClient := client.NewClient(
		apiURL,
		os.Getenv("TEMPLATE_CATALOG_AUTH_TOKEN"),
		os.Getenv("TEMPLATE_CATALOG_USER_ID"),
	)
	srv := server.NewServer(apiClient)

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
