package explorer

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// tablesResourceURI addresses the table listing; individual table
// schemas hang off the schema://{table} template.
const tablesResourceURI = "schema://tables"

// registerResources declares the pull-style readable resources.
func (s *Server) registerResources() {
	s.mcp.AddResource(
		mcp.NewResource(tablesResourceURI, "Database tables",
			mcp.WithResourceDescription("List of all tables in the database"),
			mcp.WithMIMEType("text/plain"),
		),
		s.handleTablesResource,
	)

	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate("schema://{table}", "Table schema",
			mcp.WithTemplateDescription("Schema and column description for a specific table"),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		s.handleTableSchemaResource,
	)
}

func (s *Server) handleTablesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tables, err := s.catalog.Tables(ctx)
	if err != nil {
		// Resources follow the same contract as tools: failures are
		// rendered, not raised.
		return textResource(req.Params.URI, fmt.Sprintf("Error listing tables: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("Available tables:")
	for _, table := range tables {
		fmt.Fprintf(&b, "\n- %s", table)
	}
	return textResource(req.Params.URI, b.String()), nil
}

func (s *Server) handleTableSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	table := strings.TrimPrefix(req.Params.URI, "schema://")
	return textResource(req.Params.URI, s.catalog.Describe(ctx, table)), nil
}

// textResource wraps a plain-text payload in the resource contents
// envelope.
func textResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}
}
