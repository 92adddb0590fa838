package explorer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nerrad567/sqlite-explorer/internal/attach"
	"github.com/nerrad567/sqlite-explorer/internal/frame"
	"github.com/nerrad567/sqlite-explorer/internal/query"
)

// registerTools declares the tool surface. Handlers never return a Go
// error for operational failures; those are rendered into the result
// text so the protocol response stays well-formed.
func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("attach_database",
			mcp.WithDescription("Attach another SQLite database under an alias. "+
				"The database file is looked up in the same directory as the primary database."),
			mcp.WithString("alias", mcp.Required(),
				mcp.Description("Alias name for the attached database (letters and digits only)")),
			mcp.WithString("database_name", mcp.Required(),
				mcp.Description("Filename of the SQLite database to attach (e.g. 'other.db')")),
		),
		s.instrument("attach_database", s.handleAttachDatabase),
	)

	s.mcp.AddTool(
		mcp.NewTool("list_attached_databases",
			mcp.WithDescription("List all attached databases"),
		),
		s.instrument("list_attached_databases", s.handleListAttachedDatabases),
	)

	s.mcp.AddTool(
		mcp.NewTool("create_database",
			mcp.WithDescription("Create a new SQLite database in the primary database's "+
				"directory and register it under an alias."),
			mcp.WithString("db_name", mcp.Required(),
				mcp.Description("Filename for the new database (e.g. 'scratch.db')")),
			mcp.WithString("alias", mcp.Required(),
				mcp.Description("Alias name for the new database (letters and digits only)")),
		),
		s.instrument("create_database", s.handleCreateDatabase),
	)

	s.mcp.AddTool(
		mcp.NewTool("query",
			mcp.WithDescription("Execute a SQL query and return the results. SELECT "+
				"statements return a rendered table; other statements report rows affected."),
			mcp.WithString("sql", mcp.Required(),
				mcp.Description("SQL statement to execute")),
		),
		s.instrument("query", s.handleQuery),
	)

	s.mcp.AddTool(
		mcp.NewTool("update_data",
			mcp.WithDescription("Execute an UPDATE, INSERT, or DELETE statement"),
			mcp.WithString("table", mcp.Required(),
				mcp.Description("Table to modify")),
			mcp.WithString("sql", mcp.Required(),
				mcp.Description("SQL statement to execute")),
		),
		s.instrument("update_data", s.handleUpdateData),
	)

	s.mcp.AddTool(
		mcp.NewTool("get_database_path",
			mcp.WithDescription("Get the path to the primary database file"),
		),
		s.instrument("get_database_path", s.handleGetDatabasePath),
	)

	s.mcp.AddTool(
		mcp.NewTool("analyze_table",
			mcp.WithDescription("Perform statistical analysis on a table"),
			mcp.WithString("table", mcp.Required(),
				mcp.Description("Table to analyze")),
			mcp.WithString("analysis_type",
				mcp.Description("Type of analysis: 'basic' or 'detailed'"),
				mcp.Enum(frame.AnalysisBasic, frame.AnalysisDetailed),
			),
		),
		s.instrument("analyze_table", s.handleAnalyzeTable),
	)
}

func (s *Server) handleAttachDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alias, err := req.RequireString("alias")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	databaseName, err := req.RequireString("database_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := s.registry.Attach(ctx, alias, databaseName)
	switch {
	case errors.Is(err, attach.ErrInvalidAlias):
		return mcp.NewToolResultError("Error: Alias must contain only letters and numbers"), nil
	case errors.Is(err, attach.ErrDatabaseNotFound):
		return mcp.NewToolResultError(fmt.Sprintf(
			"Error: Database file '%s' not found in %s", databaseName, s.mgr.Dir())), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("Error attaching database: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Successfully attached database '%s' as %s", path, alias)), nil
}

func (s *Server) handleListAttachedDatabases(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.registry.List()), nil
}

func (s *Server) handleCreateDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dbName, err := req.RequireString("db_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	alias, err := req.RequireString("alias")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := s.registry.Create(ctx, dbName, alias)
	switch {
	case errors.Is(err, attach.ErrInvalidAlias):
		return mcp.NewToolResultError("Error: Alias must contain only letters and numbers"), nil
	case errors.Is(err, attach.ErrDatabaseExists):
		return mcp.NewToolResultError(fmt.Sprintf(
			"Database file '%s' already exists in %s", dbName, s.mgr.Dir())), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("Error creating new database: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Created and attached new database '%s' as alias '%s'.", path, alias)), nil
}

func (s *Server) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sqlText, err := req.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.executor.Query(ctx, sqlText)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error executing query: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleUpdateData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := req.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sqlText, err := req.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	affected, err := s.executor.Update(ctx, table, sqlText)
	switch {
	case errors.Is(err, query.ErrStatementNotAllowed):
		return mcp.NewToolResultError("Error: Only UPDATE, INSERT, and DELETE statements are allowed"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("Error updating data: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully modified %d rows", affected)), nil
}

func (s *Server) handleGetDatabasePath(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.mgr.Path()), nil
}

func (s *Server) handleAnalyzeTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := req.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := req.GetString("analysis_type", frame.AnalysisBasic)

	var out string
	err = s.mgr.WithConn(ctx, func(db *sql.DB) error {
		f, loadErr := frame.Load(ctx, db, table)
		if loadErr != nil {
			return loadErr
		}
		var jsonErr error
		out, jsonErr = f.Analyze(mode).JSON()
		return jsonErr
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error analyzing table: %v", err)), nil
	}

	return mcp.NewToolResultText(out), nil
}
