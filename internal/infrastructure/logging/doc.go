// Package logging provides structured logging for SQLite Explorer.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, plus default service/version fields on every record.
//
// The server speaks MCP over stdio, so the protocol owns stdout. All log
// output defaults to stderr and must stay there unless the operator
// explicitly redirects it.
package logging
