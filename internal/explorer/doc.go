// Package explorer exposes the primary SQLite database to MCP clients
// as a set of named tools (attach_database, list_attached_databases,
// create_database, query, update_data, get_database_path, analyze_table)
// and readable resources (schema://tables, schema://{table}).
//
// Error Contract:
//
// No operational failure escapes a handler as a protocol fault. Unknown
// tables, malformed SQL, missing attachment files, and validation
// failures are all rendered as descriptive strings inside an otherwise
// successful response; clients detect failure by inspecting the payload
// text. Only fatal configuration problems (an unreachable primary
// database) abort the process, and those happen before the server ever
// accepts a request.
//
// Concurrency:
//
// Each operation opens and fully releases its own database connection;
// the attachment registry is the only shared state and carries its own
// lock. The stdio transport dispatches requests serially in practice,
// but nothing here depends on that.
package explorer
