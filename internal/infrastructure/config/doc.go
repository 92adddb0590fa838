// Package config loads and validates SQLite Explorer configuration.
//
// Configuration comes from three layers, each overriding the last:
// hardcoded defaults, an optional YAML file, and SQLITE_EXPLORER_*
// environment variables (plus the legacy DB_PATH alias).
//
// The only required setting is the primary database path, which defaults
// to mcpDefaultSqlite.db in the user's home directory. Startup fails hard
// if the resolved path cannot be opened; that check lives in the database
// package, not here.
package config
