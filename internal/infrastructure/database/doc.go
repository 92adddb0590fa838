// Package database provides SQLite connectivity for SQLite Explorer.
//
// This package manages:
//   - Reachability validation of the primary database at startup
//   - Per-operation connection scoping (open, run, close — no pooling)
//   - Busy timeout and foreign key pragmas on every connection
//
// Every external operation is request-per-call: it borrows a fresh
// connection through Manager.WithConn, which guarantees release on all
// exit paths. Table-level locks therefore never outlive one operation.
//
// Security Considerations:
//   - Caller-supplied SQL is executed verbatim by design (the server's
//     whole purpose is ad hoc querying); identifiers that the server
//     itself interpolates (attachment aliases) are validated upstream.
//
// Usage:
//
//	mgr, err := database.NewManager(database.Config{Path: path, BusyTimeout: 5})
//	if err != nil {
//	    return err // fatal: bad primary database path
//	}
//	err = mgr.WithConn(ctx, func(db *sql.DB) error {
//	    return db.QueryRowContext(ctx, "SELECT 1").Scan(&n)
//	})
package database
