// Package attach tracks auxiliary database files bound to short aliases,
// enabling cross-database queries via alias.table syntax.
//
// The registry is process-lifetime, in-memory state: attach once, and
// every subsequent query re-executes the ATTACH on its fresh connection.
// Attaching the same alias twice on one connection is left to
// engine-native behaviour; this package does not guard it.
package attach
