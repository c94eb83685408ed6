// Package sync moves the device/folder collections between the local
// snapshot store and the remote MySQL tables.
//
// Upload replaces the remote tables wholesale (delete all, insert all);
// download replaces the local collections wholesale. There is no row-level
// merge and no conflict resolution. A full sync is upload followed by
// download, strictly sequential, and at most one operation runs at a time.
//
// The remote devices table has existed in two revisions: with and without
// the folderid column. Before every operation the coordinator inspects the
// live schema (SHOW COLUMNS) and adapts: against the legacy shape the
// upload omits folderid and the download drops every device into the
// default folder. Tables missing any other required column fail the
// operation with ErrSchemaMismatch rather than writing a guessed shape.
//
// Failures classify into a small taxonomy (disabled, busy, unreachable,
// schema mismatch, partial upload) that the HTTP handler maps onto
// statuses. Sync being down never takes the rest of the service with it.
package sync
