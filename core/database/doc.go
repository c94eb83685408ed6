// Package database handles remote store connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL connections based on the application's configuration.
//
// # Connect
//
// The generic Connect function establishes a connection to the remote store.
// The connection is optional: the application keeps serving from local state
// when the remote store is unreachable, so callers treat a Connect error as a
// degraded mode rather than a fatal one.
//
// # Schema Inspection
//
// The package includes tools to inspect the remote schema. The cloud tables
// have gone through several revisions (most notably whether the devices table
// carries a folderid column), so the sync coordinator inspects the live
// columns before deciding how to read or write rows.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Remote store unavailable", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "devices")
package database
