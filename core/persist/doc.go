// Package persist provides the local snapshot store for application state.
//
// State that survives restarts lives here as named JSON entries: one holding
// the full device/folder collections, one holding the UI theme preference.
// On startup an absent entry is not an error; callers rehydrate from the
// bundled seed dataset instead.
//
// # Backends
//
//   - file: one JSON file per entry under a data directory (default).
//   - s3: one object per entry in the configured bucket, via core/storage.
//
// The backend is selected by the storage configuration, so single-node
// deployments need no object storage at all.
package persist
