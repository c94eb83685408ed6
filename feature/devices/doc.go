// Package devices holds the device/folder domain model.
//
// The collections live in memory behind the Store type, which enforces the
// two structural invariants: the reserved "default" folder always exists and
// cannot be deleted, and every device's folder reference resolves to an
// existing folder (dangling references fall back to default). All mutations
// go through defined operations; nothing else touches the slices.
//
// The Service wraps the Store with durability: after every mutation the full
// state is serialized to the snapshot store (core/persist), and on startup
// it is rehydrated from there, falling back to the bundled seed dataset.
// The UI theme preference is persisted alongside as a second entry.
//
// # Search
//
// Device search supports plain substring matching and Korean
// initial-consonant (chosung) matching: the query "ㄴㅇ" finds a device
// named "남양". The substring check runs first and short-circuits.
//
// # HTTP Endpoints
//
//   - GET    /devices?q=        : list/search devices
//   - POST   /devices           : register a device (position fixed at creation)
//   - PUT    /devices/:id       : edit name, install date, note, folder
//   - DELETE /devices/:id       : remove a device
//   - PUT    /devices/:id/folder: move a device between folders
//   - GET/POST/PUT/DELETE /folders...
//   - GET/PUT /theme            : UI theme preference
package devices
