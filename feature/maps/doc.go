// Package maps puts three map SDKs (Leaflet tiles, Kakao and Naver vector
// maps) behind one provider contract.
//
// The server is the source of truth for map state. Each browser tab opens a
// session; the session's Adapter keeps an id-to-marker registry and emits
// provider-native commands (marker.create, map.pan, sdk.load, ...) that a
// thin browser shim drains and replays against the real SDK. Events flow the
// other way: the shim posts raw SDK payloads and the dialect for the active
// provider normalizes them to a single {lat, lng} shape.
//
// Rendering is a reconcile: given the full device list, the adapter diffs it
// against its registry and plans creates, moves and removes, so native
// marker handles are released before a replacement exists for the same id.
//
// Vector SDKs load lazily, exactly once per session. A failed load parks the
// session in an unavailable state instead of surfacing an exception; render
// requests received while loading are buffered and flushed on sdkloaded.
//
// Zoom semantics differ per provider (Kakao levels count down toward the
// closest view), so callers express intent (keep current zoom, or closest)
// and each dialect maps it to its native scale.
//
// Directions deep links try the native app scheme first and fall back to a
// web URL when the app does not take over within the timeout; each attempt
// holds a cancellable timer.
package maps
