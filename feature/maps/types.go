package maps

// Coordinate is the single coordinate shape every provider payload is
// normalized into.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ZoomIntent abstracts over the providers' incompatible zoom scales.
// Callers only ever ask for "stay where you are" or "as close as possible";
// each dialect maps that onto its native levels.
type ZoomIntent int

const (
	// ZoomKeep leaves the current zoom level unchanged.
	ZoomKeep ZoomIntent = iota
	// ZoomMax zooms in as far as the provider allows.
	ZoomMax
)

// Command is a provider-native instruction for the browser shim. The shim
// drains the session's command queue and replays the ops against the real
// SDK; the server never touches SDK objects directly.
type Command struct {
	Op   string         `json:"op"`
	Args map[string]any `json:"args,omitempty"`
}

// SDKState tracks the lazy script loading lifecycle of a vector SDK.
type SDKState int

const (
	// SDKIdle means loading has not been requested yet.
	SDKIdle SDKState = iota
	// SDKLoading means the load command was issued and not yet acknowledged.
	SDKLoading
	// SDKReady means the SDK is usable.
	SDKReady
	// SDKFailed means the script failed to load; the map stays unavailable.
	SDKFailed
)
