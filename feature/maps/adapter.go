package maps

import (
	"errors"
	"fmt"
	"time"

	"device-locator/core/server"
	"device-locator/core/utils"
	"device-locator/feature/devices/models"

	"go.uber.org/zap"
)

// ErrUnavailable is returned once a provider's SDK failed to load. The map
// stays in a visible unavailable state; calls never panic.
var ErrUnavailable = errors.New("map provider unavailable")

// clickGuardWindow suppresses duplicate selection events fired by a single
// user click. Both vector SDKs occasionally deliver the marker click twice.
const clickGuardWindow = 400 * time.Millisecond

// dialect captures what actually differs between the three providers:
// the SDK bootstrap, the native event payload shape, and the zoom scale.
type dialect interface {
	kind() string
	// lazy reports whether the SDK must be script-injected at runtime.
	lazy() bool
	sdkURL(opts Options) string
	initArgs(opts Options) map[string]any
	// parseCoord normalizes a provider-native event payload to a Coordinate.
	parseCoord(payload map[string]any) (Coordinate, bool)
	// flyArgs builds the pan/zoom arguments in the provider's native scale.
	flyArgs(c Coordinate, intent ZoomIntent) map[string]any
}

// Adapter presents the uniform provider capability set over one dialect.
// It owns the marker registry for its session and emits provider-native
// commands for the browser shim to replay.
type Adapter struct {
	d      dialect
	opts   Options
	logger *zap.Logger

	state   SDKState
	reg     *registry
	editing string

	// pendingRender holds the device list received before the SDK
	// finished loading; it is flushed on HandleSDKLoaded.
	pendingRender []models.Device

	lastClickID string
	lastClickAt time.Time
}

// NewProvider creates the adapter for the named provider.
func NewProvider(kind string, opts Options, logger *zap.Logger) (*Adapter, error) {
	var d dialect
	switch kind {
	case server.ProviderLeaflet:
		d = leafletDialect{}
	case server.ProviderKakao:
		d = kakaoDialect{}
	case server.ProviderNaver:
		d = naverDialect{}
	default:
		return nil, fmt.Errorf("unknown map provider %q", kind)
	}

	state := SDKReady
	if d.lazy() {
		state = SDKIdle
	}
	return &Adapter{
		d:      d,
		opts:   opts,
		logger: logger.With(zap.String("provider", kind)),
		state:  state,
		reg:    newRegistry(),
	}, nil
}

// Kind returns the provider name.
func (a *Adapter) Kind() string { return a.d.kind() }

// Ready reports whether the provider can execute map operations.
func (a *Adapter) Ready() bool { return a.state == SDKReady }

// Boot returns the commands to bring the map up. Bundled providers
// initialize immediately; vector SDKs are script-injected first, exactly
// once per session.
func (a *Adapter) Boot() []Command {
	if !a.d.lazy() {
		a.state = SDKReady
		return []Command{{Op: "map.init", Args: a.d.initArgs(a.opts)}}
	}
	if a.state != SDKIdle {
		// Load already requested; never inject the script twice.
		return nil
	}
	a.state = SDKLoading
	return []Command{{Op: "sdk.load", Args: map[string]any{"url": a.d.sdkURL(a.opts)}}}
}

// HandleSDKLoaded transitions to ready and flushes any render that arrived
// while the script was loading.
func (a *Adapter) HandleSDKLoaded() []Command {
	if a.state != SDKLoading {
		// Stale or duplicate load event; the state machine already moved on.
		return nil
	}
	a.state = SDKReady
	cmds := []Command{{Op: "map.init", Args: a.d.initArgs(a.opts)}}

	if a.pendingRender != nil {
		rendered, err := a.Render(a.pendingRender)
		if err == nil {
			cmds = append(cmds, rendered...)
		}
		a.pendingRender = nil
	}
	return cmds
}

// HandleSDKFailed parks the adapter in the failed state. The shim shows a
// persistent "map unavailable" affordance; every later call returns
// ErrUnavailable instead of throwing.
func (a *Adapter) HandleSDKFailed(reason string) []Command {
	a.logger.Error("Map SDK failed to load", zap.String("reason", reason))
	a.state = SDKFailed
	a.pendingRender = nil
	return []Command{{Op: "map.unavailable", Args: map[string]any{"reason": reason}}}
}

// Render reconciles native markers against the given device list: new ids
// get markers, stale ids are released (listeners detached before the native
// reference is dropped), changed coordinates are moved in place.
func (a *Adapter) Render(devices []models.Device) ([]Command, error) {
	switch a.state {
	case SDKFailed:
		return nil, ErrUnavailable
	case SDKIdle, SDKLoading:
		a.pendingRender = append([]models.Device(nil), devices...)
		return nil, nil
	}

	actions, summary := buildPlan(devices, a.reg)
	cmds := make([]Command, 0, len(actions))
	for _, action := range actions {
		switch action.Type {
		case ActionRemove:
			a.reg.remove(action.DeviceID)
			cmds = append(cmds, Command{Op: "marker.remove", Args: map[string]any{"id": action.DeviceID}})
		case ActionCreate:
			draggable := action.DeviceID == a.editing
			a.reg.put(&marker{ID: action.DeviceID, Coord: action.Coord, Draggable: draggable})
			cmds = append(cmds, Command{Op: "marker.create", Args: map[string]any{
				"id":        action.DeviceID,
				"lat":       action.Coord.Lat,
				"lng":       action.Coord.Lng,
				"draggable": draggable,
			}})
		case ActionMove:
			if m, ok := a.reg.get(action.DeviceID); ok {
				m.Coord = action.Coord
			}
			cmds = append(cmds, Command{Op: "marker.move", Args: map[string]any{
				"id":  action.DeviceID,
				"lat": action.Coord.Lat,
				"lng": action.Coord.Lng,
			}})
		}
	}

	a.logger.Debug("Markers reconciled",
		zap.Int("creates", summary.Creates),
		zap.Int("moves", summary.Moves),
		zap.Int("removes", summary.Removes),
	)
	return cmds, nil
}

// NormalizeClick maps a provider-native click payload to a coordinate.
func (a *Adapter) NormalizeClick(payload map[string]any) (Coordinate, bool) {
	if c, ok := a.d.parseCoord(payload); ok {
		return c, true
	}
	return coordFromObject(payload)
}

// MarkerClick reports whether a selection event for the marker should be
// processed. Duplicate events for the same marker inside the guard window
// are dropped, as are clicks on markers the adapter never created.
func (a *Adapter) MarkerClick(id string) bool {
	if a.state != SDKReady {
		return false
	}
	if _, ok := a.reg.get(id); !ok {
		return false
	}
	now := time.Now()
	if id == a.lastClickID && now.Sub(a.lastClickAt) < clickGuardWindow {
		return false
	}
	a.lastClickID = id
	a.lastClickAt = now
	return true
}

// MarkerDragEnd normalizes a drag payload. Drags are only honored for the
// device currently in editing mode; anything else is reported as ignored
// and the caller must not touch stored coordinates.
func (a *Adapter) MarkerDragEnd(id string, payload map[string]any) (Coordinate, bool) {
	if a.state != SDKReady || id == "" || id != a.editing {
		return Coordinate{}, false
	}
	coord, ok := a.d.parseCoord(payload)
	if !ok {
		coord, ok = coordFromObject(payload)
	}
	if !ok {
		return Coordinate{}, false
	}
	// The native marker already sits at the new position; record it so the
	// next render does not plan a redundant move.
	if m, regOK := a.reg.get(id); regOK {
		m.Coord = coord
	}
	return coord, true
}

// SetEditable makes exactly one marker draggable. Dragging is disabled on
// every other marker first; passing an empty id clears editing entirely.
func (a *Adapter) SetEditable(id string) ([]Command, error) {
	if a.state == SDKFailed {
		return nil, ErrUnavailable
	}

	var cmds []Command
	for _, mid := range a.reg.ids() {
		m, _ := a.reg.get(mid)
		if m.Draggable && m.ID != id {
			m.Draggable = false
			cmds = append(cmds, Command{Op: "marker.setDraggable", Args: map[string]any{"id": m.ID, "draggable": false}})
		}
	}
	if id != "" {
		if m, ok := a.reg.get(id); ok && !m.Draggable {
			m.Draggable = true
			cmds = append(cmds, Command{Op: "marker.setDraggable", Args: map[string]any{"id": id, "draggable": true}})
		}
		// A device without a marker yet becomes draggable on its create.
	}
	a.editing = id
	return cmds, nil
}

// FlyTo smoothly centers the view on the coordinate. The zoom intent is
// mapped onto the provider's native scale by the dialect.
func (a *Adapter) FlyTo(c Coordinate, intent ZoomIntent) ([]Command, error) {
	if a.state != SDKReady {
		return nil, ErrUnavailable
	}
	return []Command{{Op: "map.pan", Args: a.d.flyArgs(c, intent)}}, nil
}

// MarkerFailed drops a marker whose native creation failed in the shim.
// The render is not aborted; the marker is simply skipped until the next
// reconcile.
func (a *Adapter) MarkerFailed(id string) {
	a.logger.Warn("Marker creation failed, skipping", zap.String("id", id))
	a.reg.remove(id)
}

// Close releases the registry and tells the shim to destroy the map.
func (a *Adapter) Close() []Command {
	a.reg.clear()
	a.editing = ""
	return []Command{{Op: "map.destroy"}}
}

// coordFromObject reads a direct {lat, lng} object.
func coordFromObject(obj map[string]any) (Coordinate, bool) {
	latRaw, latOK := obj["lat"]
	lngRaw, lngOK := obj["lng"]
	if !latOK || !lngOK {
		return Coordinate{}, false
	}
	return Coordinate{Lat: utils.ToFloat(latRaw), Lng: utils.ToFloat(lngRaw)}, true
}

// nestedObject returns obj[key] as a map when present.
func nestedObject(obj map[string]any, key string) (map[string]any, bool) {
	raw, ok := obj[key]
	if !ok {
		return nil, false
	}
	nested, ok := raw.(map[string]any)
	return nested, ok
}
