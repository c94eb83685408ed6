package maps

import (
	"context"
	"errors"
	"sync"
	"time"

	"device-locator/feature/devices/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("map session not found")

// sessionTTL is how long an idle session survives before Sweep drops it.
const sessionTTL = 30 * time.Minute

// DeviceSource is the slice of the device service the map feature needs.
type DeviceSource interface {
	Devices() []models.Device
	GetDevice(id string) (models.Device, error)
	UpdatePosition(ctx context.Context, id string, lat, lng float64) (models.Device, error)
}

// Session is one map view. The adapter holds the marker state, the
// navigator holds in-flight directions attempts, and the queue buffers
// commands until the shim drains them.
type Session struct {
	ID       string
	Provider string

	mu        sync.Mutex
	adapter   *Adapter
	navigator *Navigator
	queue     []Command
	selected  string
	lastSeen  time.Time

	devices DeviceSource
	logger  *zap.Logger
}

// Manager creates and tracks map sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	provider string
	opts     Options
	devices  DeviceSource
	logger   *zap.Logger
}

// NewManager creates a session manager using the given default provider.
func NewManager(provider string, opts Options, devices DeviceSource, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		provider: provider,
		opts:     opts,
		devices:  devices,
		logger:   logger,
	}
}

// Open creates a session for the given provider (empty means the
// configured default), boots the map, and renders the current devices.
func (m *Manager) Open(provider string) (*Session, error) {
	if provider == "" {
		provider = m.provider
	}

	logger := m.logger.With(zap.String("provider", provider))
	adapter, err := NewProvider(provider, m.opts, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       uuid.NewString(),
		Provider: provider,
		adapter:  adapter,
		devices:  m.devices,
		logger:   logger,
		lastSeen: time.Now(),
	}
	s.navigator = NewNavigator(func(id, webURL string) {
		s.push(Command{Op: "nav.fallback", Args: map[string]any{"id": id, "url": webURL}})
	}, logger)

	s.mu.Lock()
	s.queue = append(s.queue, adapter.Boot()...)
	if cmds, renderErr := adapter.Render(m.devices.Devices()); renderErr == nil {
		s.queue = append(s.queue, cmds...)
	}
	s.mu.Unlock()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logger.Info("Map session opened", zap.String("session_id", s.ID))
	return s, nil
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close tears a session down.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	return nil
}

// Sweep drops sessions idle past the TTL. Run periodically from the
// server loop.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-sessionTTL)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
		m.logger.Info("Idle map session swept", zap.String("session_id", s.ID))
	}
	return len(stale)
}

// Drain returns the queued commands and empties the queue.
func (s *Session) Drain() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	cmds := s.queue
	s.queue = nil
	if cmds == nil {
		cmds = []Command{}
	}
	return cmds
}

// Render re-reconciles markers against the current device list.
func (s *Session) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmds, err := s.adapter.Render(s.devices.Devices())
	if err != nil {
		return err
	}
	s.queue = append(s.queue, cmds...)
	return nil
}

// Select marks a device as the current selection and flies to it at the
// provider's closest zoom. An empty id clears the selection.
func (s *Session) Select(id string) (models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selected = ""
		s.queue = append(s.queue, Command{Op: "popup.close"})
		return models.Device{}, nil
	}
	device, err := s.devices.GetDevice(id)
	if err != nil {
		return models.Device{}, err
	}
	cmds, err := s.adapter.FlyTo(Coordinate{Lat: device.Latitude, Lng: device.Longitude}, ZoomMax)
	if err != nil {
		return models.Device{}, err
	}
	s.selected = id
	s.queue = append(s.queue, cmds...)
	return device, nil
}

// Selected returns the current selection id.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetEditing toggles position editing for one device. Empty id ends
// editing.
func (s *Session) SetEditing(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if _, err := s.devices.GetDevice(id); err != nil {
			return err
		}
	}
	cmds, err := s.adapter.SetEditable(id)
	if err != nil {
		return err
	}
	s.queue = append(s.queue, cmds...)
	return nil
}

// Navigate starts a directions attempt for the device.
func (s *Session) Navigate(app, deviceID string) (Navigation, error) {
	device, err := s.devices.GetDevice(deviceID)
	if err != nil {
		return Navigation{}, err
	}
	nav, err := s.navigator.Start(app, device)
	if err != nil {
		return Navigation{}, err
	}
	s.push(Command{Op: "nav.open", Args: map[string]any{"id": nav.ID, "url": nav.NativeURL}})
	return nav, nil
}

// Event is a provider-native event reported back by the browser shim.
type Event struct {
	Type    string         `json:"type"`
	ID      string         `json:"id,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ClickResult is what HandleEvent reports for a normalized map click.
type ClickResult struct {
	Clicked  bool       `json:"clicked"`
	Coord    Coordinate `json:"coord,omitempty"`
	Selected string     `json:"selected,omitempty"`
}

// HandleEvent dispatches one shim event through the adapter. Map clicks
// return the normalized coordinate so the controller can start an "add
// device" flow; marker drags persist the new position for the editing
// device.
func (s *Session) HandleEvent(ctx context.Context, ev Event) (ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	switch ev.Type {
	case "sdkloaded":
		s.queue = append(s.queue, s.adapter.HandleSDKLoaded()...)

	case "sdkfailed":
		reason, _ := ev.Payload["reason"].(string)
		s.queue = append(s.queue, s.adapter.HandleSDKFailed(reason)...)

	case "click":
		coord, ok := s.adapter.NormalizeClick(ev.Payload)
		if !ok {
			s.logger.Warn("Unparseable map click payload", zap.Any("payload", ev.Payload))
			return ClickResult{}, nil
		}
		// A map click always dismisses any open popup.
		s.selected = ""
		s.queue = append(s.queue, Command{Op: "popup.close"})
		return ClickResult{Clicked: true, Coord: coord}, nil

	case "markerclick":
		if !s.adapter.MarkerClick(ev.ID) {
			return ClickResult{}, nil
		}
		s.selected = ev.ID
		s.queue = append(s.queue, Command{Op: "popup.open", Args: map[string]any{"id": ev.ID}})
		return ClickResult{Clicked: true, Selected: ev.ID}, nil

	case "dragend":
		coord, ok := s.adapter.MarkerDragEnd(ev.ID, ev.Payload)
		if !ok {
			return ClickResult{}, nil
		}
		if _, err := s.devices.UpdatePosition(ctx, ev.ID, coord.Lat, coord.Lng); err != nil {
			return ClickResult{}, err
		}
		return ClickResult{Clicked: true, Coord: coord}, nil

	case "navigated":
		s.navigator.Confirm(ev.ID)

	case "markererror":
		s.adapter.MarkerFailed(ev.ID)

	default:
		s.logger.Warn("Unknown map event type", zap.String("type", ev.Type))
	}
	return ClickResult{}, nil
}

func (s *Session) push(cmd Command) {
	s.mu.Lock()
	s.queue = append(s.queue, cmd)
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.navigator.Stop()
	s.mu.Lock()
	s.queue = append(s.queue, s.adapter.Close()...)
	s.mu.Unlock()
}
