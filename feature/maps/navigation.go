package maps

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"device-locator/feature/devices/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Supported navigation apps for driving directions to a device.
const (
	NavAppNaver = "naver"
	NavAppKakao = "kakao"
	NavAppTmap  = "tmap"
)

// navFallbackDelay is how long the native app scheme gets before the web
// fallback is pushed. Confirming the navigation cancels the timer.
const navFallbackDelay = 1500 * time.Millisecond

// Navigation is one directions attempt. The shim opens NativeURL first;
// if the attempt is not confirmed before the timer fires, WebURL is
// pushed as a fallback command.
type Navigation struct {
	ID        string `json:"id"`
	App       string `json:"app"`
	NativeURL string `json:"native_url"`
	WebURL    string `json:"web_url"`
}

// Navigator tracks in-flight navigation attempts. Each attempt holds a
// cancellable timer handle; firing and confirming race on the mutex so an
// attempt resolves exactly once.
type Navigator struct {
	mu       sync.Mutex
	pending  map[string]*time.Timer
	delay    time.Duration
	fallback func(id, webURL string)
	logger   *zap.Logger
}

// NewNavigator creates a navigator. fallback is invoked off the timer
// goroutine with the attempt id and web URL when the native app did not
// take over in time.
func NewNavigator(fallback func(id, webURL string), logger *zap.Logger) *Navigator {
	return &Navigator{
		pending:  make(map[string]*time.Timer),
		delay:    navFallbackDelay,
		fallback: fallback,
		logger:   logger,
	}
}

// Start builds the native and web URLs for the device and arms the
// fallback timer.
func (n *Navigator) Start(app string, device models.Device) (Navigation, error) {
	nativeURL, webURL, err := navigationURLs(app, device)
	if err != nil {
		return Navigation{}, err
	}

	nav := Navigation{
		ID:        uuid.NewString(),
		App:       app,
		NativeURL: nativeURL,
		WebURL:    webURL,
	}

	n.mu.Lock()
	n.pending[nav.ID] = time.AfterFunc(n.delay, func() {
		n.expire(nav.ID, webURL)
	})
	n.mu.Unlock()

	n.logger.Info("Navigation started",
		zap.String("app", app),
		zap.String("device_id", device.ID),
		zap.String("nav_id", nav.ID),
	)
	return nav, nil
}

// Confirm marks the attempt as taken over by the native app and cancels
// its fallback timer. It reports whether the attempt was still pending.
func (n *Navigator) Confirm(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	timer, ok := n.pending[id]
	if !ok {
		return false
	}
	timer.Stop()
	delete(n.pending, id)
	return true
}

// Stop cancels every pending attempt. Called on session teardown.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, timer := range n.pending {
		timer.Stop()
		delete(n.pending, id)
	}
}

func (n *Navigator) expire(id, webURL string) {
	n.mu.Lock()
	_, ok := n.pending[id]
	delete(n.pending, id)
	n.mu.Unlock()
	if !ok {
		// Confirmed between the timer firing and acquiring the lock.
		return
	}
	n.logger.Info("Native navigation timed out, falling back to web", zap.String("nav_id", id))
	if n.fallback != nil {
		n.fallback(id, webURL)
	}
}

// navigationURLs builds the app scheme URL and its web fallback for the
// given device destination.
func navigationURLs(app string, d models.Device) (native, web string, err error) {
	name := url.QueryEscape(d.Name)
	switch app {
	case NavAppNaver:
		native = fmt.Sprintf("nmap://route/car?dlat=%g&dlng=%g&dname=%s", d.Latitude, d.Longitude, name)
		web = fmt.Sprintf("https://map.naver.com/p/directions/-/%g,%g,%s/-/car", d.Longitude, d.Latitude, name)
	case NavAppKakao:
		native = fmt.Sprintf("kakaomap://route?ep=%g,%g&by=CAR", d.Latitude, d.Longitude)
		web = fmt.Sprintf("https://map.kakao.com/link/to/%s,%g,%g", name, d.Latitude, d.Longitude)
	case NavAppTmap:
		native = fmt.Sprintf("tmap://route?goalname=%s&goalx=%g&goaly=%g", name, d.Longitude, d.Latitude)
		// Tmap has no web routing page; point at the install page instead.
		web = "https://play.google.com/store/apps/details?id=com.skt.tmap.ku"
	default:
		return "", "", fmt.Errorf("unknown navigation app %q", app)
	}
	return native, web, nil
}
