package maps

import (
	"testing"
	"time"

	"device-locator/feature/devices/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func navTestDevice() models.Device {
	return models.Device{ID: "d1", Name: "남양 관정 모터", Latitude: 35.63, Longitude: 126.88}
}

func TestNavigationURLs(t *testing.T) {
	d := navTestDevice()

	tests := []struct {
		app        string
		wantNative string
		wantWeb    string
	}{
		{NavAppNaver, "nmap://route/car?dlat=35.63&dlng=126.88", "map.naver.com"},
		{NavAppKakao, "kakaomap://route?ep=35.63,126.88&by=CAR", "map.kakao.com"},
		{NavAppTmap, "tmap://route?goalname=", "play.google.com"},
	}
	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			native, web, err := navigationURLs(tt.app, d)
			require.NoError(t, err)
			assert.Contains(t, native, tt.wantNative)
			assert.Contains(t, web, tt.wantWeb)
		})
	}

	_, _, err := navigationURLs("waze", d)
	assert.Error(t, err)
}

func TestNavigationURLs_TmapSwapsAxes(t *testing.T) {
	native, _, err := navigationURLs(NavAppTmap, navTestDevice())
	require.NoError(t, err)
	// Tmap takes x=longitude, y=latitude
	assert.Contains(t, native, "goalx=126.88")
	assert.Contains(t, native, "goaly=35.63")
}

func TestNavigator_FallbackFiresOnTimeout(t *testing.T) {
	fired := make(chan string, 1)
	n := NewNavigator(func(id, webURL string) {
		fired <- webURL
	}, zap.NewNop())
	n.delay = 10 * time.Millisecond

	nav, err := n.Start(NavAppKakao, navTestDevice())
	require.NoError(t, err)
	assert.NotEmpty(t, nav.ID)

	select {
	case webURL := <-fired:
		assert.Equal(t, nav.WebURL, webURL)
	case <-time.After(time.Second):
		t.Fatal("fallback never fired")
	}

	// The attempt is resolved; a late confirm is a no-op
	assert.False(t, n.Confirm(nav.ID))
}

func TestNavigator_ConfirmCancelsFallback(t *testing.T) {
	fired := make(chan string, 1)
	n := NewNavigator(func(id, webURL string) {
		fired <- webURL
	}, zap.NewNop())
	n.delay = 20 * time.Millisecond

	nav, err := n.Start(NavAppNaver, navTestDevice())
	require.NoError(t, err)
	assert.True(t, n.Confirm(nav.ID))

	select {
	case <-fired:
		t.Fatal("fallback fired after the attempt was confirmed")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestNavigator_StopCancelsAllPending(t *testing.T) {
	fired := make(chan string, 2)
	n := NewNavigator(func(id, webURL string) {
		fired <- webURL
	}, zap.NewNop())
	n.delay = 20 * time.Millisecond

	_, err := n.Start(NavAppNaver, navTestDevice())
	require.NoError(t, err)
	_, err = n.Start(NavAppTmap, navTestDevice())
	require.NoError(t, err)

	n.Stop()

	select {
	case <-fired:
		t.Fatal("fallback fired after Stop")
	case <-time.After(60 * time.Millisecond):
	}
}
