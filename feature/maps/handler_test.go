package maps

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(source DeviceSource) *fiber.App {
	app := fiber.New()
	NewHandler(newTestManager(source)).RegisterRoutes(app)
	return app
}

func openSession(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/maps/sessions/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestHandleOpenSession(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource(device("a", 35.1, 126.1)))

	req := httptest.NewRequest("POST", "/maps/sessions/", strings.NewReader(`{"provider":"leaflet"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var out struct {
		ID       string    `json:"id"`
		Provider string    `json:"provider"`
		Commands []Command `json:"commands"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "leaflet", out.Provider)
	require.Len(t, out.Commands, 2)
	assert.Equal(t, "map.init", out.Commands[0].Op)
	assert.Equal(t, "marker.create", out.Commands[1].Op)
}

func TestHandleOpenSession_BadProvider(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource())

	req := httptest.NewRequest("POST", "/maps/sessions/", strings.NewReader(`{"provider":"bing"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleDrainCommands_UnknownSession(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource())

	req := httptest.NewRequest("GET", "/maps/sessions/nope/commands", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleEvent_MapClick(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource(device("a", 35.1, 126.1)))
	id := openSession(t, app, `{}`)

	body := `{"type":"click","payload":{"latlng":{"lat":35.7,"lng":126.7}}}`
	req := httptest.NewRequest("POST", fmt.Sprintf("/maps/sessions/%s/events", id), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var res ClickResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.Clicked)
	assert.Equal(t, Coordinate{Lat: 35.7, Lng: 126.7}, res.Coord)
}

func TestHandleEvent_MissingType(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource())
	id := openSession(t, app, `{}`)

	req := httptest.NewRequest("POST", fmt.Sprintf("/maps/sessions/%s/events", id), strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSelect(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource(device("a", 35.1, 126.1)))
	id := openSession(t, app, `{}`)

	req := httptest.NewRequest("PUT", fmt.Sprintf("/maps/sessions/%s/selection", id), strings.NewReader(`{"device_id":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var d map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, "a", d["id"])

	// Selecting a missing device is a 404
	req = httptest.NewRequest("PUT", fmt.Sprintf("/maps/sessions/%s/selection", id), strings.NewReader(`{"device_id":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleNavigate(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource(device("a", 35.63, 126.88)))
	id := openSession(t, app, `{}`)

	body := `{"app":"naver","device_id":"a"}`
	req := httptest.NewRequest("POST", fmt.Sprintf("/maps/sessions/%s/navigate", id), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var nav Navigation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&nav))
	assert.Contains(t, nav.NativeURL, "nmap://route/car")
	assert.NotEmpty(t, nav.WebURL)
}

func TestHandleCloseSession(t *testing.T) {
	app := setupTestApp(newFakeDeviceSource())
	id := openSession(t, app, `{}`)

	req := httptest.NewRequest("DELETE", "/maps/sessions/"+id, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/maps/sessions/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
