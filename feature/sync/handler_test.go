package sync

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(c *Coordinator) *fiber.App {
	app := fiber.New()
	NewHandler(c).RegisterRoutes(app)
	return app
}

func TestHandleStatus_Disabled(t *testing.T) {
	app := setupTestApp(NewCoordinator(nil, &fakeCollection{}, true, zap.NewNop()))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, false, status["enabled"])
	assert.Equal(t, false, status["busy"])
	assert.NotContains(t, status, "last_sync")
}

func TestHandleSync_Disabled(t *testing.T) {
	app := setupTestApp(NewCoordinator(nil, &fakeCollection{}, true, zap.NewNop()))

	for _, path := range []string{"/sync/", "/sync/upload", "/sync/download"} {
		resp, err := app.Test(httptest.NewRequest("POST", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode, path)
	}
}

func TestHandleUpload_Busy(t *testing.T) {
	db, _ := setupMockDB(t)
	c := NewCoordinator(db, &fakeCollection{}, true, zap.NewNop())
	c.busy.Store(true)
	app := setupTestApp(c)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/upload", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestHandleDownload(t *testing.T) {
	db, mock := setupMockDB(t)
	collection := &fakeCollection{}
	c := NewCoordinator(db, collection, true, zap.NewNop())
	app := setupTestApp(c)

	now := time.Now()
	expectSchemaV2(mock)
	mock.ExpectQuery("SELECT .* FROM `devices`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "installed_at", "note", "folderid", "latitude", "longitude", "created_at"}).
			AddRow("d1", "Pump A", "2024-03-01", "", "default", 35.1, 126.1, now))
	mock.ExpectQuery("SELECT .* FROM `folders`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "created_at", "is_expanded"}).
			AddRow("default", "기본 폴더", now, true))

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/download", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var res Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "download", res.Operation)
	assert.NotNil(t, collection.replaced)
}
