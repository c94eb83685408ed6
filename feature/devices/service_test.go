package devices

import (
	"context"
	"encoding/json"
	"testing"

	"device-locator/core/persist"
	"device-locator/feature/devices/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory persist.Store for tests.
type memStore struct {
	entries map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.entries[key]
	if !ok {
		return nil, persist.ErrNotFound
	}
	return data, nil
}

func (m *memStore) Put(_ context.Context, key string, data []byte) error {
	m.entries[key] = data
	return nil
}

func TestService_Load_SeedsWhenEmpty(t *testing.T) {
	svc := NewService(newMemStore(), zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))

	assert.NotEmpty(t, svc.Devices())
	folders := svc.Folders()
	require.NotEmpty(t, folders)

	found := false
	for _, f := range folders {
		if f.ID == models.DefaultFolderID {
			found = true
		}
	}
	assert.True(t, found, "seed must contain the default folder")
}

func TestService_MutationsPersist(t *testing.T) {
	mem := newMemStore()
	svc := NewService(mem, zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))

	ctx := context.Background()
	created, err := svc.AddDevice(ctx, models.Device{
		Name:        "Pump A",
		InstalledAt: "2024-03-01",
		Latitude:    35.63,
		Longitude:   126.88,
	})
	require.NoError(t, err)

	// The snapshot entry reflects the mutation
	var st State
	require.NoError(t, json.Unmarshal(mem.entries[entryDevices], &st))
	ids := make(map[string]bool)
	for _, d := range st.Devices {
		ids[d.ID] = true
	}
	assert.True(t, ids[created.ID])

	// A second service loads the same state back
	svc2 := NewService(mem, zap.NewNop())
	require.NoError(t, svc2.Load(ctx))
	got, err := svc2.GetDevice(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pump A", got.Name)
}

func TestService_Theme(t *testing.T) {
	svc := NewService(newMemStore(), zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, "light", svc.Theme(ctx))

	require.NoError(t, svc.SetTheme(ctx, "dark"))
	assert.Equal(t, "dark", svc.Theme(ctx))

	err := svc.SetTheme(ctx, "neon")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestService_ReplacePersists(t *testing.T) {
	mem := newMemStore()
	svc := NewService(mem, zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))

	svc.Replace(context.Background(), State{
		Devices: []models.Device{{ID: "d1", Name: "Pump", InstalledAt: "2024-01-01", FolderID: "ghost"}},
	})

	got, err := svc.GetDevice("d1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFolderID, got.FolderID)
	assert.NotNil(t, mem.entries[entryDevices])
}
