package sync

import (
	"context"
	"testing"
	"time"

	"device-locator/feature/devices"
	"device-locator/feature/devices/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// fakeCollection records Replace calls and serves a fixed snapshot.
type fakeCollection struct {
	state    devices.State
	replaced *devices.State
}

func (f *fakeCollection) Snapshot() devices.State { return f.state }

func (f *fakeCollection) Replace(_ context.Context, st devices.State) { f.replaced = &st }

func schemaRows(fields ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f, "text", "YES", "", nil, "")
	}
	return rows
}

func expectSchemaV2(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SHOW COLUMNS FROM `devices`").WillReturnRows(
		schemaRows("id", "name", "installed_at", "note", "folderid", "latitude", "longitude", "created_at"))
	mock.ExpectQuery("SHOW COLUMNS FROM `folders`").WillReturnRows(
		schemaRows("id", "name", "created_at", "is_expanded"))
}

func expectSchemaV1(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SHOW COLUMNS FROM `devices`").WillReturnRows(
		schemaRows("id", "name", "installed_at", "note", "latitude", "longitude", "created_at"))
	mock.ExpectQuery("SHOW COLUMNS FROM `folders`").WillReturnRows(
		schemaRows("id", "name", "created_at"))
}

func testState() devices.State {
	now := time.Now()
	return devices.State{
		Devices: []models.Device{
			{ID: "d1", Name: "Pump A", InstalledAt: "2024-03-01", FolderID: "f1", Latitude: 35.1, Longitude: 126.1, CreatedAt: now},
		},
		Folders: []models.Folder{
			{ID: models.DefaultFolderID, Name: "기본 폴더", CreatedAt: now, IsExpanded: true},
			{ID: "f1", Name: "양수장", CreatedAt: now, IsExpanded: false},
		},
	}
}

func TestCoordinator_Disabled(t *testing.T) {
	c := NewCoordinator(nil, &fakeCollection{}, true, zap.NewNop())

	assert.False(t, c.Enabled())
	_, err := c.Upload(context.Background())
	assert.ErrorIs(t, err, ErrSyncDisabled)
	_, err = c.Download(context.Background())
	assert.ErrorIs(t, err, ErrSyncDisabled)
	_, err = c.Sync(context.Background())
	assert.ErrorIs(t, err, ErrSyncDisabled)
}

func TestCoordinator_Busy(t *testing.T) {
	db, _ := setupMockDB(t)
	c := NewCoordinator(db, &fakeCollection{}, true, zap.NewNop())
	c.busy.Store(true)

	_, err := c.Upload(context.Background())
	assert.ErrorIs(t, err, ErrSyncBusy)
	_, err = c.Download(context.Background())
	assert.ErrorIs(t, err, ErrSyncBusy)
	assert.True(t, c.Busy())
}

func TestCoordinator_Upload(t *testing.T) {
	db, mock := setupMockDB(t)
	collection := &fakeCollection{state: testState()}
	c := NewCoordinator(db, collection, true, zap.NewNop())

	expectSchemaV2(mock)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `devices`").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `devices`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `folders`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `folders`").WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	res, err := c.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "upload", res.Operation)
	assert.Equal(t, 1, res.Devices)
	assert.Equal(t, 2, res.Folders)
	assert.Equal(t, SchemaV2, res.Schema)
	assert.False(t, c.LastSync().IsZero())
	assert.False(t, c.Busy())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_Upload_PartialFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	c := NewCoordinator(db, &fakeCollection{state: testState()}, true, zap.NewNop())

	expectSchemaV2(mock)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `devices`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `devices`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `folders`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	res, err := c.Upload(context.Background())
	assert.ErrorIs(t, err, ErrPartialUpload)
	// Devices made it, folders did not
	assert.Equal(t, 1, res.Devices)
	assert.Zero(t, res.Folders)
	assert.True(t, c.LastSync().IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_Upload_LegacySchemaOmitsFolderID(t *testing.T) {
	db, mock := setupMockDB(t)
	c := NewCoordinator(db, &fakeCollection{state: testState()}, true, zap.NewNop())

	expectSchemaV1(mock)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `devices`").WillReturnResult(sqlmock.NewResult(0, 0))
	// The folderid column must not appear in the legacy insert
	mock.ExpectExec("INSERT INTO `devices` \\(`id`,`name`,`installed_at`,`note`,`latitude`,`longitude`,`created_at`\\)").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `folders`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `folders` \\(`id`,`name`,`created_at`\\)").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	res, err := c.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SchemaV1, res.Schema)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_Download(t *testing.T) {
	db, mock := setupMockDB(t)
	collection := &fakeCollection{}
	c := NewCoordinator(db, collection, true, zap.NewNop())

	now := time.Now()
	expectSchemaV2(mock)
	mock.ExpectQuery("SELECT .* FROM `devices`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "installed_at", "note", "folderid", "latitude", "longitude", "created_at"}).
			AddRow("d2", "Pump B", "2024-05-01", "", "f1", 35.2, 126.2, now).
			AddRow("d1", "Pump A", "2024-03-01", "old", "", 35.1, 126.1, now.Add(-time.Hour)))
	mock.ExpectQuery("SELECT .* FROM `folders`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "created_at", "is_expanded"}).
			AddRow("f1", "양수장", now, true))

	res, err := c.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "download", res.Operation)
	assert.Equal(t, 2, res.Devices)
	assert.Equal(t, 1, res.Folders)

	require.NotNil(t, collection.replaced)
	// Empty remote folderid falls back to the default folder
	assert.Equal(t, "f1", collection.replaced.Devices[0].FolderID)
	assert.Equal(t, models.DefaultFolderID, collection.replaced.Devices[1].FolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_Download_LegacySchema(t *testing.T) {
	db, mock := setupMockDB(t)
	collection := &fakeCollection{}
	c := NewCoordinator(db, collection, true, zap.NewNop())

	now := time.Now()
	expectSchemaV1(mock)
	mock.ExpectQuery("SELECT .* FROM `devices`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "installed_at", "note", "latitude", "longitude", "created_at"}).
			AddRow("d1", "Pump A", "2024-03-01", "", 35.1, 126.1, now))
	mock.ExpectQuery("SELECT .* FROM `folders`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow("f1", "양수장", now))

	res, err := c.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SchemaV1, res.Schema)

	require.NotNil(t, collection.replaced)
	// Every legacy device lands in the default folder
	assert.Equal(t, models.DefaultFolderID, collection.replaced.Devices[0].FolderID)
	// Folders without the flag come back expanded
	assert.True(t, collection.replaced.Folders[0].IsExpanded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_Download_FolderFailureDegrades(t *testing.T) {
	db, mock := setupMockDB(t)
	collection := &fakeCollection{}
	c := NewCoordinator(db, collection, true, zap.NewNop())

	now := time.Now()
	expectSchemaV2(mock)
	mock.ExpectQuery("SELECT .* FROM `devices`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "installed_at", "note", "folderid", "latitude", "longitude", "created_at"}).
			AddRow("d1", "Pump A", "2024-03-01", "", "default", 35.1, 126.1, now))
	mock.ExpectQuery("SELECT .* FROM `folders`").WillReturnError(assert.AnError)

	res, err := c.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Devices)
	assert.Zero(t, res.Folders)
	require.NotNil(t, collection.replaced)
	assert.Empty(t, collection.replaced.Folders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_SchemaMismatch(t *testing.T) {
	db, mock := setupMockDB(t)
	c := NewCoordinator(db, &fakeCollection{state: testState()}, true, zap.NewNop())

	mock.ExpectQuery("SHOW COLUMNS FROM `devices`").WillReturnRows(
		schemaRows("id", "name", "note"))
	mock.ExpectQuery("SHOW COLUMNS FROM `folders`").WillReturnRows(
		schemaRows("id", "name", "created_at"))

	_, err := c.Upload(context.Background())
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_Unreachable(t *testing.T) {
	db, mock := setupMockDB(t)
	c := NewCoordinator(db, &fakeCollection{}, true, zap.NewNop())

	mock.ExpectQuery("SHOW COLUMNS FROM `devices`").WillReturnError(assert.AnError)

	_, err := c.Download(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCoordinator_Sync_UploadFailureShortCircuits(t *testing.T) {
	db, mock := setupMockDB(t)
	collection := &fakeCollection{state: testState()}
	c := NewCoordinator(db, collection, true, zap.NewNop())

	expectSchemaV2(mock)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `devices`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := c.Sync(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
	// Download never ran
	assert.Nil(t, collection.replaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoordinator_Sync(t *testing.T) {
	db, mock := setupMockDB(t)
	collection := &fakeCollection{state: testState()}
	c := NewCoordinator(db, collection, true, zap.NewNop())

	now := time.Now()
	// Upload leg
	expectSchemaV2(mock)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `devices`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `devices`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `folders`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `folders`").WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()
	// Download leg
	expectSchemaV2(mock)
	mock.ExpectQuery("SELECT .* FROM `devices`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "installed_at", "note", "folderid", "latitude", "longitude", "created_at"}).
			AddRow("d1", "Pump A", "2024-03-01", "", "f1", 35.1, 126.1, now))
	mock.ExpectQuery("SELECT .* FROM `folders`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "created_at", "is_expanded"}).
			AddRow("f1", "양수장", now, true))

	res, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sync", res.Operation)
	require.NotNil(t, collection.replaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}
