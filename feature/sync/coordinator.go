package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"device-locator/feature/devices"
	"device-locator/feature/devices/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sync error taxonomy. Handlers and CLI commands branch on these.
var (
	// ErrSyncDisabled means the feature is turned off or has no remote store.
	ErrSyncDisabled = errors.New("sync is disabled")
	// ErrSyncBusy means another sync operation is already in flight.
	ErrSyncBusy = errors.New("sync operation already running")
	// ErrUnreachable wraps network or store failures.
	ErrUnreachable = errors.New("remote store unreachable")
	// ErrSchemaMismatch means the remote tables do not match any known revision.
	ErrSchemaMismatch = errors.New("remote schema mismatch")
)

// ErrPartialUpload reports an upload that replaced the devices table but
// failed on folders, leaving the remote in a mixed state.
var ErrPartialUpload = errors.New("upload incomplete: devices written, folders failed")

// Collection is the slice of the device service the coordinator needs.
type Collection interface {
	Snapshot() devices.State
	Replace(ctx context.Context, st devices.State)
}

// Result summarizes one completed operation.
type Result struct {
	Operation string        `json:"operation"`
	Devices   int           `json:"devices"`
	Folders   int           `json:"folders"`
	Schema    SchemaVersion `json:"schema_version"`
	SyncedAt  time.Time     `json:"synced_at"`
}

// Coordinator moves the device/folder collections between the local store
// and the remote tables. At most one operation runs at a time; upload and
// download never interleave.
type Coordinator struct {
	db         *gorm.DB
	collection Collection
	enabled    bool
	logger     *zap.Logger

	busy     atomic.Bool
	lastSync atomic.Int64
}

// NewCoordinator creates a coordinator. A nil db marks the feature
// disabled regardless of configuration.
func NewCoordinator(db *gorm.DB, collection Collection, enabled bool, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		db:         db,
		collection: collection,
		enabled:    enabled && db != nil,
		logger:     logger,
	}
}

// Enabled reports whether sync operations can run at all.
func (c *Coordinator) Enabled() bool { return c.enabled }

// Busy reports whether an operation is currently in flight.
func (c *Coordinator) Busy() bool { return c.busy.Load() }

// LastSync returns the completion time of the most recent successful
// operation, zero if none has run.
func (c *Coordinator) LastSync() time.Time {
	nanos := c.lastSync.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// acquire takes the busy flag, rejecting concurrent operations.
func (c *Coordinator) acquire() error {
	if !c.enabled {
		return ErrSyncDisabled
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrSyncBusy
	}
	return nil
}

func (c *Coordinator) release() { c.busy.Store(false) }

// Upload replaces the remote tables with the local collections: delete
// all rows, insert all rows. Devices and folders are written in separate
// transactions; a folder failure after devices succeeded is reported as
// ErrPartialUpload.
func (c *Coordinator) Upload(ctx context.Context) (Result, error) {
	if err := c.acquire(); err != nil {
		return Result{}, err
	}
	defer c.release()
	return c.upload(ctx)
}

func (c *Coordinator) upload(ctx context.Context) (Result, error) {
	schema, err := inspectSchema(c.db.WithContext(ctx))
	if err != nil {
		return Result{}, err
	}

	state := c.collection.Snapshot()
	res := Result{Operation: "upload", Schema: schema.Version}

	deviceRecords := make([]DeviceRecord, 0, len(state.Devices))
	for _, d := range state.Devices {
		deviceRecords = append(deviceRecords, deviceToRecord(d))
	}
	folderRecords := make([]FolderRecord, 0, len(state.Folders))
	for _, f := range state.Folders {
		folderRecords = append(folderRecords, folderToRecord(f))
	}

	if err := c.replaceDevices(ctx, schema, deviceRecords); err != nil {
		return res, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	res.Devices = len(deviceRecords)

	if err := c.replaceFolders(ctx, schema, folderRecords); err != nil {
		c.logger.Error("Folder upload failed after devices were written", zap.Error(err))
		return res, fmt.Errorf("%w: %v", ErrPartialUpload, err)
	}
	res.Folders = len(folderRecords)

	res.SyncedAt = time.Now()
	c.lastSync.Store(res.SyncedAt.UnixNano())
	c.logger.Info("Upload complete",
		zap.Int("devices", res.Devices),
		zap.Int("folders", res.Folders),
		zap.Int("schema_version", int(schema.Version)),
	)
	return res, nil
}

func (c *Coordinator) replaceDevices(ctx context.Context, schema Schema, records []DeviceRecord) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&DeviceRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		insert := tx
		if schema.Version == SchemaV1 {
			// Legacy devices table has no folderid column.
			insert = insert.Omit("folderid")
		}
		return insert.Create(&records).Error
	})
}

func (c *Coordinator) replaceFolders(ctx context.Context, schema Schema, records []FolderRecord) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&FolderRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		insert := tx
		if !schema.FolderExpanded {
			insert = insert.Omit("is_expanded")
		}
		return insert.Create(&records).Error
	})
}

// Download replaces the local collections with the remote rows. Devices
// from a legacy table land in the default folder; an empty or unreadable
// folder set degrades to just the default folder instead of failing the
// device download.
func (c *Coordinator) Download(ctx context.Context) (Result, error) {
	if err := c.acquire(); err != nil {
		return Result{}, err
	}
	defer c.release()
	return c.download(ctx)
}

func (c *Coordinator) download(ctx context.Context) (Result, error) {
	schema, err := inspectSchema(c.db.WithContext(ctx))
	if err != nil {
		return Result{}, err
	}

	var deviceRecords []DeviceRecord
	query := c.db.WithContext(ctx).Order("created_at desc")
	if schema.Version == SchemaV1 {
		query = query.Omit("folderid")
	}
	if err := query.Find(&deviceRecords).Error; err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var folderRecords []FolderRecord
	folderQuery := c.db.WithContext(ctx)
	if !schema.FolderExpanded {
		folderQuery = folderQuery.Omit("is_expanded")
	}
	if err := folderQuery.Find(&folderRecords).Error; err != nil {
		// Devices alone are still usable; fall back to the default folder.
		c.logger.Warn("Folder download failed, keeping default folder only", zap.Error(err))
		folderRecords = nil
	}

	state := devices.State{
		Devices: make([]models.Device, 0, len(deviceRecords)),
		Folders: make([]models.Folder, 0, len(folderRecords)),
	}
	for _, r := range deviceRecords {
		state.Devices = append(state.Devices, recordToDevice(r))
	}
	for _, r := range folderRecords {
		f := recordToFolder(r)
		if !schema.FolderExpanded {
			f.IsExpanded = true
		}
		state.Folders = append(state.Folders, f)
	}

	// Replace re-establishes the structural invariants: the default folder
	// is prepended if the remote lacks it and dangling folderids fall back
	// to default.
	c.collection.Replace(ctx, state)

	res := Result{
		Operation: "download",
		Devices:   len(state.Devices),
		Folders:   len(state.Folders),
		Schema:    schema.Version,
		SyncedAt:  time.Now(),
	}
	c.lastSync.Store(res.SyncedAt.UnixNano())
	c.logger.Info("Download complete",
		zap.Int("devices", res.Devices),
		zap.Int("folders", res.Folders),
		zap.Int("schema_version", int(schema.Version)),
	)
	return res, nil
}

// Sync uploads then downloads, strictly sequentially. An upload failure
// short-circuits; the download never runs against a half-written remote.
func (c *Coordinator) Sync(ctx context.Context) (Result, error) {
	if err := c.acquire(); err != nil {
		return Result{}, err
	}
	defer c.release()

	if _, err := c.upload(ctx); err != nil {
		return Result{}, err
	}
	res, err := c.download(ctx)
	if err != nil {
		return Result{}, err
	}
	res.Operation = "sync"
	return res, nil
}
