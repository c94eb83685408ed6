package sync

import (
	"time"

	"device-locator/feature/devices/models"
)

// DeviceRecord is the remote row shape for a device. Column names follow
// the legacy table, notably the unbroken "folderid".
type DeviceRecord struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	InstalledAt string    `gorm:"column:installed_at"`
	Note        string    `gorm:"column:note"`
	FolderID    string    `gorm:"column:folderid"`
	Latitude    float64   `gorm:"column:latitude"`
	Longitude   float64   `gorm:"column:longitude"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// TableName implements the gorm table naming convention.
func (DeviceRecord) TableName() string { return "devices" }

// FolderRecord is the remote row shape for a folder.
type FolderRecord struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	// Legacy tables store the flag as tinyint; gorm handles the bool either way.
	IsExpanded bool `gorm:"column:is_expanded"`
}

// TableName implements the gorm table naming convention.
func (FolderRecord) TableName() string { return "folders" }

func deviceToRecord(d models.Device) DeviceRecord {
	return DeviceRecord{
		ID:          d.ID,
		Name:        d.Name,
		InstalledAt: d.InstalledAt,
		Note:        d.Note,
		FolderID:    d.FolderID,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		CreatedAt:   d.CreatedAt,
	}
}

// recordToDevice maps a remote row back to the domain model. Rows from a
// revision without the folderid column come back with it empty; those
// devices land in the default folder.
func recordToDevice(r DeviceRecord) models.Device {
	folderID := r.FolderID
	if folderID == "" {
		folderID = models.DefaultFolderID
	}
	return models.Device{
		ID:          r.ID,
		Name:        r.Name,
		InstalledAt: r.InstalledAt,
		Note:        r.Note,
		FolderID:    folderID,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		CreatedAt:   r.CreatedAt,
	}
}

func folderToRecord(f models.Folder) FolderRecord {
	return FolderRecord{
		ID:         f.ID,
		Name:       f.Name,
		CreatedAt:  f.CreatedAt,
		IsExpanded: f.IsExpanded,
	}
}

func recordToFolder(r FolderRecord) models.Folder {
	return models.Folder{
		ID:         r.ID,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		IsExpanded: r.IsExpanded,
	}
}
