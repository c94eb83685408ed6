package sync

import (
	"fmt"

	"device-locator/core/database"

	"gorm.io/gorm"
)

// SchemaVersion identifies which revision of the remote tables is present.
// The devices table has existed both with and without the folderid column,
// so the coordinator inspects the live schema instead of assuming one shape.
type SchemaVersion int

const (
	// SchemaV1 is the original devices table without folderid.
	SchemaV1 SchemaVersion = 1
	// SchemaV2 carries folderid on devices and is_expanded on folders.
	SchemaV2 SchemaVersion = 2
)

// deviceRequiredColumns must exist in every revision of the devices table.
var deviceRequiredColumns = []string{
	"id", "name", "installed_at", "note", "latitude", "longitude", "created_at",
}

// folderRequiredColumns must exist in every revision of the folders table.
var folderRequiredColumns = []string{"id", "name", "created_at"}

// Schema describes the inspected remote shape.
type Schema struct {
	Version SchemaVersion
	// FolderExpanded reports whether folders carry the is_expanded flag.
	FolderExpanded bool
}

// inspectSchema validates the remote tables against the known revisions.
// A table that cannot be read classifies as unreachable; a table missing
// required columns classifies as a schema mismatch.
func inspectSchema(db *gorm.DB) (Schema, error) {
	deviceCols, err := database.GetTableColumns(db, DeviceRecord{}.TableName())
	if err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	folderCols, err := database.GetTableColumns(db, FolderRecord{}.TableName())
	if err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	for _, col := range deviceRequiredColumns {
		if !database.HasColumn(deviceCols, col) {
			return Schema{}, fmt.Errorf("%w: devices table missing column %q", ErrSchemaMismatch, col)
		}
	}
	for _, col := range folderRequiredColumns {
		if !database.HasColumn(folderCols, col) {
			return Schema{}, fmt.Errorf("%w: folders table missing column %q", ErrSchemaMismatch, col)
		}
	}

	s := Schema{
		Version:        SchemaV1,
		FolderExpanded: database.HasColumn(folderCols, "is_expanded"),
	}
	if database.HasColumn(deviceCols, "folderid") {
		s.Version = SchemaV2
	}
	return s, nil
}
