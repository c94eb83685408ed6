package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultFolderID is the reserved folder every device falls back to.
// It always exists and cannot be deleted.
const DefaultFolderID = "default"

// Device is a mapped physical asset with a location and descriptive metadata.
type Device struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	InstalledAt string    `json:"installed_at"`
	Note        string    `json:"note,omitempty"`
	FolderID    string    `json:"folderid"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}

// Folder is a user-defined grouping of devices.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	// IsExpanded is a UI preference kept alongside the data.
	IsExpanded bool `json:"is_expanded"`
}

// Validate checks that the device has the minimum required fields.
// It returns an empty string when the device is valid.
func (d Device) Validate() string {
	if d.Name == "" {
		return "missing name"
	}
	if d.InstalledAt == "" {
		return "missing installed_at"
	}
	return ""
}

// DefaultFolder returns a fresh copy of the reserved default folder.
func DefaultFolder() Folder {
	return Folder{
		ID:         DefaultFolderID,
		Name:       "기본 폴더",
		CreatedAt:  time.Now(),
		IsExpanded: true,
	}
}

// NewID generates a collision-resistant identifier: epoch millis plus a
// random suffix. Uniqueness across the process lifetime is what matters
// here, not cryptographic strength.
func NewID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
