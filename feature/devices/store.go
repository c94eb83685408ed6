package devices

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"device-locator/feature/devices/models"
)

var (
	// ErrDeviceNotFound is returned when no device matches the given id.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrFolderNotFound is returned when no folder matches the given id.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrDefaultFolder is returned on attempts to delete the default folder.
	ErrDefaultFolder = errors.New("default folder cannot be deleted")
)

// ValidationError reports a rejected mutation. No state changes when a
// validation error is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// DevicePatch carries the editable device fields. Nil means unchanged.
// Position is deliberately absent: coordinates only move via drag while
// the device is in editing mode, which goes through UpdatePosition.
type DevicePatch struct {
	Name        *string
	InstalledAt *string
	Note        *string
	FolderID    *string
}

// Store holds the in-memory device and folder collections and enforces
// their invariants. All mutations go through its methods; the HTTP layer
// and the sync coordinator never touch the slices directly.
type Store struct {
	mu      sync.RWMutex
	devices []models.Device
	folders []models.Folder
}

// NewStore creates a Store containing only the default folder.
func NewStore() *Store {
	return &Store{
		folders: []models.Folder{models.DefaultFolder()},
	}
}

// Devices returns a copy of the device collection.
func (s *Store) Devices() []models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Device, len(s.devices))
	copy(out, s.devices)
	return out
}

// Folders returns a copy of the folder collection.
func (s *Store) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// GetDevice returns the device with the given id.
func (s *Store) GetDevice(id string) (models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Device{}, ErrDeviceNotFound
}

// AddDevice appends a new device. The position is fixed at creation; name
// and install date are required. The returned device carries the assigned id.
func (s *Store) AddDevice(d models.Device) (models.Device, error) {
	if reason := d.Validate(); reason != "" {
		return models.Device{}, &ValidationError{Reason: reason}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = models.NewID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.FolderID = s.resolveFolderLocked(d.FolderID)

	s.devices = append(s.devices, d)
	return d, nil
}

// UpdateDevice applies the patch to the device with the given id.
// Clearing a required field is rejected.
func (s *Store) UpdateDevice(id string, patch DevicePatch) (models.Device, error) {
	if patch.Name != nil && *patch.Name == "" {
		return models.Device{}, &ValidationError{Reason: "missing name"}
	}
	if patch.InstalledAt != nil && *patch.InstalledAt == "" {
		return models.Device{}, &ValidationError{Reason: "missing installed_at"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.devices[i].Name = *patch.Name
		}
		if patch.InstalledAt != nil {
			s.devices[i].InstalledAt = *patch.InstalledAt
		}
		if patch.Note != nil {
			s.devices[i].Note = *patch.Note
		}
		if patch.FolderID != nil {
			s.devices[i].FolderID = s.resolveFolderLocked(*patch.FolderID)
		}
		return s.devices[i], nil
	}
	return models.Device{}, ErrDeviceNotFound
}

// UpdatePosition moves a device. Only the drag flow calls this, and the map
// adapter has already verified the device is in editing mode.
func (s *Store) UpdatePosition(id string, lat, lng float64) (models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID == id {
			s.devices[i].Latitude = lat
			s.devices[i].Longitude = lng
			return s.devices[i], nil
		}
	}
	return models.Device{}, ErrDeviceNotFound
}

// DeleteDevice removes the device with the given id.
func (s *Store) DeleteDevice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID == id {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			return nil
		}
	}
	return ErrDeviceNotFound
}

// MoveDevice reassigns a device to another folder.
func (s *Store) MoveDevice(id, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.folderExistsLocked(folderID) {
		return ErrFolderNotFound
	}
	for i := range s.devices {
		if s.devices[i].ID == id {
			s.devices[i].FolderID = folderID
			return nil
		}
	}
	return ErrDeviceNotFound
}

// AddFolder creates a folder with the given name.
func (s *Store) AddFolder(name string) (models.Folder, error) {
	if name == "" {
		return models.Folder{}, &ValidationError{Reason: "missing folder name"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f := models.Folder{
		ID:         models.NewID(),
		Name:       name,
		CreatedAt:  time.Now(),
		IsExpanded: true,
	}
	s.folders = append(s.folders, f)
	return f, nil
}

// RenameFolder changes a folder's name.
func (s *Store) RenameFolder(id, name string) error {
	if name == "" {
		return &ValidationError{Reason: "missing folder name"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].Name = name
			return nil
		}
	}
	return ErrFolderNotFound
}

// ToggleFolder flips the expanded flag of a folder.
func (s *Store) ToggleFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].IsExpanded = !s.folders[i].IsExpanded
			return nil
		}
	}
	return ErrFolderNotFound
}

// DeleteFolder removes a folder and reassigns its devices to the default
// folder. Deleting the default folder is rejected unconditionally.
func (s *Store) DeleteFolder(id string) error {
	if id == models.DefaultFolderID {
		return ErrDefaultFolder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.folders {
		if s.folders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrFolderNotFound
	}

	s.folders = append(s.folders[:idx], s.folders[idx+1:]...)
	for i := range s.devices {
		if s.devices[i].FolderID == id {
			s.devices[i].FolderID = models.DefaultFolderID
		}
	}
	return nil
}

// State is the serialized form of both collections.
type State struct {
	Devices []models.Device `json:"devices"`
	Folders []models.Folder `json:"folders"`
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Devices: make([]models.Device, len(s.devices)),
		Folders: make([]models.Folder, len(s.folders)),
	}
	copy(st.Devices, s.devices)
	copy(st.Folders, s.folders)
	return st
}

// Replace swaps in a full state, e.g. after a cloud download or on startup.
// The state is normalized: the default folder is guaranteed present and
// every device's folder reference resolves, falling back to default.
func (s *Store) Replace(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = append([]models.Device(nil), st.Devices...)
	s.folders = append([]models.Folder(nil), st.Folders...)

	if !s.folderExistsLocked(models.DefaultFolderID) {
		s.folders = append([]models.Folder{models.DefaultFolder()}, s.folders...)
	}
	for i := range s.devices {
		s.devices[i].FolderID = s.resolveFolderLocked(s.devices[i].FolderID)
	}
}

func (s *Store) folderExistsLocked(id string) bool {
	for _, f := range s.folders {
		if f.ID == id {
			return true
		}
	}
	return false
}

// resolveFolderLocked maps an empty or dangling folder reference to default.
func (s *Store) resolveFolderLocked(id string) string {
	if id == "" || !s.folderExistsLocked(id) {
		return models.DefaultFolderID
	}
	return id
}
