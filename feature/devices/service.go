package devices

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"device-locator/core/persist"
	"device-locator/feature/devices/models"

	"go.uber.org/zap"
)

// Persisted entry names. One holds the full collections, one the UI theme.
const (
	entryDevices = "devices"
	entryTheme   = "theme"
)

//go:embed seed.json
var seedData []byte

// Service owns the device/folder collections and keeps them durable.
// Every mutation is written back to the snapshot store; a failed write is
// logged and the in-memory state stays authoritative.
type Service struct {
	store   *Store
	persist persist.Store
	logger  *zap.Logger
}

// NewService creates a device service backed by the given snapshot store.
func NewService(p persist.Store, logger *zap.Logger) *Service {
	return &Service{
		store:   NewStore(),
		persist: p,
		logger:  logger,
	}
}

// Load rehydrates the collections from the snapshot store. When no snapshot
// exists yet the bundled seed dataset is used instead.
func (s *Service) Load(ctx context.Context) error {
	data, err := s.persist.Get(ctx, entryDevices)
	if errors.Is(err, persist.ErrNotFound) {
		s.logger.Info("No device snapshot found, loading seed dataset")
		data = seedData
	} else if err != nil {
		return fmt.Errorf("failed to load device snapshot: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to decode device snapshot: %w", err)
	}
	s.store.Replace(st)
	s.logger.Info("Device collections loaded",
		zap.Int("devices", len(st.Devices)),
		zap.Int("folders", len(st.Folders)),
	)
	return nil
}

// save writes the current state back to the snapshot store.
func (s *Service) save(ctx context.Context) {
	st := s.store.Snapshot()
	data, err := json.Marshal(st)
	if err != nil {
		s.logger.Error("Failed to encode device snapshot", zap.Error(err))
		return
	}
	if err := s.persist.Put(ctx, entryDevices, data); err != nil {
		s.logger.Error("Failed to write device snapshot", zap.Error(err))
	}
}

// Devices returns the device collection.
func (s *Service) Devices() []models.Device { return s.store.Devices() }

// Folders returns the folder collection.
func (s *Service) Folders() []models.Folder { return s.store.Folders() }

// GetDevice returns a single device by id.
func (s *Service) GetDevice(id string) (models.Device, error) { return s.store.GetDevice(id) }

// Search filters devices by name or note (substring or chosung match).
func (s *Service) Search(query string) []models.Device { return s.store.Search(query) }

// AddDevice creates a device and persists the collections.
func (s *Service) AddDevice(ctx context.Context, d models.Device) (models.Device, error) {
	created, err := s.store.AddDevice(d)
	if err != nil {
		return models.Device{}, err
	}
	s.save(ctx)
	return created, nil
}

// UpdateDevice edits a device's metadata and persists the collections.
func (s *Service) UpdateDevice(ctx context.Context, id string, patch DevicePatch) (models.Device, error) {
	updated, err := s.store.UpdateDevice(id, patch)
	if err != nil {
		return models.Device{}, err
	}
	s.save(ctx)
	return updated, nil
}

// UpdatePosition moves a device after a confirmed marker drag.
func (s *Service) UpdatePosition(ctx context.Context, id string, lat, lng float64) (models.Device, error) {
	updated, err := s.store.UpdatePosition(id, lat, lng)
	if err != nil {
		return models.Device{}, err
	}
	s.save(ctx)
	return updated, nil
}

// DeleteDevice removes a device and persists the collections.
func (s *Service) DeleteDevice(ctx context.Context, id string) error {
	if err := s.store.DeleteDevice(id); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// MoveDevice reassigns a device to another folder.
func (s *Service) MoveDevice(ctx context.Context, id, folderID string) error {
	if err := s.store.MoveDevice(id, folderID); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// AddFolder creates a folder.
func (s *Service) AddFolder(ctx context.Context, name string) (models.Folder, error) {
	f, err := s.store.AddFolder(name)
	if err != nil {
		return models.Folder{}, err
	}
	s.save(ctx)
	return f, nil
}

// RenameFolder changes a folder's name.
func (s *Service) RenameFolder(ctx context.Context, id, name string) error {
	if err := s.store.RenameFolder(id, name); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// ToggleFolder flips a folder's expanded flag.
func (s *Service) ToggleFolder(ctx context.Context, id string) error {
	if err := s.store.ToggleFolder(id); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// DeleteFolder removes a folder, reassigning members to default.
func (s *Service) DeleteFolder(ctx context.Context, id string) error {
	if err := s.store.DeleteFolder(id); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// Snapshot returns a copy of both collections, e.g. for a cloud upload.
func (s *Service) Snapshot() State { return s.store.Snapshot() }

// Replace swaps in a downloaded state and persists it.
func (s *Service) Replace(ctx context.Context, st State) {
	s.store.Replace(st)
	s.save(ctx)
}

// Theme returns the persisted UI theme preference ("light" when unset).
func (s *Service) Theme(ctx context.Context) string {
	data, err := s.persist.Get(ctx, entryTheme)
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			s.logger.Warn("Failed to read theme preference", zap.Error(err))
		}
		return "light"
	}
	var theme string
	if err := json.Unmarshal(data, &theme); err != nil || theme == "" {
		return "light"
	}
	return theme
}

// SetTheme persists the UI theme preference.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return &ValidationError{Reason: "theme must be light or dark"}
	}
	data, _ := json.Marshal(theme)
	if err := s.persist.Put(ctx, entryTheme, data); err != nil {
		return fmt.Errorf("failed to write theme preference: %w", err)
	}
	return nil
}
