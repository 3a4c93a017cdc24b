package catalog

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/store"
)

// MaxSquares bounds the maps authored or imported through the catalog
const MaxSquares = 1000

var (
	ErrMapNotFound     = errors.New("map not found")
	ErrLibraryNotFound = errors.New("options library not found")
)

// Manager holds the map and library collections
type Manager struct {
	store     store.Store
	maps      []*engine.Map
	libraries []*engine.OptionsLibrary
	mu        sync.RWMutex
}

// NewManager creates a catalog backed by st and loads both collections
func NewManager(st store.Store) (*Manager, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	m := &Manager{store: st}

	if err := m.loadMaps(); err != nil {
		return nil, fmt.Errorf("failed to load maps: %w", err)
	}
	if err := m.loadLibraries(); err != nil {
		return nil, fmt.Errorf("failed to load libraries: %w", err)
	}

	return m, nil
}

// loadMaps reads the map collection, seeding the default map on first run
func (m *Manager) loadMaps() error {
	var maps []*engine.Map
	found, err := m.store.Load(store.Maps, &maps)
	if err != nil {
		return err
	}

	if !found {
		return m.commitMaps([]*engine.Map{engine.DefaultMap()})
	}

	valid := maps[:0]
	for _, mp := range maps {
		if err := mp.Validate(); err != nil {
			log.Warnf("Skipping stored map %q: %v", mapName(mp), err)
			continue
		}
		valid = append(valid, mp)
	}
	m.maps = valid
	log.WithField("count", len(valid)).Debug("Loaded maps")
	return nil
}

// loadLibraries reads the library collection, seeding the default library on first run
func (m *Manager) loadLibraries() error {
	var libs []*engine.OptionsLibrary
	found, err := m.store.Load(store.Libraries, &libs)
	if err != nil {
		return err
	}

	if !found {
		return m.commitLibraries([]*engine.OptionsLibrary{engine.DefaultLibrary()})
	}

	valid := libs[:0]
	for _, lib := range libs {
		if err := lib.Validate(); err != nil {
			log.Warnf("Skipping stored library: %v", err)
			continue
		}
		valid = append(valid, lib)
	}
	m.libraries = valid
	log.WithField("count", len(valid)).Debug("Loaded libraries")
	return nil
}

// commitMaps persists next and installs it only when the write succeeded
func (m *Manager) commitMaps(next []*engine.Map) error {
	if next == nil {
		next = []*engine.Map{}
	}
	if err := m.store.Save(store.Maps, next); err != nil {
		return fmt.Errorf("failed to persist maps: %w", err)
	}
	m.maps = next
	return nil
}

// commitLibraries persists next and installs it only when the write succeeded
func (m *Manager) commitLibraries(next []*engine.OptionsLibrary) error {
	if next == nil {
		next = []*engine.OptionsLibrary{}
	}
	if err := m.store.Save(store.Libraries, next); err != nil {
		return fmt.Errorf("failed to persist libraries: %w", err)
	}
	m.libraries = next
	return nil
}

func mapName(mp *engine.Map) string {
	if mp == nil {
		return "<nil>"
	}
	return mp.Name
}
