package catalog

import (
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/flying-chess/game/engine"
)

// mapRecord is one entry of a map import file. A record without a grid
// field is rejected; totalSquares falls back to the grid length.
type mapRecord struct {
	Name         string             `json:"name" yaml:"name"`
	TotalSquares int                `json:"totalSquares,omitempty" yaml:"totalSquares,omitempty"`
	Grid         []engine.RawSquare `json:"grid" yaml:"grid"`
}

// checkSize rejects boards larger than the catalog accepts
func checkSize(total int) error {
	if total > MaxSquares {
		return fmt.Errorf("%w: totalSquares must be at most %d, got %d", engine.ErrInvalidMap, MaxSquares, total)
	}
	return nil
}

// ListMaps returns copies of all maps in collection order
func (m *Manager) ListMaps() []*engine.Map {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*engine.Map, len(m.maps))
	for i, mp := range m.maps {
		result[i] = mp.Clone()
	}
	return result
}

// GetMap returns a copy of the map with the given id
func (m *Manager) GetMap(id string) (*engine.Map, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.mapIndex(id)
	if i < 0 {
		return nil, ErrMapNotFound
	}
	return m.maps[i].Clone(), nil
}

// CreateMap builds a new map from edit and appends it with a fresh id
func (m *Manager) CreateMap(edit engine.MapEdit) (*engine.Map, error) {
	edit.ID = ""
	if err := checkSize(edit.TotalSquares); err != nil {
		return nil, err
	}
	mp, err := engine.BuildMap(edit)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commitMaps(append(slices.Clone(m.maps), mp)); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"map": mp.ID, "name": mp.Name}).Info("Map created")
	return mp.Clone(), nil
}

// UpdateMap rebuilds an existing map from edit, keeping its id
func (m *Manager) UpdateMap(edit engine.MapEdit) (*engine.Map, error) {
	if edit.ID == "" {
		return nil, ErrMapNotFound
	}
	if err := checkSize(edit.TotalSquares); err != nil {
		return nil, err
	}
	mp, err := engine.BuildMap(edit)
	if err != nil {
		return nil, err
	}
	if err := m.replaceMap(mp); err != nil {
		return nil, err
	}
	return mp.Clone(), nil
}

// SaveMap replaces an existing map with an already validated one, such as
// the result of engine.ApplyOptions or engine.RandomizeSpecials
func (m *Manager) SaveMap(mp *engine.Map) error {
	if err := mp.Validate(); err != nil {
		return err
	}
	return m.replaceMap(mp.Clone())
}

func (m *Manager) replaceMap(mp *engine.Map) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.mapIndex(mp.ID)
	if i < 0 {
		return ErrMapNotFound
	}

	next := slices.Clone(m.maps)
	next[i] = mp
	if err := m.commitMaps(next); err != nil {
		return err
	}

	log.WithFields(log.Fields{"map": mp.ID, "name": mp.Name}).Info("Map updated")
	return nil
}

// DeleteMap removes a map from the collection
func (m *Manager) DeleteMap(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.mapIndex(id)
	if i < 0 {
		return ErrMapNotFound
	}

	if err := m.commitMaps(slices.Delete(slices.Clone(m.maps), i, i+1)); err != nil {
		return err
	}

	log.WithField("map", id).Info("Map deleted")
	return nil
}

// ImportMaps appends every map of an export file with fresh ids. The file
// must hold a list whose records all carry a name and a grid; otherwise
// nothing is imported.
func (m *Manager) ImportMaps(data []byte, format Format) ([]*engine.Map, error) {
	var records []mapRecord
	if err := decode(format, data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrMalformedImport, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no maps found", engine.ErrMalformedImport)
	}

	imported := make([]*engine.Map, 0, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" || rec.Grid == nil {
			return nil, fmt.Errorf("%w: map %d needs a name and a grid", engine.ErrMalformedImport, i+1)
		}

		total := rec.TotalSquares
		if total == 0 {
			total = len(rec.Grid)
		}
		if err := checkSize(total); err != nil {
			return nil, fmt.Errorf("%w: map %d: %v", engine.ErrMalformedImport, i+1, err)
		}

		mp, err := engine.BuildMap(engine.MapEdit{Name: rec.Name, TotalSquares: total, Grid: rec.Grid})
		if err != nil {
			return nil, fmt.Errorf("%w: map %d: %v", engine.ErrMalformedImport, i+1, err)
		}
		imported = append(imported, mp)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commitMaps(append(slices.Clone(m.maps), imported...)); err != nil {
		return nil, err
	}

	log.WithField("count", len(imported)).Info("Maps imported")

	result := make([]*engine.Map, len(imported))
	for i, mp := range imported {
		result[i] = mp.Clone()
	}
	return result, nil
}

// ExportMaps serializes the whole map collection
func (m *Manager) ExportMaps(format Format) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := encode(format, m.maps)
	if err != nil {
		return nil, fmt.Errorf("failed to export maps: %w", err)
	}
	return data, nil
}

// mapIndex returns the position of id in the collection, or -1
func (m *Manager) mapIndex(id string) int {
	return slices.IndexFunc(m.maps, func(mp *engine.Map) bool {
		return mp.ID == id
	})
}
