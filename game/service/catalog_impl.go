package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
)

// ListMaps returns a summary of every map
func (s *gameServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	maps := s.catalog.ListMaps()
	result := make([]*MapInfo, 0, len(maps))
	for _, m := range maps {
		result = append(result, newMapInfo(m))
	}
	return result, nil
}

// GetMap returns one map with its full grid
func (s *gameServiceImpl) GetMap(ctx context.Context, mapID string) (*engine.Map, error) {
	return s.catalog.GetMap(mapID)
}

// CreateMap builds and stores a new map
func (s *gameServiceImpl) CreateMap(ctx context.Context, edit engine.MapEdit) (*engine.Map, error) {
	return s.catalog.CreateMap(edit)
}

// UpdateMap rebuilds an existing map
func (s *gameServiceImpl) UpdateMap(ctx context.Context, edit engine.MapEdit) (*engine.Map, error) {
	return s.catalog.UpdateMap(edit)
}

// DeleteMap removes a map. Games already started on it are unaffected.
func (s *gameServiceImpl) DeleteMap(ctx context.Context, mapID string) error {
	return s.catalog.DeleteMap(mapID)
}

// ApplyOptions fills the map's normal squares with texts from a library
func (s *gameServiceImpl) ApplyOptions(ctx context.Context, mapID, libraryID, mode string) (*engine.Map, error) {
	assignMode, err := engine.ParseAssignMode(mode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.GetMap(mapID)
	if err != nil {
		return nil, err
	}
	lib, err := s.catalog.GetLibrary(libraryID)
	if err != nil {
		return nil, err
	}

	out, err := engine.ApplyOptions(m, lib, assignMode, s.rng)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.SaveMap(out); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"map": m.Name, "library": lib.Name, "mode": assignMode}).Info("Options applied")
	return out, nil
}

// RandomizeSpecials re-places the map's reward and penalty squares
func (s *gameServiceImpl) RandomizeSpecials(ctx context.Context, mapID string, rewards, penalties int) (*engine.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.catalog.GetMap(mapID)
	if err != nil {
		return nil, err
	}

	out, err := engine.RandomizeSpecials(m, rewards, penalties, s.rng)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.SaveMap(out); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"map": m.Name, "rewards": rewards, "penalties": penalties}).Info("Specials randomized")
	return out, nil
}

// ImportMaps appends the maps of an export file
func (s *gameServiceImpl) ImportMaps(ctx context.Context, data []byte, format string) ([]*engine.Map, error) {
	f, err := catalog.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return s.catalog.ImportMaps(data, f)
}

// ExportMaps serializes every map
func (s *gameServiceImpl) ExportMaps(ctx context.Context, format string) ([]byte, error) {
	f, err := catalog.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return s.catalog.ExportMaps(f)
}

// ListLibraries returns a summary of every options library
func (s *gameServiceImpl) ListLibraries(ctx context.Context) ([]*LibraryInfo, error) {
	libs := s.catalog.ListLibraries()
	result := make([]*LibraryInfo, 0, len(libs))
	for _, lib := range libs {
		result = append(result, &LibraryInfo{ID: lib.ID, Name: lib.Name, OptionCount: len(lib.Options)})
	}
	return result, nil
}

// GetLibrary returns one library with all its options
func (s *gameServiceImpl) GetLibrary(ctx context.Context, libraryID string) (*engine.OptionsLibrary, error) {
	return s.catalog.GetLibrary(libraryID)
}

// CreateLibrary stores a new library
func (s *gameServiceImpl) CreateLibrary(ctx context.Context, name string, options []string) (*engine.OptionsLibrary, error) {
	return s.catalog.CreateLibrary(name, options)
}

// UpdateLibrary replaces a library's name and options
func (s *gameServiceImpl) UpdateLibrary(ctx context.Context, libraryID, name string, options []string) (*engine.OptionsLibrary, error) {
	return s.catalog.UpdateLibrary(libraryID, name, options)
}

// DeleteLibrary removes a library
func (s *gameServiceImpl) DeleteLibrary(ctx context.Context, libraryID string) error {
	return s.catalog.DeleteLibrary(libraryID)
}

// ImportLibraryText adds a library read from a text file
func (s *gameServiceImpl) ImportLibraryText(ctx context.Context, filename, text string) (*engine.OptionsLibrary, error) {
	return s.catalog.ImportLibraryText(filename, text)
}

// ImportLibraries replaces every library with the imported ones
func (s *gameServiceImpl) ImportLibraries(ctx context.Context, data []byte, format string) ([]*engine.OptionsLibrary, error) {
	f, err := catalog.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return s.catalog.ImportLibraries(data, f)
}

// ExportLibraryText returns one library as newline separated text
func (s *gameServiceImpl) ExportLibraryText(ctx context.Context, libraryID string) (string, string, error) {
	return s.catalog.ExportLibraryText(libraryID)
}
