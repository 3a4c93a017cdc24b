package catalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/flying-chess/game/engine"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// libraryRecord is one entry of a bulk library import
type libraryRecord struct {
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string   `json:"name" yaml:"name"`
	Options []string `json:"options" yaml:"options"`
}

// ListLibraries returns copies of all libraries in collection order
func (m *Manager) ListLibraries() []*engine.OptionsLibrary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*engine.OptionsLibrary, len(m.libraries))
	for i, lib := range m.libraries {
		result[i] = lib.Clone()
	}
	return result
}

// GetLibrary returns a copy of the library with the given id
func (m *Manager) GetLibrary(id string) (*engine.OptionsLibrary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.libraryIndex(id)
	if i < 0 {
		return nil, ErrLibraryNotFound
	}
	return m.libraries[i].Clone(), nil
}

// CreateLibrary appends a new library with a fresh id
func (m *Manager) CreateLibrary(name string, options []string) (*engine.OptionsLibrary, error) {
	lib := &engine.OptionsLibrary{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(name),
		Options: append([]string{}, options...),
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commitLibraries(append(slices.Clone(m.libraries), lib)); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"library": lib.ID, "name": lib.Name, "options": len(lib.Options)}).Info("Library created")
	return lib.Clone(), nil
}

// UpdateLibrary replaces the name and options of an existing library
func (m *Manager) UpdateLibrary(id, name string, options []string) (*engine.OptionsLibrary, error) {
	lib := &engine.OptionsLibrary{
		ID:      id,
		Name:    strings.TrimSpace(name),
		Options: append([]string{}, options...),
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.libraryIndex(id)
	if i < 0 {
		return nil, ErrLibraryNotFound
	}

	next := slices.Clone(m.libraries)
	next[i] = lib
	if err := m.commitLibraries(next); err != nil {
		return nil, err
	}

	log.WithField("library", id).Info("Library updated")
	return lib.Clone(), nil
}

// DeleteLibrary removes a library from the collection
func (m *Manager) DeleteLibrary(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.libraryIndex(id)
	if i < 0 {
		return ErrLibraryNotFound
	}

	if err := m.commitLibraries(slices.Delete(slices.Clone(m.libraries), i, i+1)); err != nil {
		return err
	}

	log.WithField("library", id).Info("Library deleted")
	return nil
}

// ImportLibraryText appends one library built from newline separated text.
// Blank lines are dropped and the library is named after filename without
// its extension.
func (m *Manager) ImportLibraryText(filename, text string) (*engine.OptionsLibrary, error) {
	name := LibraryNameFromFilename(filename)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", engine.ErrMalformedImport)
	}
	return m.CreateLibrary(name, ParseOptionsText(text))
}

// ImportLibraries replaces the whole library collection with the records in
// data. Records keep their id when they carry one.
func (m *Manager) ImportLibraries(data []byte, format Format) ([]*engine.OptionsLibrary, error) {
	var records []libraryRecord
	if err := decode(format, data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrMalformedImport, err)
	}

	libs := make([]*engine.OptionsLibrary, 0, len(records))
	for i, rec := range records {
		if rec.Options == nil {
			return nil, fmt.Errorf("%w: library %d needs options", engine.ErrMalformedImport, i+1)
		}
		lib := &engine.OptionsLibrary{ID: rec.ID, Name: rec.Name, Options: rec.Options}
		if lib.ID == "" {
			lib.ID = uuid.NewString()
		}
		if err := lib.Validate(); err != nil {
			return nil, fmt.Errorf("%w: library %d: %v", engine.ErrMalformedImport, i+1, err)
		}
		libs = append(libs, lib)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commitLibraries(libs); err != nil {
		return nil, err
	}

	log.WithField("count", len(libs)).Info("Libraries replaced by import")

	result := make([]*engine.OptionsLibrary, len(libs))
	for i, lib := range libs {
		result[i] = lib.Clone()
	}
	return result, nil
}

// ExportLibraries serializes the whole library collection
func (m *Manager) ExportLibraries(format Format) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := encode(format, m.libraries)
	if err != nil {
		return nil, fmt.Errorf("failed to export libraries: %w", err)
	}
	return data, nil
}

// ExportLibraryText returns the library's options joined by newlines,
// along with a suggested file name
func (m *Manager) ExportLibraryText(id string) (filename, text string, err error) {
	lib, err := m.GetLibrary(id)
	if err != nil {
		return "", "", err
	}
	return lib.Name + ".txt", strings.Join(lib.Options, "\n"), nil
}

// ParseOptionsText splits text into lines, dropping blank ones
func ParseOptionsText(text string) []string {
	options := []string{}
	for _, line := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		options = append(options, line)
	}
	return options
}

// LibraryNameFromFilename strips any directory and the last extension
func LibraryNameFromFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSpace(base)
}

// libraryIndex returns the position of id in the collection, or -1
func (m *Manager) libraryIndex(id string) int {
	return slices.IndexFunc(m.libraries, func(lib *engine.OptionsLibrary) bool {
		return lib.ID == id
	})
}
