package store

import "errors"

// Collection names
const (
	Games     = "games"
	Maps      = "maps"
	Libraries = "libraries"
)

var ErrInvalidName = errors.New("invalid collection name")

// Store loads and replaces whole named collections
type Store interface {
	// Load decodes the named collection into v. It reports false when the
	// collection has never been saved.
	Load(name string, v any) (bool, error)

	// Save replaces the named collection with v
	Save(name string, v any) error
}

// validName rejects names that would escape the data directory
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
