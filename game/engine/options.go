package engine

import (
	"fmt"
	"strings"
)

// AssignMode selects how library options are distributed over normal squares
type AssignMode string

const (
	// AssignRandom draws every square's text independently, with replacement
	AssignRandom AssignMode = "random"
	// AssignSequential walks the library cyclically so repeats come as late as possible
	AssignSequential AssignMode = "sequential"
)

// ParseAssignMode converts a user supplied mode name
func ParseAssignMode(s string) (AssignMode, error) {
	switch AssignMode(strings.ToLower(strings.TrimSpace(s))) {
	case AssignRandom, "":
		return AssignRandom, nil
	case AssignSequential:
		return AssignSequential, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ApplyOptions returns a copy of m whose normal squares carry texts from lib.
// Start, finish, reward and penalty squares are left untouched.
func ApplyOptions(m *Map, lib *OptionsLibrary, mode AssignMode, rng Rand) (*Map, error) {
	if m == nil {
		return nil, ErrNoMapSelected
	}
	if lib == nil || len(lib.Options) == 0 {
		return nil, ErrEmptyLibrary
	}
	if mode != AssignRandom && mode != AssignSequential {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	out := m.Clone()
	targets := out.normalIndices()
	n := len(lib.Options)

	for i, idx := range targets {
		var option string
		if mode == AssignSequential {
			option = lib.Options[i%n]
		} else {
			option = lib.Options[rng.IntN(n)]
		}
		out.Grid[idx].Text = option
	}

	return out, nil
}

// normalIndices lists the indices of normal squares in index order
func (m *Map) normalIndices() []int {
	var indices []int
	for i, sq := range m.Grid {
		if sq.Kind == Normal {
			indices = append(indices, i)
		}
	}
	return indices
}

// Validate checks the library name and that no option is blank
func (l *OptionsLibrary) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: library is nil", ErrInvalidLibrary)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLibrary)
	}
	for i, opt := range l.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is blank", ErrInvalidLibrary, i+1)
		}
	}
	return nil
}

// Clone returns a deep copy of the library
func (l *OptionsLibrary) Clone() *OptionsLibrary {
	if l == nil {
		return nil
	}
	c := *l
	c.Options = append([]string(nil), l.Options...)
	return &c
}
