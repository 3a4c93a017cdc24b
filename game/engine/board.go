package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BuildMap assembles a complete grid from an edit buffer. Index 0 is forced
// to Start and the last index to Finish; every interior index keeps the
// buffer's entry when it is a valid normal, reward or penalty square and
// falls back to an empty normal square otherwise.
//
// A fresh id is assigned unless edit.ID is set, which is the update path.
func BuildMap(edit MapEdit) (*Map, error) {
	name := strings.TrimSpace(edit.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidMap)
	}
	if edit.TotalSquares < MinSquares {
		return nil, fmt.Errorf("%w: totalSquares must be at least %d, got %d",
			ErrInvalidMap, MinSquares, edit.TotalSquares)
	}

	last := edit.TotalSquares - 1
	grid := make([]Square, edit.TotalSquares)
	for i := range grid {
		switch i {
		case 0:
			grid[i] = Square{Kind: Start, Text: StartText}
		case last:
			grid[i] = Square{Kind: Finish, Text: FinishText}
		default:
			grid[i] = interiorSquare(edit.Grid, i)
		}
	}

	id := edit.ID
	if id == "" {
		id = uuid.NewString()
	}

	return &Map{
		ID:           id,
		Name:         name,
		TotalSquares: edit.TotalSquares,
		Grid:         grid,
	}, nil
}

// interiorSquare returns the buffer entry at i if it may live inside the board
func interiorSquare(raw []RawSquare, i int) Square {
	if i >= len(raw) {
		return Square{Kind: Normal}
	}
	sq, err := NewSquare(raw[i])
	if err != nil || sq.Kind == Start || sq.Kind == Finish {
		return Square{Kind: Normal}
	}
	return sq
}

// EditBuffer converts the map back into an edit buffer, keeping its id
func (m *Map) EditBuffer() MapEdit {
	grid := make([]RawSquare, len(m.Grid))
	for i, sq := range m.Grid {
		grid[i] = sq.Raw()
	}
	return MapEdit{
		ID:           m.ID,
		Name:         m.Name,
		TotalSquares: m.TotalSquares,
		Grid:         grid,
	}
}

// Validate checks the square invariant of an existing map
func (m *Map) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: map is nil", ErrInvalidMap)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMap)
	}
	if m.TotalSquares < MinSquares {
		return fmt.Errorf("%w: totalSquares must be at least %d, got %d",
			ErrInvalidMap, MinSquares, m.TotalSquares)
	}
	if len(m.Grid) != m.TotalSquares {
		return fmt.Errorf("%w: grid has %d squares, expected %d", ErrInvalidMap, len(m.Grid), m.TotalSquares)
	}

	last := m.TotalSquares - 1
	for i, sq := range m.Grid {
		switch {
		case i == 0 && sq.Kind != Start:
			return fmt.Errorf("%w: square 0 must be %s, got %s", ErrInvalidMap, Start, sq.Kind)
		case i == last && sq.Kind != Finish:
			return fmt.Errorf("%w: square %d must be %s, got %s", ErrInvalidMap, i, Finish, sq.Kind)
		case i != 0 && i != last:
			switch sq.Kind {
			case Normal:
			case Reward, Penalty:
				if sq.Value < MinEffectValue {
					return fmt.Errorf("%w: square %d has %s value %d", ErrInvalidMap, i, sq.Kind, sq.Value)
				}
			default:
				return fmt.Errorf("%w: square %d cannot be %s", ErrInvalidMap, i, sq.Kind)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the map
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	c := *m
	c.Grid = make([]Square, len(m.Grid))
	copy(c.Grid, m.Grid)
	return &c
}

// LastIndex is the index of the finish square
func (m *Map) LastIndex() int {
	return m.TotalSquares - 1
}

// interiorIndices lists 1..len-2 in order
func (m *Map) interiorIndices() []int {
	if len(m.Grid) < 3 {
		return nil
	}
	indices := make([]int, 0, len(m.Grid)-2)
	for i := 1; i < len(m.Grid)-1; i++ {
		indices = append(indices, i)
	}
	return indices
}
