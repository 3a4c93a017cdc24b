package service

import (
	"time"

	"github.com/wricardo/flying-chess/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// RollResult contains the result of a dice roll. Rolled is false when the
// game was not being played and nothing changed.
type RollResult struct {
	Rolled    bool              `json:"rolled"`
	Event     *engine.Event     `json:"event,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Finished  []engine.Player   `json:"finished,omitempty"`
}

// MapInfo summarizes a map for listings
type MapInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TotalSquares int    `json:"totalSquares"`
	Rewards      int    `json:"rewards"`
	Penalties    int    `json:"penalties"`
}

// LibraryInfo summarizes an options library for listings
type LibraryInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OptionCount int    `json:"option_count"`
}

func newMapInfo(m *engine.Map) *MapInfo {
	return &MapInfo{
		ID:           m.ID,
		Name:         m.Name,
		TotalSquares: m.TotalSquares,
		Rewards:      engine.CountKind(m.Grid, engine.Reward),
		Penalties:    engine.CountKind(m.Grid, engine.Penalty),
	}
}

func newSessionInfo(s *Session) *SessionInfo {
	return &SessionInfo{
		ID:             s.ID,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessed(),
		GameState:      s.Engine.GetState(),
	}
}
