package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	SetPlayers(ctx context.Context, sessionID string, count int, names []string) (*engine.GameState, error)
	StartGame(ctx context.Context, sessionID, mapID string) (*engine.GameState, error)
	RollDice(ctx context.Context, sessionID string) (*RollResult, error)
	ResetGame(ctx context.Context, sessionID string) (*engine.GameState, error)
	ClearEvent(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	GetMap(ctx context.Context, mapID string) (*engine.Map, error)
	CreateMap(ctx context.Context, edit engine.MapEdit) (*engine.Map, error)
	UpdateMap(ctx context.Context, edit engine.MapEdit) (*engine.Map, error)
	DeleteMap(ctx context.Context, mapID string) error
	ApplyOptions(ctx context.Context, mapID, libraryID, mode string) (*engine.Map, error)
	RandomizeSpecials(ctx context.Context, mapID string, rewards, penalties int) (*engine.Map, error)
	ImportMaps(ctx context.Context, data []byte, format string) ([]*engine.Map, error)
	ExportMaps(ctx context.Context, format string) ([]byte, error)

	// Options libraries
	ListLibraries(ctx context.Context) ([]*LibraryInfo, error)
	GetLibrary(ctx context.Context, libraryID string) (*engine.OptionsLibrary, error)
	CreateLibrary(ctx context.Context, name string, options []string) (*engine.OptionsLibrary, error)
	UpdateLibrary(ctx context.Context, libraryID, name string, options []string) (*engine.OptionsLibrary, error)
	DeleteLibrary(ctx context.Context, libraryID string) error
	ImportLibraryText(ctx context.Context, filename, text string) (*engine.OptionsLibrary, error)
	ImportLibraries(ctx context.Context, data []byte, format string) ([]*engine.OptionsLibrary, error)
	ExportLibraryText(ctx context.Context, libraryID string) (filename, text string, err error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// CatalogManager holds the map and options library collections
type CatalogManager interface {
	ListMaps() []*engine.Map
	GetMap(id string) (*engine.Map, error)
	CreateMap(edit engine.MapEdit) (*engine.Map, error)
	UpdateMap(edit engine.MapEdit) (*engine.Map, error)
	SaveMap(m *engine.Map) error
	DeleteMap(id string) error
	ImportMaps(data []byte, format catalog.Format) ([]*engine.Map, error)
	ExportMaps(format catalog.Format) ([]byte, error)

	ListLibraries() []*engine.OptionsLibrary
	GetLibrary(id string) (*engine.OptionsLibrary, error)
	CreateLibrary(name string, options []string) (*engine.OptionsLibrary, error)
	UpdateLibrary(id, name string, options []string) (*engine.OptionsLibrary, error)
	DeleteLibrary(id string) error
	ImportLibraryText(filename, text string) (*engine.OptionsLibrary, error)
	ImportLibraries(data []byte, format catalog.Format) ([]*engine.OptionsLibrary, error)
	ExportLibraryText(id string) (filename, text string, err error)
}

// Session represents an active game. Its engine owns the GameState.
// LastAccessedAt is set on construction; once the session is shared, read
// and write it through LastAccessed and Touch.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.RWMutex
}

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	s.LastAccessedAt = t
	s.mu.Unlock()
}

// LastAccessed returns the time of the last access
func (s *Session) LastAccessed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastAccessedAt
}
