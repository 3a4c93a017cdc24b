package api

import (
	"context"
	"time"

	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	SetPlayersFunc   func(ctx context.Context, sessionID string, count int, names []string) (*engine.GameState, error)
	StartGameFunc    func(ctx context.Context, sessionID, mapID string) (*engine.GameState, error)
	RollDiceFunc     func(ctx context.Context, sessionID string) (*service.RollResult, error)
	ResetGameFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)
	ClearEventFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetGameStateFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Maps
	ListMapsFunc          func(ctx context.Context) ([]*service.MapInfo, error)
	GetMapFunc            func(ctx context.Context, mapID string) (*engine.Map, error)
	CreateMapFunc         func(ctx context.Context, edit engine.MapEdit) (*engine.Map, error)
	UpdateMapFunc         func(ctx context.Context, edit engine.MapEdit) (*engine.Map, error)
	DeleteMapFunc         func(ctx context.Context, mapID string) error
	ApplyOptionsFunc      func(ctx context.Context, mapID, libraryID, mode string) (*engine.Map, error)
	RandomizeSpecialsFunc func(ctx context.Context, mapID string, rewards, penalties int) (*engine.Map, error)
	ImportMapsFunc        func(ctx context.Context, data []byte, format string) ([]*engine.Map, error)
	ExportMapsFunc        func(ctx context.Context, format string) ([]byte, error)

	// Options libraries
	ListLibrariesFunc     func(ctx context.Context) ([]*service.LibraryInfo, error)
	GetLibraryFunc        func(ctx context.Context, libraryID string) (*engine.OptionsLibrary, error)
	CreateLibraryFunc     func(ctx context.Context, name string, options []string) (*engine.OptionsLibrary, error)
	UpdateLibraryFunc     func(ctx context.Context, libraryID, name string, options []string) (*engine.OptionsLibrary, error)
	DeleteLibraryFunc     func(ctx context.Context, libraryID string) error
	ImportLibraryTextFunc func(ctx context.Context, filename, text string) (*engine.OptionsLibrary, error)
	ImportLibrariesFunc   func(ctx context.Context, data []byte, format string) ([]*engine.OptionsLibrary, error)
	ExportLibraryTextFunc func(ctx context.Context, libraryID string) (string, string, error)
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx)
	}
	return &service.SessionInfo{ID: "test-session", CreatedAt: time.Now()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) SetPlayers(ctx context.Context, sessionID string, count int, names []string) (*engine.GameState, error) {
	if m.SetPlayersFunc != nil {
		return m.SetPlayersFunc(ctx, sessionID, count, names)
	}
	return &engine.GameState{Phase: engine.PhaseSetup}, nil
}

func (m *MockGameService) StartGame(ctx context.Context, sessionID, mapID string) (*engine.GameState, error) {
	if m.StartGameFunc != nil {
		return m.StartGameFunc(ctx, sessionID, mapID)
	}
	return &engine.GameState{Phase: engine.PhasePlaying}, nil
}

func (m *MockGameService) RollDice(ctx context.Context, sessionID string) (*service.RollResult, error) {
	if m.RollDiceFunc != nil {
		return m.RollDiceFunc(ctx, sessionID)
	}
	return &service.RollResult{GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) ResetGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetGameFunc != nil {
		return m.ResetGameFunc(ctx, sessionID)
	}
	return &engine.GameState{Phase: engine.PhaseSetup}, nil
}

func (m *MockGameService) ClearEvent(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ClearEventFunc != nil {
		return m.ClearEventFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

// Maps
func (m *MockGameService) ListMaps(ctx context.Context) ([]*service.MapInfo, error) {
	if m.ListMapsFunc != nil {
		return m.ListMapsFunc(ctx)
	}
	return []*service.MapInfo{}, nil
}

func (m *MockGameService) GetMap(ctx context.Context, mapID string) (*engine.Map, error) {
	if m.GetMapFunc != nil {
		return m.GetMapFunc(ctx, mapID)
	}
	return &engine.Map{ID: mapID}, nil
}

func (m *MockGameService) CreateMap(ctx context.Context, edit engine.MapEdit) (*engine.Map, error) {
	if m.CreateMapFunc != nil {
		return m.CreateMapFunc(ctx, edit)
	}
	return engine.BuildMap(edit)
}

func (m *MockGameService) UpdateMap(ctx context.Context, edit engine.MapEdit) (*engine.Map, error) {
	if m.UpdateMapFunc != nil {
		return m.UpdateMapFunc(ctx, edit)
	}
	return engine.BuildMap(edit)
}

func (m *MockGameService) DeleteMap(ctx context.Context, mapID string) error {
	if m.DeleteMapFunc != nil {
		return m.DeleteMapFunc(ctx, mapID)
	}
	return nil
}

func (m *MockGameService) ApplyOptions(ctx context.Context, mapID, libraryID, mode string) (*engine.Map, error) {
	if m.ApplyOptionsFunc != nil {
		return m.ApplyOptionsFunc(ctx, mapID, libraryID, mode)
	}
	return &engine.Map{ID: mapID}, nil
}

func (m *MockGameService) RandomizeSpecials(ctx context.Context, mapID string, rewards, penalties int) (*engine.Map, error) {
	if m.RandomizeSpecialsFunc != nil {
		return m.RandomizeSpecialsFunc(ctx, mapID, rewards, penalties)
	}
	return &engine.Map{ID: mapID}, nil
}

func (m *MockGameService) ImportMaps(ctx context.Context, data []byte, format string) ([]*engine.Map, error) {
	if m.ImportMapsFunc != nil {
		return m.ImportMapsFunc(ctx, data, format)
	}
	return []*engine.Map{}, nil
}

func (m *MockGameService) ExportMaps(ctx context.Context, format string) ([]byte, error) {
	if m.ExportMapsFunc != nil {
		return m.ExportMapsFunc(ctx, format)
	}
	return []byte("[]"), nil
}

// Options libraries
func (m *MockGameService) ListLibraries(ctx context.Context) ([]*service.LibraryInfo, error) {
	if m.ListLibrariesFunc != nil {
		return m.ListLibrariesFunc(ctx)
	}
	return []*service.LibraryInfo{}, nil
}

func (m *MockGameService) GetLibrary(ctx context.Context, libraryID string) (*engine.OptionsLibrary, error) {
	if m.GetLibraryFunc != nil {
		return m.GetLibraryFunc(ctx, libraryID)
	}
	return &engine.OptionsLibrary{ID: libraryID}, nil
}

func (m *MockGameService) CreateLibrary(ctx context.Context, name string, options []string) (*engine.OptionsLibrary, error) {
	if m.CreateLibraryFunc != nil {
		return m.CreateLibraryFunc(ctx, name, options)
	}
	return &engine.OptionsLibrary{ID: "lib-1", Name: name, Options: options}, nil
}

func (m *MockGameService) UpdateLibrary(ctx context.Context, libraryID, name string, options []string) (*engine.OptionsLibrary, error) {
	if m.UpdateLibraryFunc != nil {
		return m.UpdateLibraryFunc(ctx, libraryID, name, options)
	}
	return &engine.OptionsLibrary{ID: libraryID, Name: name, Options: options}, nil
}

func (m *MockGameService) DeleteLibrary(ctx context.Context, libraryID string) error {
	if m.DeleteLibraryFunc != nil {
		return m.DeleteLibraryFunc(ctx, libraryID)
	}
	return nil
}

func (m *MockGameService) ImportLibraryText(ctx context.Context, filename, text string) (*engine.OptionsLibrary, error) {
	if m.ImportLibraryTextFunc != nil {
		return m.ImportLibraryTextFunc(ctx, filename, text)
	}
	return &engine.OptionsLibrary{ID: "lib-1", Name: filename}, nil
}

func (m *MockGameService) ImportLibraries(ctx context.Context, data []byte, format string) ([]*engine.OptionsLibrary, error) {
	if m.ImportLibrariesFunc != nil {
		return m.ImportLibrariesFunc(ctx, data, format)
	}
	return []*engine.OptionsLibrary{}, nil
}

func (m *MockGameService) ExportLibraryText(ctx context.Context, libraryID string) (string, string, error) {
	if m.ExportLibraryTextFunc != nil {
		return m.ExportLibraryTextFunc(ctx, libraryID)
	}
	return "library.txt", "", nil
}
