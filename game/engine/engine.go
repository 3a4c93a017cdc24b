package engine

import (
	"fmt"
	"sync"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	GetPhase() Phase
	IsPlaying() bool

	// Roster
	SetPlayers(count int, names []string) error
	GetPlayers() []Player
	CurrentPlayer() *Player
	FinishedPlayers() []Player

	// Turns
	StartGame(m *Map) error
	RollDice() *Event
	ClearLastEvent()
}

// GameEngine implements the Engine interface. It owns one GameState and
// commits each transition in a single assignment. It is safe for concurrent use.
type GameEngine struct {
	state    GameState
	rng      Rand
	messages Messages
	mu       sync.RWMutex
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithRand injects the random source used for dice rolls
func WithRand(rng Rand) Option {
	return func(e *GameEngine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithMessages overrides the event texts
func WithMessages(msgs Messages) Option {
	return func(e *GameEngine) {
		e.messages = msgs
	}
}

// NewEngine creates a new game engine in the setup phase
func NewEngine(opts ...Option) (*GameEngine, error) {
	engine := &GameEngine{
		state:    NewGameState(),
		rng:      NewRand(),
		messages: DefaultMessages(),
	}
	for _, opt := range opts {
		opt(engine)
	}

	if err := engine.messages.Validate(); err != nil {
		return nil, err
	}

	return engine, nil
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

func (e *GameEngine) snapshot() *GameState {
	snapshot := e.state.clone()
	return &snapshot
}

// SetState replaces the game state (used for persistence loading).
// Every position must lie on the active map, or be 0 when no map is set.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	switch state.Phase {
	case PhaseSetup, PhasePlaying, PhaseFinished:
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidState, state.Phase)
	}
	if state.ActiveMap != nil {
		if err := state.ActiveMap.Validate(); err != nil {
			return err
		}
	}

	n := len(state.Players)
	if n > MaxPlayers || (n > 0 && n < MinPlayers) {
		return fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidPlayerCount, MinPlayers, MaxPlayers, n)
	}
	if n > 0 && (state.CurrentPlayerIndex < 0 || state.CurrentPlayerIndex >= n) {
		return fmt.Errorf("%w: current player index %d out of range for %d players", ErrInvalidState, state.CurrentPlayerIndex, n)
	}

	last := 0
	if state.ActiveMap != nil {
		last = state.ActiveMap.LastIndex()
	}
	for _, p := range state.Players {
		if p.Position < 0 || p.Position > last {
			return fmt.Errorf("%w: player %d at position %d, board ends at %d", ErrInvalidState, p.ID, p.Position, last)
		}
	}

	next := state.clone()
	e.mu.Lock()
	e.state = next
	e.mu.Unlock()
	return nil
}

// Reset returns the game to the setup phase
func (e *GameEngine) Reset() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.state.Reset()
	return e.snapshot()
}

// GetPhase returns the current phase
func (e *GameEngine) GetPhase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Phase
}

// IsPlaying reports whether turns are being taken
func (e *GameEngine) IsPlaying() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Phase == PhasePlaying && e.state.ActiveMap != nil
}

// SetPlayers replaces the roster
func (e *GameEngine) SetPlayers(count int, names []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := e.state.SetPlayers(count, names)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// GetPlayers returns a copy of the roster in turn order
func (e *GameEngine) GetPlayers() []Player {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Player(nil), e.state.Players...)
}

// CurrentPlayer returns the player whose turn it is, or nil without a roster
func (e *GameEngine) CurrentPlayer() *Player {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.state.Players) == 0 {
		return nil
	}
	p := e.state.Players[e.state.CurrentPlayerIndex%len(e.state.Players)]
	return &p
}

// FinishedPlayers returns the players pinned on the finish square
func (e *GameEngine) FinishedPlayers() []Player {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return FinishedPlayers(&e.state)
}

// StartGame begins play on a private copy of m
func (e *GameEngine) StartGame(m *Map) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := e.state.StartGame(m)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// RollDice plays one turn and returns its event, or nil when not playing
func (e *GameEngine) RollDice() *Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	before := e.state.Rolls
	e.state = e.state.RollDice(e.rng, e.messages)
	if e.state.Rolls == before || e.state.LastEvent == nil {
		return nil
	}
	ev := *e.state.LastEvent
	return &ev
}

// ClearLastEvent dismisses the last roll event
func (e *GameEngine) ClearLastEvent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.state.ClearLastEvent()
}

// GetMessages returns the event texts in use
func (e *GameEngine) GetMessages() Messages {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.messages
}
