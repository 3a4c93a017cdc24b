package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	catalog  CatalogManager
	rng      engine.Rand
	mu       sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithRand sets the random source used for map authoring
func WithRand(rng engine.Rand) Option {
	return func(s *gameServiceImpl) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, cat CatalogManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		catalog:  cat,
		rng:      engine.NewRand(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session in the setup phase
func (s *gameServiceImpl) CreateSession(ctx context.Context) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("")
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.WithField("session", session.ID).Info("Session created")
	return newSessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	log.WithField("session", sessionID).Info("Session deleted")
	return nil
}

// SetPlayers replaces the roster of a game that is not being played
func (s *gameServiceImpl) SetPlayers(ctx context.Context, sessionID string, count int, names []string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.SetPlayers(count, names); err != nil {
		return nil, err
	}

	s.persist(sessionID, "set players")
	return sess.Engine.GetState(), nil
}

// StartGame starts the game on a private copy of the catalog map
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID, mapID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if mapID == "" {
		return nil, engine.ErrNoMapSelected
	}
	m, err := s.catalog.GetMap(mapID)
	if err != nil {
		if errors.Is(err, catalog.ErrMapNotFound) {
			return nil, fmt.Errorf("%w: map %q does not exist", engine.ErrNoMapSelected, mapID)
		}
		return nil, err
	}

	if err := sess.Engine.StartGame(m); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"session": sessionID, "map": m.Name, "players": len(sess.Engine.GetPlayers())}).Info("Game started")
	s.persist(sessionID, "start")
	return sess.Engine.GetState(), nil
}

// RollDice plays one turn for the current player
func (s *gameServiceImpl) RollDice(ctx context.Context, sessionID string) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	event := sess.Engine.RollDice()
	result := &RollResult{
		Rolled:    event != nil,
		Event:     event,
		GameState: sess.Engine.GetState(),
		Finished:  sess.Engine.FinishedPlayers(),
	}

	if event != nil {
		log.WithFields(log.Fields{
			"session": sessionID,
			"player":  event.Player,
			"dice":    event.Dice,
			"from":    event.From,
			"to":      event.To,
			"kind":    event.Kind,
		}).Debug("Dice rolled")
		s.persist(sessionID, "roll")
	}

	return result, nil
}

// ResetGame returns the session to an empty setup state
func (s *gameServiceImpl) ResetGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset()
	s.persist(sessionID, "reset")
	return state, nil
}

// ClearEvent dismisses the last roll event
func (s *gameServiceImpl) ClearEvent(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.ClearLastEvent()
	s.persist(sessionID, "clear event")
	return sess.Engine.GetState(), nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// getSession fetches a session and bumps its access time
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.Debugf("Failed to update access time of session %s: %v", sessionID, err)
	}
	return sess, nil
}

// persist saves the session after a transition; failures are logged only
func (s *gameServiceImpl) persist(sessionID, action string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warnf("Failed to persist session %s after %s: %v", sessionID, action, err)
	}
}
