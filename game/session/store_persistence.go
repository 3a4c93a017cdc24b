package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
	"github.com/wricardo/flying-chess/game/store"
)

// StorePersistence implements SessionPersistence on the games collection of
// a store.Store. Every change rewrites the whole collection.
type StorePersistence struct {
	store      store.Store
	engineOpts []engine.Option
	mu         sync.Mutex
}

// NewStorePersistence creates a persistence layer over st
func NewStorePersistence(st store.Store, engineOpts ...engine.Option) *StorePersistence {
	return &StorePersistence{store: st, engineOpts: engineOpts}
}

// Save stores the session in the games collection
func (sp *StorePersistence) Save(session *service.Session) error {
	data, err := newPersistedSessionData(session)
	if err != nil {
		return err
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()

	games, err := sp.load()
	if err != nil {
		return err
	}
	games[strings.ToLower(session.ID)] = data
	return sp.save(games)
}

// Load restores one session from the games collection
func (sp *StorePersistence) Load(id string) (*service.Session, error) {
	sp.mu.Lock()
	games, err := sp.load()
	sp.mu.Unlock()
	if err != nil {
		return nil, err
	}

	data, ok := games[strings.ToLower(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return data.restore(sp.engineOpts)
}

// Delete removes a session from the games collection
func (sp *StorePersistence) Delete(id string) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	games, err := sp.load()
	if err != nil {
		return err
	}

	key := strings.ToLower(id)
	if _, ok := games[key]; !ok {
		return ErrSessionNotFound
	}
	delete(games, key)
	return sp.save(games)
}

// ListAll returns the stored session IDs in sorted order
func (sp *StorePersistence) ListAll() ([]string, error) {
	sp.mu.Lock()
	games, err := sp.load()
	sp.mu.Unlock()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(games))
	for id := range games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Exists checks if a session is stored
func (sp *StorePersistence) Exists(id string) bool {
	sp.mu.Lock()
	games, err := sp.load()
	sp.mu.Unlock()
	if err != nil {
		return false
	}
	_, ok := games[strings.ToLower(id)]
	return ok
}

func (sp *StorePersistence) load() (map[string]PersistedSessionData, error) {
	games := make(map[string]PersistedSessionData)
	if _, err := sp.store.Load(store.Games, &games); err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	if games == nil {
		games = make(map[string]PersistedSessionData)
	}
	return games, nil
}

func (sp *StorePersistence) save(games map[string]PersistedSessionData) error {
	if err := sp.store.Save(store.Games, games); err != nil {
		return fmt.Errorf("failed to save games: %w", err)
	}
	return nil
}
