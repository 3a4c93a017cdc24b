// Package session provides session management for the flying chess game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session persistence to per-session files or to a store collection
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns one engine.GameEngine, which owns the game's
// state. FilePersistence writes one JSON file per session; StorePersistence
// keeps every session in the games collection of a store.Store.
//
// Session Identifiers:
//
// Generated session IDs are 4 hex characters from crypto/rand, unique within
// the manager. Lookups are case-insensitive.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("data/sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.Create("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Engine.SetPlayers(2, nil)
//	manager.Save(sess.ID)
package session
