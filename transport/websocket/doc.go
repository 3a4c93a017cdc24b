// Package websocket pushes game state to watching browsers.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a pair of
// goroutines for reading and writing; the hub's event loop owns
// registration and fan-out.
//
// Message Protocol:
//
// Clients only listen. Every message is one JSON document per frame:
//   - state_update: {session_id, event, game_state} after every transition
//   - roll: {session_id, event, data} carrying the engine.Event of a roll
//
// Session Integration:
//
// Clients name their session in the query string (/ws?session=abc1).
// Session IDs are matched case-insensitively and updates go only to
// clients of the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//	hub.BroadcastEvent(sessionID, websocket.EventRoll, event)
package websocket
