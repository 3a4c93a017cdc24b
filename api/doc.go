// Package api provides HTTP REST API handlers for the flying chess game.
//
// The api package implements:
//   - Session endpoints (one game per session)
//   - Turn endpoints: roster, start, roll, reset, event dismissal
//   - Map and options library authoring, import and export
//   - Share-link QR codes and WebSocket upgrade
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a game in the setup phase
//   - GET /api/sessions - List games (sort=created|accessed, order=asc|desc, limit=N)
//   - GET /api/sessions/{id} - Get one game
//   - DELETE /api/sessions/{id} - Delete a game
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current GameState
//   - POST /api/sessions/{id}/players - {"count": 3, "names": ["A", "B"]}
//   - POST /api/sessions/{id}/start - {"map_id": "..."}
//   - POST /api/sessions/{id}/roll - Roll for the current player
//   - POST /api/sessions/{id}/reset - Back to setup
//   - DELETE /api/sessions/{id}/event - Dismiss the last roll event
//
// Maps:
//   - GET, POST /api/maps
//   - GET, PUT, DELETE /api/maps/{id}
//   - POST /api/maps/{id}/options - {"library_id": "...", "mode": "random|sequential"}
//   - POST /api/maps/{id}/specials - {"rewards": 5, "penalties": 5}
//   - POST /api/maps/import?format=json|yaml - Append maps from an export file
//   - GET /api/maps/export?format=json|yaml - Download fly-chess-maps.json
//
// Options Libraries:
//   - GET, POST /api/libraries
//   - GET, PUT, DELETE /api/libraries/{id}
//   - POST /api/libraries/import-text?filename=jokes.txt - One option per line
//   - POST /api/libraries/import?format=json|yaml - Replace all libraries
//   - GET /api/libraries/{id}/export - Download as text
//
// Other:
//   - GET /api/qr?url=...&size=256 - PNG QR code of a share link
//   - GET /api/health
//   - GET /ws?session={id} - Live GameState updates
//
// Error Handling:
//
// Errors are returned as JSON with a machine readable code:
//
//	{
//	  "error": "not enough squares for rewards and penalties: requested 30, only 8 interior squares",
//	  "code": "capacity_exceeded"
//	}
//
// Bad input maps to 400, unknown sessions, maps and libraries to 404 and
// everything else to 500.
package api
