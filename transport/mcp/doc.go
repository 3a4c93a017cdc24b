// Package mcp exposes the flying chess REST API as Model Context Protocol tools.
//
// The Client holds no game state. Every tool call is translated into one or
// more HTTP requests against a running server, and the JSON responses are
// rendered as plain text for the agent.
//
// MCP Tools:
//   - create_game: Create a session, optionally setting players and starting it
//   - list_games: List sessions with their phase and player count
//   - game_state: Show players, the board and the last roll
//   - set_players, start_game, roll_dice, reset_game: Drive a game
//   - list_maps, list_libraries: Browse the catalog
//   - apply_options, randomize_specials: Author a map before play
//   - game_instructions: Rules and board legend
//
// Boards are drawn in serpentine rows of ten squares, the way they appear on
// screen. S and F mark the start and finish squares, +N and -N mark reward
// and penalty squares, and player IDs replace the token of the square they
// stand on.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
