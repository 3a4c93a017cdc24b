// Package service provides the business logic layer for the flying chess game.
//
// The service package implements:
//   - Multi-session game management
//   - Player rosters, game start and dice rolls per session
//   - Map and options library authoring on top of the catalog
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// CatalogManager stores the map and options library collections.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns one engine and therefore one GameState.
// A game keeps its own copy of the map it was started with, so editing the
// catalog never changes a game in progress.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	cat, _ := catalog.NewManager(store.NewMemoryStore())
//	gameService := service.NewGameService(sessionMgr, cat)
//
//	info, err := gameService.CreateSession(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.SetPlayers(ctx, info.ID, 2, []string{"Ann", "Bob"})
//	gameService.StartGame(ctx, info.ID, mapID)
//	result, err := gameService.RollDice(ctx, info.ID)
package service
