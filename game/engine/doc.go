// Package engine provides the board and turn rules for the flying chess game.
//
// The engine package implements the game mechanics including:
//   - Square construction and validation
//   - Map building from partial edit buffers
//   - Option text distribution over normal squares
//   - Random placement of reward and penalty squares
//   - Player rosters, dice rolls and turn rotation
//
// Core Types:
//
// Map is a validated board whose first square is the start and whose last
// square is the finish. GameState is a plain value; its transitions return a
// new state and never mutate the receiver. GameEngine wraps one GameState with
// a random source and the event texts, and implements the Engine interface.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := gameEngine.SetPlayers(2, []string{"Ann", ""}); err != nil {
//		log.Fatal(err)
//	}
//	if err := gameEngine.StartGame(engine.DefaultMap()); err != nil {
//		log.Fatal(err)
//	}
//
//	event := gameEngine.RollDice()
//	fmt.Println(event.Text)
//
// Game Rules:
//
// Players take turns rolling one six-sided die. Landing on a reward square
// moves the player forward by its value, a penalty square moves them back
// (never below the start). Only the square reached by the die takes effect.
// A player who reaches or passes the last square is pinned there and keeps
// their turn slot; the game itself never ends on its own.
package engine
