// Package engine provides the session state machine for the maze game.
//
// The engine package implements the game mechanics including:
//   - Level progression and the derived grid size
//   - Player movement with wall collision and goal detection
//   - Display cell size fitting against a viewport
//   - Feedback events (move, hit, win) and change notification
//   - Game presets loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is a read-only snapshot of a session,
// while GameConfig is a preset loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config,
//		engine.WithFeedback(engine.FeedbackFunc(func(f engine.Feedback) {
//			log.Printf("play %s", f)
//		})),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	signal := gameEngine.MovePlayer(engine.Right)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Each maze starts the player on (1,1). Moving into a wall is blocked and
// plays the hit feedback; moving past the grid edge does nothing at all.
// Entering the end room at (size-2, size-2) wins the maze, and the session
// stays won until the maze is regenerated. Every level grows the grid by two
// cells per side up to 51x51; NextLevel refuses to advance past level 25.
package engine
