// Package service provides the business logic layer for the maze game.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading through a ConfigManager
//   - Move, level and sizing operations with event extraction
//   - Paginated move history
//   - Publishing state changes and feedback to an EventPublisher
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game preset loading and validation.
// EventPublisher receives every state snapshot and feedback event of every
// session; the websocket hub implements it.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, configuration management, and
// business logic orchestration. Each session maintains its own game engine
// instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	hub := websocket.NewHub()
//	gameService := service.NewGameService(sessionMgr, configMgr, hub)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "tiny")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, sessionInfo.ID, "right", false)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Engines are not safe for concurrent use, so the service holds a
// lock around every engine call; publishers must therefore never block.
package service
