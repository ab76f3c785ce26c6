// Package service sits between transports (HTTP, WebSocket, MCP) and
// game/session+game/engine: session lifecycle, tick-driving operations
// (move/undo/restart) and read-only state/config access. It has no
// rule-editing surface — every mutating operation is one Engine.Tick
// call, matching the core's non-goals.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager(config.ResolveConfigDir())
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "sokoban")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameService.Move(ctx, info.ID, engine.EngineRight)
package service
