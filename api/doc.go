// Package api provides the local HTTP REST surface over game/service:
// session lifecycle, the tick-driving operations (move/undo/restart),
// read-only state/config access, and a WebSocket upgrade endpoint for
// spectators. No rule-editing or scripting endpoint exists, matching
// the core's non-goals.
//
// Endpoints:
//
// Session management:
//   - POST   /api/sessions            create a session
//   - GET    /api/sessions            list sessions
//   - GET    /api/sessions/{id}       get a session summary
//   - DELETE /api/sessions/{id}       delete a session
//
// Gameplay:
//   - GET  /api/sessions/{id}/state    current state (board or message)
//   - POST /api/sessions/{id}/move     {"direction": "up|down|left|right|action"}
//   - POST /api/sessions/{id}/undo
//   - POST /api/sessions/{id}/restart
//
// Configuration:
//   - GET /api/configs          list available rulesets
//   - GET /api/configs/{name}   load one ruleset's game data
//
// Spectator:
//   - GET /ws?session={id}   upgrade to a WebSocket broadcasting
//     every subsequent tick for that session
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
