// Package websocket broadcasts tick results to local spectators of a
// single rulegrid session.
//
// Architecture:
//
// A single Hub fans out to clients grouped by session ID. Each
// connection is handled by a dedicated goroutine pair (readPump,
// writePump) for cleanup and backpressure. This is a dev-tools / live
// visualization channel, not a multiplayer session broker — the
// module's core explicitly excludes network play and concurrent
// shared games; every broadcast mirrors a tick already driven by
// game/service against a local session.
//
// Message protocol:
//
// Outgoing messages are JSON-encoded service.MoveResult/StateInfo
// payloads wrapped in a Message envelope:
//
//	{"session_id": "...", "event": "move", "move": {...}, "state": {...}}
//
// Clients don't send game commands over the socket; reads exist only
// to detect disconnects and answer pings.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after driving a tick through game/service:
//	hub.BroadcastMove(sessionID, result)
package websocket
