// Package session manages the lifecycle of running Engine instances:
// thread-safe creation, lookup, cleanup, and an optional durable
// Persistence layer that checkpoints a session's board to disk.
//
// Session Identifiers:
//
// Sessions are keyed by a generated UUID unless the caller supplies
// one, looked up case-insensitively.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", "classic", gameData)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess, err = manager.Get(sessionID)
package session
