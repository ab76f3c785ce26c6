package session

import "github.com/wricardo/rulegrid/game/engine"

// Persistence defines how a Manager durably stores and recovers sessions.
type Persistence interface {
	Save(session *Session) error
	Load(id string) (*Session, error)
	Delete(id string) error
	ListAll() ([]string, error)
	Exists(id string) bool
}

// ConfigManager is the slice of game/config's Manager a Persistence
// implementation needs to rehydrate a session's ruleset by id.
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameData, error)
}
