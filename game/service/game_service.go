package service

import (
	"context"

	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/session"
)

// GameService is the transport-agnostic surface transport/websocket,
// transport/mcp and api all drive: session lifecycle plus the tick
// operations (move, undo, restart) and read-only state/config access.
// Deliberately narrow — there is no rule-editing or scripting
// operation, matching the core's non-goals.
type GameService interface {
	CreateSession(ctx context.Context, configID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	Move(ctx context.Context, sessionID string, input engine.EngineInput) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*MoveResult, error)

	GetState(ctx context.Context, sessionID string) (*StateInfo, error)

	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configID string) (*engine.GameData, error)
}

// SessionManager is the slice of game/session's Manager this package needs.
type SessionManager interface {
	Create(id, configID string, gameData *engine.GameData) (*session.Session, error)
	Get(id string) (*session.Session, error)
	GetOrCreate(id, configID string, gameData *engine.GameData) (*session.Session, error)
	List() []*session.Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager is the slice of game/config's Manager this package needs.
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameData, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameData
}
