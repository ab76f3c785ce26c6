package service

import (
	"time"

	"github.com/wricardo/rulegrid/game/config"
)

// BoardView is the JSON-friendly projection of an engine.Board: sprite
// names instead of ids, row-major, the same shape a save-file
// checkpoint uses (see game/save.EncodeCheckpoint).
type BoardView struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  [][]string `json:"cells"`
}

// StateInfo is the externally visible state of a session at a point in
// time: either a playable board or a message interstitial.
type StateInfo struct {
	SessionID string     `json:"session_id"`
	ConfigID  string     `json:"config_id"`
	Level     int        `json:"level"`
	IsMessage bool       `json:"is_message"`
	Message   string     `json:"message,omitempty"`
	Board     *BoardView `json:"board,omitempty"`
}

// SessionInfo describes a session without its full board, for listings.
type SessionInfo struct {
	ID             string    `json:"id"`
	ConfigID       string    `json:"config_id"`
	Level          int       `json:"level"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// MoveResult is the outcome of a tick-driving operation (Move, Undo,
// Restart), mirroring engine.TickResult plus the state it produced.
type MoveResult struct {
	SessionID      string     `json:"session_id"`
	Changed        bool       `json:"changed"`
	CompletedLevel *int       `json:"completed_level,omitempty"`
	Checkpoint     bool       `json:"checkpoint"`
	AcceptingInput bool       `json:"accepting_input"`
	Sfx            bool       `json:"sfx"`
	State          *StateInfo `json:"state"`
}

// ConfigInfo re-exports game/config's listing shape so callers of this
// package don't need to import game/config directly for display data.
type ConfigInfo = config.Info
