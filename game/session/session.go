package session

import (
	"time"

	"github.com/wricardo/rulegrid/game/engine"
)

// Session pairs a running Engine with the bookkeeping a session manager
// and its persistence layer need: which ruleset it was created from, an
// identity, and access timestamps for expiry.
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.Engine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
