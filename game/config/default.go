package config

import (
	_ "embed"
	"fmt"

	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/loader"
)

//go:embed default.json
var defaultRulesetJSON []byte

// LoadDefault returns the built-in sample ruleset, compiled into the
// binary so a caller always has something to run without a ruleset
// directory on disk.
func LoadDefault() (*engine.GameData, error) {
	gameData, err := loader.Load(defaultRulesetJSON)
	if err != nil {
		return nil, fmt.Errorf("config: built-in default ruleset failed to load: %w", err)
	}
	return gameData, nil
}
