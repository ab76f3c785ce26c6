// Package config loads, caches and lists rule-ast rulesets (engine.GameData)
// from a directory of JSON files, and supplies a built-in default ruleset
// so a caller always has something to run without one on disk.
//
// Usage:
//
//	mgr, err := config.NewManager(config.ResolveConfigDir())
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameData, err := mgr.LoadConfig("sokoban")
package config
