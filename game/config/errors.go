package config

import "errors"

var (
	// ErrConfigNotFound marks a named ruleset with no matching file on disk.
	ErrConfigNotFound = errors.New("config: ruleset not found")
	// ErrInvalidConfig marks a ruleset that failed structural validation
	// or failed to parse, wrapping the underlying loader error.
	ErrInvalidConfig = errors.New("config: invalid ruleset")
)
