package loader

import "errors"

// Load errors are fatal: a malformed or self-referential AST cannot be
// turned into a playable GameData.
var (
	ErrMalformedAST          = errors.New("loader: malformed game AST")
	ErrUnresolvedID          = errors.New("loader: reference names an id that does not exist")
	ErrCyclicRuleGroup       = errors.New("loader: cyclic rule-group reference")
	ErrMissingPlayerTile     = errors.New("loader: no tile or sprite named \"player\"")
	ErrMissingBackgroundTile = errors.New("loader: no tile or sprite named \"background\"")
)
