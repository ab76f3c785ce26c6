package save

import "errors"

var (
	// ErrUnsupportedVersion marks a save file written by a future or
	// otherwise incompatible format version.
	ErrUnsupportedVersion = errors.New("save: unsupported save-file version")
	// ErrUnknownSpriteName marks a checkpoint cell naming a sprite the
	// current ruleset does not declare.
	ErrUnknownSpriteName = errors.New("save: checkpoint names an unknown sprite")
	// ErrUnknownInputChar marks a byte outside the save-file input
	// alphabet encountered while replaying a recorded input string.
	ErrUnknownInputChar = errors.New("save: character outside the input alphabet")
)
