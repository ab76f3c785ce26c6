package save

import (
	"fmt"
	"strings"

	"github.com/wricardo/rulegrid/game/engine"
)

// Save-file alphabet characters beyond the seven EngineInput keys
// (spec.md §6): a board-changing tick with no key pressed, a
// non-accepting continuation, and a checkpoint marker.
const (
	charNoKeyChange  byte = '.'
	charContinuation byte = ','
	charCheckpoint   byte = '#'
)

// Recorder accumulates the per-level input strings a save file stores,
// one strings.Builder per level played so far. Exactly one outcome
// character is appended per Tick call — a key letter when input was
// pressed, '.' when an un-prompted tick still changed the board (an
// AGAIN follow-up), ',' when the tick left the engine still waiting to
// continue without having changed anything yet — followed by an
// additional '#' whenever that tick also emitted a checkpoint.
type Recorder struct {
	perLevel []strings.Builder
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ensureLevel(levelNum int) {
	for len(r.perLevel) <= levelNum {
		r.perLevel = append(r.perLevel, strings.Builder{})
	}
}

// RecordTick appends the character(s) describing one Engine.Tick call's
// outcome to levelNum's input string.
func (r *Recorder) RecordTick(levelNum int, input *engine.EngineInput, result engine.TickResult) {
	r.ensureLevel(levelNum)
	b := &r.perLevel[levelNum]

	switch {
	case input != nil:
		b.WriteByte(input.ToKey())
	case result.Changed:
		b.WriteByte(charNoKeyChange)
	default:
		b.WriteByte(charContinuation)
	}
	if result.Checkpoint != nil {
		b.WriteByte(charCheckpoint)
	}
}

// Inputs returns the recorded input string for every level touched so
// far, in level order, suitable for State.Inputs.
func (r *Recorder) Inputs() []string {
	out := make([]string, len(r.perLevel))
	for i, b := range r.perLevel {
		out[i] = b.String()
	}
	return out
}

// ReplayTick is the inverse of one RecordTick call: it decodes a single
// alphabet character into the EngineInput (if any) a replaying caller
// should feed back into Engine.Tick. '#' carries no input of its own —
// it only marks that the preceding tick's result included a checkpoint,
// informational for a verifying replay rather than actionable on its
// own — so ReplayTick reports it via the isCheckpointMarker return rather
// than consuming a tick.
func ReplayTick(ch byte) (input *engine.EngineInput, isCheckpointMarker bool, err error) {
	switch ch {
	case charCheckpoint:
		return nil, true, nil
	case charNoKeyChange, charContinuation:
		return nil, false, nil
	default:
		if key, ok := engine.KeyToEngineInput(ch); ok {
			return &key, false, nil
		}
		return nil, false, fmt.Errorf("save: %w: input character %q", ErrUnknownInputChar, string(ch))
	}
}
