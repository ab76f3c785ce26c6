// Package save implements the core's save-file format: a versioned
// record of the current level, a recorded per-tick input string per
// level, and an optional checkpoint board snapshot.
//
// Usage:
//
//	rec := save.NewRecorder()
//	result := e.Tick(&input)
//	rec.RecordTick(e.CurrentLevelNum(), &input, result)
//	state := &save.State{Version: save.CurrentVersion, Level: uint8(e.CurrentLevelNum()), Inputs: rec.Inputs()}
//	save.WriteToFile(state, path)
package save
