package save

import (
	"fmt"

	"github.com/wricardo/rulegrid/game/engine"
)

// EncodeCheckpoint flattens board into the row-major list-of-sprite-names
// form the save file stores, resolving sprite ids against gameData's
// sprite table. Every slot's wants_to_move is guaranteed Stationary at
// the point a CHECKPOINT command fires (motion resolution always runs
// to quiescence before late rules can emit one), so only sprite names
// are recorded — direction has nothing to say here.
func EncodeCheckpoint(gameData *engine.GameData, board *engine.Board) [][]string {
	names := spriteNamesByID(gameData)
	snapshot := board.AsSnapshot()
	out := make([][]string, len(snapshot))
	for i, cell := range snapshot {
		cellNames := make([]string, 0, len(cell))
		for _, s := range cell {
			if name, ok := names[s.SpriteID]; ok {
				cellNames = append(cellNames, name)
			}
		}
		out[i] = cellNames
	}
	return out
}

// DecodeCheckpoint rebuilds a board of the given size from a save
// file's flat row-major sprite-name cells, resolving each name against
// gameData's sprite table. Every restored sprite starts Stationary.
func DecodeCheckpoint(gameData *engine.GameData, width, height int, cells [][]string) (*engine.Board, error) {
	idByName := make(map[string]engine.SpriteID, len(gameData.Sprites))
	layerByID := make(map[engine.SpriteID]engine.CollisionLayer, len(gameData.Sprites))
	for id, sprite := range gameData.Sprites {
		idByName[sprite.Name] = id
		layerByID[id] = sprite.Layer
	}

	snapshot := make([][]engine.CellSnapshot, len(cells))
	for i, names := range cells {
		entries := make([]engine.CellSnapshot, 0, len(names))
		for _, name := range names {
			id, ok := idByName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownSpriteName, name)
			}
			entries = append(entries, engine.CellSnapshot{
				Layer:       layerByID[id],
				SpriteID:    id,
				WantsToMove: engine.Stationary,
			})
		}
		snapshot[i] = entries
	}
	return engine.FromCheckpoint(width, height, snapshot), nil
}

func spriteNamesByID(gameData *engine.GameData) map[engine.SpriteID]string {
	names := make(map[engine.SpriteID]string, len(gameData.Sprites))
	for id, sprite := range gameData.Sprites {
		names[id] = sprite.Name
	}
	return names
}
