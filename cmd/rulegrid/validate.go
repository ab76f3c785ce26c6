package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/rulegrid/game/config"
	"github.com/wricardo/rulegrid/game/engine"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "load a ruleset and report structural/reachability diagnostics",
		ArgsUsage: "<ruleset-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dump-rules", Usage: "print every top-level rule in readable form"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("validate: expected exactly one ruleset id, got %d", cmd.Args().Len())
			}
			configDir := cmd.Root().String("config-dir")

			configManager, err := config.NewManager(configDir)
			if err != nil {
				return fmt.Errorf("validate: failed to create config manager: %w", err)
			}

			gameData, err := configManager.LoadConfig(cmd.Args().First())
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			fmt.Printf("OK: %q loaded (%d sprites, %d levels, %d top-level rules, %d win conditions)\n",
				gameData.Title, len(gameData.Sprites), len(gameData.Levels), len(gameData.Rules), len(gameData.WinConditions))

			if cmd.Bool("dump-rules") {
				dumpRules(gameData)
			}

			reportReachability(gameData)
			return nil
		},
	}
}

func dumpRules(gameData *engine.GameData) {
	fmt.Println("-- rules --")
	for _, loop := range gameData.Rules {
		for _, group := range loop.Groups {
			for _, rule := range group.Rules {
				fmt.Println(rule.String())
			}
		}
	}
}

// reportReachability prints, for every playable level and every
// declared win condition, whether at least one cell satisfying the
// condition's subject tile can be reached from the player's starting
// position via 4-directional movement over cells not already blocking
// the player's own collision layer. This is advisory: an unreachable
// goal is reported, never treated as a load failure.
func reportReachability(gameData *engine.GameData) {
	if len(gameData.WinConditions) == 0 {
		return
	}
	playerLayer, ok := onlyLayer(gameData.PlayerTile)
	if !ok {
		fmt.Println("reachability: player tile spans multiple collision layers, skipping")
		return
	}

	fmt.Println("-- reachability --")
	for levelNum, level := range gameData.Levels {
		if level.IsMessage {
			continue
		}
		board := gameData.ToBoard(level)

		start, ok := findPlayerStart(board, gameData.PlayerTile)
		if !ok {
			fmt.Printf("level %d: no unique player start, skipping\n", levelNum)
			continue
		}

		reached := floodFill(board, start, playerLayer)
		for i, wc := range gameData.WinConditions {
			if !anyReachable(board, reached, wc.Tile) {
				fmt.Printf("level %d: win condition %d's subject tile %q is unreachable from the player start\n", levelNum, i, wc.Tile.Name)
			}
		}
	}
}

func onlyLayer(tile *engine.Tile) (engine.CollisionLayer, bool) {
	if !tile.HasSingleCollisionLayer() {
		return 0, false
	}
	for layer := range tile.CollisionLayers {
		return layer, true
	}
	return 0, false
}

func findPlayerStart(board *engine.Board, playerTile *engine.Tile) (engine.Position, bool) {
	var found engine.Position
	count := 0
	for _, pos := range board.PositionsIter() {
		if board.Matches(pos, playerTile, nil) {
			found = pos
			count++
		}
	}
	return found, count == 1
}

// floodFill returns the set of positions reachable from start by
// 4-directional movement, never stepping onto a cell that already
// occupies layer (treated as blocking, the same way a wall or a crate
// blocks the player during play).
func floodFill(board *engine.Board, start engine.Position, layer engine.CollisionLayer) map[engine.Position]bool {
	visited := map[engine.Position]bool{start: true}
	queue := []engine.Position{start}
	dirs := []engine.CardinalDirection{engine.DirUp, engine.DirDown, engine.DirLeft, engine.DirRight}

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]

		for _, dir := range dirs {
			next, inBounds := board.NeighborPosition(pos, dir)
			if !inBounds || visited[next] {
				continue
			}
			if board.HasCollisionLayer(next, layer) && next != start {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return visited
}

func anyReachable(board *engine.Board, reached map[engine.Position]bool, tile *engine.Tile) bool {
	for pos := range reached {
		if board.Matches(pos, tile, nil) {
			return true
		}
	}
	return false
}
