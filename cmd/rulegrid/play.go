package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/rulegrid/game/config"
	"github.com/wricardo/rulegrid/game/engine"
	"github.com/wricardo/rulegrid/game/save"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a ruleset interactively in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ruleset", Usage: "ruleset id to load (defaults to the config directory's default)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configDir := cmd.Root().String("config-dir")

			configManager, err := config.NewManager(configDir)
			if err != nil {
				return fmt.Errorf("play: failed to create config manager: %w", err)
			}

			gameData := configManager.GetDefault()
			if rulesetID := cmd.String("ruleset"); rulesetID != "" {
				gameData, err = configManager.LoadConfig(rulesetID)
				if err != nil {
					return fmt.Errorf("play: failed to load ruleset %q: %w", rulesetID, err)
				}
			}

			runPlayLoop(gameData)
			return nil
		},
	}
}

// runPlayLoop drives one engine from stdin until the player quits or
// runs out of levels. Each line of input is one input token: a
// direction word (up/down/left/right/action), a single save-alphabet
// key (w/s/a/d/x/z/r), or "q"/"quit" to exit.
func runPlayLoop(gameData *engine.GameData) {
	e := engine.NewEngine(gameData)
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s\n", gameData.Title)
	renderLevel(e)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		token := strings.ToLower(line)
		if token == "q" || token == "quit" || token == "exit" {
			return
		}

		input, ok := parsePlayToken(token)
		if !ok {
			fmt.Printf("unrecognized input %q (try up/down/left/right/action/undo/restart/quit)\n", line)
			continue
		}

		result := e.Tick(&input)
		if result.CompletedLevel != nil {
			if !e.NextLevel() {
				fmt.Println("You win!")
				return
			}
		}
		renderLevel(e)
		if !result.AcceptingInput {
			fmt.Println("No further input accepted this tick.")
		}
	}
}

func parsePlayToken(token string) (engine.EngineInput, bool) {
	switch token {
	case "up", "w":
		return engine.EngineUp, true
	case "down", "s":
		return engine.EngineDown, true
	case "left", "a":
		return engine.EngineLeft, true
	case "right", "d":
		return engine.EngineRight, true
	case "action", "x":
		return engine.EngineAction, true
	case "undo", "z":
		return engine.EngineUndo, true
	case "restart", "r":
		return engine.EngineRestart, true
	default:
		return 0, false
	}
}

// renderLevel prints the current level: its message, or its board as
// one row per line with each cell's occupying sprite names bracketed.
func renderLevel(e *engine.Engine) {
	current := e.CurrentLevel()
	fmt.Printf("-- level %d --\n", e.CurrentLevelNum())
	if current.IsMessage {
		fmt.Println(current.Message)
		return
	}

	board := current.Board
	cells := save.EncodeCheckpoint(e.GameData(), board)
	var b strings.Builder
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			names := cells[y*board.Width+x]
			if len(names) == 0 {
				b.WriteString("[ ]")
				continue
			}
			fmt.Fprintf(&b, "[%s]", strings.Join(names, ","))
		}
		b.WriteString("\n")
	}
	fmt.Print(b.String())
}
