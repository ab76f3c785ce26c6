// Command rulegrid is the CLI entrypoint for the tile-rewrite puzzle
// engine: play a ruleset interactively in the terminal, serve it over
// a local REST+WebSocket API, validate a ruleset's structure and
// reachability before shipping it, or drive a running server's session
// over MCP for an agent to play.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/rulegrid/game/config"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("rulegrid: warning: error loading .env file: %v", err)
		}
	}

	root := &cli.Command{
		Name:    "rulegrid",
		Usage:   "a declarative tile-rewrite puzzle engine",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: config.ResolveConfigDir(),
				Usage: "directory containing ruleset JSON files",
			},
		},
		Commands: []*cli.Command{
			playCommand(),
			serveCommand(),
			validateCommand(),
			mcpCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
