package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/rulegrid/transport/mcp"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server proxying one session on a running 'serve' instance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Required: true, Usage: "session id to drive"},
			&cli.StringFlag{Name: "base-url", Value: "http://localhost:8080", Usage: "base URL of a running 'rulegrid serve'"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := mcp.NewClient(cmd.String("base-url"), cmd.String("session"))
			if err := server.ServeStdio(client.GetMCPServer()); err != nil {
				return fmt.Errorf("mcp: stdio server failed: %w", err)
			}
			return nil
		},
	}
}
