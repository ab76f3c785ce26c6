package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/rulegrid/game/service"
)

// Client is a thin MCP client that proxies to the REST API so an AI
// agent can drive one local session the same way a human would
// through the CLI: move, undo, restart, read state, and list or look up
// rulesets. There is no rule-editing or scripting tool here.
type Client struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client calling the REST API at baseURL
// and driving sessionID. Callers create the session themselves (e.g.
// via the REST API or CLI) before handing its id to the MCP server.
func NewClient(baseURL, sessionID string) *Client {
	c := &Client{
		baseURL:   baseURL,
		sessionID: sessionID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"rulegrid",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`rulegrid - tile-rewrite puzzle engine

This is a thin client that proxies all requests to the REST API server
for a single session. Use 'state' to see the current board or message,
'move' to send a directional or action input, 'undo'/'restart' to back
out of a mistake, and 'load_config' to list rulesets or look one up by id
(it does not change the session's ruleset).`),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "state",
		Description: "Get the current board (or message) for the session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Send a directional or action input to the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "action"},
					"description": "Input to send",
				},
			},
			Required: []string{"direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Undo the last move",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Restart the current level",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_config",
		Description: "List available rulesets, or look one up by id (the session keeps its current ruleset)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Ruleset id to load (omit to just list what's available)",
				},
			},
		},
	}, c.handleLoadConfig)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("api error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func argString(request mcp.CallToolRequest, key string) string {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := args[key].(string)
	return s
}

// Tool handlers

func (c *Client) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state service.StateInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", c.sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	direction := argString(request, "direction")

	body := map[string]string{"direction": direction}
	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", c.sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/undo", c.sessionID), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/restart", c.sessionID), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleLoadConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID := argString(request, "config_id")

	if configID == "" {
		var configs []service.ConfigInfo
		if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatConfigList(configs)), nil
	}

	var gameData map[string]interface{}
	path := fmt.Sprintf("/api/configs/%s", configID)
	if err := c.apiCall("GET", path, nil, &gameData); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Loaded ruleset %q. Create a new session with config_id=%q to play it.", configID, configID)), nil
}

// Formatting helpers

func formatState(state *service.StateInfo) string {
	if state.IsMessage {
		return fmt.Sprintf("Level %d (message): %s", state.Level, state.Message)
	}
	if state.Board == nil {
		return fmt.Sprintf("Level %d: no board available", state.Level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level %d, board %dx%d:\n", state.Level, state.Board.Width, state.Board.Height)
	for _, row := range state.Board.Cells {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Changed {
		b.WriteString("Board changed.\n")
	} else {
		b.WriteString("No change.\n")
	}
	if result.CompletedLevel != nil {
		fmt.Fprintf(&b, "Completed level %d.\n", *result.CompletedLevel)
	}
	if result.Checkpoint {
		b.WriteString("Checkpoint saved.\n")
	}
	if !result.AcceptingInput {
		b.WriteString("No further input is accepted (run out).\n")
	}
	if result.Sfx {
		b.WriteString("A sound effect fired.\n")
	}
	if result.State != nil {
		b.WriteString("\n")
		b.WriteString(formatState(result.State))
	}
	return b.String()
}

func formatConfigList(configs []service.ConfigInfo) string {
	if len(configs) == 0 {
		return "No rulesets available."
	}
	var b strings.Builder
	b.WriteString("Available rulesets:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %q (%d levels, %d sprites)\n", cfg.ConfigID, cfg.Title, cfg.Levels, cfg.Sprites)
	}
	return b.String()
}
