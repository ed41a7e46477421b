package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/maze-runner/game/engine"
	"github.com/wricardo/maze-runner/game/maze"
	"github.com/wricardo/maze-runner/game/service"
)

const serverVersion = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Runner",
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Runner - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk from the start room S (top-left) to the end room E (bottom-right) of a
randomly generated maze. Each level adds two rows and two columns.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage sessions
- game_state: current maze and player position
- move / bulk_move: walk the maze (explain your intent!)
- new_maze: regenerate the maze at the current level
- next_level: grow the maze by one level
- set_initial_size / set_cell_size / resize_viewport: sizing controls
- move_history: past moves
- list_configs: available presets
- game_instructions: full rules
- describe_cell: inspect a single cell

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionOnly(description string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		Required: []string{"session_id"},
	}
}

func noArgs() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

func sizeSchema(field, description string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Session ID",
			},
			field: map[string]interface{}{
				"type":        "integer",
				"description": description,
			},
		},
		Required: []string{"session_id", field},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new maze session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID from list_configs (optional, e.g. classic, tiny)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active maze sessions",
		InputSchema: noArgs(),
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnly("Session ID to retrieve"),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current maze, player position, level and sizes",
		InputSchema: sessionOnly("Session ID"),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"regenerate": map[string]interface{}{
					"type":        "boolean",
					"description": "Generate a fresh maze before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence. Blocked moves are skipped; the sequence stops when the end is reached.", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"regenerate": map[string]interface{}{
					"type":        "boolean",
					"description": "Generate a fresh maze before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_maze",
		Description: "Generate a fresh maze at the current level; the player returns to the start",
		InputSchema: sessionOnly("Session ID"),
	}, c.handleNewMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_level",
		Description: "Advance one level: the maze grows by two cells per side and is regenerated",
		InputSchema: sessionOnly("Session ID"),
	}, c.handleNextLevel)

	// Sizing
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_initial_size",
		Description: "Set the level-1 maze size (clamped to 5..51, rounded down to odd). Applied immediately on level 1, otherwise on the next new maze.",
		InputSchema: sizeSchema("size", "Initial maze size"),
	}, c.handleSetInitialSize)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_cell_size",
		Description: "Set the preferred display cell size in pixels (clamped to 1..30)",
		InputSchema: sizeSchema("size", "Preferred cell size"),
	}, c.handleSetCellSize)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resize_viewport",
		Description: "Report a new viewport width; the display cell size is refitted",
		InputSchema: sizeSchema("width", "Viewport width in pixels"),
	}, c.handleResizeViewport)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: noArgs(),
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: noArgs(),
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific cell in the grid: wall or open, start, end or player.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers. JSON numbers arrive as float64.

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]string{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level := 0
		if s.GameState != nil {
			level = s.GameState.Level
		}
		fmt.Fprintf(&result, "- %s (Config: %s, Level: %d, Created: %s)\n",
			s.ID, s.ConfigName, level, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	// intent is not forwarded to the API
	body := map[string]interface{}{
		"direction":  stringArg(args, "direction"),
		"regenerate": boolArg(args, "regenerate"),
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	var moves []string
	switch raw := args["moves"].(type) {
	case []interface{}:
		for _, m := range raw {
			if move, ok := m.(string); ok {
				moves = append(moves, move)
			}
		}
	case []string:
		moves = raw
	}

	body := map[string]interface{}{
		"moves":      moves,
		"regenerate": boolArg(args, "regenerate"),
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleNewMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/generate"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("New maze generated.\n\n%s", formatGameState(response.State))), nil
}

func (c *Client) handleNextLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var result service.LevelResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/next-level"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var header string
	if result.Advanced {
		header = fmt.Sprintf("⬆ Level %d of %d", result.Level, result.MaxLevel)
	} else {
		header = fmt.Sprintf("Already at the largest maze (level %d of %d): %s", result.Level, result.MaxLevel, result.Message)
	}
	return mcp.NewToolResultText(header + "\n\n" + formatGameState(result.GameState)), nil
}

func (c *Client) sizing(ctx context.Context, request mcp.CallToolRequest, field, suffix string) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	n, ok := intArg(args, field)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s must be an integer", field)), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, suffix), map[string]int{field: n}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSizing(&state)), nil
}

func (c *Client) handleSetInitialSize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.sizing(ctx, request, "size", "/initial-size")
}

func (c *Client) handleSetCellSize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.sizing(ctx, request, "size", "/cell-size")
}

func (c *Client) handleResizeViewport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.sizing(ctx, request, "width", "/viewport")
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := stringArg(args, "order"); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// Current segment comes from live state; history alone is enough on failure
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Presets:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&result, "• %s (config_id: %s)\n  %s\n  Start size: %dx%d, Cell size: %d",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.InitialSize, cfg.InitialSize, cfg.CellSize)
		if cfg.Seed != 0 {
			fmt.Fprintf(&result, ", Seed: %d", cfg.Seed)
		}
		result.WriteString("\n\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Maze Runner - Complete Instructions

GAME OBJECTIVE:
Walk from the start room S to the end room E. S is always at (1,1) and E at
(size-2, size-2). Every maze is perfect: exactly one path connects any two
open cells, so there are no loops and no unreachable rooms.

GRID LEGEND:
• # = Wall (impassable; the outer border is always wall)
• . = Open cell
• S = Start room
• E = End room (goal)
• @ = You

COORDINATES:
x grows to the right, y grows downward. (0,0) is the top-left corner.
up = y-1, down = y+1, left = x-1, right = x+1.

LEVELS:
• Level 1 uses the initial size (default 5x5).
• Each level adds 2 to the size: size = initial_size + (level-1)*2.
• The largest maze is %dx%d (level %d with a 5x5 start).
• next_level grows the maze; new_maze keeps the size and redraws it.

MOVEMENT COMMANDS:
• move: one step. Result signal is moved, blocked (wall) or won.
  Trying to leave the grid does nothing and returns no signal.
• bulk_move: up to %d steps. Walls are skipped over, the sequence
  stops as soon as you reach E.
• Both accept regenerate=true to start on a fresh maze.

STRATEGY FOR AI AGENTS:
• Read local_view_3x3 first: it is centred on you (@).
• Use the right-hand rule: keep a wall on your right and you will reach E
  in any perfect maze.
• Prefer bulk_move along long corridors; check possible_moves afterwards.
• Use describe_cell when unsure about a character in the grid.

VICTORY CONDITIONS:
Stepping onto E wins the maze. The session stays won until a new maze is
generated (new_maze, next_level or regenerate=true).

Good luck finding the exit!`, maze.MaxSize, maze.MaxSize, engine.MaxLevel, engine.MaxBulkMoves)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	gridSize := len(state.Grid)
	if x < 0 || x >= gridSize || y < 0 || y >= gridSize {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid size is %dx%d (0-%d for both x and y)",
			x, y, gridSize, gridSize, gridSize-1)), nil
	}

	return mcp.NewToolResultText(describeCell(&state, x, y)), nil
}

func describeCell(state *engine.GameState, x, y int) string {
	cell := state.Grid[y][x]

	var char, cellType, description string
	switch {
	case cell.IsWall:
		char, cellType, description = "#", "Wall", "Wall - IMPASSABLE"
	case cell.IsStart:
		char, cellType, description = "S", "Start", "Start room - where every maze begins"
	case cell.IsEnd:
		char, cellType, description = "E", "End", "End room - reach it to win"
	default:
		char, cellType, description = ".", "Open", "Open cell - safe to walk"
	}
	passable := !cell.IsWall

	if x == state.PlayerPos.X && y == state.PlayerPos.Y {
		char = "@"
		description = "Your current position (" + strings.ToLower(cellType) + " cell)"
	}

	distance := engine.ManhattanDistance(engine.Position{X: x, Y: y}, state.End())

	return fmt.Sprintf(`Cell at position (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
Type: %s
Passable: %v
Description: %s
Manhattan distance to E: %d`,
		x, y, char, cellType, passable, description, distance)
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// gridOf wraps a snapshot's cells so maze.Render can draw them
func gridOf(state *engine.GameState) *maze.Grid {
	return &maze.Grid{Size: len(state.Grid), Cells: state.Grid}
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Level: %d/%d | Size: %dx%d | Position: (%d,%d) | Goal: (%d,%d) | Moves: %d\n\n",
		state.Level, state.MaxLevel,
		state.CurrentSize, state.CurrentSize,
		state.PlayerPos.X, state.PlayerPos.Y,
		state.End().X, state.End().Y,
		state.TotalMoves)

	if len(state.LocalView3x3) == 3 {
		result.WriteString("Local 3x3:\n")
		for _, row := range state.LocalView3x3 {
			result.WriteString(row + "\n")
		}
		result.WriteString("\n")
	}

	player := state.PlayerPos
	for _, row := range maze.Render(gridOf(state), &player) {
		result.WriteString(row + "\n")
	}

	if state.HasWon {
		result.WriteString("\n🎉 VICTORY!")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatSizing(state *engine.GameState) string {
	return fmt.Sprintf("Initial size: %d | Current size: %d | Cell size: %d (display %d) | Viewport: %d",
		state.InitialSize, state.CurrentSize, state.PreferredCellSize, state.DisplayCellSize, state.ViewportWidth)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	switch {
	case result.Signal == engine.SignalWon:
		b.WriteString("🎉 Reached the exit!\n")
	case result.Success:
		b.WriteString("✓ Move successful\n")
	default:
		b.WriteString("✗ Move failed\n")
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s (%d,%d)->(%d,%d)\n", s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Attempted: (%d,%d) is %s\n", a.X, a.Y, a.TileType)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Bulk move for session %s: executed %d/%d, blocked %d\n",
		sessionID, result.MovesExecuted, result.RequestedMoves, result.Blocked)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to the first %d moves\n", result.Limit)
	}
	if result.StopReasonCode != "" {
		fmt.Fprintf(&b, "Stopped: %s on move %d\n", result.StopReasonCode, result.StoppedOnMove)
	}
	fmt.Fprintf(&b, "Start: (%d,%d) End: (%d,%d)\n", result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "  %2d. %-5s (%d,%d)->(%d,%d) %s\n", s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, signalLabel(s.Signal))
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}

	if result.Won {
		b.WriteString("\n🎉 VICTORY!\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func signalLabel(signal engine.Signal) string {
	if signal == engine.SignalNone {
		return "out-of-bounds"
	}
	return string(signal)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (page %d/%d, %d total):\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, m := range history.Moves {
		fmt.Fprintf(&b, "  #%d L%d %-5s (%d,%d)->(%d,%d) %s\n",
			m.MoveNumber, m.Level, m.Action,
			m.FromPosition.X, m.FromPosition.Y, m.ToPosition.X, m.ToPosition.Y,
			signalLabel(m.Signal))
	}
	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Current maze: %d moves", state.CurrentMovesCount)
	if n := len(state.CurrentMoves); n > 0 {
		dirs := make([]string, 0, n)
		for _, m := range state.CurrentMoves {
			dirs = append(dirs, m.Action)
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(dirs, " "))
	}
	b.WriteString("\n")
	return b.String()
}
