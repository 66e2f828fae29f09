package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/cascadia/game/engine"
	"github.com/wricardo/mcp-training/cascadia/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Habitat Tile Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Habitat Tile Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Fill a shared 5x5 board with habitat tiles and wildlife tokens to score as many
points as possible. Cells are addressed by index 0..24 (index = row*5 + col).

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage games
- game_state: board, draft, current player and score
- place_tile: place a draft option or an explicit habitat/animal pair
- can_place: check whether an animal may stand on a habitat
- describe_cell: habitat, animal and neighbours of one cell
- score: score breakdown per species and habitat
- end_turn: pass without placing
- reset_game: empty the board
- placement_history: past placement attempts
- list_configs: available game setups
- game_instructions: full rules and scoring`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, draft, player and score",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name: "place_tile",
		Description: "Place a tile on an empty cell. Pass draft_index to take an option from the current draft, " +
			"or habitat (and optionally animal) to place an explicit pair. An animal that cannot stand on the " +
			"habitat is turned away but the habitat is still placed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Cell index 0..24 (row*5 + col)",
				},
				"draft_index": map[string]interface{}{
					"type":        "integer",
					"description": "Position of the draft option to place (optional)",
				},
				"habitat": map[string]interface{}{
					"type":        "string",
					"enum":        habitatNames(),
					"description": "Habitat to place when no draft_index is given",
				},
				"animal": map[string]interface{}{
					"type":        "string",
					"enum":        animalNames(),
					"description": "Animal to place on the habitat (optional)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this placement (serves as a rubber duck for your reasoning)",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handlePlaceTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "can_place",
		Description: "Check whether an animal may stand on a habitat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"habitat": map[string]interface{}{
					"type": "string",
					"enum": habitatNames(),
				},
				"animal": map[string]interface{}{
					"type": "string",
					"enum": animalNames(),
				},
			},
			Required: []string{"habitat", "animal"},
		},
	}, c.handleCanPlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one cell: its habitat, animal, neighbours and which animals could stand there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Cell index 0..24 (row*5 + col)",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "score",
		Description: "Get the score breakdown per species and per habitat",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleScore)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "Pass the turn to the next player without placing",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleEndTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to an empty board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "placement_history",
		Description: "Get placement attempts for a session, newest first by default",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type": "string",
					"enum": []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePlacementHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules and scoring",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

func habitatNames() []string {
	names := make([]string, 0, len(engine.AllHabitats))
	for _, h := range engine.AllHabitats {
		names = append(names, string(h))
	}
	return names
}

func animalNames() []string {
	names := make([]string, 0, len(engine.AllAnimals))
	for _, a := range engine.AllAnimals {
		names = append(names, string(a))
	}
	return names
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

// placeCall posts a placement. Rejected placements come back with a 4xx and
// a full result body, which is decoded instead of treated as a failure.
func (c *Client) placeCall(ctx context.Context, sessionID string, body service.PlaceRequest) (*service.PlaceResult, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+sessionPath(sessionID, "/place"), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// Plain error bodies share the "error" key with placement results
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}
	if _, ok := fields["accepted"]; !ok {
		var msg string
		if json.Unmarshal(fields["error"], &msg) == nil && msg != "" {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var result service.PlaceResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads an integer argument; JSON numbers arrive as float64. ok reports
// whether the argument was present at all.
func intArg(args map[string]interface{}, key string) (int, bool, error) {
	raw, present := args[key]
	if !present || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
			return 0, true, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < math.MinInt || n > math.MaxInt {
			return 0, true, fmt.Errorf("%s must be an integer", key)
		}
		return int(n), true, nil
	}
	return 0, true, fmt.Errorf("%s must be an integer", key)
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID := stringArg(args, "session_id")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
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

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		filled, score := 0, 0
		if s.GameState != nil {
			filled = s.GameState.Board.OccupiedCount()
			score = s.GameState.Score.Total
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Cells: %d/%d, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, filled, engine.BoardCells, score, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlaceTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	index, ok, err := intArg(args, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("index is required (0..24)"), nil
	}

	body := service.PlaceRequest{
		Index:   index,
		Habitat: stringArg(args, "habitat"),
		Animal:  stringArg(args, "animal"),
	}
	draftIndex, ok, err := intArg(args, "draft_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if ok {
		body.DraftIndex = &draftIndex
	} else if body.Habitat == "" {
		return mcp.NewToolResultError("either draft_index or habitat is required"), nil
	}

	result, err := c.placeCall(ctx, sessionID, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPlaceResult(result)), nil
}

func (c *Client) handleCanPlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	query.Set("habitat", stringArg(args, "habitat"))
	query.Set("animal", stringArg(args, "animal"))

	var info service.CompatibilityInfo
	if err := c.apiCall(ctx, "GET", "/api/rules/can-place?"+query.Encode(), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	verdict := "cannot"
	if info.Compatible {
		verdict = "can"
	}
	result := fmt.Sprintf("%s %s stand on %s.\n%s may stand on: %s",
		titleCase(string(info.Animal)), verdict, info.Habitat, titleCase(string(info.Animal)), joinHabitats(info.AllowedHabitats))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	index, ok, err := intArg(args, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("index is required (0..24)"), nil
	}
	if !engine.ValidIndex(index) {
		return mcp.NewToolResultError(fmt.Sprintf("Index %d is out of bounds. Valid cells are 0-%d.", index, engine.BoardCells-1)), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state.Board, index)), nil
}

func (c *Client) handleScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var score engine.ScoreBreakdown
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/score"), nil, &score); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatScore(&score)), nil
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/end-turn"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Turn passed to player %d.\n\n%s", state.CurrentPlayer, formatGameState(&state))), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlacementHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	query := url.Values{}
	for _, key := range []string{"page", "limit"} {
		n, ok, err := intArg(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ok {
			query.Set(key, fmt.Sprint(n))
		}
	}
	if order := stringArg(args, "order"); order != "" {
		query.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Players: %d, Draft: %d options\n\n",
			config.Name, config.ConfigID, config.Description, config.Players, config.DraftSize)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Habitat Tile Game - Complete Instructions

GAME OBJECTIVE:
Players take turns filling a shared 5x5 board. Every placement puts a habitat
tile on an empty cell, optionally with a wildlife token. The game ends when all
25 cells are filled; the final score is the score of the board.

BOARD:
Cells are numbered 0..24, row by row: index = row*5 + col.
Neighbours are the orthogonal cells (up, down, left, right). Nothing wraps.

   0  1  2  3  4
   5  6  7  8  9
  10 11 12 13 14
  15 16 17 18 19
  20 21 22 23 24

BOARD LEGEND (game_state):
Each cell is two letters. The first is the habitat, the second the animal.
• F forest, W wetland, P prairie, M mountain, R river
• b bear, s salmon, h hawk, f fox, e elk, . no animal
• -- empty cell

WHERE ANIMALS MAY STAND:
• bear:   forest, mountain
• salmon: river
• hawk:   mountain, prairie
• fox:    prairie, forest
• elk:    forest, prairie, wetland
An animal placed on any other habitat is turned away, but the habitat tile is
still placed and the cell is used up. Check with can_place first.

SCORING (recomputed from the whole board after every placement):
• Bears: every connected group of 3 or more bears scores 3 per bear.
• Salmon: every connected chain of 2 or more salmon scores 2 per salmon.
• Hawks: 5 points for each hawk with no other hawk next to it.
• Foxes: each fox scores 1 per distinct animal species next to it.
• Elk: each straight horizontal or vertical line of 2 or more elk scores 3 per
  elk. Rows and columns are scored separately, so one elk can count in both.
• Habitats: each habitat type scores the size of its largest connected area.

TURNS:
• The current player is offered a draft of habitat/animal pairs. Place one with
  place_tile and draft_index, or name a habitat and animal directly.
• After a placement the draft is redrawn and the next player moves.
• end_turn passes without placing.
• Rejected placements (occupied cell, bad index, unknown name) change nothing.

STRATEGY HINTS:
• Bears only pay off in groups of three; plan a forest/mountain cluster.
• Keep hawks apart from each other.
• Surround foxes with many different species.
• Long rivers serve both salmon chains and the river area score.

SESSION MANAGEMENT:
• Multiple sessions can run at once; each has a 4-character ID.
• Sessions keep independent boards and configurations.

Good luck building your landscape!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatBoard renders the board with row and column indices
func formatBoard(board *engine.Board) string {
	var b strings.Builder
	b.WriteString("     c0 c1 c2 c3 c4\n")
	for r, row := range board.Layout() {
		fmt.Fprintf(&b, "%2d:  %s\n", r*engine.BoardWidth, row)
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Player: %d/%d | Turn: %d | Cells: %d/%d | Score: %d\n\n",
		state.CurrentPlayer, state.Players, state.Turn,
		state.Board.OccupiedCount(), engine.BoardCells, state.Score.Total)

	b.WriteString(formatBoard(&state.Board))

	if len(state.Draft) > 0 {
		b.WriteString("\nDraft:\n")
		for i, option := range state.Draft {
			note := ""
			if option.Animal != engine.NoAnimal && !engine.CanPlace(option.Habitat, option.Animal) {
				note = " (animal will be turned away)"
			}
			fmt.Fprintf(&b, "  [%d] %s + %s%s\n", i, option.Habitat, option.Animal, note)
		}
	}

	if state.GameOver {
		fmt.Fprintf(&b, "\n🏁 BOARD COMPLETE - final score %d", state.Score.Total)
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatPlaceResult(result *service.PlaceResult) string {
	var b strings.Builder

	switch {
	case !result.Accepted:
		fmt.Fprintf(&b, "✗ Placement rejected (%s)\n", result.ErrorKind)
	case result.ErrorKind == engine.ErrorKindIncompatiblePlacement:
		fmt.Fprintf(&b, "⚠ %s placed at %d, but the %s was turned away\n", result.Habitat, result.Index, result.Animal)
	default:
		b.WriteString("✓ Placement accepted\n")
	}

	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}
	if result.Accepted {
		fmt.Fprintf(&b, "Score change: %+d\n", result.ScoreDelta)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatScore(score *engine.ScoreBreakdown) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d\n\nWildlife:\n", score.Total)
	for _, animal := range engine.AllAnimals {
		fmt.Fprintf(&b, "  %-8s %3d\n", animal, score.PerSpecies[animal])
	}
	b.WriteString("\nHabitats (largest area):\n")
	for _, habitat := range engine.AllHabitats {
		fmt.Fprintf(&b, "  %-8s %3d\n", habitat, score.PerHabitat[habitat])
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Placement history (page %d/%d, %d total):\n\n",
		history.Page, history.TotalPages, history.TotalPlacements)

	for _, entry := range history.Placements {
		status := "✓"
		switch {
		case !entry.Accepted:
			status = "✗"
		case entry.ErrorKind == engine.ErrorKindIncompatiblePlacement:
			status = "⚠"
		}

		animal := string(entry.Animal)
		if animal == "" {
			animal = "-"
		}
		line := fmt.Sprintf("#%d P%d %s idx=%d %s+%s score=%d",
			entry.Number, entry.Player, status, entry.Index, entry.Habitat, animal, entry.ScoreAfter)
		if entry.ErrorKind != engine.ErrorKindNone {
			line += " (" + string(entry.ErrorKind) + ")"
		}
		b.WriteString(line + "\n")
	}

	if history.HasNext {
		b.WriteString("\nMore entries on the next page.")
	}
	return b.String()
}

// describeCell summarises one cell and its surroundings
func describeCell(board *engine.Board, index int) string {
	cell, _ := board.Cell(index)

	var b strings.Builder
	fmt.Fprintf(&b, "Cell %d (row %d, col %d):\n", index, engine.Row(index), engine.Col(index))

	if cell.IsEmpty() {
		b.WriteString("Empty - any habitat may be placed here\n")
	} else {
		animal := "none"
		if cell.HasAnimal() {
			animal = string(cell.Animal)
		}
		fmt.Fprintf(&b, "Habitat: %s\nAnimal: %s\n", cell.Habitat, animal)
		fmt.Fprintf(&b, "Habitat area: %d cells\n", areaSize(board, cell.Habitat, index))
	}

	b.WriteString("\nNeighbours:\n")
	for _, n := range engine.Neighbors(index) {
		neighbour, _ := board.Cell(n)
		desc := "empty"
		if !neighbour.IsEmpty() {
			desc = string(neighbour.Habitat)
			if neighbour.HasAnimal() {
				desc += " + " + string(neighbour.Animal)
			}
		}
		fmt.Fprintf(&b, "  %2d: %s\n", n, desc)
	}

	if !cell.IsEmpty() && !cell.HasAnimal() {
		var fits []string
		for _, animal := range engine.AllAnimals {
			if engine.CanPlace(cell.Habitat, animal) {
				fits = append(fits, string(animal))
			}
		}
		sort.Strings(fits)
		fmt.Fprintf(&b, "\nAnimals suited to %s: %s\n", cell.Habitat, strings.Join(fits, ", "))
	}
	return b.String()
}

func areaSize(board *engine.Board, habitat engine.HabitatKind, index int) int {
	for _, area := range engine.HabitatAreas(board, habitat) {
		for _, i := range area {
			if i == index {
				return len(area)
			}
		}
	}
	return 0
}

func joinHabitats(habitats []engine.HabitatKind) string {
	names := make([]string, len(habitats))
	for i, h := range habitats {
		names[i] = string(h)
	}
	return strings.Join(names, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
