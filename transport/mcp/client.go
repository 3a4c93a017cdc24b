package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
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
		baseURL: baseURL,
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
		"Flying Chess",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Flying Chess - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Players take turns rolling a die and race along a linear board from the start
square to the finish square. Reward squares push a player forward, penalty
squares push them back.

AVAILABLE TOOLS:
- create_game: Create a new game, optionally with players and a map
- list_games: List all games
- game_state: Show a game's board, players and last roll
- set_players: Choose 2-4 players before the game starts
- start_game: Start the game on a map
- roll_dice: Roll for the current player
- reset_game: Back to setup
- list_maps: List boards with their reward and penalty counts
- list_libraries: List option text libraries
- apply_options: Fill a map's normal squares from a library
- randomize_specials: Scatter reward and penalty squares on a map
- game_instructions: Full rules and board legend`),
	)

	// Register all tools
	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Game session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Games
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game. When players is given the roster is set, and when map_id is also given the game starts right away.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"players": map[string]interface{}{
					"type":        "integer",
					"minimum":     2,
					"maximum":     4,
					"description": "Number of players (optional)",
				},
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map to start on (optional, requires players)",
				},
			},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games, most recently used first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with a rendering of the board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_players",
		Description: "Set the roster of a game in setup. Everyone starts on square 0.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"count": map[string]interface{}{
					"type":        "integer",
					"minimum":     2,
					"maximum":     4,
					"description": "Number of players",
				},
				"names": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Player names in turn order (optional)",
				},
			},
			Required: []string{"session_id", "count"},
		},
	}, c.handleSetPlayers)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a game on a map. The game keeps its own copy of the map.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID from list_maps",
				},
			},
			Required: []string{"session_id", "map_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the die for the current player and apply the square they land on",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to setup, clearing players and map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	// Catalog
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_libraries",
		Description: "List option text libraries",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLibraries)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "apply_options",
		Description: "Write texts from an options library onto every normal square of a map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID",
				},
				"library_id": map[string]interface{}{
					"type":        "string",
					"description": "Options library ID",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"random", "sequential"},
					"description": "random draws with replacement, sequential cycles in order",
				},
			},
			Required: []string{"map_id", "library_id"},
		},
	}, c.handleApplyOptions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "randomize_specials",
		Description: "Place reward and penalty squares at random interior positions of a map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map ID",
				},
				"rewards": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"description": "Number of reward squares",
				},
				"penalties": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"description": "Number of penalty squares",
				},
			},
			Required: []string{"map_id", "rewards", "penalties"},
		},
	}, c.handleRandomizeSpecials)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and the board legend",
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

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
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
