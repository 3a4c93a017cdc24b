package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
)

// stringArg returns a trimmed string argument, or "" when absent
func stringArg(request mcp.CallToolRequest, key string) string {
	return strings.TrimSpace(request.GetString(key, ""))
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func mapPath(mapID, suffix string) string {
	return "/api/maps/" + url.PathEscape(mapID) + suffix
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	players, err := request.RequireInt("players")
	hasPlayers := err == nil
	mapID := stringArg(request, "map_id")

	if mapID != "" && !hasPlayers {
		return mcp.NewToolResultError("map_id requires players"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !hasPlayers {
		return mcp.NewToolResultText(formatSessionInfo(&session)), nil
	}

	var state engine.GameState
	playersBody := map[string]interface{}{"count": players}
	if err := c.apiCall(ctx, "POST", sessionPath(session.ID, "/players"), playersBody, &state); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Created game %s but could not set players: %v", session.ID, err)), nil
	}

	if mapID != "" {
		state = engine.GameState{}
		startBody := map[string]string{"map_id": mapID}
		if err := c.apiCall(ctx, "POST", sessionPath(session.ID, "/start"), startBody, &state); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Created game %s but could not start it: %v", session.ID, err)), nil
		}
	}

	result := fmt.Sprintf("Created game: %s\n\n%s", session.ID, formatGameState(&state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Games (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase, players := engine.PhaseSetup, 0
		if s.GameState != nil {
			phase, players = s.GameState.Phase, len(s.GameState.Players)
		}
		fmt.Fprintf(&result, "- %s (%s, %d players, last used %s)\n",
			s.ID, phase, players, s.LastAccessedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSetPlayers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	count, err := request.RequireInt("count")
	if err != nil {
		return mcp.NewToolResultError("count is required"), nil
	}

	body := map[string]interface{}{
		"count": count,
		"names": request.GetStringSlice("names", []string{}),
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/players"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	body := map[string]string{"map_id": stringArg(request, "map_id")}

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/start"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	var result service.RollResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/roll"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRollResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatGameState(response.State)), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []service.MapInfo
	if err := c.apiCall(ctx, "GET", "/api/maps", nil, &maps); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Maps (%d):\n\n", len(maps))
	for _, m := range maps {
		fmt.Fprintf(&result, "- %s: %s (%d squares, %d rewards, %d penalties)\n",
			m.ID, m.Name, m.TotalSquares, m.Rewards, m.Penalties)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleListLibraries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var libraries []service.LibraryInfo
	if err := c.apiCall(ctx, "GET", "/api/libraries", nil, &libraries); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Options libraries (%d):\n\n", len(libraries))
	for _, lib := range libraries {
		fmt.Fprintf(&result, "- %s: %s (%d options)\n", lib.ID, lib.Name, lib.OptionCount)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleApplyOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{
		"library_id": stringArg(request, "library_id"),
		"mode":       stringArg(request, "mode"),
	}

	var m engine.Map
	if err := c.apiCall(ctx, "POST", mapPath(stringArg(request, "map_id"), "/options"), body, &m); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMap(&m)), nil
}

func (c *Client) handleRandomizeSpecials(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rewards, errRewards := request.RequireInt("rewards")
	penalties, errPenalties := request.RequireInt("penalties")
	if errRewards != nil || errPenalties != nil {
		return mcp.NewToolResultError("rewards and penalties are required"), nil
	}

	body := map[string]int{"rewards": rewards, "penalties": penalties}

	var m engine.Map
	if err := c.apiCall(ctx, "POST", mapPath(stringArg(request, "map_id"), "/specials"), body, &m); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMap(&m)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Flying Chess - Complete Instructions

GAME OBJECTIVE:
Race from the start square (index 0) to the finish square (the last index).

SETUP:
1. create_game, then set_players with %d to %d players
2. list_maps and start_game with a map_id
3. Optional authoring before starting: apply_options writes texts from an
   options library onto normal squares, randomize_specials scatters reward
   and penalty squares

TURNS:
- roll_dice rolls 1-%d for the current player and moves them forward
- Moving past the finish stops on the finish
- Landing on a reward square (+N) moves N more squares forward
- Landing on a penalty square (-N) moves N squares back, never below 0
- Only the square you land on with the die counts; the square reached by a
  reward or penalty does not trigger again
- Landing on a normal square shows its text
- The turn then passes to the next player, including players who already
  finished; a finished player who rolls stays on the finish
- Rolling while the game is not being played does nothing

BOARD LEGEND (game_state):
  S   start square
  F   finish square
  +N  reward square
  -N  penalty square
  .   normal square
  1-4 player IDs standing on a square

The board is drawn in rows of 10, snaking left-to-right then right-to-left,
with the square indices of each row on the left.`, engine.MinPlayers, engine.MaxPlayers, engine.DiceFaces)

	return mcp.NewToolResultText(instructions), nil
}
