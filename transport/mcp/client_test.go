package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
)

func testMap(t *testing.T) *engine.Map {
	t.Helper()
	two, three := 2, 3
	m, err := engine.BuildMap(engine.MapEdit{
		Name:         "Test board",
		TotalSquares: 12,
		Grid: []engine.RawSquare{
			{Type: "start"},
			{Type: "normal"},
			{Type: "reward", Value: &two},
			{Type: "normal"},
			{Type: "penalty", Value: &three},
		},
	})
	if err != nil {
		t.Fatalf("BuildMap failed: %v", err)
	}
	return m
}

func testPlayingState(t *testing.T) *engine.GameState {
	state := engine.NewGameState()
	state, err := state.SetPlayers(2, []string{"Ann", "Bob"})
	if err != nil {
		t.Fatalf("SetPlayers failed: %v", err)
	}
	state, err = state.StartGame(testMap(t))
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	return &state
}

func callTool(t *testing.T, c *Client, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"create_game":        c.handleCreateGame,
		"list_games":         c.handleListGames,
		"game_state":         c.handleGameState,
		"set_players":        c.handleSetPlayers,
		"start_game":         c.handleStartGame,
		"roll_dice":          c.handleRollDice,
		"reset_game":         c.handleReset,
		"list_maps":          c.handleListMaps,
		"list_libraries":     c.handleListLibraries,
		"apply_options":      c.handleApplyOptions,
		"randomize_specials": c.handleRandomizeSpecials,
		"game_instructions":  c.handleGameInstructions,
	}
	handler, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool %s", name)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s returned error: %v", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("%s returned no content", name)
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"echo": body["count"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]int
	err := client.apiCall(context.Background(), "POST", "/api", map[string]int{"count": 3}, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["echo"] != 3 {
		t.Errorf("Expected echo 3, got %d", response["echo"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	if err := client.apiCall(ctx, "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found", "code": "session_not_found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api/sessions/nope", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("Expected API error message, got: %v", err)
	}
}

func TestClient_createGame(t *testing.T) {
	var calls []string
	state := testPlayingState(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/sessions":
			json.NewEncoder(w).Encode(service.SessionInfo{ID: "ab12", GameState: &engine.GameState{Phase: engine.PhaseSetup}})
		case "/api/sessions/ab12/players":
			var req struct {
				Count int `json:"count"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Count != 2 {
				t.Errorf("Expected count 2, got %d", req.Count)
			}
			setup := engine.GameState{Phase: engine.PhaseSetup, Players: state.Players}
			json.NewEncoder(w).Encode(setup)
		case "/api/sessions/ab12/start":
			var req struct {
				MapID string `json:"map_id"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.MapID != "classic" {
				t.Errorf("Expected map_id classic, got %q", req.MapID)
			}
			json.NewEncoder(w).Encode(state)
		default:
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result := callTool(t, client, "create_game", map[string]interface{}{
		"players": float64(2),
		"map_id":  "classic",
	})

	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result))
	}

	expected := []string{"POST /api/sessions", "POST /api/sessions/ab12/players", "POST /api/sessions/ab12/start"}
	if strings.Join(calls, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected calls %v, got %v", expected, calls)
	}

	text := resultText(t, result)
	for _, want := range []string{"Created game: ab12", "Phase: playing", "Ann", "Bob"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result:\n%s", want, text)
		}
	}
}

func TestClient_createGame_MapWithoutPlayers(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	result := callTool(t, client, "create_game", map[string]interface{}{"map_id": "classic"})
	if !result.IsError {
		t.Error("Expected error result when map_id is given without players")
	}
}

func TestClient_rollDice(t *testing.T) {
	state := testPlayingState(t)
	state.Players[0].Position = 4
	state.CurrentPlayerIndex = 1
	state.Rolls = 1
	event := &engine.Event{PlayerID: 1, Player: "Ann", Dice: 2, Kind: engine.EventReward, From: 0, To: 4, Text: "Ann moves 2 more"}
	state.LastEvent = event

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/ab12/roll" {
			t.Errorf("Expected POST /api/sessions/ab12/roll, got %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(service.RollResult{Rolled: true, Event: event, GameState: state})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text := resultText(t, callTool(t, client, "roll_dice", map[string]interface{}{"session_id": "ab12"}))

	for _, want := range []string{"Ann rolled 2, 0 -> 4 [reward]", "> 2. Bob", "Rolls: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result:\n%s", want, text)
		}
	}
}

func TestClient_rollDice_NotPlaying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.RollResult{Rolled: false, GameState: &engine.GameState{Phase: engine.PhaseSetup}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text := resultText(t, callTool(t, client, "roll_dice", map[string]interface{}{"session_id": "ab12"}))

	if !strings.Contains(text, "not being played") {
		t.Errorf("Expected no-op notice, got:\n%s", text)
	}
}

func TestClient_setPlayersError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Count int      `json:"count"`
			Names []string `json:"names"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Names) != 1 || req.Names[0] != "Ann" {
			t.Errorf("Expected names [Ann], got %v", req.Names)
		}

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid player count: 7", "code": "invalid_player_count"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result := callTool(t, client, "set_players", map[string]interface{}{
		"session_id": "ab12",
		"count":      float64(7),
		"names":      []interface{}{"Ann"},
	})

	if !result.IsError {
		t.Fatal("Expected error result")
	}
	if !strings.Contains(resultText(t, result), "invalid player count") {
		t.Errorf("Expected API error message, got %q", resultText(t, result))
	}
}

func TestClient_setPlayersArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/players" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req struct {
			Count int      `json:"count"`
			Names []string `json:"names"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Count != 3 {
			t.Errorf("Expected count 3, got %d", req.Count)
		}
		if req.Names == nil || len(req.Names) != 0 {
			t.Errorf("Expected an empty names list, got %v", req.Names)
		}
		json.NewEncoder(w).Encode(engine.GameState{Phase: engine.PhaseSetup})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	// Counts sent as strings are accepted; session ids are trimmed
	result := callTool(t, client, "set_players", map[string]interface{}{
		"session_id": " ab12 ",
		"count":      "3",
	})
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result))
	}

	missing := callTool(t, client, "set_players", map[string]interface{}{"session_id": "ab12"})
	if !missing.IsError || !strings.Contains(resultText(t, missing), "count is required") {
		t.Errorf("Expected missing count error, got %q", resultText(t, missing))
	}
}

func TestClient_listMapsAndLibraries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/maps":
			json.NewEncoder(w).Encode([]service.MapInfo{{ID: "m1", Name: "Classic", TotalSquares: 60, Rewards: 1, Penalties: 1}})
		case "/api/libraries":
			json.NewEncoder(w).Encode([]service.LibraryInfo{{ID: "l1", Name: "Jokes", OptionCount: 3}})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	maps := resultText(t, callTool(t, client, "list_maps", nil))
	if !strings.Contains(maps, "m1: Classic (60 squares, 1 rewards, 1 penalties)") {
		t.Errorf("Unexpected maps listing:\n%s", maps)
	}

	libs := resultText(t, callTool(t, client, "list_libraries", nil))
	if !strings.Contains(libs, "l1: Jokes (3 options)") {
		t.Errorf("Unexpected libraries listing:\n%s", libs)
	}
}

func TestClient_randomizeSpecials(t *testing.T) {
	m := testMap(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/maps/"+m.ID+"/specials" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req map[string]int
		json.NewDecoder(r.Body).Decode(&req)
		if req["rewards"] != 1 || req["penalties"] != 1 {
			t.Errorf("Unexpected body %v", req)
		}
		json.NewEncoder(w).Encode(m)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	missing := callTool(t, client, "randomize_specials", map[string]interface{}{"map_id": m.ID})
	if !missing.IsError {
		t.Error("Expected error result without counts")
	}

	text := resultText(t, callTool(t, client, "randomize_specials", map[string]interface{}{
		"map_id":    m.ID,
		"rewards":   float64(1),
		"penalties": float64(1),
	}))
	if !strings.Contains(text, "1 rewards, 1 penalties") {
		t.Errorf("Unexpected map summary:\n%s", text)
	}
}

func TestClient_gameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	text := resultText(t, callTool(t, client, "game_instructions", nil))

	for _, want := range []string{"roll_dice", "BOARD LEGEND", "2 to 4 players"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}

func TestFormatGameState(t *testing.T) {
	state := testPlayingState(t)
	state.Players[1].Position = 2

	result := formatGameState(state)

	for _, want := range []string{
		"Phase: playing | Rolls: 0 | Map: Test board (12 squares)",
		"> 1. Ann at square 0",
		"  2. Bob at square 2",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in:\n%s", want, result)
		}
	}
}

func TestFormatGameState_Nil(t *testing.T) {
	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatGameState_Finished(t *testing.T) {
	state := testPlayingState(t)
	state.Phase = engine.PhaseFinished
	state.Players[0].Position = 11
	state.Players[1].Position = 11

	result := formatGameState(state)

	if strings.Contains(result, "> 1.") {
		t.Error("No current player marker expected once finished")
	}
	if strings.Count(result, "(finished)") != 2 {
		t.Errorf("Expected both players finished:\n%s", result)
	}
}

func TestFormatBoard(t *testing.T) {
	m := testMap(t)
	players := []engine.Player{{ID: 1, Position: 0}, {ID: 2, Position: 0}, {ID: 3, Position: 11}}

	lines := strings.Split(strings.TrimRight(formatBoard(m, players), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 rows, got %d:\n%s", len(lines), strings.Join(lines, "\n"))
	}

	first := strings.Fields(lines[0])
	// Row label, then squares 0-9
	if first[0] != "0-9" || first[1] != "12" || first[3] != "+2" || first[5] != "-3" {
		t.Errorf("Unexpected first row: %q", lines[0])
	}

	// Second row runs right-to-left: 11 then 10
	second := strings.Fields(lines[1])
	if second[0] != "10-11" || second[1] != "3" || second[2] != "." {
		t.Errorf("Unexpected second row: %q", lines[1])
	}
}

func TestSquareToken(t *testing.T) {
	tests := []struct {
		square engine.Square
		want   string
	}{
		{engine.Square{Kind: engine.Start}, "S"},
		{engine.Square{Kind: engine.Finish}, "F"},
		{engine.Square{Kind: engine.Reward, Value: 3}, "+3"},
		{engine.Square{Kind: engine.Penalty, Value: 2}, "-2"},
		{engine.Square{Kind: engine.Normal, Text: "hi"}, "."},
	}

	for _, tt := range tests {
		if got := squareToken(tt.square); got != tt.want {
			t.Errorf("squareToken(%v) = %q, want %q", tt.square.Kind, got, tt.want)
		}
	}
}
