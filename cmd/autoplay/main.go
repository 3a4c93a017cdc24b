// Command autoplay drives a flying chess game through the REST API until a
// player reaches the finish. It is useful for smoke testing a running server
// and for watching a game unfold on a shared board: every roll is broadcast
// to WebSocket watchers like a manual one.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
)

// ErrRollLimit is returned when nobody finishes within the roll budget
var ErrRollLimit = errors.New("roll limit reached")

// Client is a minimal REST client for one game session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client plays in
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession opens a new session and plays in it from now on
func (c *Client) CreateSession(ctx context.Context) (*engine.GameState, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", nil, &session); err != nil {
		return nil, err
	}
	c.sessionID = session.ID
	return session.GameState, nil
}

// UseSession continues an existing session
func (c *Client) UseSession(ctx context.Context, id string) (*engine.GameState, error) {
	c.sessionID = id
	return c.GetState(ctx)
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) SetPlayers(ctx context.Context, count int) (*engine.GameState, error) {
	var state engine.GameState
	body := map[string]int{"count": count}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/players"), body, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// StartGame starts on mapID, or on the first catalog map when mapID is empty
func (c *Client) StartGame(ctx context.Context, mapID string) (*engine.GameState, error) {
	if mapID == "" {
		var maps []service.MapInfo
		if err := c.do(ctx, http.MethodGet, "/api/maps", nil, &maps); err != nil {
			return nil, err
		}
		if len(maps) == 0 {
			return nil, errors.New("the server has no maps")
		}
		mapID = maps[0].ID
	}

	var state engine.GameState
	body := map[string]string{"map_id": mapID}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/start"), body, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Roll(ctx context.Context) (*service.RollResult, error) {
	var result service.RollResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/roll"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PlayOptions controls a single game
type PlayOptions struct {
	MaxRolls int
	Delay    time.Duration
	Verbose  bool
}

// Play rolls until a player stands on the finish square and returns that
// player with the final state
func Play(ctx context.Context, c *Client, state *engine.GameState, opts PlayOptions) (*engine.Player, *engine.GameState, error) {
	if state == nil || state.Phase != engine.PhasePlaying || state.ActiveMap == nil {
		return nil, state, errors.New("game is not being played")
	}
	last := state.ActiveMap.LastIndex()

	for rolls := 0; rolls < opts.MaxRolls; rolls++ {
		result, err := c.Roll(ctx)
		if err != nil {
			return nil, state, err
		}
		if !result.Rolled {
			return nil, result.GameState, errors.New("game stopped being played")
		}
		state = result.GameState

		if e := result.Event; e != nil {
			if opts.Verbose {
				log.WithFields(log.Fields{
					"player": e.Player,
					"dice":   e.Dice,
					"from":   e.From,
					"to":     e.To,
				}).Infof("%s: %s", e.Kind, e.Text)
			}
			if e.To == last {
				for i := range state.Players {
					if state.Players[i].ID == e.PlayerID {
						return &state.Players[i], state, nil
					}
				}
			}
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, state, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	return nil, state, fmt.Errorf("%w: %d rolls", ErrRollLimit, opts.MaxRolls)
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Infof("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))

	var (
		state *engine.GameState
		err   error
	)
	if id := cmd.String("continue"); id != "" {
		state, err = client.UseSession(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to continue session %s: %w", id, err)
		}
		log.Infof("Continuing session %s", id)
	} else {
		if _, err = client.CreateSession(ctx); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		log.Infof("Created session %s", client.SessionID())
	}

	if state == nil || state.Phase != engine.PhasePlaying {
		if _, err := client.SetPlayers(ctx, cmd.Int("players")); err != nil {
			return err
		}
		if state, err = client.StartGame(ctx, cmd.String("map")); err != nil {
			return err
		}
		log.Infof("Started on %s with %d players", state.ActiveMap.Name, len(state.Players))
	}

	winner, final, err := Play(ctx, client, state, PlayOptions{
		MaxRolls: cmd.Int("max-rolls"),
		Delay:    time.Duration(cmd.Int("delay")) * time.Millisecond,
		Verbose:  cmd.Bool("v"),
	})
	if err != nil {
		return err
	}

	log.Infof("🏁 %s reached the finish after %d rolls", winner.Name, final.Rolls)
	for _, p := range final.Players {
		fmt.Printf("  %d. %-12s square %d\n", p.ID, p.Name, p.Position)
	}
	return nil
}

func main() {
	app := &cli.Command{
		Name:  "autoplay",
		Usage: "Play a flying chess game through the REST API until someone finishes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "map", Usage: "Map ID (default: first map on the server)"},
			&cli.IntFlag{Name: "players", Value: engine.MinPlayers, Usage: "Number of players"},
			&cli.IntFlag{Name: "max-rolls", Value: 3000, Usage: "Maximum rolls before giving up"},
			&cli.IntFlag{Name: "delay", Usage: "Delay between rolls in milliseconds (0 = no delay)"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
