// Command autoplay plays habitat game sessions against a running server using
// a greedy strategy, and reports the final scores. It talks to the server only
// through the REST API, the same way any other client would.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/cascadia/game/engine"
	"github.com/wricardo/mcp-training/cascadia/game/service"
)

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

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("parse response (%s): %w", resp.Status, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new session and remembers its ID
func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	status, err := c.do(ctx, "POST", "/api/sessions", body, &session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: status %d", status)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

// GetState fetches the current state of the session
func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	status, err := c.do(ctx, "GET", c.sessionPath("/state"), nil, &state)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get state failed: status %d", status)
	}
	return &state, nil
}

// Reset empties the session's board
func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	status, err := c.do(ctx, "POST", c.sessionPath("/reset"), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("reset failed: status %d", status)
	}
	return resp.State, nil
}

// Place places a draft option. Rejected placements are returned with their
// result, not as errors.
func (c *Client) Place(ctx context.Context, move Move) (*service.PlaceResult, error) {
	draftIndex := move.DraftIndex
	req := service.PlaceRequest{Index: move.Index, DraftIndex: &draftIndex}

	var result service.PlaceResult
	if _, err := c.do(ctx, "POST", c.sessionPath("/place"), req, &result); err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	if result.PlacementResult == nil || result.GameState == nil {
		return nil, fmt.Errorf("place: unexpected response")
	}
	return &result, nil
}

// EndTurn passes without placing
func (c *Client) EndTurn(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	status, err := c.do(ctx, "POST", c.sessionPath("/end-turn"), nil, &state)
	if err != nil {
		return nil, fmt.Errorf("end turn: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("end turn failed: status %d", status)
	}
	return &state, nil
}

// playOptions controls a run of games
type playOptions struct {
	Games   int
	Delay   time.Duration
	Verbose bool
}

// playGame fills the board from state and returns the final state
func playGame(ctx context.Context, client *Client, state *engine.GameState, opts playOptions) (*engine.GameState, error) {
	var strategy GreedyStrategy

	// Every accepted placement fills a cell, so a game needs at most one
	// placement per cell plus a pass for each rejection.
	for attempts := 0; !state.GameOver && attempts < 2*engine.BoardCells; attempts++ {
		move, ok := strategy.NextMove(state)
		if !ok {
			next, err := client.EndTurn(ctx)
			if err != nil {
				return state, err
			}
			state = next
			continue
		}

		result, err := client.Place(ctx, move)
		if err != nil {
			return state, err
		}
		if opts.Verbose {
			log.Printf("P%d idx=%d %s+%s accepted=%t gain=%+d score=%d",
				result.Player, result.Index, result.Habitat, result.Animal,
				result.Accepted, result.ScoreDelta, result.Score.Total)
		}
		state = result.GameState

		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}

	if !state.GameOver {
		return state, fmt.Errorf("board not complete after %d attempts", 2*engine.BoardCells)
	}
	return state, nil
}

// run plays opts.Games games in one session and returns the final scores
func run(ctx context.Context, client *Client, configID, sessionID string, opts playOptions) ([]int, error) {
	var state *engine.GameState
	var err error

	if sessionID != "" {
		client.sessionID = sessionID
		log.Printf("🔄 Resuming session: %s", sessionID)
		state, err = client.GetState(ctx)
	} else {
		state, err = client.CreateSession(ctx, configID)
		if err == nil {
			log.Printf("✨ Session created: %s", client.sessionID)
		}
	}
	if err != nil {
		return nil, err
	}

	var scores []int
	for game := 1; game <= opts.Games; game++ {
		if game > 1 || state.GameOver {
			if state, err = client.Reset(ctx); err != nil {
				return scores, err
			}
		}

		final, err := playGame(ctx, client, state, opts)
		if err != nil {
			return scores, err
		}
		state = final
		scores = append(scores, final.Score.Total)
		log.Printf("Game %d/%d: score %d", game, opts.Games, final.Score.Total)
	}
	return scores, nil
}

func summarize(scores []int) (best, total int) {
	for _, s := range scores {
		total += s
		if s > best {
			best = s
		}
	}
	return best, total
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "Play habitat game sessions with a greedy strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Game configuration ID (classic, solo, family)"},
			&cli.StringFlag{Name: "session", Usage: "Play in an existing session by ID"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "Number of games to play"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between placements"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log every placement"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Printf("Connecting to game server at %s", cmd.String("url"))
			client := NewClient(cmd.String("url"))

			opts := playOptions{
				Games:   cmd.Int("games"),
				Delay:   cmd.Duration("delay"),
				Verbose: cmd.Bool("verbose"),
			}
			if opts.Games < 1 {
				opts.Games = 1
			}

			scores, err := run(ctx, client, cmd.String("config"), cmd.String("session"), opts)
			if err != nil {
				return err
			}

			best, total := summarize(scores)
			log.Printf("Session: %s", client.sessionID)
			log.Printf("Best score: %d, average: %.1f over %d games", best, float64(total)/float64(len(scores)), len(scores))
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
