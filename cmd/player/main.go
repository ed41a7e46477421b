// Command player drives maze sessions through the REST API with random
// wall-avoiding walks. It is a smoke and load tool: several sessions can play
// at once, each until it runs out of moves or clears the requested levels.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/maze-runner/game/engine"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes one session's run
type Stats struct {
	SessionID string
	Moves     int
	Levels    int
	Won       bool
}

// PlayOptions bounds a single session's run
type PlayOptions struct {
	MaxMoves int
	Levels   int
	Delay    time.Duration
}

// play walks the session until it has cleared opts.Levels mazes or spent opts.MaxMoves
func play(ctx context.Context, client *Client, state *engine.GameState, wanderer *Wanderer, opts PlayOptions) (Stats, error) {
	stats := Stats{SessionID: client.sessionID}

	for {
		if state.HasWon {
			stats.Levels++
			stats.Won = true
			log.Printf("🎉 [%s] Level %d/%d escaped after %d moves", client.sessionID, state.Level, state.MaxLevel, stats.Moves)
			if stats.Levels >= opts.Levels {
				return stats, nil
			}

			next, err := client.NextLevel(ctx)
			if err != nil {
				return stats, err
			}
			if !next.Advanced {
				log.Printf("⬆ [%s] %s", client.sessionID, next.Message)
				return stats, nil
			}
			state = next.GameState
			continue
		}
		if stats.Moves >= opts.MaxMoves {
			return stats, nil
		}

		moves := wanderer.Plan(state, min(engine.MaxBulkMoves, opts.MaxMoves-stats.Moves))
		if len(moves) == 0 {
			return stats, fmt.Errorf("session %s: no open move from (%d,%d)", client.sessionID, state.PlayerPos.X, state.PlayerPos.Y)
		}

		result, err := client.BulkMove(ctx, moves)
		if err != nil {
			return stats, err
		}
		stats.Moves += result.MovesExecuted
		state = result.GameState

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
}

// startSession creates a new session, or resumes resumeID when it is set
func startSession(ctx context.Context, client *Client, configID, resumeID string) (*engine.GameState, error) {
	if resumeID != "" {
		state, err := client.Resume(ctx, resumeID)
		if err != nil {
			return nil, fmt.Errorf("failed to resume session %s: %w", resumeID, err)
		}
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		return state, nil
	}

	state, err := client.CreateSession(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("✨ Session created: %s", client.sessionID)
	return state, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "Play maze sessions with random walks through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "Game server URL",
				Sources: cli.EnvVars("MAZE_SERVER_URL"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Preset to start new sessions with",
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "Resume playing an existing session by ID (implies --sessions 1)",
			},
			&cli.IntFlag{
				Name:  "sessions",
				Value: 1,
				Usage: "Number of sessions to play concurrently",
			},
			&cli.IntFlag{
				Name:  "max-moves",
				Value: 3000,
				Usage: "Maximum moves per session",
			},
			&cli.IntFlag{
				Name:  "levels",
				Value: 1,
				Usage: "Levels to clear before stopping",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Random seed for the walks (0 = clock)",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Pause between bulk moves",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sessions := cmd.Int("sessions")
			resumeID := cmd.String("continue")
			if resumeID != "" {
				sessions = 1
			}
			if sessions < 1 {
				return fmt.Errorf("--sessions must be at least 1, got %d", sessions)
			}

			seed := uint64(cmd.Int64("seed"))
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			opts := PlayOptions{
				MaxMoves: cmd.Int("max-moves"),
				Levels:   cmd.Int("levels"),
				Delay:    cmd.Duration("delay"),
			}

			log.Printf("Connecting to game server at %s", cmd.String("url"))

			var totalMoves, totalLevels atomic.Int64
			g, ctx := errgroup.WithContext(ctx)
			for i := 0; i < sessions; i++ {
				wanderer := NewWanderer(seed + uint64(i))
				g.Go(func() error {
					client := NewClient(cmd.String("url"))
					state, err := startSession(ctx, client, cmd.String("config"), resumeID)
					if err != nil {
						return err
					}

					stats, err := play(ctx, client, state, wanderer, opts)
					totalMoves.Add(int64(stats.Moves))
					totalLevels.Add(int64(stats.Levels))
					log.Printf("[%s] moves=%d levels=%d won=%t", stats.SessionID, stats.Moves, stats.Levels, stats.Won)
					return err
				})
			}

			err := g.Wait()
			fmt.Fprintf(cmd.Root().Writer, "sessions=%d moves=%d levels=%d\n", sessions, totalMoves.Load(), totalLevels.Load())
			return err
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
