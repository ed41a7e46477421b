package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/maze-runner/api"
	"github.com/wricardo/maze-runner/game/config"
	"github.com/wricardo/maze-runner/game/engine"
	"github.com/wricardo/maze-runner/game/maze"
	"github.com/wricardo/maze-runner/game/service"
	"github.com/wricardo/maze-runner/game/session"
	"github.com/wricardo/maze-runner/transport/websocket"
)

// fixedState builds a snapshot over the 5x5 test maze
//
//	#####
//	#S..#
//	###.#
//	#..E#
//	#####
func fixedState() *engine.GameState {
	rows := []string{"#####", "#S..#", "###.#", "#..E#", "#####"}
	grid := make([][]engine.Cell, len(rows))
	for y, row := range rows {
		grid[y] = make([]engine.Cell, len(row))
		for x, ch := range row {
			grid[y][x] = engine.Cell{X: x, Y: y, IsWall: ch == '#', IsStart: ch == 'S', IsEnd: ch == 'E'}
		}
	}
	return &engine.GameState{
		Grid:        grid,
		PlayerPos:   engine.Position{X: 1, Y: 1},
		CurrentSize: 5,
	}
}

func TestWanderer_Corridor(t *testing.T) {
	// With reversals avoided the only corridor leads straight to the exit.
	moves := NewWanderer(1).Plan(fixedState(), 50)
	assert.Equal(t, []string{"right", "right", "down", "down"}, moves)
}

func TestWanderer_StopsAtLimitAndExit(t *testing.T) {
	assert.Len(t, NewWanderer(1).Plan(fixedState(), 2), 2)

	state := fixedState()
	state.PlayerPos = engine.Position{X: 3, Y: 3}
	assert.Empty(t, NewWanderer(1).Plan(state, 50))
}

func TestWanderer_NeverHitsWalls(t *testing.T) {
	grid, err := maze.NewGenerator(maze.WithSeed(11)).Generate(21)
	require.NoError(t, err)
	state := &engine.GameState{Grid: grid.Cells, PlayerPos: grid.Start(), CurrentSize: grid.Size}

	w := NewWanderer(5)
	pos := grid.Start()
	for _, move := range w.Plan(state, 500) {
		dir, err := engine.ParseDirection(move)
		require.NoError(t, err)
		pos = dir.Apply(pos)
		require.True(t, grid.IsOpen(pos.X, pos.Y), "walked into a wall at %v", pos)
	}
}

func TestWanderer_Deterministic(t *testing.T) {
	grid, err := maze.NewGenerator(maze.WithSeed(3)).Generate(15)
	require.NoError(t, err)
	state := &engine.GameState{Grid: grid.Cells, PlayerPos: grid.Start(), CurrentSize: grid.Size}

	assert.Equal(t, NewWanderer(9).Plan(state, 100), NewWanderer(9).Plan(state, 100))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	require.NoError(t, err)

	hub := websocket.NewHub()
	go hub.Run()

	svc := service.NewGameService(session.NewManager(), configs, hub)
	server := httptest.NewServer(api.NewServer(svc, hub))
	t.Cleanup(server.Close)
	return server
}

func TestPlay_AgainstAPI(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	client := NewClient(server.URL)
	state, err := startSession(ctx, client, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, client.sessionID)

	stats, err := play(ctx, client, state, NewWanderer(1), PlayOptions{MaxMoves: 120, Levels: 1})
	require.NoError(t, err)
	assert.Equal(t, client.sessionID, stats.SessionID)
	assert.LessOrEqual(t, stats.Moves, 120)

	final, err := client.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Won, final.HasWon)
	if !stats.Won {
		assert.Equal(t, 120, stats.Moves, "an unfinished run must spend its whole budget")
	}
}

func TestPlay_ResumeUnknownSession(t *testing.T) {
	server := newTestServer(t)

	_, err := startSession(context.Background(), NewClient(server.URL), "", "nope")
	assert.Error(t, err)
}

func TestApp_MultipleSessions(t *testing.T) {
	server := newTestServer(t)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	args := []string{"player", "--url", server.URL, "--sessions", "3", "--max-moves", "60", "--seed", "4"}
	require.NoError(t, app.Run(context.Background(), args))
	assert.True(t, strings.HasPrefix(out.String(), "sessions=3 "), out.String())
}
