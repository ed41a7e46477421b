package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/maze-runner/game/maze"
)

// firstChoice makes the generator carve the same layout every time. On a 5x5
// grid that is:
//
//	#####
//	#S..#
//	###.#
//	#..E#
//	#####
type firstChoice struct{}

func (firstChoice) Intn(int) int { return 0 }

type recordingSink struct {
	events []Feedback
}

func (r *recordingSink) Play(event Feedback) {
	r.events = append(r.events, event)
}

func createTestConfig() *GameConfig {
	config := DefaultGameConfig()
	config.Name = "Engine Test Config"
	config.Description = "Configuration for engine tests"
	return config
}

func newTestEngine(t *testing.T, opts ...Option) *GameEngine {
	t.Helper()
	opts = append([]Option{WithGenerator(maze.NewGenerator(maze.WithSource(firstChoice{})))}, opts...)
	e, err := NewEngine(createTestConfig(), opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	e := newTestEngine(t)
	state := e.GetState()

	assert.Equal(t, 1, state.Level)
	assert.Equal(t, MaxLevel, state.MaxLevel)
	assert.Equal(t, 5, state.InitialSize)
	assert.Equal(t, 5, state.CurrentSize)
	assert.Len(t, state.Grid, 5)
	assert.Equal(t, Position{X: 1, Y: 1}, state.PlayerPos)
	assert.False(t, state.HasWon)
	assert.Equal(t, Playing, state.Status)
	assert.Equal(t, "Find your way from S to E!", state.Message)
	assert.Equal(t, "Engine Test Config", state.ConfigName)
	assert.NotEmpty(t, state.MazeID)
	assert.Equal(t, 30, state.PreferredCellSize)
	assert.Equal(t, 30, state.DisplayCellSize)
	assert.Equal(t, 800, state.ViewportWidth)
	assert.Empty(t, state.MoveHistory)
	assert.Empty(t, state.CurrentMoves)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.InitialSize = 4

	_, err := NewEngine(config)
	assert.Error(t, err)

	_, err = NewEngine(nil)
	assert.Error(t, err)
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults()
	assert.Equal(t, "default", e.GetConfig().Name)
	assert.True(t, maze.Analyze(e.grid).Perfect)
}

func TestNewEngine_SeededConfigIsReproducible(t *testing.T) {
	config := createTestConfig()
	config.InitialSize = 15
	config.Seed = 42

	a, err := NewEngine(config)
	require.NoError(t, err)
	b, err := NewEngine(config)
	require.NoError(t, err)

	assert.Equal(t, maze.Render(a.grid, nil), maze.Render(b.grid, nil))
	assert.NotEqual(t, a.GetState().MazeID, b.GetState().MazeID)
}

func TestGenerateMaze_ResetsRound(t *testing.T) {
	e := newTestEngine(t)
	firstID := e.GetState().MazeID

	e.MovePlayer(Right)
	e.MovePlayer(Right)
	require.Equal(t, Position{X: 3, Y: 1}, e.GetPlayerPosition())

	state := e.GenerateMaze()
	assert.Equal(t, Position{X: 1, Y: 1}, state.PlayerPos)
	assert.NotEqual(t, firstID, state.MazeID)
	assert.Equal(t, 1, state.Level)
	assert.Empty(t, state.CurrentMoves)
	assert.Equal(t, 2, state.TotalMoves)
	assert.Len(t, state.MoveHistory, 2)
}

func TestNextLevel_GrowsGrid(t *testing.T) {
	e := newTestEngine(t)

	require.True(t, e.NextLevel())
	state := e.GetState()
	assert.Equal(t, 2, state.Level)
	assert.Equal(t, 7, state.CurrentSize)
	assert.Len(t, state.Grid, 7)
	assert.Equal(t, "Level 2 - the maze grows!", state.Message)
	assert.Equal(t, Position{X: 1, Y: 1}, state.PlayerPos)
	assert.True(t, maze.Analyze(e.grid).Perfect)
}

func TestNextLevel_StopsAtMaxLevel(t *testing.T) {
	e, err := NewEngine(createTestConfig(), WithGenerator(maze.NewGenerator(maze.WithSeed(3))))
	require.NoError(t, err)

	advanced := 0
	for e.NextLevel() {
		advanced++
		require.Equal(t, CurrentSize(5, e.GetLevel()), e.GetState().CurrentSize)
	}

	assert.Equal(t, 24, advanced)
	assert.Equal(t, MaxLevel, e.GetLevel())
	assert.Equal(t, 25, e.GetLevel())
	assert.Equal(t, 51, e.GetState().CurrentSize)

	before := e.GetState()
	assert.False(t, e.NextLevel())
	after := e.GetState()
	assert.Equal(t, before.Level, after.Level)
	assert.Equal(t, before.MazeID, after.MazeID)
	assert.Equal(t, before.Message, after.Message)
	assert.Equal(t, before.PlayerPos, after.PlayerPos)
}

func TestNextLevel_CapsLargeInitialSize(t *testing.T) {
	config := createTestConfig()
	config.InitialSize = 49
	e, err := NewEngine(config)
	require.NoError(t, err)

	require.True(t, e.NextLevel())
	assert.Equal(t, 51, e.GetState().CurrentSize)
	require.True(t, e.NextLevel())
	assert.Equal(t, 51, e.GetState().CurrentSize, "size never exceeds the cap")
}

func TestSetInitialSize_LevelOneRegenerates(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"odd in range", 9, 9},
		{"below minimum", 3, 5},
		{"negative", -10, 5},
		{"above maximum", 100, 51},
		{"even rounds down", 8, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			e.MovePlayer(Right)
			oldID := e.GetState().MazeID

			e.SetInitialSize(tt.in)
			state := e.GetState()
			assert.Equal(t, tt.want, state.InitialSize)
			assert.Equal(t, tt.want, state.CurrentSize)
			assert.NotEqual(t, oldID, state.MazeID)
			assert.Equal(t, Position{X: 1, Y: 1}, state.PlayerPos)
		})
	}
}

func TestSetInitialSize_LaterLevelsApplyLazily(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, e.NextLevel())
	before := e.GetState()

	e.SetInitialSize(11)
	state := e.GetState()
	assert.Equal(t, 11, state.InitialSize)
	assert.Equal(t, 7, state.CurrentSize, "grid is untouched until the next regeneration")
	assert.Equal(t, before.MazeID, state.MazeID)

	state = e.GenerateMaze()
	assert.Equal(t, 13, state.CurrentSize)
}

func TestSetCellSize(t *testing.T) {
	tests := []struct {
		name          string
		viewport      int
		in            int
		wantPreferred int
		wantDisplay   int
	}{
		{"fits", 800, 20, 20, 20},
		{"clamped high", 800, 99, 30, 30},
		{"clamped low", 800, 0, 1, 1},
		{"viewport limits", 140, 30, 30, 20},
		{"tiny viewport", 10, 30, 30, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, WithViewport(NewViewportWidth(tt.viewport)))
			e.SetCellSize(tt.in)
			state := e.GetState()
			assert.Equal(t, tt.wantPreferred, state.PreferredCellSize)
			assert.Equal(t, tt.wantDisplay, state.DisplayCellSize)
		})
	}
}

func TestAdjustCellSize_FollowsViewport(t *testing.T) {
	viewport := NewViewportWidth(800)
	e := newTestEngine(t, WithViewport(viewport))
	gridBefore := maze.Render(e.grid, nil)

	viewport.SetWidth(90)
	e.AdjustCellSize()
	assert.Equal(t, 10, e.GetState().DisplayCellSize)

	e.AdjustCellSize()
	assert.Equal(t, 10, e.GetState().DisplayCellSize, "adjusting twice changes nothing")
	assert.Equal(t, gridBefore, maze.Render(e.grid, nil))

	viewport.SetWidth(2000)
	e.AdjustCellSize()
	assert.Equal(t, 30, e.GetState().DisplayCellSize)
}

func TestSubscribe_NotifiesOnChanges(t *testing.T) {
	var states []*GameState
	e := newTestEngine(t, WithChangeListener(func(s *GameState) {
		states = append(states, s)
	}))
	require.Len(t, states, 1, "initial generation notifies")

	e.MovePlayer(Right)
	e.MovePlayer(Left)
	e.NextLevel()
	e.SetCellSize(10)
	e.MovePlayer(Direction("sideways"))

	require.Len(t, states, 5)
	assert.Equal(t, Position{X: 2, Y: 1}, states[1].PlayerPos)
	assert.Equal(t, 2, states[3].Level)
	assert.Equal(t, 10, states[4].PreferredCellSize)
}

func TestSubscribe_SnapshotsOmitHistory(t *testing.T) {
	var last *GameState
	e := newTestEngine(t, WithChangeListener(func(s *GameState) { last = s }))

	e.MovePlayer(Right)
	e.MovePlayer(Up)
	e.MovePlayer(Right)

	require.NotNil(t, last)
	assert.Nil(t, last.MoveHistory, "listeners get no cumulative history")
	assert.Equal(t, 3, last.TotalMoves)
	assert.Len(t, last.CurrentMoves, 3)

	assert.Len(t, e.GetState().MoveHistory, 3, "GetState still carries the full history")
}

func TestGetState_ReturnsCopy(t *testing.T) {
	e := newTestEngine(t)
	state := e.GetState()

	state.Grid[1][1].IsWall = true
	state.PlayerPos = Position{X: 3, Y: 3}

	assert.False(t, e.grid.At(1, 1).IsWall)
	assert.Equal(t, Position{X: 1, Y: 1}, e.GetPlayerPosition())
}

func TestCurrentSize(t *testing.T) {
	tests := []struct {
		initial, level, want int
	}{
		{5, 1, 5},
		{5, 2, 7},
		{5, 24, 51},
		{5, 25, 51},
		{21, 10, 39},
		{49, 3, 51},
		{51, 1, 51},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CurrentSize(tt.initial, tt.level), "initial=%d level=%d", tt.initial, tt.level)
	}

	prev := 0
	for level := 1; level <= MaxLevel; level++ {
		size := CurrentSize(MinInitialSize, level)
		assert.GreaterOrEqual(t, size, prev)
		assert.LessOrEqual(t, size, MaxInitialSize)
		prev = size
	}
}

func TestCanAdvance(t *testing.T) {
	assert.True(t, CanAdvance(1))
	assert.True(t, CanAdvance(24))
	assert.False(t, CanAdvance(25))
	assert.False(t, CanAdvance(100))
}

func TestDisplayCellSize(t *testing.T) {
	tests := []struct {
		name                      string
		viewport, size, preferred int
		want                      int
	}{
		{"preferred wins", 800, 5, 30, 30},
		{"viewport limits", 800, 51, 30, 14},
		{"floor at one", 20, 51, 30, 1},
		{"no grid", 800, 0, 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayCellSize(tt.viewport, tt.size, tt.preferred))
		})
	}
}

func TestManhattanDistance(t *testing.T) {
	assert.Equal(t, 0, ManhattanDistance(Position{X: 1, Y: 1}, Position{X: 1, Y: 1}))
	assert.Equal(t, 4, ManhattanDistance(Position{X: 1, Y: 1}, Position{X: 3, Y: 3}))
	assert.Equal(t, 5, ManhattanDistance(Position{X: 4, Y: 0}, Position{X: 0, Y: 1}))
}
