package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wricardo/maze-runner/game/maze"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	GenerateMaze() *GameState
	NextLevel() bool
	IsWon() bool
	GetLevel() int
	GetCurrentSize() int
	GetPlayerPosition() Position

	// Movement operations
	MovePlayer(direction Direction) Signal
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction

	// Sizing
	SetInitialSize(n int)
	SetCellSize(n int)
	AdjustCellSize()

	// Configuration
	GetConfig() *GameConfig
	GetMessages() Messages

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Local view
	GetLocalView() []SurroundingCell

	// Notifications
	Subscribe(listener ChangeListener)
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithViewport sets the viewport queried when fitting the display cell size
func WithViewport(viewport Viewport) Option {
	return func(e *GameEngine) {
		if viewport != nil {
			e.viewport = viewport
		}
	}
}

// WithFeedback sets the sink that receives move/hit/win events
func WithFeedback(sink FeedbackSink) Option {
	return func(e *GameEngine) {
		e.SetFeedbackSink(sink)
	}
}

// WithGenerator replaces the maze generator, typically with a seeded one
func WithGenerator(gen *maze.Generator) Option {
	return func(e *GameEngine) {
		if gen != nil {
			e.generator = gen
		}
	}
}

// WithChangeListener registers a listener before the first maze is generated
func WithChangeListener(listener ChangeListener) Option {
	return func(e *GameEngine) {
		e.Subscribe(listener)
	}
}

// GameEngine implements the Engine interface.
//
// A GameEngine is owned by a single caller; operations must not run
// concurrently. The service layer serializes access per session.
type GameEngine struct {
	config    *GameConfig
	messages  Messages
	generator *maze.Generator
	viewport  Viewport
	sink      FeedbackSink
	listeners []ChangeListener

	level             int
	initialSize       int
	preferredCellSize int
	displayCellSize   int

	grid      *maze.Grid
	mazeID    string
	playerPos Position
	hasWon    bool
	message   string

	moveHistory  []MoveHistoryEntry
	totalMoves   int
	currentMoves []MoveHistoryEntry
}

// NewEngine creates a new game engine with the provided configuration and
// generates the first maze.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:            config,
		messages:          config.Messages.withDefaults(),
		viewport:          NewViewportWidth(config.ViewportWidth),
		sink:              nopSink{},
		level:             1,
		initialSize:       NormalizeInitialSize(config.InitialSize),
		preferredCellSize: NormalizeCellSize(config.CellSize),
		moveHistory:       []MoveHistoryEntry{},
		currentMoves:      []MoveHistoryEntry{},
	}
	if config.Seed != 0 {
		e.generator = maze.NewGenerator(maze.WithSeed(config.Seed))
	} else {
		e.generator = maze.NewGenerator()
	}

	for _, opt := range opts {
		opt(e)
	}

	e.regenerate(e.messages.Welcome)
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in preset
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultGameConfig(), opts...)
	if err != nil {
		// The built-in preset always validates.
		panic(err)
	}
	return e
}

// SetFeedbackSink replaces the feedback sink; nil silences feedback
func (e *GameEngine) SetFeedbackSink(sink FeedbackSink) {
	if sink == nil {
		sink = nopSink{}
	}
	e.sink = sink
}

// Subscribe registers a listener notified after every state change
func (e *GameEngine) Subscribe(listener ChangeListener) {
	if listener != nil {
		e.listeners = append(e.listeners, listener)
	}
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	state := e.snapshot()
	state.MoveHistory = make([]MoveHistoryEntry, len(e.moveHistory))
	copy(state.MoveHistory, e.moveHistory)
	return state
}

// snapshot copies everything but the cumulative history, which grows with
// the session and is paged separately.
func (e *GameEngine) snapshot() *GameState {
	grid := e.grid.Clone()
	current := make([]MoveHistoryEntry, len(e.currentMoves))
	copy(current, e.currentMoves)

	status := Playing
	if e.hasWon {
		status = Won
	}

	return &GameState{
		Grid:              grid.Cells,
		MazeID:            e.mazeID,
		PlayerPos:         e.playerPos,
		HasWon:            e.hasWon,
		Status:            status,
		Level:             e.level,
		MaxLevel:          MaxLevel,
		InitialSize:       e.initialSize,
		CurrentSize:       e.grid.Size,
		PreferredCellSize: e.preferredCellSize,
		DisplayCellSize:   e.displayCellSize,
		ViewportWidth:     e.viewport.Width(),
		Message:           e.message,
		ConfigName:        e.config.Name,
		TotalMoves:        e.totalMoves,
		CurrentMoves:      current,
		CurrentMovesCount: len(current),
		LocalView:         e.GetLocalView(),
	}
}

// GenerateMaze replaces the grid with a fresh maze for the current level and
// puts the player back on the start room.
func (e *GameEngine) GenerateMaze() *GameState {
	e.regenerate(e.messages.Welcome)
	return e.GetState()
}

// NextLevel advances one level and regenerates. It returns false without
// touching any state once the size cap has been reached.
func (e *GameEngine) NextLevel() bool {
	if !CanAdvance(e.level) {
		return false
	}
	e.level++
	e.regenerate(fmt.Sprintf(e.messages.LevelUp, e.level))
	return true
}

// SetInitialSize stores the base grid size. On level 1 the maze is
// regenerated right away; on later levels the new base only applies to the
// next run that starts from level 1.
func (e *GameEngine) SetInitialSize(n int) {
	e.initialSize = NormalizeInitialSize(n)
	if e.level == 1 {
		e.regenerate(e.messages.Welcome)
		return
	}
	e.notify()
}

// SetCellSize stores the preferred cell size and refits the display size
func (e *GameEngine) SetCellSize(n int) {
	e.preferredCellSize = NormalizeCellSize(n)
	e.AdjustCellSize()
}

// AdjustCellSize refits the display cell size to the current viewport width
// without touching the grid.
func (e *GameEngine) AdjustCellSize() {
	e.displayCellSize = DisplayCellSize(e.viewport.Width(), e.grid.Size, e.preferredCellSize)
	e.notify()
}

// IsWon returns whether the player has reached the end room of this maze
func (e *GameEngine) IsWon() bool {
	return e.hasWon
}

// GetLevel returns the current level
func (e *GameEngine) GetLevel() int {
	return e.level
}

// GetCurrentSize returns the side length of the current grid
func (e *GameEngine) GetCurrentSize() int {
	return e.grid.Size
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.playerPos
}

// GetConfig returns the preset the engine was created from
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMessages returns the preset messages with defaults filled in
func (e *GameEngine) GetMessages() Messages {
	return e.messages
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

// BulkMove executes moves in sequence and stops after the one that wins
func (e *GameEngine) BulkMove(moves []Direction) []Signal {
	signals := make([]Signal, 0, len(moves))
	for _, direction := range moves {
		signal := e.MovePlayer(direction)
		signals = append(signals, signal)
		if signal == SignalWon {
			break
		}
	}
	return signals
}

// regenerate builds the maze for the current level and resets the round
func (e *GameEngine) regenerate(message string) {
	size := CurrentSize(e.initialSize, e.level)
	e.displayCellSize = DisplayCellSize(e.viewport.Width(), size, e.preferredCellSize)

	grid, err := e.generator.Generate(size)
	if err != nil {
		// NormalizeInitialSize and CurrentSize only produce odd sizes in range.
		panic(fmt.Sprintf("engine: derived maze size %d rejected: %v", size, err))
	}

	e.grid = grid
	e.mazeID = uuid.NewString()
	e.playerPos = grid.Start()
	e.hasWon = false
	e.message = message
	e.currentMoves = []MoveHistoryEntry{}

	e.notify()
}

func (e *GameEngine) notify() {
	if len(e.listeners) == 0 {
		return
	}
	state := e.snapshot()
	for _, listener := range e.listeners {
		listener(state)
	}
}
