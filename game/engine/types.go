package engine

import (
	"errors"
	"strings"

	"github.com/wricardo/maze-runner/game/maze"
)

// Direction is a unit step the player can attempt
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// ErrInvalidDirection is returned by ParseDirection for unknown input
var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection converts user input into a Direction (case-insensitive)
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down, Left, Right:
		return d, nil
	}
	return "", ErrInvalidDirection
}

// delta returns the unit step for a direction
func (d Direction) delta() (dx, dy int, ok bool) {
	switch d {
	case Up:
		return 0, -1, true
	case Down:
		return 0, 1, true
	case Left:
		return -1, 0, true
	case Right:
		return 1, 0, true
	}
	return 0, 0, false
}

// Apply returns p moved one cell in direction d. Unknown directions return p.
func (d Direction) Apply(p Position) Position {
	dx, dy, _ := d.delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Signal is the outcome of a single MovePlayer call
type Signal string

const (
	// SignalNone is returned for out-of-bounds targets and unknown directions
	SignalNone    Signal = ""
	SignalMoved   Signal = "moved"
	SignalBlocked Signal = "blocked"
	SignalWon     Signal = "won"
)

// Status is the state machine state
type Status string

const (
	Playing Status = "playing"
	Won     Status = "won"
)

const (
	// MinInitialSize and MaxInitialSize bound the configurable base size
	MinInitialSize = maze.MinSize
	MaxInitialSize = maze.MaxSize

	// SizeStep is how much the grid grows per level
	SizeStep = 2

	// MinCellSize and MaxCellSize bound the preferred display cell size
	MinCellSize     = 1
	MaxCellSize     = 30
	DefaultCellSize = 30

	// ViewportMargin is subtracted from the viewport width before fitting cells
	ViewportMargin = 40

	// MaxLevel is the highest level NextLevel can reach: the guard
	// level*2+3 <= MaxSize admits level 24 as the last level to advance from.
	MaxLevel = (MaxInitialSize-3)/2 + 1

	MaxBulkMoves = 50
)

// Position represents x,y coordinates
type Position = maze.Position

// Cell is a single grid cell
type Cell = maze.Cell

// GameState is a read-only snapshot of a session.
// Grid is a copy; mutating it has no effect on the engine.
type GameState struct {
	Grid              [][]Cell           `json:"grid"`
	MazeID            string             `json:"maze_id"`
	PlayerPos         Position           `json:"player_pos"`
	HasWon            bool               `json:"has_won"`
	Status            Status             `json:"status"`
	Level             int                `json:"level"`
	MaxLevel          int                `json:"max_level"`
	InitialSize       int                `json:"initial_size"`
	CurrentSize       int                `json:"current_size"`
	PreferredCellSize int                `json:"preferred_cell_size"`
	DisplayCellSize   int                `json:"display_cell_size"`
	ViewportWidth     int                `json:"viewport_width"`
	Message           string             `json:"message"`
	ConfigName        string             `json:"config_name"`
	MoveHistory       []MoveHistoryEntry `json:"move_history,omitempty"`
	TotalMoves        int                `json:"total_moves"`

	// CurrentMoves tracks only the moves made on the current maze. It is
	// cleared on every regeneration while MoveHistory stays cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper views (not required for core game logic)
	LocalView    []SurroundingCell `json:"local_view,omitempty"`
	LocalView3x3 []string          `json:"local_view_3x3,omitempty"`
}

// End returns the end room of the snapshot's grid
func (s *GameState) End() Position {
	return Position{X: s.CurrentSize - 2, Y: s.CurrentSize - 2}
}

// SurroundingCell represents a cell with its absolute position
type SurroundingCell struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Wall bool `json:"wall"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Signal       Signal   `json:"signal"`
	Level        int      `json:"level"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}
