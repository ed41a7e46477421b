package maze

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// ErrInvalidSize is returned when a grid size is even or outside [MinSize, MaxSize].
var ErrInvalidSize = errors.New("invalid maze size")

// Source supplies the random choices made while carving.
// *rand.Rand from golang.org/x/exp/rand and math/rand both satisfy it.
type Source interface {
	Intn(n int) int
}

// Option configures a Generator
type Option func(*Generator)

// WithSeed makes the generator produce a reproducible sequence of layouts
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(uint64(seed)))
	}
}

// WithSource plugs in an arbitrary randomness source
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.rng = src
		}
	}
}

// Generator carves perfect mazes. It is not safe for concurrent use.
type Generator struct {
	rng Source
}

// NewGenerator creates a generator seeded from the clock unless an option overrides it
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// carveSteps lists the room-to-room offsets in the order up, right, down, left.
var carveSteps = [4]Position{
	{X: 0, Y: -2},
	{X: 2, Y: 0},
	{X: 0, Y: 2},
	{X: -2, Y: 0},
}

// Generate builds a size x size perfect maze rooted at (1,1).
//
// The carve is an explicit-stack depth-first backtracker: the top room picks a
// random unvisited room two cells away, opens the wall between them and pushes
// it; a room with no unvisited neighbours is popped.
func (g *Generator) Generate(size int) (*Grid, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: %d (must be odd and between %d and %d)", ErrInvalidSize, size, MinSize, MaxSize)
	}

	grid := newWalledGrid(size)
	visited := make([][]bool, size)
	for y := range visited {
		visited[y] = make([]bool, size)
	}

	start := grid.Start()
	stack := make([]Position, 0, (size/2)*(size/2))
	stack = append(stack, start)
	visited[start.Y][start.X] = true
	grid.Cells[start.Y][start.X].IsWall = false

	var candidates [4]Position
	for len(stack) > 0 {
		current := stack[len(stack)-1]

		n := 0
		for _, step := range carveSteps {
			nx, ny := current.X+step.X, current.Y+step.Y
			if nx > 0 && nx < size-1 && ny > 0 && ny < size-1 && !visited[ny][nx] {
				candidates[n] = Position{X: nx, Y: ny}
				n++
			}
		}

		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := candidates[g.rng.Intn(n)]
		grid.Cells[(current.Y+next.Y)/2][(current.X+next.X)/2].IsWall = false
		grid.Cells[next.Y][next.X].IsWall = false
		visited[next.Y][next.X] = true
		stack = append(stack, next)
	}

	end := grid.End()
	grid.Cells[start.Y][start.X].IsStart = true
	grid.Cells[end.Y][end.X].IsEnd = true

	return grid, nil
}
