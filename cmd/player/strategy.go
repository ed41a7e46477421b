package main

import (
	"github.com/wricardo/maze-runner/game/engine"
	"github.com/wricardo/maze-runner/game/maze"
	"golang.org/x/exp/rand"
)

// Wanderer picks random moves that never walk into a wall. It keeps no map
// of the maze beyond the current snapshot, so it finds the exit only by luck.
type Wanderer struct {
	rng *rand.Rand
	// last is the previous direction; reversing it is avoided when possible
	last engine.Direction
}

func NewWanderer(seed uint64) *Wanderer {
	return &Wanderer{rng: rand.New(rand.NewSource(seed))}
}

var reverse = map[engine.Direction]engine.Direction{
	engine.Up:    engine.Down,
	engine.Down:  engine.Up,
	engine.Left:  engine.Right,
	engine.Right: engine.Left,
}

// Plan returns up to n moves starting at the snapshot's player position.
// The plan ends early when it steps onto the exit.
func (w *Wanderer) Plan(state *engine.GameState, n int) []string {
	grid := &maze.Grid{Size: len(state.Grid), Cells: state.Grid}
	pos, exit := state.PlayerPos, grid.End()

	moves := make([]string, 0, n)
	for len(moves) < n && pos != exit {
		dir, ok := w.pick(grid, pos)
		if !ok {
			break
		}
		moves = append(moves, string(dir))
		pos = dir.Apply(pos)
		w.last = dir
	}
	return moves
}

func (w *Wanderer) pick(grid *maze.Grid, pos maze.Position) (engine.Direction, bool) {
	var open, forward []engine.Direction
	for _, dir := range engine.Directions {
		next := dir.Apply(pos)
		if !grid.IsOpen(next.X, next.Y) {
			continue
		}
		open = append(open, dir)
		if dir != reverse[w.last] {
			forward = append(forward, dir)
		}
	}

	switch {
	case len(forward) > 0:
		return forward[w.rng.Intn(len(forward))], true
	case len(open) > 0:
		return open[w.rng.Intn(len(open))], true
	}
	return "", false
}
