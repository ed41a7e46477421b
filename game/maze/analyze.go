package maze

import "strings"

// Report summarizes the structure of the open cells in a grid
type Report struct {
	Size       int  `json:"size"`
	OpenCells  int  `json:"open_cells"`
	Reachable  int  `json:"reachable"`
	Edges      int  `json:"edges"`
	Components int  `json:"components"`
	Connected  bool `json:"connected"`
	Acyclic    bool `json:"acyclic"`
	Perfect    bool `json:"perfect"`
	StartOK    bool `json:"start_ok"`
	EndOK      bool `json:"end_ok"`
}

var neighbourSteps = [4]Position{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Analyze inspects the open-cell graph of grid. Two open cells are adjacent
// when they share an edge. The graph is a spanning tree exactly when it has a
// single component and edges == open cells - 1.
func Analyze(grid *Grid) Report {
	report := Report{}
	if grid == nil || grid.Size == 0 {
		return report
	}
	report.Size = grid.Size

	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			if grid.Cells[y][x].IsWall {
				continue
			}
			report.OpenCells++
			if grid.IsOpen(x+1, y) {
				report.Edges++
			}
			if grid.IsOpen(x, y+1) {
				report.Edges++
			}
		}
	}

	seen := make([][]bool, grid.Size)
	for y := range seen {
		seen[y] = make([]bool, grid.Size)
	}

	start := grid.Start()
	if grid.IsOpen(start.X, start.Y) {
		report.Reachable = flood(grid, seen, start)
		report.Components = 1
	}
	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			if !grid.Cells[y][x].IsWall && !seen[y][x] {
				flood(grid, seen, Position{X: x, Y: y})
				report.Components++
			}
		}
	}

	end := grid.End()
	report.StartOK = grid.IsOpen(start.X, start.Y) && grid.Cells[start.Y][start.X].IsStart
	report.EndOK = grid.IsOpen(end.X, end.Y) && grid.Cells[end.Y][end.X].IsEnd
	report.Connected = report.OpenCells > 0 && report.Reachable == report.OpenCells
	report.Acyclic = report.Edges == report.OpenCells-report.Components
	report.Perfect = report.Connected && report.Acyclic && report.StartOK && report.EndOK

	return report
}

// flood marks every open cell reachable from origin and returns how many it marked
func flood(grid *Grid, seen [][]bool, origin Position) int {
	queue := []Position{origin}
	seen[origin.Y][origin.X] = true
	count := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		count++
		for _, step := range neighbourSteps {
			nx, ny := p.X+step.X, p.Y+step.Y
			if grid.IsOpen(nx, ny) && !seen[ny][nx] {
				seen[ny][nx] = true
				queue = append(queue, Position{X: nx, Y: ny})
			}
		}
	}
	return count
}

// Render draws the grid as text rows. Walls are '#', open cells '.', the start
// 'S', the end 'E' and the player (when non-nil) '@'.
func Render(grid *Grid, player *Position) []string {
	if grid == nil {
		return nil
	}
	rows := make([]string, 0, grid.Size)
	for y := 0; y < grid.Size; y++ {
		var row strings.Builder
		for x := 0; x < grid.Size; x++ {
			cell := grid.Cells[y][x]
			switch {
			case player != nil && player.X == x && player.Y == y:
				row.WriteByte('@')
			case cell.IsWall:
				row.WriteByte('#')
			case cell.IsStart:
				row.WriteByte('S')
			case cell.IsEnd:
				row.WriteByte('E')
			default:
				row.WriteByte('.')
			}
		}
		rows = append(rows, row.String())
	}
	return rows
}
