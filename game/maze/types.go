package maze

const (
	// MinSize is the smallest grid that still has distinct start and end rooms.
	MinSize = 5
	// MaxSize caps the grid edge length.
	MaxSize = 51
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell represents a single grid cell
type Cell struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	IsWall bool `json:"is_wall"`
	// IsStart and IsEnd are each set on exactly one cell per grid.
	IsStart bool `json:"is_start,omitempty"`
	IsEnd   bool `json:"is_end,omitempty"`
	// IsPath is reserved for renderers that want to highlight a trail.
	IsPath bool `json:"is_path,omitempty"`
}

// Grid is a square size x size collection of cells stored row-major.
type Grid struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// newWalledGrid returns a grid where every cell is a wall.
func newWalledGrid(size int) *Grid {
	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
		for x := range cells[y] {
			cells[y][x] = Cell{X: x, Y: y, IsWall: true}
		}
	}
	return &Grid{Size: size, Cells: cells}
}

// InBounds reports whether (x,y) lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Size && y >= 0 && y < g.Size
}

// At returns the cell at (x,y). The caller must check bounds first.
func (g *Grid) At(x, y int) Cell {
	return g.Cells[y][x]
}

// IsOpen reports whether (x,y) is in bounds and not a wall
func (g *Grid) IsOpen(x, y int) bool {
	return g.InBounds(x, y) && !g.Cells[y][x].IsWall
}

// Start returns the start room position
func (g *Grid) Start() Position {
	return Position{X: 1, Y: 1}
}

// End returns the end room position
func (g *Grid) End() Position {
	return Position{X: g.Size - 2, Y: g.Size - 2}
}

// OpenCells counts the cells that are not walls
func (g *Grid) OpenCells() int {
	count := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if !cell.IsWall {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	cells := make([][]Cell, len(g.Cells))
	for y, row := range g.Cells {
		cells[y] = make([]Cell, len(row))
		copy(cells[y], row)
	}
	return &Grid{Size: g.Size, Cells: cells}
}

// ValidSize reports whether size can be handed to the generator
func ValidSize(size int) bool {
	return size >= MinSize && size <= MaxSize && size%2 == 1
}
