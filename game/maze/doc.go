// Package maze provides the grid model and the perfect-maze generator.
//
// The package implements:
//   - A square grid of cells alternating room and wall rows/columns
//   - Iterative randomized depth-first backtracking (no recursion)
//   - Pluggable randomness for reproducible layouts
//   - Structural analysis (connectivity and acyclicity of open cells)
//   - ASCII rendering for terminals and text transports
//
// Grid Layout:
//
// Rooms live at odd coordinates. Walls occupy every cell with an even
// coordinate in at least one axis; the generator opens a wall cell only when
// it connects the two rooms on either side of it. The start room is always
// (1,1) and the end room is always (size-2, size-2).
//
// Usage:
//
//	gen := maze.NewGenerator(maze.WithSeed(42))
//	grid, err := gen.Generate(11)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report := maze.Analyze(grid)
//	fmt.Println(report.Perfect)
//	fmt.Println(strings.Join(maze.Render(grid, nil), "\n"))
//
// Sizes:
//
// Grid sizes must be odd and within [MinSize, MaxSize]. Generate rejects
// anything else with ErrInvalidSize.
package maze
