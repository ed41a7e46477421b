package maze

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstChoice always picks the first candidate, which makes the carve order
// follow up, right, down, left.
type firstChoice struct{}

func (firstChoice) Intn(n int) int { return 0 }

func TestGenerate_PerfectForEveryValidSize(t *testing.T) {
	gen := NewGenerator(WithSeed(7))

	for size := MinSize; size <= MaxSize; size += 2 {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			grid, err := gen.Generate(size)
			require.NoError(t, err)
			require.Equal(t, size, grid.Size)
			require.Len(t, grid.Cells, size)

			report := Analyze(grid)
			assert.True(t, report.Connected, "open cells should all be reachable from (1,1)")
			assert.True(t, report.Acyclic, "open cells should not form a cycle")
			assert.True(t, report.Perfect)
			assert.Equal(t, report.OpenCells-1, report.Edges)
		})
	}
}

func TestGenerate_StartAndEndMarkers(t *testing.T) {
	grid, err := NewGenerator(WithSeed(1)).Generate(9)
	require.NoError(t, err)

	start := grid.At(1, 1)
	assert.False(t, start.IsWall)
	assert.True(t, start.IsStart)

	end := grid.At(7, 7)
	assert.False(t, end.IsWall)
	assert.True(t, end.IsEnd)

	starts, ends := 0, 0
	for _, row := range grid.Cells {
		for _, cell := range row {
			if cell.IsStart {
				starts++
			}
			if cell.IsEnd {
				ends++
			}
		}
	}
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
}

func TestGenerate_WallLayout(t *testing.T) {
	grid, err := NewGenerator(WithSeed(99)).Generate(21)
	require.NoError(t, err)

	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			cell := grid.At(x, y)
			assert.Equal(t, x, cell.X)
			assert.Equal(t, y, cell.Y)

			border := x == 0 || y == 0 || x == grid.Size-1 || y == grid.Size-1
			if border {
				assert.True(t, cell.IsWall, "border cell (%d,%d) must stay a wall", x, y)
			}
			if x%2 == 0 && y%2 == 0 {
				assert.True(t, cell.IsWall, "pillar (%d,%d) must stay a wall", x, y)
			}
			if x%2 == 1 && y%2 == 1 {
				assert.False(t, cell.IsWall, "room (%d,%d) must be carved", x, y)
			}
		}
	}
}

func TestGenerate_SameSeedSameLayout(t *testing.T) {
	a, err := NewGenerator(WithSeed(2024)).Generate(15)
	require.NoError(t, err)
	b, err := NewGenerator(WithSeed(2024)).Generate(15)
	require.NoError(t, err)

	assert.Equal(t, Render(a, nil), Render(b, nil))
}

func TestGenerate_DeterministicSource(t *testing.T) {
	grid, err := NewGenerator(WithSource(firstChoice{})).Generate(5)
	require.NoError(t, err)

	expected := []string{
		"#####",
		"#S..#",
		"###.#",
		"#..E#",
		"#####",
	}
	assert.Equal(t, expected, Render(grid, nil))
}

func TestGenerate_InvalidSizes(t *testing.T) {
	gen := NewGenerator()

	tests := []struct {
		name string
		size int
	}{
		{"too small", 3},
		{"zero", 0},
		{"negative", -5},
		{"even", 6},
		{"too large", 53},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid, err := gen.Generate(test.size)
			assert.Nil(t, grid)
			assert.True(t, errors.Is(err, ErrInvalidSize))
		})
	}
}

func TestWithSource_NilKeepsDefault(t *testing.T) {
	gen := NewGenerator(WithSource(nil))
	require.NotNil(t, gen.rng)

	_, err := gen.Generate(7)
	assert.NoError(t, err)
}

func TestGenerate_LargestGridIsPerfectAcrossSeeds(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		grid, err := NewGenerator(WithSeed(seed)).Generate(MaxSize)
		require.NoError(t, err)
		assert.True(t, Analyze(grid).Perfect, "seed %d", seed)
	}
}
