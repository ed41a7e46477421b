package engine

// CurrentSize returns the grid size for a level: initialSize grows by
// SizeStep per level and is capped at MaxInitialSize.
func CurrentSize(initialSize, level int) int {
	return min(MaxInitialSize, initialSize+(level-1)*SizeStep)
}

// CanAdvance reports whether NextLevel may leave the given level
func CanAdvance(level int) bool {
	return level*2+3 <= MaxInitialSize
}

// NormalizeInitialSize clamps n to [MinInitialSize, MaxInitialSize] and
// rounds even values down so the derived grid size is always odd.
func NormalizeInitialSize(n int) int {
	n = clamp(n, MinInitialSize, MaxInitialSize)
	if n%2 == 0 {
		n--
	}
	return n
}

// NormalizeCellSize clamps a preferred cell size to [MinCellSize, MaxCellSize]
func NormalizeCellSize(n int) int {
	return clamp(n, MinCellSize, MaxCellSize)
}

// DisplayCellSize fits cells of a size x size grid into viewportWidth,
// never exceeding the preferred size and never dropping below 1.
func DisplayCellSize(viewportWidth, size, preferred int) int {
	if size <= 0 {
		return NormalizeCellSize(preferred)
	}
	fit := (viewportWidth - ViewportMargin) / size
	return clamp(fit, MinCellSize, preferred)
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(hi, v))
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
