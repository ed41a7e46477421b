// Command validate checks the maze presets in a config directory. For every
// *.json file it checks:
//   - JSON structure and required fields (engine.ValidateGameConfig)
//   - that the preset's level sizes are odd and within bounds
//   - that every level of the preset generates a perfect maze, over several seeds
//
// It prints a concise report and exits non-zero if any preset fails.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/maze-runner/game/engine"
	"github.com/wricardo/maze-runner/game/maze"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes holds informational lines; otherwise Errors lists
// what failed.
type ValidationResult struct {
	File   string
	Valid  bool
	Notes  []string
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// levelSizes lists the distinct grid sizes a preset walks through, level 1 first
func levelSizes(initialSize int) []int {
	var sizes []int
	for level := 1; level <= engine.MaxLevel; level++ {
		size := engine.CurrentSize(initialSize, level)
		if len(sizes) > 0 && sizes[len(sizes)-1] == size {
			break
		}
		sizes = append(sizes, size)
	}
	return sizes
}

// validateConfig loads one preset and generates rounds mazes for every level size
func validateConfig(filePath string, rounds int) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	sizes := levelSizes(config.InitialSize)
	for _, size := range sizes {
		if !maze.ValidSize(size) {
			result.fail("Level size %d is not a valid maze size", size)
		}
	}
	if !result.Valid {
		return result
	}

	generated := 0
	for _, size := range sizes {
		for round := 0; round < rounds; round++ {
			seed := config.Seed + int64(round) + 1
			grid, err := maze.NewGenerator(maze.WithSeed(seed)).Generate(size)
			if err != nil {
				result.fail("Size %d seed %d: %v", size, seed, err)
				continue
			}

			report := maze.Analyze(grid)
			if !report.Perfect {
				result.fail("Size %d seed %d: not a perfect maze (components=%d edges=%d open=%d)",
					size, seed, report.Components, report.Edges, report.OpenCells)
				continue
			}
			generated++
		}
	}

	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ %s: sizes %d..%d across %d levels", config.Name, sizes[0], sizes[len(sizes)-1], len(sizes)),
		fmt.Sprintf("✓ Generated %d perfect mazes", generated),
	)
	return result
}

// validateDir validates every preset in dir and writes the report to out.
// It returns false if any preset is invalid.
func validateDir(out io.Writer, dir string, rounds int) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no config files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file, rounds)
		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(out, "  "+note)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  ❌ "+e)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate maze presets and the mazes they generate",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing maze presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "rounds",
				Value: 5,
				Usage: "Seeds to try for every level size",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rounds := cmd.Int("rounds")
			if rounds < 1 {
				return fmt.Errorf("--rounds must be at least 1, got %d", rounds)
			}

			ok, err := validateDir(cmd.Root().Writer, cmd.String("config-dir"), rounds)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("validation failed")
			}
			return nil
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
