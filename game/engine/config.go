package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Messages are the texts shown for game events
type Messages struct {
	Welcome  string `json:"welcome"`
	Moved    string `json:"moved,omitempty"`
	Blocked  string `json:"blocked,omitempty"`
	Victory  string `json:"victory"`
	LevelUp  string `json:"level_up,omitempty"`
	MaxLevel string `json:"max_level,omitempty"`
}

// GameConfig is a game preset loaded from JSON
type GameConfig struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	InitialSize   int      `json:"initial_size"`
	CellSize      int      `json:"cell_size"`
	ViewportWidth int      `json:"viewport_width"`
	Seed          int64    `json:"seed,omitempty"` // 0 = random layouts
	Messages      Messages `json:"messages"`
}

// DefaultGameConfig returns the built-in preset used when nothing else is configured
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:          "default",
		Description:   "Built-in 5x5 starting maze",
		InitialSize:   MinInitialSize,
		CellSize:      DefaultCellSize,
		ViewportWidth: 800,
		Messages:      defaultMessages(),
	}
}

func defaultMessages() Messages {
	return Messages{
		Welcome:  "Find your way from S to E!",
		Moved:    "Keep going...",
		Blocked:  "Bumped into a wall!",
		Victory:  "You escaped the maze!",
		LevelUp:  "Level %d - the maze grows!",
		MaxLevel: "This is the largest maze there is.",
	}
}

// withDefaults fills optional messages that were left empty
func (m Messages) withDefaults() Messages {
	d := defaultMessages()
	if m.Welcome == "" {
		m.Welcome = d.Welcome
	}
	if m.Moved == "" {
		m.Moved = d.Moved
	}
	if m.Blocked == "" {
		m.Blocked = d.Blocked
	}
	if m.Victory == "" {
		m.Victory = d.Victory
	}
	if m.LevelUp == "" {
		m.LevelUp = d.LevelUp
	}
	if m.MaxLevel == "" {
		m.MaxLevel = d.MaxLevel
	}
	return m
}

// ValidateGameConfig validates a game preset for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate sizes
	if config.InitialSize < MinInitialSize || config.InitialSize > MaxInitialSize {
		return fmt.Errorf("config validation: initial_size must be between %d and %d, got %d",
			MinInitialSize, MaxInitialSize, config.InitialSize)
	}
	if config.InitialSize%2 == 0 {
		return fmt.Errorf("config validation: initial_size must be odd, got %d", config.InitialSize)
	}
	if config.CellSize < MinCellSize || config.CellSize > MaxCellSize {
		return fmt.Errorf("config validation: cell_size must be between %d and %d, got %d",
			MinCellSize, MaxCellSize, config.CellSize)
	}
	if config.ViewportWidth < 1 {
		return fmt.Errorf("config validation: viewport_width must be positive, got %d", config.ViewportWidth)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}

	// Validate format strings
	if config.Messages.LevelUp != "" && !strings.Contains(config.Messages.LevelUp, "%d") {
		return fmt.Errorf("config validation: messages.level_up must contain %%d for the level")
	}

	return nil
}

// LoadGameConfig loads a game preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
