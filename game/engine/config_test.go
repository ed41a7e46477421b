package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GameConfig)
		wantErr string
	}{
		{"valid", func(*GameConfig) {}, ""},
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"size too small", func(c *GameConfig) { c.InitialSize = 3 }, "initial_size must be between"},
		{"size too large", func(c *GameConfig) { c.InitialSize = 53 }, "initial_size must be between"},
		{"even size", func(c *GameConfig) { c.InitialSize = 10 }, "initial_size must be odd"},
		{"cell size zero", func(c *GameConfig) { c.CellSize = 0 }, "cell_size must be between"},
		{"cell size too large", func(c *GameConfig) { c.CellSize = 31 }, "cell_size must be between"},
		{"no viewport", func(c *GameConfig) { c.ViewportWidth = 0 }, "viewport_width must be positive"},
		{"no welcome", func(c *GameConfig) { c.Messages.Welcome = "" }, "messages.welcome is required"},
		{"no victory", func(c *GameConfig) { c.Messages.Victory = "" }, "messages.victory is required"},
		{"level_up without verb", func(c *GameConfig) { c.Messages.LevelUp = "Next level!" }, "messages.level_up must contain %d"},
		{"optional messages empty", func(c *GameConfig) {
			c.Messages.Moved = ""
			c.Messages.Blocked = ""
			c.Messages.LevelUp = ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultGameConfig()
			tt.mutate(config)

			err := ValidateGameConfig(config)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}

	if err := ValidateGameConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()

	valid := `{
		"name": "Tiny",
		"description": "Small and quick",
		"initial_size": 7,
		"cell_size": 24,
		"viewport_width": 600,
		"seed": 99,
		"messages": {"welcome": "Go!", "victory": "Out!"}
	}`
	path := filepath.Join(dir, "tiny.json")
	if err := os.WriteFile(path, []byte(valid), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}
	if config.Name != "Tiny" || config.InitialSize != 7 || config.CellSize != 24 {
		t.Errorf("unexpected config: %+v", config)
	}
	if config.Seed != 99 {
		t.Errorf("expected seed 99, got %d", config.Seed)
	}

	e, err := NewEngine(config)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if msg := e.GetState().Message; msg != "Go!" {
		t.Errorf("expected welcome message, got %q", msg)
	}
	if blocked := e.messages.Blocked; blocked != "Bumped into a wall!" {
		t.Errorf("expected default blocked message, got %q", blocked)
	}
}

func TestLoadGameConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadGameConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	broken := filepath.Join(dir, "broken.json")
	os.WriteFile(broken, []byte("{not json"), 0644)
	if _, err := LoadGameConfig(broken); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"name":"x","description":"y","initial_size":6,"cell_size":10,"viewport_width":100,"messages":{"welcome":"a","victory":"b"}}`), 0644)
	if _, err := LoadGameConfig(invalid); err == nil || !strings.Contains(err.Error(), "odd") {
		t.Errorf("expected validation error, got %v", err)
	}
}
