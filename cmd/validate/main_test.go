package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/maze-runner/game/engine"
)

const validPreset = `{
	"name": "Test Preset",
	"description": "Test configuration",
	"initial_size": 5,
	"cell_size": 20,
	"viewport_width": 400,
	"seed": 3,
	"messages": {
		"welcome": "Welcome!",
		"victory": "Victory!",
		"level_up": "Level %d"
	}
}`

func writePreset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}
	return path
}

func TestLevelSizes(t *testing.T) {
	sizes := levelSizes(5)
	if sizes[0] != 5 {
		t.Errorf("Expected first size 5, got %d", sizes[0])
	}
	if last := sizes[len(sizes)-1]; last != engine.MaxInitialSize {
		t.Errorf("Expected last size %d, got %d", engine.MaxInitialSize, last)
	}
	if want := (engine.MaxInitialSize-5)/engine.SizeStep + 1; len(sizes) != want {
		t.Errorf("Expected %d sizes from 5, got %d", want, len(sizes))
	}

	capped := levelSizes(engine.MaxInitialSize)
	if len(capped) != 1 {
		t.Errorf("Expected a single size when starting at the cap, got %v", capped)
	}
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writePreset(t, t.TempDir(), "test.json", validPreset)

	result := validateConfig(path, 2)
	if !result.Valid {
		t.Fatalf("Expected valid preset, got errors: %v", result.Errors)
	}
	if result.File != "test.json" {
		t.Errorf("Expected file test.json, got %s", result.File)
	}
	if len(result.Notes) == 0 || !strings.Contains(result.Notes[1], "Generated") {
		t.Errorf("Expected generation note, got %v", result.Notes)
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	path := writePreset(t, t.TempDir(), "broken.json", `{"name": "broken",`)

	result := validateConfig(path, 1)
	if result.Valid {
		t.Error("Expected invalid result for malformed JSON")
	}
}

func TestValidateConfig_EvenSize(t *testing.T) {
	preset := strings.Replace(validPreset, `"initial_size": 5`, `"initial_size": 6`, 1)
	path := writePreset(t, t.TempDir(), "even.json", preset)

	result := validateConfig(path, 1)
	if result.Valid {
		t.Error("Expected even initial size to be rejected")
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "missing.json"), 1)
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
}

func TestValidateDir(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		dir := t.TempDir()
		writePreset(t, dir, "a.json", validPreset)

		var out bytes.Buffer
		ok, err := validateDir(&out, dir, 1)
		if err != nil {
			t.Fatalf("validateDir failed: %v", err)
		}
		if !ok {
			t.Errorf("Expected all valid, output:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "All configurations are valid") {
			t.Errorf("Expected summary line, got:\n%s", out.String())
		}
	})

	t.Run("one invalid", func(t *testing.T) {
		dir := t.TempDir()
		writePreset(t, dir, "a.json", validPreset)
		writePreset(t, dir, "b.json", `{}`)

		var out bytes.Buffer
		ok, err := validateDir(&out, dir, 1)
		if err != nil {
			t.Fatalf("validateDir failed: %v", err)
		}
		if ok {
			t.Error("Expected invalid result")
		}
		if !strings.Contains(out.String(), "b.json") || !strings.Contains(out.String(), "INVALID") {
			t.Errorf("Expected b.json to be reported invalid, got:\n%s", out.String())
		}
	})

	t.Run("empty dir", func(t *testing.T) {
		if _, err := validateDir(&bytes.Buffer{}, t.TempDir(), 1); err == nil {
			t.Error("Expected error for directory without presets")
		}
	})
}

func TestBundledPresets(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	args := []string{"validate", "--config-dir", filepath.Join("..", "..", "configs"), "--rounds", "1"}
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("Bundled presets failed validation: %v\n%s", err, out.String())
	}
}
