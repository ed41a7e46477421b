// Package config manages maze game presets stored as JSON files.
//
// Each preset sets the starting grid size, the preferred cell size, the
// initial viewport width, an optional generator seed and the messages shown
// for game events:
//
//	{
//	  "name": "Classic",
//	  "description": "Start at 5x5 and grow two cells per level",
//	  "initial_size": 5,
//	  "cell_size": 30,
//	  "viewport_width": 800,
//	  "seed": 0,
//	  "messages": {"welcome": "...", "victory": "...", "level_up": "Level %d"}
//	}
//
// Presets are referenced by file name without the .json suffix (the
// config_id). classic is the default; when it is missing the first valid
// preset is used, and an empty directory falls back to a built-in 5x5 preset.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("tiny")
//	presets, err := manager.ListConfigs()
package config
