// Package config provides configuration management for the habitat tile game.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines the number of players sharing the board, how many
// habitat/wildlife pairs are offered per turn, and optional message templates.
// Missing message templates fall back to built-in defaults.
//
//	{
//	  "name": "classic",
//	  "description": "Two players, three options per turn",
//	  "players": 2,
//	  "draft_size": 3
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("solo")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory holds no usable file, the default is
// engine.DefaultGameConfig.
package config
