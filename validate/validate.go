// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory. It checks:
//   - JSON structure, with unknown fields rejected
//   - Required fields (name, description)
//   - Player count and draft size bounds
//   - Message templates: each custom message must take the same arguments as
//     the built-in one it replaces
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/cascadia/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if strings.TrimSpace(config.Name) == "" {
		result.fail("name is required")
	}
	if strings.TrimSpace(config.Description) == "" {
		result.fail("description is required")
	}

	if config.Players < engine.MinPlayers || config.Players > engine.MaxPlayers {
		result.fail("players must be between %d and %d, got %d", engine.MinPlayers, engine.MaxPlayers, config.Players)
	}
	if config.DraftSize < engine.MinDraftSize || config.DraftSize > engine.MaxDraftSize {
		result.fail("draft_size must be between %d and %d, got %d", engine.MinDraftSize, engine.MaxDraftSize, config.DraftSize)
	}

	custom := 0
	for _, tmpl := range engine.MessageTemplates {
		value := tmpl.Value(&config)
		if value == "" {
			continue
		}
		custom++
		if got := engine.CountVerbs(value); got != tmpl.Args {
			result.fail("Message %s takes %d arguments, template has %d", tmpl.Key, tmpl.Args, got)
		}
	}

	// The engine's own check must agree with the rules above
	if result.Valid {
		if err := engine.ValidateGameConfig(&config); err != nil {
			result.fail("%v", err)
		}
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Players: %d", config.Players))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Draft size: %d", config.DraftSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Messages: %d custom, %d default", custom, len(engine.MessageTemplates)-custom))
	}

	return result
}

// main validates every *.json file in the directories given on the command
// line (default ../configs), printing a concise report and exiting with
// non-zero status if any are invalid.
func main() {
	dirs := os.Args[1:]
	if len(dirs) == 0 {
		dirs = []string{"../configs"}
	}

	var files []string
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			fmt.Printf("Error finding config files: %v\n", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
