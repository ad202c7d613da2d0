package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBindingsConfig holds the modifier and optional per-action overrides
type KeyBindingsConfig struct {
	Modifier string            `toml:"modifier"`
	Actions  map[string]string `toml:"actions"`
}

const defaultModifier = "ctrl"

// actionKeys maps action names to their default key; the modifier is
// prepended unless the key is listed in bareKeys.
var actionKeys = map[string]string{
	"quit":          "c",
	"save_report":   "s",
	"copy_report":   "y",
	"cycle_model":   "o",
	"clear_input":   "u",
	"clear_history": "l",
	"help":          "h",
	"search":        "f",
	"scroll_up":     "pgup",
	"scroll_down":   "pgdown",
	"submit":        "enter",
}

var bareKeys = map[string]bool{
	"pgup":   true,
	"pgdown": true,
	"enter":  true,
}

func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{Modifier: defaultModifier}
}

// LoadKeybindings reads <dataDir>/keybindings.toml, writing the template
// first if it is missing.
func LoadKeybindings(dataDir string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	path := filepath.Join(dataDir, "keybindings.toml")
	if !FileExists(path) {
		if err := CreateDefaultKeybindings(dataDir); err != nil {
			return nil, fmt.Errorf("failed to create keybindings: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse keybindings: %w", err)
	}
	if cfg.Modifier == "" {
		cfg.Modifier = defaultModifier
	}
	if ok, msg := cfg.Validate(); !ok {
		return nil, fmt.Errorf("invalid keybindings: %s", msg)
	}
	return cfg, nil
}

// Key returns the binding for an action, honoring overrides.
func (kb *KeyBindingsConfig) Key(action string) string {
	if override := kb.Actions[action]; override != "" {
		return override
	}
	key, ok := actionKeys[action]
	if !ok {
		return ""
	}
	if bareKeys[key] {
		return key
	}
	mod := kb.Modifier
	if mod == "" {
		mod = defaultModifier
	}
	return mod + "+" + key
}

// Display returns a capitalized binding, e.g. "ctrl+s" -> "Ctrl+S".
func (kb *KeyBindingsConfig) Display(action string) string {
	key := kb.Key(action)
	parts := strings.Split(key, "+")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if len(part) == 1 {
			parts[i] = strings.ToUpper(part)
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "+")
}

func (kb *KeyBindingsConfig) Validate() (bool, string) {
	if kb.Modifier == "shift" {
		return false, "Shift alone conflicts with typing"
	}
	for action := range kb.Actions {
		if _, ok := actionKeys[action]; !ok {
			return false, fmt.Sprintf("unknown action %q", action)
		}
	}
	return true, ""
}

func CreateDefaultKeybindings(dataDir string) error {
	const tmpl = `# rtui Keybindings
# Location: <data_directory>/keybindings.toml

modifier = "ctrl"

[actions]
# save_report = "ctrl+w"
# cycle_model = "alt+m"
`
	if err := os.WriteFile(filepath.Join(dataDir, "keybindings.toml"), []byte(tmpl), 0600); err != nil {
		return fmt.Errorf("failed to write keybindings: %w", err)
	}
	return nil
}
