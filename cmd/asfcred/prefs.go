// ABOUTME: CLI preferences loaded from a TOML file under XDG config
// ABOUTME: Prefs are optional; a missing or broken file falls back to defaults

package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
)

// prefs holds per-user CLI preferences. Everything here is optional and
// overridable by flags or environment variables.
type prefs struct {
	Output   outputPrefs   `toml:"output"`
	Defaults defaultsPrefs `toml:"defaults"`
}

type outputPrefs struct {
	Color string `toml:"color"` // "auto" (default), "always", "never"
}

type defaultsPrefs struct {
	Config string `toml:"config"` // path to config.yaml
	UID    string `toml:"uid"`    // uid for pat commands
}

// prefsPath returns the XDG location of the preferences file.
func prefsPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "asfcred/prefs.toml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "asfcred", "prefs.toml")
}

// loadPrefs reads the preferences file. Absence is not an error; a
// malformed file is ignored rather than blocking every command.
func loadPrefs() *prefs {
	p := &prefs{}
	data, err := os.ReadFile(prefsPath())
	if err != nil {
		return p
	}
	if _, err := toml.Decode(string(data), p); err != nil {
		return &prefs{}
	}
	return p
}

// apply enacts preferences that take effect globally.
func (p *prefs) apply() {
	switch p.Output.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}
