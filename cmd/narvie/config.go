// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the settings that may be given in the configuration file.
// Command line flags take precedence.
type Config struct {
	Address  string `toml:"address"`  // Serial port address.
	Tcp      int    `toml:"tcp"`      // TCP port of the processor.
	Baud     int    `toml:"baud"`     // Serial baud rate.
	History  string `toml:"history"`  // History file.
	Log      string `toml:"log"`      // Register traffic log file.
	Language string `toml:"language"` // BCP 47 language tag for messages.
	Verbose  bool   `toml:"verbose"`
}

// configDir is the directory holding the configuration and history files.
func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "narvie")
}

// LoadConfig reads a TOML configuration file. A missing file yields the
// zero configuration.
func LoadConfig(path string) (cfg Config, err error) {
	if len(path) == 0 {
		return
	}

	_, err = toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
	}

	return
}
