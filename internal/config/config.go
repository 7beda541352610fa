// Package config loads the optional filesync configuration file: persistent
// defaults for flags the CLI would otherwise require on every invocation.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional filesync configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	SSH      SSHConfig      `toml:"ssh"`
}

// DefaultsConfig holds persistent flag defaults applied before CLI flags
// override them.
type DefaultsConfig struct {
	ChunkSize *int    `toml:"chunk_size"`
	BWLimit   *int    `toml:"bwlimit"`
	Quiet     *bool   `toml:"quiet"`
	NoTTY     *bool   `toml:"no_tty"`
	Connect   *string `toml:"connect"`
}

// SSHConfig holds persistent SSH connection defaults.
type SSHConfig struct {
	KeyFile *string `toml:"key_file"`
	Port    *int    `toml:"port"`
}

// Path returns the resolved path to the config file under the XDG config
// directory: "$XDG_CONFIG_HOME/filesync/config.toml", falling back to
// "~/.config/filesync/config.toml".
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "filesync", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist — the config file is always
// optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}
