// Package config loads the client configuration: defaults, then the YAML
// file in the data dir, then environment overrides.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDedupCapacity = 500
	DefaultThemeColor    = "#007aff"
)

type Config struct {
	ServerURL     string `yaml:"server_url" env:"CLOUDCHAT_SERVER_URL"`
	SocketURL     string `yaml:"socket_url" env:"CLOUDCHAT_SOCKET_URL"`
	Identity      string `yaml:"identity" env:"CLOUDCHAT_IDENTITY"`
	Passphrase    string `yaml:"-" env:"CLOUDCHAT_PASSPHRASE"`
	DataDir       string `yaml:"data_dir" env:"CLOUDCHAT_DATA_DIR"`
	LogPort       int    `yaml:"log_port" env:"CLOUDCHAT_LOG_PORT"`
	DedupCapacity int    `yaml:"dedup_capacity" env:"CLOUDCHAT_DEDUP_CAPACITY"`
	ThemeColor    string `yaml:"theme_color" env:"CLOUDCHAT_THEME_COLOR"`
}

func defaults() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		ServerURL:     "http://localhost:5000",
		DataDir:       filepath.Join(home, ".cloudchat"),
		DedupCapacity: DefaultDedupCapacity,
		ThemeColor:    DefaultThemeColor,
	}
}

// Load reads path (or <data dir>/config.yaml when path is empty). A missing
// file is not an error; env vars win over the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	default:
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.SocketURL == "" {
		cfg.SocketURL = deriveSocketURL(cfg.ServerURL)
	}
	if cfg.DedupCapacity <= 0 {
		cfg.DedupCapacity = DefaultDedupCapacity
	}
	return &cfg, nil
}

// deriveSocketURL swaps the http scheme for ws on the same host.
func deriveSocketURL(serverURL string) string {
	switch {
	case len(serverURL) >= 8 && serverURL[:8] == "https://":
		return "wss://" + serverURL[8:] + "/ws"
	case len(serverURL) >= 7 && serverURL[:7] == "http://":
		return "ws://" + serverURL[7:] + "/ws"
	}
	return serverURL + "/ws"
}
