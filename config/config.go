// Package config loads the declarative salescast configuration: server
// listen settings, remote peer URLs, call timeouts, scoring constants, and
// caller fallback datasets. Everything is loaded once at startup and
// treated as read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petal-labs/salescast/agent"
	"github.com/petal-labs/salescast/forecast"
)

const (
	projectConfigName = "salescast.yaml"
	homeConfigName    = "config.yaml"
	homeConfigDir     = ".salescast"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen       string        `yaml:"listen"`
	CORSOrigin   string        `yaml:"cors_origin"`
	MaxBody      int64         `yaml:"max_body"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// PeersConfig holds one base URL per remote peer.
type PeersConfig struct {
	PoliticalURL string `yaml:"political_url"`
	GDPURL       string `yaml:"gdp_url"`
}

// FallbackConfig overrides the built-in caller fallback datasets.
type FallbackConfig struct {
	Political agent.FallbackEvents `yaml:"political"`
	GDP       agent.FallbackGDP    `yaml:"gdp"`
}

// Config is the full salescast configuration.
type Config struct {
	Server      ServerConfig             `yaml:"server"`
	Peers       PeersConfig              `yaml:"peers"`
	CallTimeout time.Duration            `yaml:"call_timeout"`
	Thresholds  forecast.Thresholds      `yaml:"thresholds"`
	Weights     agent.ImpactWeights      `yaml:"weights"`
	Economic    agent.EconomicThresholds `yaml:"economic"`
	Fallback    FallbackConfig           `yaml:"fallback"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:       ":8000",
			CORSOrigin:   "*",
			MaxBody:      1 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Peers: PeersConfig{
			PoliticalURL: "http://localhost:8000/mcp",
			GDPURL:       "http://localhost:8000/mcp",
		},
		CallTimeout: 30 * time.Second,
		Thresholds:  forecast.DefaultThresholds(),
		Weights:     agent.DefaultImpactWeights(),
		Economic:    agent.DefaultEconomicThresholds(),
		Fallback: FallbackConfig{
			Political: agent.DefaultFallbackEvents(),
			GDP:       agent.DefaultFallbackGDP(),
		},
	}
}

// DiscoverPath resolves the config file location with first-match
// semantics: an explicit path, else salescast.yaml in the working
// directory, else ~/.salescast/config.yaml.
func DiscoverPath(explicitPath string) (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("resolve user home: %w", err)
	}
	return DiscoverPathFrom(explicitPath, cwd, homeDir)
}

// DiscoverPathFrom is a testable variant of DiscoverPath.
func DiscoverPathFrom(explicitPath, cwd, homeDir string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if clean := strings.TrimSpace(explicitPath); clean != "" {
		candidates = append(candidates, filepath.Clean(clean))
	} else {
		candidates = append(candidates, filepath.Join(cwd, projectConfigName))
		candidates = append(candidates, filepath.Join(homeDir, homeConfigDir, homeConfigName))
	}

	for i, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			// An explicit path that does not exist is an error.
			if i == 0 && strings.TrimSpace(explicitPath) != "" {
				return "", false, fmt.Errorf("config file %q not found", candidate)
			}
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("checking config path %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Load reads a config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	clean := strings.TrimSpace(path)
	if clean == "" {
		return cfg, nil
	}

	// #nosec G304 -- path resolved from explicit local config discovery.
	data, err := os.ReadFile(clean)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", clean, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", clean, err)
	}
	return cfg, nil
}
