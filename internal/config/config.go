// Package config provides configuration management for the deepcausality engine.
//
// Configuration can be loaded from multiple sources (in order of precedence):
// 1. Environment variables (highest priority)
// 2. Configuration file (JSON)
// 3. Default values (lowest priority)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config represents the complete engine configuration.
type Config struct {
	// Graph settings
	Graph GraphConfig `json:"graph"`

	// Engine settings
	Engine EngineConfig `json:"engine"`

	// Logging settings
	Logging LoggingConfig `json:"logging"`
}

// GraphConfig contains graph-freeze tuning options.
type GraphConfig struct {
	// RadixSortThreshold is the per-node out/in-degree at or above which
	// Freeze switches from insertion sort to LSD radix sort when ordering a
	// node's neighbor slice.
	RadixSortThreshold int `json:"radix_sort_threshold"`
}

// EngineConfig contains reasoning-engine tuning options.
type EngineConfig struct {
	// ShortestPathCacheSize bounds the engine's shortest-path memoization
	// cache (0 = unlimited).
	ShortestPathCacheSize int `json:"shortest_path_cache_size"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Debug holds the DEBUG setting from the environment or the config
	// file. No engine package reads it; the engine emits no log output.
	Debug bool `json:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			RadixSortThreshold: 128,
		},
		Engine: EngineConfig{
			ShortestPathCacheSize: 256,
		},
		Logging: LoggingConfig{
			Debug: false,
		},
	}
}

// Load loads configuration from environment variables and applies defaults.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
// Environment variables follow the pattern: DC_<SECTION>_<KEY>.
func (c *Config) loadFromEnv() error {
	if v := os.Getenv("DC_GRAPH_RADIX_SORT_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DC_GRAPH_RADIX_SORT_THRESHOLD: %w", err)
		}
		c.Graph.RadixSortThreshold = n
	}
	if v := os.Getenv("DC_ENGINE_SHORTEST_PATH_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DC_ENGINE_SHORTEST_PATH_CACHE_SIZE: %w", err)
		}
		c.Engine.ShortestPathCacheSize = n
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.Logging.Debug = parseBool(v)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Graph.RadixSortThreshold < 1 {
		return fmt.Errorf("graph.radix_sort_threshold must be >= 1")
	}
	if c.Engine.ShortestPathCacheSize < 0 {
		return fmt.Errorf("engine.shortest_path_cache_size cannot be negative")
	}
	return nil
}

// parseBool parses a boolean from string (handles various formats).
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on" || s == "enabled"
}

// ToJSON serializes the configuration to JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
