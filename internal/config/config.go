package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type rawConfig struct {
	Server *struct {
		Address        string   `yaml:"address"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		// Requests per second allowed per client, with a burst of the same
		// size. Zero disables rate limiting.
		RateLimit *float64 `yaml:"rate_limit"`
	} `yaml:"server"`
	Database *struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Match *struct {
		StartingLives int `yaml:"starting_lives"`
		MaxFleetSize  int `yaml:"max_fleet_size"`
	} `yaml:"match"`
	Realtime *struct {
		PingInterval string `yaml:"ping_interval"`
	} `yaml:"realtime"`
	LogLevel string `yaml:"log_level"`
}

// LoadedConfig holds the validated server settings.
type LoadedConfig struct {
	ServerAddress  string
	AllowedOrigins []string
	RateLimit      float64
	DatabasePath   string
	StartingLives  int
	MaxFleetSize   int
	PingInterval   time.Duration
	LogLevel       string
}

// Default returns the settings used when no config file is present.
func Default() *LoadedConfig {
	return &LoadedConfig{
		ServerAddress:  ":8080",
		AllowedOrigins: []string{"*"},
		RateLimit:      10,
		DatabasePath:   "./data/fleet-clash.db",
		StartingLives:  3,
		MaxFleetSize:   12,
		PingInterval:   30 * time.Second,
		LogLevel:       "info",
	}
}

// LoadConfig reads the YAML configuration at path, applies defaults for
// anything omitted and validates the result.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(path, b)
}

// Parse decodes and validates configuration bytes; name is only used in
// error messages.
func Parse(name string, b []byte) (*LoadedConfig, error) {
	var rc rawConfig
	if err := yaml.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", name, err)
	}

	cfg := Default()
	if rc.Server != nil {
		if rc.Server.Address != "" {
			cfg.ServerAddress = rc.Server.Address
		}
		if len(rc.Server.AllowedOrigins) > 0 {
			for _, o := range rc.Server.AllowedOrigins {
				if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
					return nil, fmt.Errorf("config file %s: invalid server.allowed_origins entry %q", name, o)
				}
			}
			cfg.AllowedOrigins = rc.Server.AllowedOrigins
		}
		if rc.Server.RateLimit != nil {
			if *rc.Server.RateLimit < 0 {
				return nil, fmt.Errorf("config file %s: server.rate_limit must not be negative", name)
			}
			cfg.RateLimit = *rc.Server.RateLimit
		}
	}
	if rc.Database != nil && strings.TrimSpace(rc.Database.Path) != "" {
		cfg.DatabasePath = strings.TrimSpace(rc.Database.Path)
	}
	if rc.Match != nil {
		if rc.Match.StartingLives != 0 {
			cfg.StartingLives = rc.Match.StartingLives
		}
		if rc.Match.MaxFleetSize != 0 {
			cfg.MaxFleetSize = rc.Match.MaxFleetSize
		}
	}
	if cfg.StartingLives < 1 {
		return nil, fmt.Errorf("config file %s: match.starting_lives must be at least 1", name)
	}
	if cfg.MaxFleetSize < 1 {
		return nil, fmt.Errorf("config file %s: match.max_fleet_size must be at least 1", name)
	}
	if rc.Realtime != nil && rc.Realtime.PingInterval != "" {
		d, err := time.ParseDuration(rc.Realtime.PingInterval)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config file %s: invalid realtime.ping_interval %q", name, rc.Realtime.PingInterval)
		}
		cfg.PingInterval = d
	}
	if rc.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(rc.LogLevel)
	}
	return cfg, nil
}
