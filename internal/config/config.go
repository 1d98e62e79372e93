package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const envPrefix = "INPUTCOMMANDS_"

type Config struct {
	LogLevel    string   `yaml:"log_level"`
	DryRun      bool     `yaml:"dry_run"`
	BoundsCheck bool     `yaml:"bounds_check"`
	Listen      string   `yaml:"listen"`
	STUN        []string `yaml:"stun"`
}

// Flags carries command-line overrides. Pointer fields are nil when the
// flag was not given.
type Flags struct {
	ConfigPath  string
	LogLevel    string
	DryRun      *bool
	BoundsCheck *bool
	Listen      string
	STUN        []string
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Listen:   "127.0.0.1:8080",
		STUN:     []string{"stun:stun.l.google.com:19302"},
	}
}

// Load resolves configuration from flags > env > config file > defaults.
func Load(f Flags) (*Config, error) {
	cfg := Default()

	// 1. Config file as base
	path := f.ConfigPath
	if path == "" {
		path = configFilePath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case f.ConfigPath != "":
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// 2. Environment variables override config file
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if err := envBool("DRY_RUN", &cfg.DryRun); err != nil {
		return nil, err
	}
	if err := envBool("BOUNDS_CHECK", &cfg.BoundsCheck); err != nil {
		return nil, err
	}
	if v := os.Getenv(envPrefix + "LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv(envPrefix + "STUN"); v != "" {
		cfg.STUN = strings.Split(v, ",")
	}

	// 3. CLI flags override everything
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.DryRun != nil {
		cfg.DryRun = *f.DryRun
	}
	if f.BoundsCheck != nil {
		cfg.BoundsCheck = *f.BoundsCheck
	}
	if f.Listen != "" {
		cfg.Listen = f.Listen
	}
	if len(f.STUN) > 0 {
		cfg.STUN = f.STUN
	}

	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func envBool(name string, dst *bool) error {
	v := os.Getenv(envPrefix + name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = b
	return nil
}

func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".inputcommands", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
