package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/derekprior/rally/internal/schedule"
)

type Tournament struct {
	Name      string `yaml:"name"`
	GamesEach int    `yaml:"games_each"`
}

// Competitor is a roster entry. ID is optional in the file; one is
// generated at load time when it is missing.
type Competitor struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

type Scheduler struct {
	Seed        int64 `yaml:"seed"`         // 0 means seed from the clock
	MaxAttempts int   `yaml:"max_attempts"` // 0 means schedule.DefaultMaxAttempts
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Tournament  Tournament   `yaml:"tournament"`
	Competitors []Competitor `yaml:"competitors"`
	Scheduler   Scheduler    `yaml:"scheduler"`
	Log         Log          `yaml:"log"`
}

// Roster returns the competitors in file order.
func (c *Config) Roster() []schedule.Competitor {
	roster := make([]schedule.Competitor, len(c.Competitors))
	for i, comp := range c.Competitors {
		roster[i] = schedule.Competitor{ID: comp.ID, Name: comp.Name}
	}
	return roster
}

// LogLevel returns the configured level, defaulting to info.
func (c *Config) LogLevel() logrus.Level {
	if c.Log.Level == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Formatter returns the logrus formatter named by log.format.
func (c *Config) Formatter() logrus.Formatter {
	if c.Log.Format == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{DisableTimestamp: true, PadLevelText: true}
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	for i := range cfg.Competitors {
		if cfg.Competitors[i].ID == "" {
			cfg.Competitors[i].ID = uuid.NewString()
		}
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if len(c.Competitors) < 2 {
		return fmt.Errorf("at least two competitors are required, got %d", len(c.Competitors))
	}

	names := make(map[string]bool)
	ids := make(map[string]string)
	for i, comp := range c.Competitors {
		name := strings.TrimSpace(comp.Name)
		if name == "" {
			return fmt.Errorf("competitor %d has no name", i+1)
		}
		if names[name] {
			return fmt.Errorf("competitor %q is listed more than once", name)
		}
		names[name] = true

		if comp.ID == "" {
			continue
		}
		if prev, ok := ids[comp.ID]; ok {
			return fmt.Errorf("competitors %q and %q share id %q", prev, name, comp.ID)
		}
		ids[comp.ID] = name
	}

	g := c.Tournament.GamesEach
	if g < 1 {
		return fmt.Errorf("games_each must be at least 1, got %d", g)
	}
	if n := len(c.Competitors); n%2 == 1 && g%2 == 1 {
		return fmt.Errorf("%w: %d competitors cannot each play %d games", schedule.ErrInfeasibleConfiguration, n, g)
	}

	if c.Scheduler.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative, got %d", c.Scheduler.MaxAttempts)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", c.Log.Format)
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}

	return nil
}
