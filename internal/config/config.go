// Package config reads and writes caixa.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone names without system zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/caixa-dev/caixa/internal/logging"
	"github.com/caixa-dev/caixa/internal/ocr"
	"github.com/caixa-dev/caixa/internal/receipt"
	"github.com/caixa-dev/caixa/internal/session"
	"github.com/caixa-dev/caixa/internal/txparse"
)

// FileName is the config file created by `caixa init`.
const FileName = "caixa.yaml"

// builtinEngine is the name Registry gives the tesseract engine.
const builtinEngine = "tesseract"

// Config represents the top-level caixa.yaml configuration.
type Config struct {
	Database DatabaseConfig  `yaml:"database"`
	Parser   ParserConfig    `yaml:"parser"`
	Receipt  receipt.Scoring `yaml:"receipt"`
	OCR      OCRConfig       `yaml:"ocr"`
	Reports  ReportsConfig   `yaml:"reports"`
	Session  SessionConfig   `yaml:"session"`
	Timezone string          `yaml:"timezone"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ParserConfig controls the text transaction parser.
type ParserConfig struct {
	MaxLines int `yaml:"max_lines"`
}

// OCRConfig selects OCR engines. Engines are tried in order.
type OCRConfig struct {
	Engines  []string        `yaml:"engines"`
	Language string          `yaml:"language"`
	PSM      int             `yaml:"psm,omitempty"`
	Commands []CommandEngine `yaml:"commands,omitempty"`
}

// CommandEngine declares an external OCR program usable by name in Engines.
type CommandEngine struct {
	Name string   `yaml:"name"`
	Path string   `yaml:"path"`
	Args []string `yaml:"args,omitempty"`
}

// ReportsConfig controls where exports are written.
type ReportsConfig struct {
	Dir string `yaml:"dir"`
}

// SessionConfig controls pending receipt confirmations.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// LoggingConfig sets the slog level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a caixa.yaml file from disk. Missing sections keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new install.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "data/caixa.sqlite"},
		Parser:   ParserConfig{MaxLines: txparse.DefaultMaxLines},
		Receipt:  receipt.DefaultScoring(),
		OCR: OCRConfig{
			Engines:  []string{"tesseract"},
			Language: "por",
		},
		Reports:  ReportsConfig{Dir: "reports"},
		Session:  SessionConfig{TTL: session.DefaultTTL},
		Timezone: "America/Sao_Paulo",
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// Validate reports every problem found in cfg.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Parser.MaxLines <= 0 {
		errs = append(errs, fmt.Errorf("parser.max_lines must be positive, got %d", c.Parser.MaxLines))
	}
	if err := c.Receipt.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("receipt: %w", err))
	}
	if len(c.OCR.Engines) == 0 {
		errs = append(errs, errors.New("ocr.engines must name at least one engine"))
	}
	seen := map[string]bool{builtinEngine: true}
	for i, cmd := range c.OCR.Commands {
		if cmd.Name == "" || cmd.Path == "" {
			errs = append(errs, fmt.Errorf("ocr.commands[%d]: name and path are required", i))
			continue
		}
		key := strings.ToLower(cmd.Name)
		if seen[key] {
			errs = append(errs, fmt.Errorf("ocr.commands[%d]: engine name %q is already taken", i, cmd.Name))
		}
		seen[key] = true
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}

// Resolve makes relative database and report paths relative to baseDir,
// normally the directory holding caixa.yaml.
func (c *Config) Resolve(baseDir string) {
	if c.Database.Path != ":memory:" && !filepath.IsAbs(c.Database.Path) {
		c.Database.Path = filepath.Join(baseDir, c.Database.Path)
	}
	if !filepath.IsAbs(c.Reports.Dir) {
		c.Reports.Dir = filepath.Join(baseDir, c.Reports.Dir)
	}
}

// Location returns the configured timezone, UTC when unset.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Registry returns the OCR engines this config can name: the built-in
// tesseract engine plus every configured command.
func (c *Config) Registry() *ocr.Registry {
	r := ocr.NewRegistry()
	r.Register(&ocr.Tesseract{Lang: c.OCR.Language, PSM: c.OCR.PSM})
	for _, cmd := range c.OCR.Commands {
		r.Register(&ocr.Command{Label: cmd.Name, Path: cmd.Path, Args: cmd.Args})
	}
	return r
}
