package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Roelanb/kanbanview/internal/fsutil"
)

const (
	DefaultListen      = "127.0.0.1:8080"
	DefaultAssetsURI   = "/assets"
	DefaultBoardName   = "board"
	DefaultDebounceMs  = 250
	DefaultStateDbPath = "/var/lib/kanbanview/state.db"
)

// Format selects the file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension; anything but .yaml/.yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads, defaults and validates the config at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b, FormatFor(path))
}

// Parse decodes raw config bytes, applies defaults and validates.
func Parse(raw []byte, format Format) (*Config, error) {
	var cfg Config
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &cfg)
	default:
		err = json.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with every default applied. It passes Validate.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Save writes cfg to path in the format implied by its extension.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("save config: path is empty")
	}
	var b []byte
	var err error
	if FormatFor(path) == FormatYAML {
		b, err = yaml.Marshal(cfg)
	} else {
		b, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}
	if cfg.Assets.BaseURI == "" {
		cfg.Assets.BaseURI = DefaultAssetsURI
	}
	if cfg.Board.Name == "" {
		cfg.Board.Name = DefaultBoardName
	}
	if cfg.Board.DebounceMs == 0 {
		cfg.Board.DebounceMs = DefaultDebounceMs
	}
	if cfg.Runtime.StateDbPath == "" {
		cfg.Runtime.StateDbPath = DefaultStateDbPath
	}
}

func Validate(cfg *Config) error {
	if cfg.Version <= 0 {
		return errors.New("version must be > 0")
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q invalid", cfg.Logging.Level)
	}
	if cfg.Assets.Dir != "" && !filepath.IsAbs(cfg.Assets.Dir) {
		return errors.New("assets.dir must be absolute if set")
	}
	if cfg.Board.File != "" && !filepath.IsAbs(cfg.Board.File) {
		return errors.New("board.file must be absolute if set")
	}
	if strings.ContainsAny(cfg.Board.Name, `/\ `) {
		return fmt.Errorf("board.name %q must be a plain base name", cfg.Board.Name)
	}
	if cfg.Board.DebounceMs < 0 {
		return errors.New("board.debounceMs must be >= 0")
	}
	if !filepath.IsAbs(cfg.Runtime.StateDbPath) {
		return errors.New("runtime.stateDbPath must be absolute")
	}
	return nil
}
