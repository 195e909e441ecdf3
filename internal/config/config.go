// Package config loads the sitesync configuration file.
//
// The file is CUE (plain JSON is valid CUE) and is unified with the embedded
// #Config schema, which supplies defaults and rejects unknown fields.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource []byte

type Config struct {
	Database  string          `json:"database"`
	Transport TransportConfig `json:"transport"`
	Sync      SyncConfig      `json:"sync"`
	Log       LogConfig       `json:"log"`
}

type TransportConfig struct {
	Dir string `json:"dir"`
}

type SyncConfig struct {
	IntervalText string `json:"interval"`
	BatchSize    int    `json:"batch_size"`

	// Interval is IntervalText parsed by Load.
	Interval time.Duration `json:"-"`
}

type LogConfig struct {
	Level string `json:"level"`
}

// SlogLevel maps Level to a slog level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the configuration with every default applied.
func Default() (*Config, error) {
	return Parse(nil, "")
}

// Load reads and validates the file at path. Relative paths in the file
// are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	cfg.Database = resolve(base, cfg.Database)
	cfg.Transport.Dir = resolve(base, cfg.Transport.Dir)
	return cfg, nil
}

// Parse validates src against the schema. filename is only used in error
// positions.
func Parse(src []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	if len(src) == 0 {
		src = []byte("{}")
	}
	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	v := def.Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, formatCUEError(err)
	}

	interval, err := time.ParseDuration(cfg.Sync.IntervalText)
	if err != nil || interval <= 0 {
		return nil, &ConfigError{
			Field:   "sync.interval",
			Message: fmt.Sprintf("%q is not a positive duration", cfg.Sync.IntervalText),
			Pos:     v.LookupPath(cue.ParsePath("sync.interval")).Pos(),
		}
	}
	cfg.Sync.Interval = interval
	return &cfg, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	var pos token.Pos
	if positions := errors.Positions(first); len(positions) > 0 {
		pos = positions[0]
	}
	return &ConfigError{Field: "config", Message: first.Error(), Pos: pos}
}
