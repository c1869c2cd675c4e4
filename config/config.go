// Package config loads bridge settings from TOML or YAML files.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fcccode/winpty/terminal"
)

// Passthrough settings
const (
	PassthroughAuto = "auto"
	PassthroughOn   = "on"
	PassthroughOff  = "off"
)

var (
	ErrUnknownFormat = errors.New("unsupported config format")
	ErrInvalid       = errors.New("invalid config")
)

// Duration is a time.Duration read from strings such as "50ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds bridge settings
type Config struct {
	// Charset names the remote terminal's character set
	Charset string `toml:"charset" yaml:"charset"`
	// Passthrough is "auto", "on" or "off"; auto enables it for non-tty output
	Passthrough string `toml:"passthrough" yaml:"passthrough"`
	// ClearOnStart clears the remote screen when a session starts
	ClearOnStart bool `toml:"clear_on_start" yaml:"clear_on_start"`
	// PopupBoxRemap maps code points 1-6 to double-line box glyphs
	PopupBoxRemap bool `toml:"popup_box_remap" yaml:"popup_box_remap"`
	// LogLevel is a slog level name
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// WatchDebounce coalesces bursts of snapshot file changes
	WatchDebounce Duration `toml:"watch_debounce" yaml:"watch_debounce"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Charset:       "utf-8",
		Passthrough:   PassthroughAuto,
		ClearOnStart:  true,
		PopupBoxRemap: false,
		LogLevel:      "info",
		WatchDebounce: Duration{50 * time.Millisecond},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		return cfg, errors.Wrapf(ErrUnknownFormat, "%s", path)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Wrapf(ErrInvalid, "unknown keys %v", undecoded)
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// Empty document keeps defaults
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// Validate checks every setting
func (c Config) Validate() error {
	if _, err := terminal.LookupCharset(c.Charset); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	switch c.Passthrough {
	case PassthroughAuto, PassthroughOn, PassthroughOff:
	default:
		return errors.Wrapf(ErrInvalid, "passthrough must be auto, on or off, got %q", c.Passthrough)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return errors.Wrapf(ErrInvalid, "log_level %q", c.LogLevel)
	}
	if c.WatchDebounce.Duration < 0 {
		return errors.Wrapf(ErrInvalid, "watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	return nil
}

// Level returns the configured log level, Info when unparsable
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// PassthroughFor resolves the passthrough setting for an output that is or
// is not a terminal
func (c Config) PassthroughFor(isTerminal bool) bool {
	switch c.Passthrough {
	case PassthroughOn:
		return true
	case PassthroughOff:
		return false
	default:
		return !isTerminal
	}
}

// Encode writes the configuration as TOML
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return buf.Bytes(), nil
}
