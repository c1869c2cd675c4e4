package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "bridge.toml", `
charset = "ibm437"
passthrough = "on"
clear_on_start = false
popup_box_remap = true
log_level = "debug"
watch_debounce = "200ms"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "ibm437", cfg.Charset)
	require.Equal(t, PassthroughOn, cfg.Passthrough)
	require.False(t, cfg.ClearOnStart)
	require.True(t, cfg.PopupBoxRemap)
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, 200*time.Millisecond, cfg.WatchDebounce.Duration)
}

func TestLoadTOMLPartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, "bridge.toml", `charset = "ascii"`)
	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Charset = "ascii"
	require.Equal(t, want, cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "bridge.yaml", `
charset: windows-1252
passthrough: "off"
log_level: warn
watch_debounce: 1s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "windows-1252", cfg.Charset)
	require.Equal(t, PassthroughOff, cfg.Passthrough)
	require.True(t, cfg.ClearOnStart)
	require.Equal(t, slog.LevelWarn, cfg.Level())
	require.Equal(t, time.Second, cfg.WatchDebounce.Duration)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "bridge.yml", ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{"unknown toml key", "a.toml", `colour = "red"`, ErrInvalid},
		{"unknown yaml key", "a.yaml", "colour: red\n", nil},
		{"bad charset", "a.toml", `charset = "klingon-8"`, ErrInvalid},
		{"bad passthrough", "a.toml", `passthrough = "sometimes"`, ErrInvalid},
		{"bad level", "a.toml", `log_level = "loud"`, ErrInvalid},
		{"negative debounce", "a.toml", `watch_debounce = "-1s"`, ErrInvalid},
		{"bad duration", "a.toml", `watch_debounce = "soon"`, nil},
		{"unknown format", "a.ini", "charset=utf-8", ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.target != nil {
				require.True(t, errors.Is(err, tt.target), "error %v is not %v", err, tt.target)
			}
		})
	}
}

func TestPassthroughFor(t *testing.T) {
	cfg := Default()
	require.False(t, cfg.PassthroughFor(true))
	require.True(t, cfg.PassthroughFor(false))

	cfg.Passthrough = PassthroughOn
	require.True(t, cfg.PassthroughFor(true))

	cfg.Passthrough = PassthroughOff
	require.False(t, cfg.PassthroughFor(false))
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Charset = "iso-8859-1"
	cfg.WatchDebounce = Duration{time.Second}

	data, err := cfg.Encode()
	require.NoError(t, err)

	back, err := Load(writeFile(t, "out.toml", string(data)))
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}
