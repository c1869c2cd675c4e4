package bridge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/fcccode/winpty/console"
)

func writeSnapshot(t *testing.T, path string, lines ...string) {
	t.Helper()
	data, err := console.EncodeSnapshot(sampleScreen(12, lines...))
	require.NoError(t, err)
	// Write then rename so the watcher never sees a partial file
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, data, 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatchServiceFollowsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	writeSnapshot(t, path, "first")

	sink := &bufferSink{}
	s := NewSession(sink)
	require.NoError(t, s.Start(false))

	svc := NewWatchService(path, s, 10*time.Millisecond, nil, nil)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	require.Contains(t, ansi.Strip(sink.String()), "first")
	require.EqualValues(t, 1, svc.Reloads())

	writeSnapshot(t, path, "second")
	require.Eventually(t, func() bool {
		return strings.Contains(ansi.Strip(sink.String()), "second")
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, svc.LastError())
}

func TestWatchServiceBadInitialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s := NewSession(&bufferSink{})
	require.NoError(t, s.Start(false))

	svc := NewWatchService(path, s, 10*time.Millisecond, nil, nil)
	err := svc.Start()
	require.Error(t, err)
	require.ErrorIs(t, err, console.ErrInvalidSnapshot)
	require.Equal(t, err, svc.LastError())
	require.NoError(t, svc.Stop())
}

func TestWatchServiceKeepsRunningAfterBadEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	writeSnapshot(t, path, "first")

	sink := &bufferSink{}
	s := NewSession(sink)
	require.NoError(t, s.Start(false))

	svc := NewWatchService(path, s, 10*time.Millisecond, nil, nil)
	require.NoError(t, svc.Start())

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	require.Eventually(t, func() bool {
		return svc.LastError() != nil
	}, 5*time.Second, 10*time.Millisecond)

	writeSnapshot(t, path, "third")
	require.Eventually(t, func() bool {
		return strings.Contains(ansi.Strip(sink.String()), "third")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Stop())
	select {
	case <-svc.Done():
	default:
		t.Fatal("watch loop still running after Stop")
	}
}

func TestWatchServiceRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.json")
	writeSnapshot(t, path, "first")

	sink := &bufferSink{}
	s := NewSession(sink)
	require.NoError(t, s.Start(false))

	svc := NewWatchService(path, s, 10*time.Millisecond, nil, nil)
	require.NoError(t, svc.Start())
	require.NoError(t, svc.Stop())

	require.NoError(t, svc.Start())
	defer svc.Stop()

	select {
	case <-svc.Done():
		t.Fatal("restarted watch loop exited immediately")
	default:
	}

	writeSnapshot(t, path, "again")
	require.Eventually(t, func() bool {
		return strings.Contains(ansi.Strip(sink.String()), "again")
	}, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return svc.Reloads() >= 3
	}, 5*time.Second, 10*time.Millisecond)
}
