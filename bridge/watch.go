package bridge

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/fcccode/winpty/console"
	"github.com/fcccode/winpty/terminal"
)

// WatchService re-renders a snapshot file through a Session whenever the
// file changes on disk
type WatchService struct {
	path     string
	session  *Session
	debounce time.Duration
	log      *slog.Logger
	// restore receives the emergency reset if the watch loop panics
	restore io.Writer

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
	// started is set once a loop has run; channels are renewed on restart
	started bool

	reloads atomic.Int64
	lastErr atomic.Pointer[error]
}

// NewWatchService creates a service that feeds path into session. restore is
// the terminal stream reset after a crash, usually os.Stdout.
func NewWatchService(path string, session *Session, debounce time.Duration, restore io.Writer, logger *slog.Logger) *WatchService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if restore == nil {
		restore = io.Discard
	}
	return &WatchService{
		path:     path,
		session:  session,
		debounce: debounce,
		log:      logger.With("file", path),
		restore:  restore,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Name identifies the service in logs
func (s *WatchService) Name() string {
	return "watch"
}

// Start renders the file once and then follows changes to it. A stopped
// service may be started again.
func (s *WatchService) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	// Watch the directory; editors replace files by rename
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return errors.Wrapf(err, "watch %s", filepath.Dir(s.path))
	}

	if err := s.Reload(); err != nil {
		w.Close()
		return err
	}

	s.mu.Lock()
	if s.started {
		s.stopCh = make(chan struct{})
		s.doneCh = make(chan struct{})
	}
	s.started = true
	s.watcher = w
	s.running = true
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	go s.watchLoop(w, stopCh, doneCh)
	return nil
}

// Reload reads the file and sends it through the session
func (s *WatchService) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s.fail(errors.Wrap(err, "read snapshot"))
	}
	scr, err := console.ParseSnapshot(data)
	if err != nil {
		return s.fail(err)
	}
	if err := s.session.Update(scr); err != nil {
		return s.fail(err)
	}
	s.reloads.Add(1)
	s.lastErr.Store(nil)
	return nil
}

func (s *WatchService) fail(err error) error {
	s.lastErr.Store(&err)
	return err
}

// Reloads returns the number of successful renders
func (s *WatchService) Reloads() int64 {
	return s.reloads.Load()
}

// LastError returns the error of the most recent reload, nil after a success
func (s *WatchService) LastError() error {
	if p := s.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *WatchService) watchLoop(w *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(s.restore)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mWATCH LOOP CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Stderr.Sync()
			os.Exit(1)
		}
	}()

	target := filepath.Clean(s.path)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(s.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "error", err)

		case <-timer.C:
			if err := s.Reload(); err != nil {
				s.log.Warn("reload failed", "error", err)
				continue
			}
			st := s.session.Stats()
			s.log.Debug("reloaded", "rows_sent", st.RowsSent, "bytes", st.BytesWritten)
		}
	}
}

// Stop ends the watch loop and releases the watcher
func (s *WatchService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopCh, doneCh, w := s.stopCh, s.doneCh, s.watcher
	s.mu.Unlock()

	close(stopCh)
	<-doneCh

	return w.Close()
}

// Done is closed when the current watch loop exits
func (s *WatchService) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneCh
}
