//go:build unix

package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"golang.org/x/sys/unix"
)

// ResizeEvent reports a new terminal size
type ResizeEvent struct {
	Width  int
	Height int
}

// ResizeWatcher turns SIGWINCH into ResizeEvents for one terminal fd
type ResizeWatcher struct {
	fd      int
	sigCh   chan os.Signal
	eventCh chan ResizeEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewResizeWatcher creates a watcher for the given fd
func NewResizeWatcher(fd int) *ResizeWatcher {
	return &ResizeWatcher{
		fd:      fd,
		sigCh:   make(chan os.Signal, 1),
		eventCh: make(chan ResizeEvent, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start begins listening for SIGWINCH
func (r *ResizeWatcher) Start() {
	signal.Notify(r.sigCh, syscall.SIGWINCH)
	go r.watchLoop()
}

// Stop stops the watcher and waits for its loop to exit
func (r *ResizeWatcher) Stop() {
	signal.Stop(r.sigCh)
	close(r.stopCh)
	<-r.doneCh
}

// Events returns the resize channel. Only the latest size is kept.
func (r *ResizeWatcher) Events() <-chan ResizeEvent {
	return r.eventCh
}

func (r *ResizeWatcher) watchLoop() {
	defer close(r.doneCh)

	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mRESIZE HANDLER CRASHED: %v\x1b[0m\r\n", p)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		select {
		case <-r.stopCh:
			return
		case <-r.sigCh:
			ws, err := unix.IoctlGetWinsize(r.fd, unix.TIOCGWINSZ)
			if err != nil || ws.Col == 0 || ws.Row == 0 {
				continue
			}
			r.publish(ResizeEvent{Width: int(ws.Col), Height: int(ws.Row)})
		}
	}
}

// publish replaces an unconsumed event rather than blocking
func (r *ResizeWatcher) publish(ev ResizeEvent) {
	select {
	case r.eventCh <- ev:
	default:
		select {
		case <-r.eventCh:
		default:
		}
		r.eventCh <- ev
	}
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 25 // Fallback
	}
	return int(ws.Col), int(ws.Row)
}
