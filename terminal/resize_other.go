//go:build !unix

package terminal

import "golang.org/x/term"

// ResizeEvent reports a new terminal size
type ResizeEvent struct {
	Width  int
	Height int
}

// ResizeWatcher never fires on platforms without SIGWINCH
type ResizeWatcher struct {
	eventCh chan ResizeEvent
}

// NewResizeWatcher creates a watcher for the given fd
func NewResizeWatcher(fd int) *ResizeWatcher {
	return &ResizeWatcher{eventCh: make(chan ResizeEvent)}
}

// Start is a no-op
func (r *ResizeWatcher) Start() {}

// Stop is a no-op
func (r *ResizeWatcher) Stop() {}

// Events returns a channel that never receives
func (r *ResizeWatcher) Events() <-chan ResizeEvent {
	return r.eventCh
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	w, h, err := term.GetSize(fd)
	if err != nil || w == 0 || h == 0 {
		return 80, 25
	}
	return w, h
}
