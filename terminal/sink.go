package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Sink is the ordered, blocking byte stream to the remote terminal.
// Failures are returned to the caller of the operation that triggered the
// write; the renderer never retries. Implementations must not retain p.
type Sink interface {
	Write(p []byte) error
}

type writerSink struct {
	w io.Writer
}

// WriterSink adapts an io.Writer into a Sink. Short writes are errors.
func WriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

func (s writerSink) Write(p []byte) error {
	n, err := s.w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

// StdoutSink writes to the process standard output
type StdoutSink struct {
	out *os.File
	fd  int
}

// NewStdoutSink creates a sink bound to os.Stdout
func NewStdoutSink() *StdoutSink {
	return NewFileSink(os.Stdout)
}

// NewFileSink creates a sink bound to an open file, usually a tty
func NewFileSink(f *os.File) *StdoutSink {
	return &StdoutSink{out: f, fd: int(f.Fd())}
}

// Write implements Sink
func (s *StdoutSink) Write(p []byte) error {
	_, err := s.out.Write(p)
	return err
}

// IsTerminal reports whether the sink is attached to a terminal
func (s *StdoutSink) IsTerminal() bool {
	return term.IsTerminal(s.fd)
}

// Size returns the terminal size, or 80x25 if it cannot be determined
func (s *StdoutSink) Size() (width, height int) {
	return getTerminalSize(s.fd)
}

// ResizeWatcher returns a watcher for size changes of the sink's terminal
func (s *StdoutSink) ResizeWatcher() *ResizeWatcher {
	return NewResizeWatcher(s.fd)
}

// EmergencyReset restores default attributes and a visible cursor.
// Call this from panic recovery when a session cannot finish its update.
func EmergencyReset(w io.Writer) {
	w.Write(csiSGR0)
	w.Write(csiCursorShow)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}
}
