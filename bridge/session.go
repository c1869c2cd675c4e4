// Package bridge keeps a remote terminal in step with a changing console
// screen, sending only what changed between passes.
package bridge

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fcccode/winpty/console"
	"github.com/fcccode/winpty/terminal"
)

// Stats counts session output
type Stats struct {
	RowsSent     int64
	BytesWritten int64
	Passes       int64
}

// countingSink tallies bytes on their way to the wrapped sink
type countingSink struct {
	next  terminal.Sink
	bytes atomic.Int64
}

func (c *countingSink) Write(p []byte) error {
	if err := c.next.Write(p); err != nil {
		return err
	}
	c.bytes.Add(int64(len(p)))
	return nil
}

type options struct {
	charset     terminal.Charset
	passthrough bool
	popupRemap  bool
	logger      *slog.Logger
}

// Option configures a Session
type Option func(*options)

// WithCharset selects the remote terminal's charset
func WithCharset(cs terminal.Charset) Option {
	return func(o *options) { o.charset = cs }
}

// WithPassthrough starts the session with control sequences suppressed
func WithPassthrough(enabled bool) Option {
	return func(o *options) { o.passthrough = enabled }
}

// WithPopupBoxRemap enables remapping of code points 1-6 to box glyphs
func WithPopupBoxRemap(enabled bool) Option {
	return func(o *options) { o.popupRemap = enabled }
}

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Session mirrors successive console screens onto one remote terminal,
// sending only the rows that changed since the previous pass
type Session struct {
	mu sync.Mutex

	id     string
	sink   *countingSink
	render *terminal.Renderer
	log    *slog.Logger

	// Rows as last sent, nil until the first pass after Start or Redraw
	sent  []console.Row
	width int

	rows   atomic.Int64
	passes atomic.Int64
}

// NewSession creates a session writing to sink. Call Start before Update.
func NewSession(sink terminal.Sink, opts ...Option) *Session {
	o := options{charset: terminal.UTF8}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := uuid.NewString()
	cs := &countingSink{next: sink}
	return &Session{
		id:   id,
		sink: cs,
		render: terminal.NewRenderer(cs, terminal.Options{
			Charset:       o.charset,
			PopupBoxRemap: o.popupRemap,
			Passthrough:   o.passthrough,
		}),
		log:   o.logger.With("session", id),
		width: -1,
	}
}

// ID returns the session identifier used in log records
func (s *Session) ID() string {
	return s.id
}

// Start synchronizes with the remote terminal at line 0, clearing it first
// when clear is set. Every row is resent on the next Update.
func (s *Session) Start(clear bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("session start", "clear", clear, "charset", s.render.Charset().Name())
	s.forget()
	if err := s.render.Reset(clear, 0); err != nil {
		return errors.Wrap(err, "start session")
	}
	return nil
}

// Redraw clears the remote terminal and resends every row on the next Update
func (s *Session) Redraw() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redraw()
}

func (s *Session) redraw() error {
	s.forget()
	if err := s.render.Reset(true, 0); err != nil {
		return errors.Wrap(err, "redraw")
	}
	return nil
}

func (s *Session) forget() {
	s.sent = nil
	s.width = -1
}

// SetPassthrough toggles control sequence suppression
func (s *Session) SetPassthrough(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.render.SetPassthroughMode(enabled)
	s.log.Debug("passthrough", "enabled", enabled)
}

// Update sends the rows of scr that differ from the previous pass and then
// settles the cursor. A width change or a height decrease since the previous
// pass forces a full redraw. On error the session forgets what was sent so
// the next Update repaints everything.
func (s *Session) Update(scr *console.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.passes.Add(1)

	// Remote lines cannot be re-wrapped or removed in place
	if s.sent != nil && (scr.Width != s.width || scr.Height < len(s.sent)) {
		s.log.Debug("geometry changed, redrawing", "width", scr.Width, "height", scr.Height)
		if err := s.redraw(); err != nil {
			return err
		}
	}

	if s.sent == nil {
		s.sent = make([]console.Row, 0, scr.Height)
	}
	s.width = scr.Width

	changed := 0
	for y := 0; y < scr.Height; y++ {
		row := scr.Row(y)
		if y < len(s.sent) && s.sent[y] != nil && s.sent[y].Equal(row) {
			continue
		}
		if err := s.render.RenderRow(y, row, scr.Width); err != nil {
			s.forget()
			return errors.Wrapf(err, "render row %d", y)
		}
		for len(s.sent) <= y {
			s.sent = append(s.sent, nil)
		}
		sent := row.Clone()
		if sent == nil {
			// Missing rows still count as sent
			sent = console.Row{}
		}
		s.sent[y] = sent
		changed++
	}
	s.rows.Add(int64(changed))

	if err := s.render.FinishOutput(scr.CursorX, scr.CursorY); err != nil {
		s.forget()
		return errors.Wrap(err, "finish output")
	}

	if changed > 0 {
		s.log.Debug("update", "rows", changed, "cursor_x", scr.CursorX, "cursor_y", scr.CursorY)
	}
	return nil
}

// Stats returns the counters accumulated since NewSession
func (s *Session) Stats() Stats {
	return Stats{
		RowsSent:     s.rows.Load(),
		BytesWritten: s.sink.bytes.Load(),
		Passes:       s.passes.Load(),
	}
}

// Release parks the cursor at column 0 below the last row sent so later
// output starts under the mirrored screen. The next Update repaints
// everything.
func (s *Session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := len(s.sent)
	s.forget()
	if err := s.render.FinishOutput(0, line); err != nil {
		return errors.Wrap(err, "release")
	}
	return nil
}
