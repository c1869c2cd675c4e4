package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fcccode/winpty/bridge"
	"github.com/fcccode/winpty/config"
	"github.com/fcccode/winpty/console"
	"github.com/fcccode/winpty/terminal"
)

// app is the state shared by every subcommand that drives a session
type app struct {
	cfg         config.Config
	log         *slog.Logger
	sink        *terminal.StdoutSink
	session     *bridge.Session
	passthrough bool
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(flags *Flags) (config.Config, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return cfg, err
	}
	if flags.Charset != "" {
		cfg.Charset = flags.Charset
	}
	if flags.Passthrough != "" {
		cfg.Passthrough = flags.Passthrough
	}
	if flags.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// newApp builds a session bound to standard output
func newApp(flags *Flags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger := newLogger(os.Stderr, cfg.Level())
	slog.SetDefault(logger)

	cs, err := terminal.LookupCharset(cfg.Charset)
	if err != nil {
		return nil, err
	}

	sink := terminal.NewStdoutSink()
	pass := cfg.PassthroughFor(sink.IsTerminal())

	session := bridge.NewSession(sink,
		bridge.WithCharset(cs),
		bridge.WithPassthrough(pass),
		bridge.WithPopupBoxRemap(cfg.PopupBoxRemap),
		bridge.WithLogger(logger),
	)
	w, h := sink.Size()
	logger.Debug("output ready", "charset", cs.Name(), "passthrough", pass, "width", w, "height", h)

	return &app{
		cfg:         cfg,
		log:         logger,
		sink:        sink,
		session:     session,
		passthrough: pass,
	}, nil
}

// show runs one update pass and leaves the cursor under the screen
func (a *app) show(scr *console.Screen) error {
	if err := a.session.Start(a.cfg.ClearOnStart); err != nil {
		return err
	}
	if err := a.session.Update(scr); err != nil {
		return err
	}
	return a.finish()
}

// finish parks the cursor below the drawn screen with default attributes
func (a *app) finish() error {
	err := a.session.Release()
	if !a.passthrough {
		terminal.EmergencyReset(os.Stdout)
	}
	st := a.session.Stats()
	a.log.Debug("done", "rows_sent", st.RowsSent, "bytes", st.BytesWritten, "passes", st.Passes)
	return err
}

func readSnapshot(path string) (*console.Screen, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", path)
	}
	scr, err := console.ParseSnapshot(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse snapshot %s", path)
	}
	return scr, nil
}

func renderCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "render FILE",
		Short: "Draw a console snapshot once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			scr, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			return a.show(scr)
		},
	}
}

func watchCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Redraw a console snapshot whenever the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			if err := a.session.Start(a.cfg.ClearOnStart); err != nil {
				return err
			}

			svc := bridge.NewWatchService(args[0], a.session, a.cfg.WatchDebounce.Duration, os.Stdout, a.log)
			if err := svc.Start(); err != nil {
				return err
			}
			a.log.Info("watching", "file", args[0], "session", a.session.ID())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			resize := a.sink.ResizeWatcher()
			resize.Start()
			defer resize.Stop()

		loop:
			for {
				select {
				case <-ctx.Done():
					break loop
				case <-svc.Done():
					break loop
				case ev := <-resize.Events():
					// The terminal may have rewrapped or scrolled what was drawn
					a.log.Debug("terminal resized", "width", ev.Width, "height", ev.Height)
					if err := a.session.Redraw(); err != nil {
						a.log.Warn("redraw failed", "error", err)
						continue
					}
					if err := svc.Reload(); err != nil {
						a.log.Warn("reload failed", "error", err)
					}
				}
			}

			if err := svc.Stop(); err != nil {
				a.log.Warn("stopping watcher", "error", err)
			}
			return a.finish()
		},
	}
}

func demoCmd(flags *Flags) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Draw a sample screen built on a simulated tcell screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			scr, err := demoScreen(width, height)
			if err != nil {
				return err
			}
			return a.show(scr)
		},
	}
	cmd.Flags().IntVar(&width, "width", 48, "Demo screen width")
	cmd.Flags().IntVar(&height, "height", 12, "Demo screen height")
	return cmd
}

func captureCmd(flags *Flags) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "capture FILE",
		Short: "Write the demo screen as a JSON snapshot (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(flags); err != nil {
				return err
			}
			scr, err := demoScreen(width, height)
			if err != nil {
				return err
			}
			data, err := console.EncodeSnapshot(scr)
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if args[0] == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return errors.Wrapf(err, "write snapshot %s", args[0])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 48, "Demo screen width")
	cmd.Flags().IntVar(&height, "height", 12, "Demo screen height")
	return cmd
}

func configCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
