package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fcccode/winpty/terminal"
)

// Flags holds the global command line settings
type Flags struct {
	Config      string
	Charset     string
	Passthrough string
	Debug       bool
}

func main() {
	// Panic Recovery: leave the terminal usable even if a render crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)

			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCONBRIDGE CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	var flags Flags

	rootCmd := &cobra.Command{
		Use:   "conbridge",
		Short: "Mirror console screen snapshots onto a VT terminal",
		Long: `conbridge renders console screen snapshots as a minimal VT escape
sequence stream, redrawing only the rows that change.`,
		Example: `  # Draw a snapshot once
  conbridge render screen.json

  # Follow a snapshot file as it is rewritten
  conbridge watch screen.json

  # Show the built-in demo screen in cp437
  conbridge --charset ibm437 demo`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.Config, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	pf.StringVar(&flags.Charset, "charset", "", "Remote terminal charset (overrides config)")
	pf.StringVar(&flags.Passthrough, "passthrough", "", "Suppress control sequences: auto, on or off (overrides config)")
	pf.BoolVarP(&flags.Debug, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(&flags),
		watchCmd(&flags),
		demoCmd(&flags),
		captureCmd(&flags),
		configCmd(&flags),
	)

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}
