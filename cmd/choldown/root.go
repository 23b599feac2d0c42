package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app holds the state shared by all subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer
	log    zerolog.Logger

	logLevel string
	logJSON  bool
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{out: stdout, errOut: stderr, logLevel: "info"}
	a.log = newLogger(stderr, zerolog.InfoLevel, false)

	return a
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     appName,
		Short:   "Rank-1 Cholesky downdate toolkit",
		Version: version,
		Long: `choldown computes the upper Cholesky factor of A − xxᵗ from the factor of A
without refactoring, using LINPACK-style Givens rotations.

Problems are YAML (or JSON) files holding an upper factor r or an SPD matrix a,
both row by row, and the vector x to remove.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setupLogging,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Emit JSON log lines instead of console output")

	root.AddCommand(a.downdateCmd(), a.factorCmd(), a.normCmd())

	return root
}

// setupLogging applies the persistent logging flags before any subcommand runs.
func (a *app) setupLogging(_ *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(a.logLevel))
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	a.log = newLogger(a.errOut, level, a.logJSON)

	return nil
}

// newLogger builds a console logger on w, or a JSON logger when asJSON is set.
// Colors are used only when w is a terminal.
func newLogger(w io.Writer, level zerolog.Level, asJSON bool) zerolog.Logger {
	if asJSON {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}

	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
