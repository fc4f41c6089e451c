// Package main implements the lexcanon CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lexcanon/internal/version"
)

// errHasErrors is returned by commands whose diagnostics contain errors.
// The diagnostics are already printed, so main only sets the exit code.
var errHasErrors = errors.New("diagnostics contain errors")

var cleanups []func()

var rootCmd = &cobra.Command{
	Use:   "lexcanon",
	Short: "Locale-aware lexical canonicalization",
	Long: `lexcanon reads source written with localized keywords, operators and punctuation
and turns it into one canonical token stream, or renders it back in any supported locale`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := applyColorFlag(cmd); err != nil {
			return err
		}
		traceCleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		profCleanup, err := setupProfiling(cmd)
		if err != nil {
			traceCleanup()
			return err
		}
		// профили останавливаем раньше трейсера
		cleanups = append(cleanups, profCleanup, traceCleanup)
		return nil
	},
}

// main registers subcommands and persistent flags, then executes the root
// command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(localesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.StringP("locale", "l", "", "source locale, or auto to detect it (overrides lexcanon.toml and $LANG)")
	pf.Bool("fullpath", false, "emit absolute file paths in diagnostics")
	pf.String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")

	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring|both")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat trace events at this interval (0 = off)")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		if !errors.Is(err, errHasErrors) {
			fmt.Fprintf(os.Stderr, "lexcanon: %v\n", err)
		}
		os.Exit(1)
	}
}

func runCleanups() {
	for _, fn := range cleanups {
		fn()
	}
	cleanups = nil
}

// applyColorFlag sets the fatih/color default for the whole process.
func applyColorFlag(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}

// useColor reports whether output written to f should be colorized.
func useColor(cmd *cobra.Command, f *os.File) bool {
	value, _ := cmd.Root().PersistentFlags().GetString("color")
	return value == "on" || (value == "auto" && isTerminal(f))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
