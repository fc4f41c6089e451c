package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexcanon/internal/diagfmt"
	"lexcanon/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file>",
	Short: "Split a source file into raw spans",
	Long:  `Tokenize shows the raw spans (words, numbers, strings, punctuation and trivia) before any keyword is recognized`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	addDiagFormatFlag(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	s, err := newSession(cmd, filePath)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(cmd.Context(), filePath, s.opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := writeDiagnostics(cmd, s, result.Bag, result.FileSet); err != nil {
		return err
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatRawPretty(os.Stdout, result.Raws, result.FileSet)
	case "json":
		err = diagfmt.FormatRawJSON(os.Stdout, result.Raws)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	s.reportTimings(cmd, "tokenize", filePath)
	return exitStatus(result.Bag)
}
