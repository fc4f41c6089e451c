package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"lexcanon/internal/diag"
	"lexcanon/internal/diagfmt"
	"lexcanon/internal/driver"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

var canonCmd = &cobra.Command{
	Use:   "canon [flags] <file|directory>",
	Short: "Canonicalize a source file or every source file in a directory",
	Long: `Canon turns localized source into the canonical token stream. For a directory
all files with the project extensions are processed in parallel`,
	Args: cobra.ExactArgs(1),
	RunE: runCanon,
}

func init() {
	canonCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack|summary)")
	canonCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	ui := uiModeAuto
	canonCmd.Flags().Var(&ui, "ui", "progress UI for directories (auto|on|off)")
	canonCmd.Flags().Bool("disk-cache", false, "reuse canonical streams from the persistent disk cache")
	canonCmd.Flags().Bool("report-unknown", false, "warn about tokens no locale entry claims")
	canonCmd.Flags().Bool("keep-trivia", false, "attach whitespace and comments to tokens")
	addDiagFormatFlag(canonCmd)
}

// fileTokens is one file of machine-readable canon output.
type fileTokens struct {
	Path        string                    `json:"path" msgpack:"path"`
	Locale      string                    `json:"locale" msgpack:"locale"`
	Cached      bool                      `json:"cached,omitempty" msgpack:"cached,omitempty"`
	Tokens      []diagfmt.TokenOutput     `json:"tokens" msgpack:"tokens"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics" msgpack:"diagnostics"`
}

func runCanon(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "msgpack", "summary":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	s, err := newSession(cmd, target)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return runCanonDir(cmd, s, target, format)
	}

	res, err := driver.Canonicalize(cmd.Context(), target, s.opts)
	if err != nil {
		return fmt.Errorf("canonicalization failed: %w", err)
	}
	switch format {
	case "pretty":
		if err := writeDiagnostics(cmd, s, res.Bag, res.FileSet); err != nil {
			return err
		}
		err = diagfmt.FormatTokensPretty(os.Stdout, res.Tokens, res.FileSet, useColor(cmd, os.Stdout))
	case "json":
		err = diagfmt.FormatTokensJSON(os.Stdout, res.Tokens)
		if err == nil {
			err = writeDiagnostics(cmd, s, res.Bag, res.FileSet)
		}
	case "msgpack":
		err = diagfmt.FormatTokensMsgpack(os.Stdout, res.Tokens)
		if err == nil {
			err = writeDiagnostics(cmd, s, res.Bag, res.FileSet)
		}
	case "summary":
		if err := writeDiagnostics(cmd, s, res.Bag, res.FileSet); err != nil {
			return err
		}
		writeSummaryLine(os.Stdout, res.File.FormatPath(source.PathAuto, ""), res.Tokens, res.Bag, res.Cached)
	}
	if err != nil {
		return err
	}
	s.reportTimings(cmd, "canon", target)
	return exitStatus(res.Bag)
}

func runCanonDir(cmd *cobra.Command, s *session, dir, format string) error {
	mode := uiModeAuto
	if f := cmd.Flags().Lookup("ui"); f != nil {
		if m, ok := f.Value.(*uiMode); ok {
			mode = *m
		}
	}
	s.opts.Memo = driver.NewStreamCache(64)

	var (
		fs      *source.FileSet
		results []driver.DirResult
		err     error
	)
	if shouldUseTUI(mode, s.quiet, format != "summary" && isTerminal(os.Stdout)) {
		fs, results, err = runDirWithUI(cmd.Context(), "canon "+dir, dir, s.opts)
	} else {
		fs, results, err = driver.CanonicalizeDir(cmd.Context(), dir, s.opts)
	}
	if err != nil {
		return fmt.Errorf("canonicalization failed: %w", err)
	}

	merged := driver.MergeBags(results, s.opts.MaxDiagnostics)
	if err := writeDiagnostics(cmd, s, merged, fs); err != nil {
		return err
	}

	switch format {
	case "pretty":
		for idx, r := range results {
			if idx > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", displayPath(fs, r, s.pathMode))
			if err := diagfmt.FormatTokensPretty(os.Stdout, r.Tokens, fs, useColor(cmd, os.Stdout)); err != nil {
				return err
			}
		}
	case "json", "msgpack":
		payload := make([]fileTokens, 0, len(results))
		for _, r := range results {
			payload = append(payload, fileTokens{
				Path:        displayPath(fs, r, s.pathMode),
				Locale:      s.table.ID().String(),
				Cached:      r.Cached,
				Tokens:      diagfmt.TokenOutputs(r.Tokens),
				Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, fs, s.jsonOpts()),
			})
		}
		if err := encodePayload(os.Stdout, format, payload); err != nil {
			return err
		}
	case "summary":
		for _, r := range results {
			writeSummaryLine(os.Stdout, displayPath(fs, r, s.pathMode), r.Tokens, r.Bag, r.Cached)
		}
	}
	s.reportTimings(cmd, "canon", dir)
	return exitStatus(merged)
}

func encodePayload(w io.Writer, format string, v any) error {
	if format == "msgpack" {
		return msgpack.NewEncoder(w).Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// displayPath formats a result path the same way diagnostics do.
func displayPath(fs *source.FileSet, r driver.DirResult, mode diagfmt.PathMode) string {
	// у незагруженных файлов FileID нулевой, сверяем путь
	if f, ok := fs.Lookup(r.FileID); ok && f.Path == r.Path {
		if mode == diagfmt.PathModeAbsolute {
			return f.FormatPath(source.PathAbsolute, "")
		}
		return f.FormatPath(source.PathRelative, fs.BaseDir())
	}
	if mode == diagfmt.PathModeAbsolute {
		if abs, err := source.AbsolutePath(r.Path); err == nil {
			return abs
		}
	}
	return r.Path
}

func writeSummaryLine(w io.Writer, path string, toks []token.Token, bag *diag.Bag, cached bool) {
	n := len(toks)
	if n > 0 {
		n-- // EOF
	}
	line := fmt.Sprintf("%s: %d tokens, %d errors, %d warnings", path, n,
		bag.Count(diag.SevError), bag.Count(diag.SevWarning))
	if cached {
		line += " (cached)"
	}
	fmt.Fprintln(w, line)
}
