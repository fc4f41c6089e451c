package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lexcanon/internal/diag"
	"lexcanon/internal/driver"
	"lexcanon/internal/fix"
	"lexcanon/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|directory>",
	Short: "Apply the fixes attached to diagnostics",
	Long: `Fix canonicalizes the target and applies the suggested edits, e.g. the
missing closing quote of an unterminated string`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-overlapping fix (default: only the first)")
	fixCmd.Flags().Bool("dry-run", false, "report fixes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	target := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
	if applyAll {
		opts.Mode = fix.ApplyModeAll
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	s, err := newSession(cmd, target)
	if err != nil {
		return err
	}
	// кэш не нужен: правки меняют файлы
	s.opts.Disk = nil

	var (
		fs          *source.FileSet
		diagnostics []diag.Diagnostic
	)
	if info.IsDir() {
		var results []driver.DirResult
		fs, results, err = driver.CanonicalizeDir(cmd.Context(), target, s.opts)
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		for _, r := range results {
			if r.Bag != nil {
				r.Bag.Sort()
				diagnostics = append(diagnostics, r.Bag.Items()...)
			}
		}
	} else {
		res, err := driver.Canonicalize(cmd.Context(), target, s.opts)
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		res.Bag.Sort()
		fs, diagnostics = res.FileSet, res.Bag.Items()
	}

	res, applyErr := fix.Apply(fs, diagnostics, opts)
	if errors.Is(applyErr, fix.ErrNoFixes) {
		if !s.quiet {
			fmt.Fprintln(os.Stdout, "no fixes to apply")
		}
		return nil
	}
	if err := writeFixReport(os.Stdout, res, dryRun); err != nil {
		return err
	}
	return applyErr
}

func writeFixReport(w io.Writer, res *fix.ApplyResult, dryRun bool) error {
	if res == nil {
		return nil
	}
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	for _, item := range res.Applied {
		location := item.PrimaryPath
		if location == "" {
			location = "(unknown location)"
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s [%s]\n", verb, location, item.Title, item.Code.ID()); err != nil {
			return err
		}
	}
	for _, change := range res.FileChanges {
		if _, err := fmt.Fprintf(w, "  %s (%d edits)\n", change.Path, change.EditCount); err != nil {
			return err
		}
	}
	for _, skip := range res.Skipped {
		if _, err := fmt.Fprintf(w, "skipped %s [%s]: %s\n", skip.Title, skip.Code.ID(), skip.Reason); err != nil {
			return err
		}
	}
	return nil
}
