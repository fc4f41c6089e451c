package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lexcanon/internal/diag"
	"lexcanon/internal/diagfmt"
	"lexcanon/internal/source"
)

func addDiagFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("diag-format", "pretty", "diagnostics format on stderr (pretty|short|json|none)")
}

// writeDiagnostics prints bag to stderr in the --diag-format of cmd.
func writeDiagnostics(cmd *cobra.Command, s *session, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	format, err := cmd.Flags().GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	bag.Sort()
	if s.minSeverity > diag.SevInfo {
		bag.Filter(s.minSeverity)
		if bag.Len() == 0 {
			return nil
		}
	}
	var out io.Writer = os.Stderr
	switch format {
	case "pretty":
		if s.quiet && !bag.HasErrors() {
			return nil
		}
		diagfmt.Pretty(out, bag, fs, s.prettyOpts(cmd))
	case "short":
		if text := diag.FormatShortDiagnostics(bag.Items(), fs, true); text != "" {
			fmt.Fprintln(out, text)
		}
	case "json":
		return diagfmt.JSON(out, bag, fs, s.jsonOpts())
	case "none":
	default:
		return fmt.Errorf("unknown diag-format: %s", format)
	}
	return nil
}

// exitStatus maps a bag to the command result.
func exitStatus(bags ...*diag.Bag) error {
	for _, b := range bags {
		if b != nil && b.HasErrors() {
			return errHasErrors
		}
	}
	return nil
}
