package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"lexcanon/internal/diag"
	"lexcanon/internal/diagfmt"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/project"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

var localesCmd = &cobra.Command{
	Use:   "locales [flags]",
	Short: "List supported locales or check extra lexicon files",
	Args:  cobra.NoArgs,
	RunE:  runLocales,
}

func init() {
	localesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	localesCmd.Flags().Bool("kinds", false, "show the primary spelling of every kind per locale")
	localesCmd.Flags().StringSlice("check", nil, "validate lexicon TOML files against the embedded locales")
}

type localeInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Direction    string `json:"direction"`
	Segmentation string `json:"segmentation"`
	Entries      int    `json:"entries"`
	Fingerprint  string `json:"fingerprint"`
	Selected     bool   `json:"selected,omitempty"`
}

func runLocales(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	kinds, err := cmd.Flags().GetBool("kinds")
	if err != nil {
		return fmt.Errorf("failed to get kinds flag: %w", err)
	}
	check, err := cmd.Flags().GetStringSlice("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	if len(check) > 0 {
		return runLexiconCheck(cmd, check)
	}

	s, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	tables := s.registry.Tables()
	if kinds {
		return writeKindTable(os.Stdout, tables)
	}

	infos := make([]localeInfo, 0, len(tables))
	for _, tbl := range tables {
		infos = append(infos, localeInfo{
			ID:           tbl.ID().String(),
			Name:         tbl.Name(),
			Direction:    tbl.Direction().String(),
			Segmentation: tbl.Segmentation().String(),
			Entries:      len(tbl.Entries()),
			Fingerprint:  tbl.FingerprintHex(),
			Selected:     tbl == s.table,
		})
	}
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "pretty":
		writeLocaleTable(os.Stdout, infos)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeLocaleTable(w io.Writer, infos []localeInfo) {
	header := []string{"", "ID", "NAME", "DIR", "SEGMENT", "ENTRIES", "FINGERPRINT"}
	rows := [][]string{header}
	for _, in := range infos {
		mark := ""
		if in.Selected {
			mark = "*"
		}
		rows = append(rows, []string{
			mark, in.ID, in.Name, in.Direction, in.Segmentation,
			fmt.Sprint(in.Entries), in.Fingerprint[:12],
		})
	}
	writeColumns(w, rows)
}

// writeKindTable prints one row per kind with its primary spelling in every
// locale. Kinds without a fixed spelling (identifiers, literals) are skipped.
func writeKindTable(w io.Writer, tables []*lexicon.Table) error {
	var kinds []token.Kind
	for _, tbl := range tables {
		for _, k := range tbl.Kinds() {
			if !slices.Contains(kinds, k) {
				kinds = append(kinds, k)
			}
		}
	}
	slices.Sort(kinds)

	header := []string{"KIND"}
	for _, tbl := range tables {
		header = append(header, tbl.ID().String())
	}
	rows := [][]string{header}
	for _, k := range kinds {
		row := []string{k.String()}
		for _, tbl := range tables {
			form, ok := tbl.Primary(k)
			if !ok {
				form = "-"
			}
			row = append(row, form)
		}
		rows = append(rows, row)
	}
	writeColumns(w, rows)
	return nil
}

// writeColumns aligns cells by display width so CJK text lines up.
func writeColumns(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	bold := color.New(color.Bold)
	for r, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(row)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		line := strings.TrimRight(b.String(), " ")
		if r == 0 {
			line = bold.Sprint(line)
		}
		fmt.Fprintln(w, line)
	}
}

// runLexiconCheck loads the embedded locales plus paths and reports every
// problem as a diagnostic on the offending file.
func runLexiconCheck(cmd *cobra.Command, paths []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)

	var extra []lexicon.Data
	byLocale := make(map[string]source.FileID, len(paths))
	for _, p := range paths {
		id, err := fs.Load(p)
		if err != nil {
			bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{},
				"failed to load file: "+err.Error()).WithArgs(p))
			continue
		}
		file := fs.Get(id)
		d, err := lexicon.DecodeData(filepath.Base(p), file.Content)
		if err != nil {
			bag.Add(lexiconDiagnostic(err, source.Span{File: id}))
			continue
		}
		extra = append(extra, d)
		byLocale[d.ID] = id
	}
	if !bag.HasErrors() {
		if _, err := lexicon.LoadRegistry(lexicon.EmbeddedFS(), extra...); err != nil {
			bag.Add(lexiconDiagnostic(err, spanForError(fs, err, byLocale)))
		} else {
			for _, d := range extra {
				fmt.Fprintf(os.Stdout, "ok: %s (%s)\n", d.Source, d.ID)
			}
		}
	}

	if bag.Len() > 0 {
		opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), Context: 1, ShowNotes: true}
		diagfmt.Pretty(os.Stderr, bag, fs, opts)
	}
	return exitStatus(bag)
}

// spanForError points at the file a lexicon error is about, if it was loaded.
func spanForError(fs *source.FileSet, err error, byLocale map[string]source.FileID) source.Span {
	var (
		ide       *lexicon.InvalidDataError
		duplicate *lexicon.DuplicateEntryError
		parity    *lexicon.ParityError
	)
	switch {
	case errors.As(err, &ide):
		for i := range fs.Len() {
			f := fs.Get(source.FileID(i))
			if filepath.Base(f.Path) == ide.Source {
				return source.Span{File: f.ID}
			}
		}
	case errors.As(err, &duplicate):
		if id, ok := byLocale[duplicate.Locale.String()]; ok {
			return source.Span{File: id}
		}
	case errors.As(err, &parity):
		if id, ok := byLocale[parity.Locale.String()]; ok {
			return source.Span{File: id}
		}
	}
	return source.Span{}
}

// lexiconDiagnostic classifies lexicon and project errors by code.
func lexiconDiagnostic(err error, at source.Span) diag.Diagnostic {
	var (
		notSupported *lexicon.LocaleNotSupportedError
		duplicate    *lexicon.DuplicateEntryError
		parity       *lexicon.ParityError
		manifest     *project.ManifestError
	)
	code, arg := diag.LocInvalidLexicon, err.Error()
	switch {
	case errors.As(err, &notSupported):
		code, arg = diag.LocNotSupported, notSupported.Locale
	case errors.As(err, &parity):
		code = diag.LocParityViolation
	case errors.As(err, &duplicate):
		code = diag.LocInvalidLexicon
	case errors.As(err, &manifest):
		code = diag.ProjInvalidManifest
	}
	return diag.New(diag.SevError, code, at, err.Error()).WithArgs(arg)
}
