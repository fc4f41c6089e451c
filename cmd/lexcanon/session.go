package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lexcanon/internal/diag"
	"lexcanon/internal/diagfmt"
	"lexcanon/internal/dialect"
	"lexcanon/internal/driver"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/locale"
	"lexcanon/internal/observ"
	"lexcanon/internal/project"
	"lexcanon/internal/source"
)

// session is everything a command needs after flags and lexcanon.toml are
// merged. Flags win over the manifest.
type session struct {
	manifest    *project.Manifest
	registry    *lexicon.Registry
	table       *lexicon.Table
	opts        driver.Options
	pathMode    diagfmt.PathMode
	// minSeverity hides lower diagnostics from output; exit status still
	// counts every error.
	minSeverity diag.Severity
	quiet       bool
}

// newSession loads the manifest above target (a file or directory) and
// resolves the source locale.
func newSession(cmd *cobra.Command, target string) (*session, error) {
	start := "."
	if target != "" {
		start = target
		if st, err := os.Stat(target); err == nil && !st.IsDir() {
			start = filepath.Dir(target)
		}
	}
	manifest, _, err := project.LoadManifest(start)
	if err != nil {
		return nil, err
	}
	reg, err := manifest.Registry()
	if err != nil {
		return nil, err
	}

	pf := cmd.Root().PersistentFlags()
	localeFlag, err := pf.GetString("locale")
	if err != nil {
		return nil, fmt.Errorf("failed to get locale flag: %w", err)
	}
	var tbl *lexicon.Table
	if strings.EqualFold(localeFlag, "auto") {
		tbl, err = detectTable(reg, target, manifest.Extensions())
	} else {
		tbl, err = selectTable(reg, localeFlag, manifest)
	}
	if err != nil {
		return nil, err
	}

	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := pf.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	fullPath, err := pf.GetBool("fullpath")
	if err != nil {
		return nil, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	minSevValue, err := pf.GetString("min-severity")
	if err != nil {
		return nil, fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSeverity, err := diag.ParseSeverity(minSevValue)
	if err != nil {
		return nil, err
	}

	s := &session{
		manifest:    manifest,
		registry:    reg,
		table:       tbl,
		quiet:       quiet,
		pathMode:    diagfmt.PathModeAuto,
		minSeverity: minSeverity,
		opts: driver.Options{
			Table:          tbl,
			MaxDiagnostics: maxDiagnostics,
			Extensions:     manifest.Extensions(),
		},
	}
	if fullPath {
		s.pathMode = diagfmt.PathModeAbsolute
	}
	if manifest != nil {
		s.opts.ReportUnknown = manifest.Config.Canon.ReportUnknown
		s.opts.KeepTrivia = manifest.Config.Canon.KeepTrivia
		s.opts.Jobs = manifest.Config.Canon.Jobs
	}
	if showTimings {
		s.opts.Timer = observ.NewTimer()
	}
	if err := s.applyCanonFlags(cmd); err != nil {
		return nil, err
	}
	return s, nil
}

// applyCanonFlags reads the optional per-command canonicalization flags.
// Commands that do not define a flag keep the manifest value.
func (s *session) applyCanonFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if f := flags.Lookup("report-unknown"); f != nil && f.Changed {
		v, err := flags.GetBool("report-unknown")
		if err != nil {
			return err
		}
		s.opts.ReportUnknown = v
	}
	if f := flags.Lookup("keep-trivia"); f != nil && f.Changed {
		v, err := flags.GetBool("keep-trivia")
		if err != nil {
			return err
		}
		s.opts.KeepTrivia = v
	}
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		v, err := flags.GetInt("jobs")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("--jobs must not be negative")
		}
		s.opts.Jobs = v
	}
	diskCache := s.manifest != nil && s.manifest.Config.Cache.Enabled
	if f := flags.Lookup("disk-cache"); f != nil && f.Changed {
		v, err := flags.GetBool("disk-cache")
		if err != nil {
			return err
		}
		diskCache = v
	}
	if diskCache {
		disk, err := driver.OpenDiskCache("lexcanon", s.manifest.CacheDir())
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		s.opts.Disk = disk
	}
	return nil
}

// selectTable picks the source locale: --locale, then [project].locale, then
// $LC_ALL / $LANG, then en-US.
func selectTable(reg *lexicon.Registry, flagValue string, manifest *project.Manifest) (*lexicon.Table, error) {
	if flagValue != "" {
		id, err := reg.Match(flagValue)
		if err != nil {
			return nil, err
		}
		return reg.Table(id)
	}
	if manifest != nil && manifest.Config.Project.Locale != "" {
		return reg.Table(locale.ID(manifest.Config.Project.Locale))
	}
	for _, env := range []string{"LC_ALL", "LANG"} {
		if pref := envLocale(os.Getenv(env)); pref != "" {
			if id, err := reg.Match(pref); err == nil {
				return reg.Table(id)
			}
		}
	}
	return reg.Table(locale.EnUS)
}

// minDetectConfidence is the share of keyword evidence the winning locale
// needs for --locale auto.
const minDetectConfidence = 0.6

// detectTable guesses the source locale from target, a file or a directory.
func detectTable(reg *lexicon.Registry, target string, exts []string) (*lexicon.Table, error) {
	paths := []string{target}
	if st, err := os.Stat(target); err == nil && st.IsDir() {
		if paths, err = driver.ListSourceFiles(target, exts); err != nil {
			return nil, err
		}
	}
	fs := source.NewFileSet()
	files := make([]*source.File, 0, len(paths))
	for _, p := range paths {
		id, err := fs.Load(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", p, err)
		}
		files = append(files, fs.Get(id))
	}
	c := dialect.Detect(files, reg.Tables())
	return dialect.Pick(c, reg, minDetectConfidence)
}

// envLocale strips the encoding and modifier from a POSIX locale name:
// "zh_CN.UTF-8@pinyin" -> "zh_CN". "C" and "POSIX" mean no preference.
func envLocale(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "C" || v == "POSIX" {
		return ""
	}
	return v
}

// targetTable resolves a --to value with loose matching.
func (s *session) targetTable(value string) (*lexicon.Table, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("missing target locale (use --to, e.g. --to en-US)")
	}
	id, err := s.registry.Match(value)
	if err != nil {
		return nil, err
	}
	return s.registry.Table(id)
}

func (s *session) prettyOpts(cmd *cobra.Command) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   1,
		PathMode:  s.pathMode,
		ShowNotes: true,
		ShowFixes: true,
		Locale:    s.table,
	}
}

func (s *session) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		IncludeNotes:     true,
		IncludeFixes:     true,
		Locale:           s.table,
	}
}

// reportTimings prints the timer report to stderr when --timings is set.
func (s *session) reportTimings(cmd *cobra.Command, kind, path string) {
	if s.opts.Timer == nil {
		return
	}
	payload := driver.NewTimingPayload(kind, path, s.opts.Timer)
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, payload.Headline())
	for _, p := range payload.Phases {
		fmt.Fprintf(out, "  %-14s %8.2f ms  %s\n", p.Name, p.DurationMS, p.Note)
	}
}
