package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lexcanon/internal/driver"
	"lexcanon/internal/lexicon"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file>",
	Short: "Re-render a source file with the primary spelling of its own locale",
	Long: `Render canonicalizes a file and writes it back in the same locale, replacing
every alias with the preferred form. Identifiers, literals, comments and line
breaks are kept as written`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var translateCmd = &cobra.Command{
	Use:   "translate [flags] <file|directory>",
	Short: "Render source written in one locale into another",
	Long: `Translate canonicalizes the input in the source locale (--locale) and renders the
token stream in the target locale (--to). Identifiers and literals are kept as written`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	renderCmd.Flags().BoolP("write", "w", false, "write the result back to the file")
	addDiagFormatFlag(renderCmd)

	translateCmd.Flags().String("to", "", "target locale, e.g. en-US")
	translateCmd.Flags().StringP("out", "o", "", "write translated files under this directory instead of stdout")
	translateCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	addDiagFormatFlag(translateCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	path := args[0]
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	s, err := newSession(cmd, path)
	if err != nil {
		return err
	}
	// переводы строк и комментарии нужны для раскладки
	s.opts.KeepTrivia = true
	res, err := driver.Translate(cmd.Context(), path, s.opts, s.table)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if err := writeDiagnostics(cmd, s, res.Bag, res.FileSet); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		// не переписываем файл с ошибками
		return errHasErrors
	}
	if write {
		if err := writeFileAtomic(path, res.Text); err != nil {
			return err
		}
	} else {
		fmt.Fprint(os.Stdout, withNewline(res.Text))
	}
	s.reportTimings(cmd, "render", path)
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	target := args[0]

	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return fmt.Errorf("failed to get to flag: %w", err)
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	s, err := newSession(cmd, target)
	if err != nil {
		return err
	}
	tbl, err := s.targetTable(to)
	if err != nil {
		return err
	}
	s.opts.KeepTrivia = true

	if !st.IsDir() {
		res, err := driver.Translate(cmd.Context(), target, s.opts, tbl)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		if err := writeDiagnostics(cmd, s, res.Bag, res.FileSet); err != nil {
			return err
		}
		if outDir != "" && !res.Bag.HasErrors() {
			if err := writeTranslated(outDir, filepath.Base(target), res.Text, tbl); err != nil {
				return err
			}
		} else {
			fmt.Fprint(os.Stdout, withNewline(res.Text))
		}
		s.reportTimings(cmd, "translate", target)
		return exitStatus(res.Bag)
	}

	s.opts.Memo = driver.NewStreamCache(64)
	fs, results, err := driver.TranslateDir(cmd.Context(), target, s.opts, tbl)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	merged := driver.MergeBags(results, s.opts.MaxDiagnostics)
	if err := writeDiagnostics(cmd, s, merged, fs); err != nil {
		return err
	}
	for idx, r := range results {
		if r.Bag.HasErrors() {
			continue
		}
		if outDir != "" {
			rel, err := filepath.Rel(target, r.Path)
			if err != nil {
				return err
			}
			if err := writeTranslated(outDir, rel, r.Text, tbl); err != nil {
				return err
			}
			continue
		}
		if idx > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, "== %s ==\n%s", displayPath(fs, r, s.pathMode), withNewline(r.Text))
	}
	s.reportTimings(cmd, "translate", target)
	return exitStatus(merged)
}

// writeTranslated stores text at outDir/rel. The locale id is inserted before
// the extension so translations of one file do not overwrite each other:
// a/b.lc -> a/b.en-US.lc.
func writeTranslated(outDir, rel, text string, tbl *lexicon.Table) error {
	ext := filepath.Ext(rel)
	name := strings.TrimSuffix(rel, ext) + "." + tbl.ID().String() + ext
	dst := filepath.Join(outDir, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return writeFileAtomic(dst, text)
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lexcanon-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
