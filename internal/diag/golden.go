package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"lexcanon/internal/source"
)

// shortLine is one rendered "severity CODE path:line:col message" entry.
type shortLine struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

// FormatGoldenDiagnostics renders one line per diagnostic (and per note when
// includeNotes) with paths relative to the file set base, sorted, so that the
// output can be compared against testdata/*.golden files.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, source.PathRelative)
}

// FormatShortDiagnostics is the golden layout with paths as loaded, for
// --format=short.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, source.PathAuto)
}

func formatLines(diags []Diagnostic, fs *source.FileSet, includeNotes bool, mode source.PathMode) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var lines []shortLine
	add := func(sev string, code Code, span source.Span, msg string) {
		f, ok := fs.Lookup(span.File)
		if !ok || int(span.Start) > len(f.Content) {
			return
		}
		start, _ := fs.Resolve(span)
		lines = append(lines, shortLine{
			sev:  sev,
			code: code.ID(),
			path: trimDotSlash(f.FormatPath(mode, fs.BaseDir())),
			pos:  start,
			msg:  oneLine(msg),
		})
	}
	for i := range diags {
		d := &diags[i]
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
	return strings.Join(out, "\n")
}

func trimDotSlash(p string) string {
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(msg))
}
