package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lexcanon/internal/diag"
	"lexcanon/internal/render"
	"lexcanon/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
// Ширина колонок считается через runewidth, так что подчёркивание не
// съезжает под CJK-текстом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeDiagnostic(w, &d, fs, opts, p)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	msg := d.Message
	if opts.Locale != nil {
		msg = render.Diagnostic(opts.Locale, *d)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.loc.Sprint(location(fs, d.Primary, opts.PathMode)),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(), msg)
	writeSnippet(w, fs, d.Primary, int(opts.Context), p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for i, fix := range d.Fixes {
		fmt.Fprintf(w, "  %s %s\n", p.note.Sprintf("fix #%d:", i+1), fix.Title)
		for _, edit := range fix.Edits {
			fmt.Fprintf(w, "    %s apply=%q\n", location(fs, edit.Span, opts.PathMode), edit.NewText)
			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.before {
				fmt.Fprintf(w, "      - %s\n", line)
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "      + %s\n", line)
			}
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	if fs == nil {
		return "<unknown>"
	}
	f, ok := fs.Lookup(span.File)
	if !ok {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

// writeSnippet prints the primary line with context and a caret underline.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int, p palette) {
	if fs == nil || int(span.File) >= fs.Len() {
		return
	}
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	lastLine := uint32(len(file.LineIdx)) + 1 // #nosec G115 -- bounded by file size
	from := max(int(start.Line)-context, 1)
	to := min(int(start.Line)+context, int(lastLine))
	gutter := len(strconv.Itoa(to))

	for n := from; n <= to; n++ {
		line := file.GetLine(uint32(n)) // #nosec G115 -- n <= lastLine
		fmt.Fprintf(w, " %*d | %s\n", gutter, n, expandTabs(line))
		if n != int(start.Line) {
			continue
		}
		col := min(int(start.Col)-1, len(line))
		stop := len(line)
		if end.Line == start.Line {
			stop = min(max(int(end.Col)-1, col), len(line))
		}
		pad := runewidth.StringWidth(expandTabs(line[:col]))
		width := max(runewidth.StringWidth(expandTabs(line[col:stop])), 1)
		fmt.Fprintf(w, " %s | %s%s\n", strings.Repeat(" ", gutter), strings.Repeat(" ", pad),
			p.caret.Sprint("^"+strings.Repeat("~", width-1)))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

type palette struct {
	err, warn, info *color.Color
	loc, caret      *color.Color
	note            *color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgCyan),
		loc:   mk(color.Bold),
		caret: mk(color.FgGreen),
		note:  mk(color.FgBlue),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}
