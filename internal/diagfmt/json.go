package diagfmt

import (
	"encoding/json"
	"io"

	"lexcanon/internal/diag"
	"lexcanon/internal/render"
	"lexcanon/internal/source"
)

// LocationJSON: байтовые смещения всегда, строки/колонки по IncludePositions.
type LocationJSON struct {
	File      string `json:"file" msgpack:"file"`
	StartByte uint32 `json:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" msgpack:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" msgpack:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" msgpack:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" msgpack:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

type FixEditJSON struct {
	Location    LocationJSON `json:"location" msgpack:"location"`
	NewText     string       `json:"new_text" msgpack:"new_text"`
	OldText     string       `json:"old_text,omitempty" msgpack:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty" msgpack:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty" msgpack:"after_lines,omitempty"`
}

type FixJSON struct {
	Title string        `json:"title" msgpack:"title"`
	Edits []FixEditJSON `json:"edits,omitempty" msgpack:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic of --diag-format=json. Message is the
// localized rendering when JSONOpts.Locale is set; Args are always the raw
// template arguments.
type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Message  string       `json:"message" msgpack:"message"`
	Args     []string     `json:"args,omitempty" msgpack:"args,omitempty"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty" msgpack:"fixes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(span source.Span) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if b.fs == nil {
		return loc
	}
	f, ok := b.fs.Lookup(span.File)
	if !ok {
		return loc
	}
	loc.File = formatPath(f, b.fs, b.opts.PathMode)
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (b jsonBuilder) edit(edit diag.FixEdit) FixEditJSON {
	out := FixEditJSON{Location: b.location(edit.Span), NewText: edit.NewText}
	if b.fs == nil {
		return out
	}
	if f, ok := b.fs.Lookup(edit.Span.File); ok {
		out.OldText = f.Text(edit.Span)
	}
	if b.opts.IncludePreviews {
		if preview, err := buildFixEditPreview(b.fs, edit); err == nil {
			out.BeforeLines, out.AfterLines = preview.before, preview.after
		}
	}
	return out
}

func (b jsonBuilder) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Args:     d.Args,
		Location: b.location(d.Primary),
	}
	if b.opts.Locale != nil {
		out.Message = render.Diagnostic(b.opts.Locale, d)
	}
	if b.opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		for _, fix := range d.Fixes {
			fj := FixJSON{Title: fix.Title}
			for _, e := range fix.Edits {
				fj.Edits = append(fj.Edits, b.edit(e))
			}
			out.Fixes = append(out.Fixes, fj)
		}
	}
	return out
}

// BuildDiagnosticsOutput converts the bag without encoding it, so callers
// can embed it in a larger document. opts.Max truncates the output only.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	b := jsonBuilder{fs: fs, opts: opts}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, b.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
