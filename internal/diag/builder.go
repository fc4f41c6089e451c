package diag

import "lexcanon/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// WithArgs records the values substituted into {0}, {1}... of a localized
// message template.
func (d Diagnostic) WithArgs(args ...string) Diagnostic {
	d.Args = append(d.Args, args...)
	return d
}

// ReportBuilder collects a diagnostic for a Reporter:
//
//	diag.ReportError(r, diag.LexBadNumber, sp, msg).WithArgs(text).Emit()
//
// A nil Reporter makes Emit a no-op.
type ReportBuilder struct {
	r       Reporter
	d       Diagnostic
	emitted bool
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{r: r, d: New(SevError, code, primary, msg)}
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{r: r, d: New(SevWarning, code, primary, msg)}
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{r: r, d: New(SevInfo, code, primary, msg)}
}

func (b *ReportBuilder) WithArgs(args ...string) *ReportBuilder {
	b.d = b.d.WithArgs(args...)
	return b
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	b.d = b.d.WithNote(sp, msg)
	return b
}

func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	b.d = b.d.WithFix(title, edits...)
	return b
}

// Emit reports once; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b.emitted || b.r == nil {
		return
	}
	b.emitted = true
	b.r.Report(b.d)
}

// Diagnostic returns what Emit would report.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	return b.d
}
