package render

import (
	"strconv"
	"strings"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexicon"
)

// Message formats the template of code from tbl (or its parents), replacing
// {0}, {1}, ... with args. Without a template, or with fewer args than the
// template refers to, it falls back to the code's English title.
func Message(tbl *lexicon.Table, code diag.Code, args ...string) string {
	if tbl != nil {
		if tmpl, ok := tbl.Message(code.ID()); ok {
			if msg, ok := substitute(tmpl, args); ok {
				return msg
			}
		}
	}
	return code.Title()
}

// Diagnostic returns the message of d in the locale of tbl. Diagnostics
// whose code has no template, or whose args do not cover it, keep their
// original text.
func Diagnostic(tbl *lexicon.Table, d diag.Diagnostic) string {
	if tbl == nil {
		return d.Message
	}
	tmpl, ok := tbl.Message(d.Code.ID())
	if !ok {
		return d.Message
	}
	if msg, ok := substitute(tmpl, d.Args); ok {
		return msg
	}
	return d.Message
}

// substitute replaces {n} with args[n]; false when a placeholder has no arg.
func substitute(tmpl string, args []string) (string, bool) {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String(), true
		}
		closing := strings.IndexByte(tmpl[open:], '}')
		if closing < 0 {
			b.WriteString(tmpl)
			return b.String(), true
		}
		closing += open
		n, err := strconv.Atoi(tmpl[open+1 : closing])
		if err != nil || n < 0 {
			// не плейсхолдер, оставляем как есть
			b.WriteString(tmpl[:open+1])
			tmpl = tmpl[open+1:]
			continue
		}
		if n >= len(args) {
			return "", false
		}
		b.WriteString(tmpl[:open])
		b.WriteString(args[n])
		tmpl = tmpl[closing+1:]
	}
}
