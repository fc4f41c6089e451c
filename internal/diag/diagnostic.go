package diag

import (
	"lexcanon/internal/source"
)

type Note struct {
	Span source.Span `json:"span" msgpack:"span"`
	Msg  string      `json:"msg" msgpack:"msg"`
}

type FixEdit struct {
	Span    source.Span `json:"span" msgpack:"span"`
	NewText string      `json:"new_text" msgpack:"new_text"`
}

type Fix struct {
	Title string    `json:"title" msgpack:"title"`
	Edits []FixEdit `json:"edits" msgpack:"edits"`
}

type Diagnostic struct {
	Severity Severity    `json:"severity" msgpack:"severity"`
	Code     Code        `json:"code" msgpack:"code"`
	Message  string      `json:"message" msgpack:"message"`
	Primary  source.Span `json:"primary" msgpack:"primary"`
	// Args are the values substituted into the message template of Code,
	// kept so the message can be re-rendered in another locale.
	Args  []string `json:"args,omitempty" msgpack:"args,omitempty"`
	Notes []Note   `json:"notes,omitempty" msgpack:"notes,omitempty"`
	Fixes []Fix    `json:"fixes,omitempty" msgpack:"fixes,omitempty"`
}
