package lexicon

// Data is the raw, undecoded description of one locale lexicon, as it appears
// in a locale TOML file.
type Data struct {
	ID            string              `toml:"id"`
	Name          string              `toml:"name"`
	Inherits      string              `toml:"inherits"`
	Abstract      bool                `toml:"abstract"`
	Direction     string              `toml:"direction"`
	Segmentation  string              `toml:"segmentation"`
	Quotes        []QuoteData         `toml:"quotes"`
	Keywords      map[string][]string `toml:"keywords"` // kind name -> forms, first is primary
	Entries       []EntryData         `toml:"entry"`
	NotIdentStart []string            `toml:"not_ident_start"`
	Messages      map[string]string   `toml:"messages"`
	Punctuation   PunctuationData     `toml:"punctuation"`

	// Source names the file the data came from, for error messages.
	Source string `toml:"-"`
}

type QuoteData struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// EntryData is a single form with optional conditions.
type EntryData struct {
	Form      string   `toml:"form"`
	Kind      string   `toml:"kind"`
	Primary   bool     `toml:"primary"`
	After     []string `toml:"after"`
	NotAfter  []string `toml:"not_after"`
	LineStart string   `toml:"line_start"`
	LineEnd   string   `toml:"line_end"`
	InfixMin  int      `toml:"infix_min"`
}

type PunctuationData struct {
	StatementEnd  string `toml:"statement_end"`
	ListSeparator string `toml:"list_separator"`
	BlockStart    string `toml:"block_start"`
}

func (d *Data) source() string {
	if d.Source != "" {
		return d.Source
	}
	if d.ID != "" {
		return d.ID
	}
	return "<lexicon>"
}
