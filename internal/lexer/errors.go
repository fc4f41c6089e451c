package lexer

import "fmt"

// MalformedInputError reports source bytes that are not valid UTF-8.
type MalformedInputError struct {
	File   string
	Offset uint32 // first invalid byte
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: invalid UTF-8 encoding at byte %d", e.File, e.Offset)
}
