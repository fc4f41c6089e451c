package lexer

import "unicode"

const bom = '\uFEFF'

// isSpace: горизонтальные пробелы, включая \r и U+3000; \n отдельно.
func isSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDec(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOct(r rune) bool { return r >= '0' && r <= '7' }

func isBin(r rune) bool { return r == '0' || r == '1' }

func isMark(r rune) bool { return unicode.Is(unicode.Mn, r) }
