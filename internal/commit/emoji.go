package commit

import (
	"strings"
	"unicode/utf8"
)

const (
	variationSelector = '\uFE0F'
	zeroWidthJoiner   = '\u200D'
)

// isEmojiRune reports whether r falls in one of the pictographic ranges
// accepted in commit headers and section titles.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F6FF: // symbols, pictographs, emoticons, transport
		return true
	case r >= 0x1F900 && r <= 0x1FAFF: // supplemental symbols
		return true
	case r >= 0x2600 && r <= 0x2B55: // misc symbols, dingbats, arrows
		return true
	}
	return false
}

// scanEmoji returns the byte length of the emoji token at the start of s,
// or 0 when s does not start with one. A token is either a ":code:" shortcode
// or a pictographic rune with its variation selectors and ZWJ continuations.
func scanEmoji(s string) int {
	if strings.HasPrefix(s, ":") {
		return scanEmojiCode(s)
	}

	r, size := utf8.DecodeRuneInString(s)
	if !isEmojiRune(r) {
		return 0
	}

	n := size
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r == variationSelector {
			n += size
			continue
		}
		if r == zeroWidthJoiner {
			next, nextSize := utf8.DecodeRuneInString(s[n+size:])
			if isEmojiRune(next) {
				n += size + nextSize
				continue
			}
		}
		break
	}
	return n
}

// scanEmojiCode matches ":name:" where name is letters, digits, '_', '+' or '-'.
func scanEmojiCode(s string) int {
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':':
			if i == 1 {
				return 0
			}
			return i + 1
		case isASCIILetter(c), c >= '0' && c <= '9', c == '_', c == '+', c == '-':
			continue
		default:
			return 0
		}
	}
	return 0
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t")
}

// TrimLeadingEmoji splits a leading emoji token off s.
// "🚀 Enhancements" yields ("🚀", "Enhancements"); text without a leading
// emoji is returned unchanged with an empty emoji.
func TrimLeadingEmoji(s string) (emoji, rest string) {
	n := scanEmoji(s)
	if n == 0 {
		return "", s
	}
	return s[:n], skipSpace(s[n:])
}
