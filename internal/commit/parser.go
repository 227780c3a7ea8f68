package commit

import (
	"regexp"
	"strings"
)

var (
	breakingNotePattern   = regexp.MustCompile(`(?i)breaking[ -]change:`)
	coAuthorPattern       = regexp.MustCompile(`(?im)^[ \t]*co-authored-by:[ \t]*(.+?)[ \t]*<([^<>\n]+)>[ \t]*$`)
	changelogBlockPattern = regexp.MustCompile(`(?is):::[ \t]*changelog\b\s*(.*?):::`)
)

// header is the decoded first line of a conventional commit.
type header struct {
	typ         string
	scope       string
	breaking    bool
	description string
}

// Parse classifies a raw commit. It returns false when the first line of the
// message is not a conventional-commit header; such commits (merges,
// "Initial commit", ...) are simply left out of the changelog.
func Parse(raw RawCommit) (ParsedCommit, bool) {
	h, ok := parseHeader(firstLine(raw.Message))
	if !ok {
		return ParsedCommit{}, false
	}

	body := normalizeNewlines(raw.Body)

	var coAuthors []Identity
	if n := len(raw.CoAuthors); n > 0 {
		coAuthors = make([]Identity, n)
		copy(coAuthors, raw.CoAuthors)
	}
	coAuthors = append(coAuthors, parseCoAuthors(body)...)

	parsed := ParsedCommit{
		RawCommit:     raw,
		Type:          h.typ,
		Scope:         h.scope,
		Description:   h.description,
		IsBreaking:    h.breaking || breakingNotePattern.MatchString(body),
		ChangelogBody: extractChangelogBody(body),
	}
	parsed.CoAuthors = coAuthors

	return parsed, true
}

// ParseAll parses every commit, keeping input order and dropping the ones
// that do not match the grammar.
func ParseAll(raws []RawCommit) []ParsedCommit {
	parsed := make([]ParsedCommit, 0, len(raws))
	for _, raw := range raws {
		if c, ok := Parse(raw); ok {
			parsed = append(parsed, c)
		}
	}
	return parsed
}

// parseHeader scans:
//
//	[emoji [spaces]] type ["(" scope ")"] ["!"] ": " [emoji [spaces]]... description
func parseHeader(line string) (header, bool) {
	s := line
	if n := scanEmoji(s); n > 0 {
		s = s[n:]
	}
	s = skipSpace(s)

	typ, s, ok := scanType(s)
	if !ok {
		return header{}, false
	}

	scope, s, ok := scanScope(s)
	if !ok {
		return header{}, false
	}

	breaking := false
	if strings.HasPrefix(s, "!") {
		breaking = true
		s = s[1:]
	}

	if !strings.HasPrefix(s, ": ") {
		return header{}, false
	}

	description := strings.TrimSpace(stripLeadingEmojis(s[2:]))
	if description == "" {
		return header{}, false
	}

	return header{
		typ:         typ,
		scope:       scope,
		breaking:    breaking,
		description: description,
	}, true
}

// scanType reads the run of ASCII letters forming the type token.
func scanType(s string) (typ, rest string, ok bool) {
	i := 0
	for i < len(s) && isASCIILetter(s[i]) {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	return strings.ToLower(s[:i]), s[i:], true
}

// scanScope reads an optional "(scope)". An unclosed or empty scope rejects the header.
func scanScope(s string) (scope, rest string, ok bool) {
	if !strings.HasPrefix(s, "(") {
		return "", s, true
	}
	end := strings.IndexByte(s[1:], ')')
	if end <= 0 {
		return "", s, false
	}
	return strings.TrimSpace(s[1 : end+1]), s[end+2:], true
}

// stripLeadingEmojis drops emoji tokens from the start of the description as
// long as some description text remains after them.
func stripLeadingEmojis(s string) string {
	for {
		n := scanEmoji(s)
		if n == 0 {
			return s
		}
		rest := skipSpace(s[n:])
		if strings.TrimSpace(rest) == "" {
			return s
		}
		s = rest
	}
}

func parseCoAuthors(body string) []Identity {
	var identities []Identity
	for _, match := range coAuthorPattern.FindAllStringSubmatch(body, -1) {
		name := strings.TrimSpace(match[1])
		email := strings.TrimSpace(match[2])
		if name == "" || email == "" {
			continue
		}
		identities = append(identities, Identity{Name: name, Email: email})
	}
	return identities
}

func extractChangelogBody(body string) string {
	match := changelogBlockPattern.FindStringSubmatch(body)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimRight(message, "\r")
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
