package render

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/okineadev/gitpaper/internal/commit"
)

const shortHashLen = 5

var lineBreak = regexp.MustCompile(`\r?\n`)

// funcMap builds the template helpers for one render. The helpers close over
// d instead of living in a package-level registry.
func funcMap(d Data) template.FuncMap {
	repoURL := d.repoURL()
	serverURL := d.serverURL()

	return template.FuncMap{
		"shortHash":  shortHash,
		"splitLines": splitLines,
		"upperFirst": upperFirst,
		"sectionEmoji": func(title string) string {
			emoji, _ := commit.TrimLeadingEmoji(title)
			return emoji
		},
		"sectionTitle": func(title string) string {
			return sectionTitle(title, d.Emoji)
		},
		"commitLink": func(hash string) string {
			if hash == "" {
				return ""
			}
			if repoURL == "" {
				return shortHash(hash)
			}
			return fmt.Sprintf("[%s](%s/commit/%s)", shortHash(hash), repoURL, hash)
		},
		"contributor": func(id commit.Identity) string {
			return contributorLabel(id, serverURL)
		},
	}
}

func shortHash(hash string) string {
	if len(hash) <= shortHashLen {
		return hash
	}
	return hash[:shortHashLen]
}

func splitLines(text string) []string {
	return lineBreak.Split(text, -1)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func sectionTitle(title string, emoji bool) string {
	if emoji {
		return title
	}
	_, rest := commit.TrimLeadingEmoji(title)
	if strings.TrimSpace(rest) == "" {
		return title
	}
	return rest
}

func contributorLabel(id commit.Identity, serverURL string) string {
	if id.Username != "" {
		link := fmt.Sprintf("[@%s](%s/%s)", id.Username, serverURL, id.Username)
		if id.Name == "" || strings.EqualFold(id.Name, id.Username) {
			return link
		}
		return fmt.Sprintf("%s (%s)", id.Name, link)
	}
	if id.Name != "" {
		return id.Name
	}
	return id.Email
}
