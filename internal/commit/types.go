package commit

import (
	"strings"
	"time"
)

// Identity is a commit author or co-author.
// Username is only set once an external lookup resolved the identity.
type Identity struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
}

// Key returns the deduplication key of the identity: the trimmed, case-folded
// email when present, otherwise the trimmed, case-folded name.
func (i Identity) Key() string {
	if email := strings.TrimSpace(i.Email); email != "" {
		return strings.ToLower(email)
	}
	return strings.ToLower(strings.TrimSpace(i.Name))
}

// IsResolved reports whether a username was attached by an identity resolver.
func (i Identity) IsResolved() bool {
	return i.Username != ""
}

// DisplayName returns the best human-readable label for the identity.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Username != "" {
		return i.Username
	}
	return i.Email
}

// RawCommit is one commit as produced by the history collaborator.
type RawCommit struct {
	Hash      string     `json:"hash" yaml:"hash"`
	Message   string     `json:"message" yaml:"message"`
	Body      string     `json:"body,omitempty" yaml:"body,omitempty"`
	Date      time.Time  `json:"date" yaml:"date"`
	Author    Identity   `json:"author" yaml:"author"`
	CoAuthors []Identity `json:"co_authors,omitempty" yaml:"co_authors,omitempty"`
}

// ParsedCommit is a RawCommit whose subject matched the conventional-commit grammar.
// Scope and ChangelogBody are empty when absent.
type ParsedCommit struct {
	RawCommit     `yaml:",inline"`
	Type          string `json:"type" yaml:"type"`
	Scope         string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Description   string `json:"description" yaml:"description"`
	IsBreaking    bool   `json:"is_breaking" yaml:"is_breaking"`
	ChangelogBody string `json:"changelog_body,omitempty" yaml:"changelog_body,omitempty"`
}

// Authors returns the primary author followed by all co-authors.
func (c ParsedCommit) Authors() []Identity {
	authors := make([]Identity, 0, 1+len(c.CoAuthors))
	authors = append(authors, c.Author)
	return append(authors, c.CoAuthors...)
}
