package config

import (
	"fmt"
	"strings"
)

// Repo identifies a hosted repository.
type Repo struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"repo" yaml:"repo"`
}

// IsZero reports whether the repository is unset.
func (r Repo) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// String returns owner/name.
func (r Repo) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Owner + "/" + r.Name
}

// ParseRepo accepts "owner/name", a {owner, repo} mapping, or nil.
func ParseRepo(v interface{}) (Repo, error) {
	switch val := v.(type) {
	case nil:
		return Repo{}, nil
	case string:
		return ParseRepoString(val)
	case map[string]interface{}:
		owner, _ := val["owner"].(string)
		name, _ := val["repo"].(string)
		if name == "" {
			name, _ = val["name"].(string)
		}
		owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)
		if owner == "" || name == "" {
			return Repo{}, fmt.Errorf("repo mapping needs both owner and repo")
		}
		return Repo{Owner: owner, Name: name}, nil
	default:
		return Repo{}, fmt.Errorf("repo must be \"owner/name\" or {owner, repo}, got %T", v)
	}
}

// ParseRepoString parses "owner/name". An empty string yields the zero Repo.
func ParseRepoString(s string) (Repo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Repo{}, nil
	}
	owner, name, ok := strings.Cut(s, "/")
	owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("invalid repo %q, expected owner/name", s)
	}
	return Repo{Owner: owner, Name: strings.TrimSuffix(name, ".git")}, nil
}
