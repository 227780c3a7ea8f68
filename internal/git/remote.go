package git

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RepoInfo returns the owner and name of the repository behind the origin
// remote. ok is false when there is no origin or its URL is not recognized.
func (r *Repository) RepoInfo() (owner, name string, ok bool, err error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("reading origin remote: %w", err)
	}

	for _, u := range remote.Config().URLs {
		if owner, name, ok := ParseRemoteURL(u); ok {
			return owner, name, true, nil
		}
	}
	return "", "", false, nil
}

// ParseRemoteURL extracts owner/name from https, ssh and scp-style remote URLs:
//
//	https://github.com/owner/name.git
//	ssh://git@github.com/owner/name
//	git@github.com:owner/name.git
func ParseRemoteURL(raw string) (owner, name string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}

	var path string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", false
		}
		path = u.Path
	} else if at := strings.Index(raw, "@"); at >= 0 {
		_, rest, found := strings.Cut(raw[at+1:], ":")
		if !found {
			return "", "", false
		}
		path = rest
	} else {
		return "", "", false
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner, name = parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}
