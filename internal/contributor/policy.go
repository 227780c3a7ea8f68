// Package contributor decides which commit authors are credited in a changelog
// and how the same person is recognized across commits.
package contributor

import (
	"fmt"
	"path"
	"strings"

	"github.com/okineadev/gitpaper/internal/commit"
)

const botSuffix = "[bot]"

// Predicate reports whether an identity must be excluded.
// A non-nil error means the predicate itself is broken.
type Predicate func(commit.Identity) (bool, error)

// ExclusionConfig holds the contributor exclusion policy.
type ExclusionConfig struct {
	// ExcludeBots drops identities whose name ends with "[bot]".
	ExcludeBots bool
	// ExcludeContributors lists exact names or emails to drop.
	ExcludeContributors []string
	// Predicate is an optional custom exclusion rule.
	Predicate Predicate
}

// ConfigError reports a broken exclusion policy. It is the one condition that
// aborts aggregation.
type ConfigError struct {
	Identity commit.Identity
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("exclusion predicate failed for %q: %v", e.Identity.DisplayName(), e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsIncluded evaluates the exclusion rules in order, first match wins:
// bot suffix, custom predicate, exclusion list.
func IsIncluded(id commit.Identity, cfg ExclusionConfig) (bool, error) {
	if cfg.ExcludeBots && IsBot(id) {
		return false, nil
	}

	if cfg.Predicate != nil {
		excluded, err := cfg.Predicate(id)
		if err != nil {
			return false, &ConfigError{Identity: id, Err: err}
		}
		if excluded {
			return false, nil
		}
	}

	for _, entry := range cfg.ExcludeContributors {
		if entry == id.Name || entry == id.Email {
			return false, nil
		}
	}

	return true, nil
}

// IsBot reports whether the identity name carries the "[bot]" suffix.
func IsBot(id commit.Identity) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(id.Name)), botSuffix)
}

// Same reports whether two identities belong to the same contributor.
func Same(a, b commit.Identity) bool {
	return a.Key() == b.Key()
}

// PatternPredicate builds a predicate from shell glob patterns matched against
// the identity name and email, e.g. "*@bots.example.com" or "renovate*".
// Email matching is case-insensitive.
func PatternPredicate(patterns []string) Predicate {
	return func(id commit.Identity) (bool, error) {
		email := strings.ToLower(id.Email)
		for _, pattern := range patterns {
			matched, err := path.Match(pattern, id.Name)
			if err != nil {
				return false, fmt.Errorf("pattern %q: %w", pattern, err)
			}
			if matched {
				return true, nil
			}
			if email == "" {
				continue
			}
			if matched, _ = path.Match(strings.ToLower(pattern), email); matched {
				return true, nil
			}
		}
		return false, nil
	}
}

// ValidatePatterns checks that every pattern is a well-formed glob.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}
