package changelog

import (
	"context"

	"github.com/okineadev/gitpaper/internal/commit"
	"github.com/okineadev/gitpaper/internal/contributor"
	"go.uber.org/zap"
)

// DefaultConcurrency bounds identity resolution when Options.Concurrency is unset.
const DefaultConcurrency = 8

// Options configures Aggregate.
type Options struct {
	// Types is the ordered type mapping; it decides which sections exist and in what order.
	Types TypeOrder
	// Policy is the contributor exclusion policy.
	Policy contributor.ExclusionConfig
	// Resolver, when set, attaches usernames and display names to identities.
	Resolver Resolver
	// Contributors enables the contributor roster in the result.
	Contributors bool
	// Concurrency bounds in-flight resolutions. Defaults to DefaultConcurrency.
	Concurrency int
	// Logger receives debug output about resolution failures. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) concurrency() int {
	if o.Concurrency < 1 {
		return DefaultConcurrency
	}
	return o.Concurrency
}

// Aggregate builds the changelog from parsed commits:
//
//  1. commits whose primary author is excluded by the policy are dropped
//  2. co-authors equal to the primary author are removed
//  3. commits of enabled types are grouped in type order, never in input order
//  4. co-authors are checked against the policy on their git identity
//  5. credited identities are resolved concurrently when a Resolver is configured
//  6. the contributor roster is built from the credited identities when enabled
//
// The input slice is never modified. The only error is a broken exclusion
// policy (*contributor.ConfigError); an empty result is not an error.
func Aggregate(ctx context.Context, parsed []commit.ParsedCommit, opts Options) (*Result, error) {
	logger := opts.logger()
	enabled := opts.Types.Enabled()

	included := make([]commit.ParsedCommit, 0, len(parsed))
	var credited [][]bool
	for _, c := range parsed {
		ok, err := contributor.IsIncluded(c.Author, opts.Policy)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Debug("commit excluded by author policy",
				zap.String("hash", c.Hash),
				zap.String("author", c.Author.DisplayName()))
			continue
		}
		if _, listed := enabled.Lookup(c.Type); !listed {
			continue
		}
		c.CoAuthors = withoutAuthor(c.CoAuthors, c.Author)
		credit, err := creditedAuthors(c, opts.Policy)
		if err != nil {
			return nil, err
		}
		included = append(included, c)
		credited = append(credited, credit)
	}

	if opts.Resolver != nil && len(included) > 0 {
		emails := collectEmails(included, credited)
		resolutions := resolveIdentities(ctx, opts.Resolver, emails, opts.concurrency(), logger)
		for i := range included {
			applyResolutions(&included[i], resolutions)
		}
	}

	result := &Result{Sections: group(included, enabled)}

	if opts.Contributors {
		result.Contributors = buildRoster(included, credited)
	}

	return result, nil
}

// withoutAuthor returns a fresh slice of co-authors without the primary
// author and without repeated co-authors.
func withoutAuthor(coAuthors []commit.Identity, author commit.Identity) []commit.Identity {
	if len(coAuthors) == 0 {
		return nil
	}

	seen := map[string]bool{author.Key(): true}
	kept := make([]commit.Identity, 0, len(coAuthors))
	for _, co := range coAuthors {
		key := co.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, co)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// group emits one section per enabled type with at least one commit.
func group(commits []commit.ParsedCommit, types TypeOrder) []Section {
	byType := make(map[string][]commit.ParsedCommit)
	for _, c := range commits {
		byType[c.Type] = append(byType[c.Type], c)
	}

	sections := make([]Section, 0, len(byType))
	for _, entry := range types {
		members := byType[entry.Type]
		if len(members) == 0 {
			continue
		}
		title := entry.Title
		if title == "" {
			title = DefaultTitle(entry.Type)
		}
		sections = append(sections, Section{Type: entry.Type, Title: title, Commits: members})
		delete(byType, entry.Type)
	}
	return sections
}

// creditedAuthors marks which of c.Authors() the policy keeps. The primary
// author already passed the policy; co-authors are filtered independently of
// their commit. Resolution may rename identities, so the decision is taken on
// the git identity.
func creditedAuthors(c commit.ParsedCommit, policy contributor.ExclusionConfig) ([]bool, error) {
	credit := make([]bool, 1+len(c.CoAuthors))
	credit[0] = true
	for i, co := range c.CoAuthors {
		ok, err := contributor.IsIncluded(co, policy)
		if err != nil {
			return nil, err
		}
		credit[i+1] = ok
	}
	return credit, nil
}

// buildRoster collects every credited author and co-author in input order.
func buildRoster(commits []commit.ParsedCommit, credited [][]bool) []commit.Identity {
	roster := contributor.NewRoster()
	for i, c := range commits {
		for j, id := range c.Authors() {
			if credited[i][j] {
				roster.Add(id)
			}
		}
	}
	return roster.Identities()
}
