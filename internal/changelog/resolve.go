package changelog

import (
	"context"
	"fmt"
	"strings"

	"github.com/okineadev/gitpaper/internal/commit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolution is what an identity lookup service knows about an email.
type Resolution struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Username string `json:"username" yaml:"username"`
}

// Resolver looks up the public identity behind a commit email.
// A nil Resolution with a nil error means "no match".
type Resolver interface {
	Resolve(ctx context.Context, email string) (*Resolution, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, email string) (*Resolution, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, email string) (*Resolution, error) {
	return f(ctx, email)
}

// collectEmails returns the distinct emails of the credited authors and
// co-authors, keyed by normalized email, in first-seen order.
func collectEmails(commits []commit.ParsedCommit, credited [][]bool) []string {
	seen := make(map[string]bool)
	var emails []string
	for i, c := range commits {
		for j, id := range c.Authors() {
			if !credited[i][j] {
				continue
			}
			email := strings.TrimSpace(id.Email)
			if email == "" {
				continue
			}
			key := strings.ToLower(email)
			if seen[key] {
				continue
			}
			seen[key] = true
			emails = append(emails, email)
		}
	}
	return emails
}

// resolveIdentities fans out one lookup per email with at most limit in
// flight and returns once every lookup finished. Failures, panics and empty
// answers are all treated as "no match".
func resolveIdentities(ctx context.Context, resolver Resolver, emails []string, limit int, logger *zap.Logger) map[string]Resolution {
	results := make([]*Resolution, len(emails))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, email := range emails {
		g.Go(func() error {
			res, err := safeResolve(ctx, resolver, email)
			if err != nil {
				logger.Debug("identity resolution failed", zap.String("email", email), zap.Error(err))
				return nil
			}
			if res == nil || res.Username == "" {
				logger.Debug("identity not found", zap.String("email", email))
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	resolved := make(map[string]Resolution, len(emails))
	for i, email := range emails {
		if results[i] != nil {
			resolved[strings.ToLower(email)] = *results[i]
		}
	}
	return resolved
}

func safeResolve(ctx context.Context, resolver Resolver, email string) (res *Resolution, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolver panic: %v", r)
		}
	}()
	return resolver.Resolve(ctx, email)
}

// applyResolutions rewrites the commit's identities in place. The commit is a
// private copy owned by Aggregate; co-authors get a new backing array.
func applyResolutions(c *commit.ParsedCommit, resolutions map[string]Resolution) {
	c.Author = applyResolution(c.Author, resolutions)
	if len(c.CoAuthors) == 0 {
		return
	}
	coAuthors := make([]commit.Identity, len(c.CoAuthors))
	for i, co := range c.CoAuthors {
		coAuthors[i] = applyResolution(co, resolutions)
	}
	c.CoAuthors = coAuthors
}

func applyResolution(id commit.Identity, resolutions map[string]Resolution) commit.Identity {
	res, ok := resolutions[strings.ToLower(strings.TrimSpace(id.Email))]
	if !ok {
		return id
	}
	id.Username = res.Username
	if res.Name != "" {
		id.Name = res.Name
	}
	return id
}
