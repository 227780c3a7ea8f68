// Package git reads commit history for changelog generation. It uses go-git
// so no git binary is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"go.uber.org/zap"

	"github.com/okineadev/gitpaper/internal/commit"
	"github.com/okineadev/gitpaper/internal/logging"
)

// ErrUnknownRevision is returned when a revision cannot be resolved.
var ErrUnknownRevision = errors.New("unknown revision")

// Repository is an opened git repository.
type Repository struct {
	repo   *git.Repository
	root   string
	logger *zap.Logger
}

// Open opens the repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func Open(path string, logger *zap.Logger) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logger = logging.OrNop(logger).Named("git")
	logger.Debug("opening repository", zap.String("path", path))

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repository{repo: repo, root: root, logger: logger}, nil
}

// Root returns the working tree root.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the checked-out branch name, or the HEAD commit hash
// when HEAD is detached.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

// Resolve resolves a tag, branch, hash or other revision to a commit hash.
func (r *Repository) Resolve(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w %q: %v", ErrUnknownRevision, rev, err)
	}
	return *hash, nil
}

// HasTag reports whether name is a tag in the repository.
func (r *Repository) HasTag(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up tag %s: %w", name, err)
	}
	return true, nil
}

// LastTag returns the most recent tag reachable from to, ignoring tags that
// point at to itself. It returns "" when there is none.
func (r *Repository) LastTag(to string) (string, error) {
	toHash, err := r.Resolve(to)
	if err != nil {
		return "", err
	}

	tags, err := r.tagsByCommit()
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", nil
	}

	iter, err := r.repo.Log(&git.LogOptions{From: toHash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", to, err)
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == toHash {
			return nil
		}
		if names, ok := tags[c.Hash]; ok {
			found = names[len(names)-1]
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", to, err)
	}

	r.logger.Debug("last tag", zap.String("to", to), zap.String("tag", found))
	return found, nil
}

// tagsByCommit maps commit hashes to their sorted tag names. Annotated tags
// are peeled to the commit they reference.
func (r *Repository) tagsByCommit() (map[plumbing.Hash][]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer refs.Close()

	tags := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		tagObj, err := r.repo.TagObject(target)
		switch {
		case err == nil:
			c, err := tagObj.Commit()
			if err != nil {
				// Tags on trees or blobs never appear in commit history.
				return nil
			}
			target = c.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return err
		}
		tags[target] = append(tags[target], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}

	for _, names := range tags {
		sort.Strings(names)
	}
	return tags, nil
}

// FirstCommit returns the hash of the oldest root commit reachable from to.
func (r *Repository) FirstCommit(to string) (string, error) {
	toHash, err := r.Resolve(to)
	if err != nil {
		return "", err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: toHash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", to, err)
	}
	defer iter.Close()

	var first string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() == 0 {
			first = c.Hash.String()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", to, err)
	}
	return first, nil
}

// CommitsBetween returns commits reachable from to but not from from,
// newest first. An empty from means the whole history of to.
func (r *Repository) CommitsBetween(from, to string) ([]commit.RawCommit, error) {
	toHash, err := r.Resolve(to)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	if from != "" {
		fromHash, err := r.Resolve(from)
		if err != nil {
			return nil, err
		}
		if err := r.walk(fromHash, func(c *object.Commit) error {
			excluded[c.Hash] = true
			return nil
		}); err != nil {
			return nil, fmt.Errorf("walking history from %s: %w", from, err)
		}
	}

	var commits []commit.RawCommit
	err = r.walk(toHash, func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}
		commits = append(commits, toRawCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", to, err)
	}

	r.logger.Debug("collected commits",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("count", len(commits)),
	)
	return commits, nil
}

func (r *Repository) walk(from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return err
	}
	defer iter.Close()
	return iter.ForEach(fn)
}

func toRawCommit(c *object.Commit) commit.RawCommit {
	subject, body, _ := strings.Cut(strings.ReplaceAll(c.Message, "\r\n", "\n"), "\n")
	return commit.RawCommit{
		Hash:    c.Hash.String(),
		Message: strings.TrimSpace(subject),
		Body:    strings.Trim(body, "\n"),
		Date:    c.Author.When,
		Author: commit.Identity{
			Name:  c.Author.Name,
			Email: c.Author.Email,
		},
	}
}
