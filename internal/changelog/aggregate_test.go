package changelog

import (
	"context"
	"errors"
	"testing"

	"github.com/okineadev/gitpaper/internal/commit"
	"github.com/okineadev/gitpaper/internal/contributor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jane = commit.Identity{Name: "Jane Doe", Email: "jane@x.com"}
	john = commit.Identity{Name: "John Smith", Email: "john@x.com"}
	bot  = commit.Identity{Name: "deps-bot[bot]", Email: "deps@bots.example.com"}
)

func parsed(hash, typ string, author commit.Identity, coAuthors ...commit.Identity) commit.ParsedCommit {
	return commit.ParsedCommit{
		RawCommit: commit.RawCommit{
			Hash:      hash,
			Message:   typ + ": change " + hash,
			Author:    author,
			CoAuthors: coAuthors,
		},
		Type:        typ,
		Description: "change " + hash,
	}
}

func sectionTypes(r *Result) []string {
	types := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		types = append(types, s.Type)
	}
	return types
}

func hashes(s Section) []string {
	out := make([]string, 0, len(s.Commits))
	for _, c := range s.Commits {
		out = append(out, c.Hash)
	}
	return out
}

func TestAggregate_SectionOrderFollowsConfiguration(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{
		parsed("1", "fix", jane),
		parsed("2", "feat", jane),
	}
	types := TypeOrder{
		{Type: "feat", Title: "Features", Enabled: true},
		{Type: "fix", Title: "Fixes", Enabled: true},
	}

	result, err := Aggregate(context.Background(), commits, Options{Types: types})
	require.NoError(t, err)
	assert.Equal(t, []string{"feat", "fix"}, sectionTypes(result))
	assert.Equal(t, "Features", result.Sections[0].Title)
	assert.Nil(t, result.Contributors, "roster disabled means no contributors at all")
}

func TestAggregate_CommitOrderWithinSection(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{
		parsed("c3", "fix", jane),
		parsed("c2", "feat", jane),
		parsed("c1", "fix", john),
	}

	result, err := Aggregate(context.Background(), commits, Options{Types: DefaultTypes()})
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)
	assert.Equal(t, []string{"c2"}, hashes(result.Sections[0]))
	assert.Equal(t, []string{"c3", "c1"}, hashes(result.Sections[1]))
}

func TestAggregate_DisabledAndUnknownTypes(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{
		parsed("1", "docs", jane),
		parsed("2", "chore", jane),
		parsed("3", "feat", jane),
	}
	types := TypeOrder{
		{Type: "docs", Title: "Docs", Enabled: false},
		{Type: "feat", Title: "Features", Enabled: true},
	}

	result, err := Aggregate(context.Background(), commits, Options{Types: types, Contributors: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"feat"}, sectionTypes(result))
	assert.Len(t, commits, 3, "unknown types stay in the caller's slice")
}

func TestAggregate_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	result, err := Aggregate(context.Background(), []commit.ParsedCommit{parsed("1", "chore", jane)}, Options{
		Types:        DefaultTypes(),
		Contributors: true,
	})
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.NotNil(t, result.Sections)
	assert.NotNil(t, result.Contributors)
	assert.Empty(t, result.Contributors)
}

func TestAggregate_BotAuthorContributesNothing(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{
		parsed("1", "fix", bot),
		parsed("2", "fix", bot),
		parsed("3", "feat", bot),
		parsed("4", "feat", jane),
	}

	result, err := Aggregate(context.Background(), commits, Options{
		Types:        DefaultTypes(),
		Policy:       contributor.ExclusionConfig{ExcludeBots: true},
		Contributors: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"feat"}, sectionTypes(result))
	assert.Equal(t, []string{"4"}, hashes(result.Sections[0]))
	assert.Equal(t, []commit.Identity{jane}, result.Contributors)
}

func TestAggregate_CoAuthorsDoNotGateCommit(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{
		parsed("1", "feat", jane, bot),
		parsed("2", "feat", bot, jane),
	}

	result, err := Aggregate(context.Background(), commits, Options{
		Types:        DefaultTypes(),
		Policy:       contributor.ExclusionConfig{ExcludeBots: true},
		Contributors: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Sections, 1)
	assert.Equal(t, []string{"1"}, hashes(result.Sections[0]))
	assert.Equal(t, []commit.Identity{bot}, result.Sections[0].Commits[0].CoAuthors,
		"the commit keeps its co-author list")
	assert.Equal(t, []commit.Identity{jane}, result.Contributors,
		"an excluded co-author is left out of the roster independently")
}

func TestAggregate_RemovesAuthorFromCoAuthors(t *testing.T) {
	t.Parallel()

	input := []commit.ParsedCommit{
		parsed("1", "fix", jane,
			commit.Identity{Name: "Jane D.", Email: "Jane@X.com"},
			john,
			commit.Identity{Name: "Johnny", Email: "JOHN@x.com"},
		),
	}

	result, err := Aggregate(context.Background(), input, Options{Types: DefaultTypes(), Contributors: true})
	require.NoError(t, err)
	assert.Equal(t, []commit.Identity{john}, result.Sections[0].Commits[0].CoAuthors)
	assert.Equal(t, []commit.Identity{jane, john}, result.Contributors)
	assert.Len(t, input[0].CoAuthors, 3, "input commits are not modified")
}

func TestAggregate_ContributorsDeduplicatedByEmail(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{
		parsed("1", "feat", jane),
		parsed("2", "fix", commit.Identity{Name: "Jane D.", Email: "Jane@X.com"}, john),
		parsed("3", "fix", john),
	}

	result, err := Aggregate(context.Background(), commits, Options{Types: DefaultTypes(), Contributors: true})
	require.NoError(t, err)
	assert.Equal(t, []commit.Identity{jane, john}, result.Contributors)
}

func TestAggregate_ExclusionListAppliesToRoster(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{parsed("1", "feat", jane, john)}

	result, err := Aggregate(context.Background(), commits, Options{
		Types:        DefaultTypes(),
		Policy:       contributor.ExclusionConfig{ExcludeContributors: []string{"john@x.com"}},
		Contributors: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []commit.Identity{jane}, result.Contributors)
}

func TestAggregate_PredicateErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("predicate exploded")
	_, err := Aggregate(context.Background(), []commit.ParsedCommit{parsed("1", "feat", jane)}, Options{
		Types: DefaultTypes(),
		Policy: contributor.ExclusionConfig{Predicate: func(commit.Identity) (bool, error) {
			return false, boom
		}},
	})

	var cfgErr *contributor.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, boom)
}

func TestAggregate_PredicateErrorOnCoAuthorAborts(t *testing.T) {
	t.Parallel()

	_, err := Aggregate(context.Background(), []commit.ParsedCommit{parsed("1", "feat", jane, john)}, Options{
		Types:        DefaultTypes(),
		Contributors: true,
		Policy: contributor.ExclusionConfig{Predicate: func(id commit.Identity) (bool, error) {
			if id.Email == john.Email {
				return false, errors.New("cannot decide")
			}
			return false, nil
		}},
	})
	require.Error(t, err)
}

func TestAggregate_Idempotent(t *testing.T) {
	t.Parallel()

	commits := []commit.ParsedCommit{
		parsed("1", "fix", jane, john),
		parsed("2", "feat", john),
		parsed("3", "perf", bot),
	}
	opts := Options{
		Types:        DefaultTypes(),
		Policy:       contributor.ExclusionConfig{ExcludeBots: true},
		Contributors: true,
	}

	first, err := Aggregate(context.Background(), commits, opts)
	require.NoError(t, err)
	second, err := Aggregate(context.Background(), commits, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregate_TitleFallsBackToDefault(t *testing.T) {
	t.Parallel()

	types := TypeOrder{{Type: "ci", Enabled: true}, {Type: "custom", Enabled: true}}
	commits := []commit.ParsedCommit{parsed("1", "custom", jane), parsed("2", "ci", jane)}

	result, err := Aggregate(context.Background(), commits, Options{Types: types})
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)
	assert.Equal(t, "🤖 CI", result.Sections[0].Title)
	assert.Equal(t, "custom", result.Sections[1].Title)
}

func TestResultHelpers(t *testing.T) {
	var nilResult *Result
	assert.True(t, nilResult.IsEmpty())
	assert.Zero(t, nilResult.CommitCount())
	assert.False(t, nilResult.HasBreaking())

	breaking := parsed("2", "feat", jane)
	breaking.IsBreaking = true
	r := &Result{Sections: []Section{
		{Type: "feat", Commits: []commit.ParsedCommit{parsed("1", "feat", jane), breaking}},
		{Type: "fix", Commits: []commit.ParsedCommit{parsed("3", "fix", jane)}},
	}}
	assert.False(t, r.IsEmpty())
	assert.Equal(t, 3, r.CommitCount())
	assert.True(t, r.HasBreaking())
}
