package contributor

import (
	"errors"
	"testing"

	"github.com/okineadev/gitpaper/internal/commit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIncluded(t *testing.T) {
	t.Parallel()

	bot := commit.Identity{Name: "deps-bot[bot]", Email: "deps@users.noreply.github.com"}
	jane := commit.Identity{Name: "Jane Doe", Email: "jane@x.com"}

	tests := map[string]struct {
		identity commit.Identity
		config   ExclusionConfig
		want     bool
	}{
		"no policy": {
			identity: bot,
			config:   ExclusionConfig{},
			want:     true,
		},
		"bot excluded": {
			identity: bot,
			config:   ExclusionConfig{ExcludeBots: true},
			want:     false,
		},
		"bot suffix is case-insensitive": {
			identity: commit.Identity{Name: "Renovate[BOT]"},
			config:   ExclusionConfig{ExcludeBots: true},
			want:     false,
		},
		"bot word without suffix stays": {
			identity: commit.Identity{Name: "[bot] helper"},
			config:   ExclusionConfig{ExcludeBots: true},
			want:     true,
		},
		"excluded by name": {
			identity: jane,
			config:   ExclusionConfig{ExcludeContributors: []string{"Jane Doe"}},
			want:     false,
		},
		"excluded by email": {
			identity: jane,
			config:   ExclusionConfig{ExcludeContributors: []string{"jane@x.com"}},
			want:     false,
		},
		"list match is exact": {
			identity: jane,
			config:   ExclusionConfig{ExcludeContributors: []string{"JANE@X.COM", "jane"}},
			want:     true,
		},
		"predicate excludes": {
			identity: jane,
			config: ExclusionConfig{Predicate: func(id commit.Identity) (bool, error) {
				return id.Email == "jane@x.com", nil
			}},
			want: false,
		},
		"predicate keeps": {
			identity: jane,
			config: ExclusionConfig{Predicate: func(commit.Identity) (bool, error) {
				return false, nil
			}},
			want: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := IsIncluded(tt.identity, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsIncluded_RuleOrder(t *testing.T) {
	t.Parallel()

	called := false
	cfg := ExclusionConfig{
		ExcludeBots: true,
		Predicate: func(commit.Identity) (bool, error) {
			called = true
			return false, errors.New("boom")
		},
	}

	included, err := IsIncluded(commit.Identity{Name: "ci[bot]"}, cfg)
	require.NoError(t, err)
	assert.False(t, included)
	assert.False(t, called, "bot rule matches before the predicate runs")
}

func TestIsIncluded_PredicateError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cfg := ExclusionConfig{Predicate: func(commit.Identity) (bool, error) {
		return false, boom
	}}

	_, err := IsIncluded(commit.Identity{Name: "Jane"}, cfg)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Jane", cfgErr.Identity.Name)
}

func TestPatternPredicate(t *testing.T) {
	t.Parallel()

	pred := PatternPredicate([]string{"*@bots.example.com", "renovate*"})

	tests := map[string]struct {
		identity commit.Identity
		want     bool
	}{
		"email glob":           {identity: commit.Identity{Name: "ci", Email: "ci@bots.example.com"}, want: true},
		"email glob any case":  {identity: commit.Identity{Name: "ci", Email: "CI@Bots.Example.com"}, want: true},
		"name glob":            {identity: commit.Identity{Name: "renovate-helper"}, want: true},
		"no match":             {identity: commit.Identity{Name: "Jane", Email: "jane@x.com"}, want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := pred(tt.identity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternPredicate_MalformedPatternIsFatal(t *testing.T) {
	t.Parallel()

	cfg := ExclusionConfig{Predicate: PatternPredicate([]string{"[unterminated"})}
	_, err := IsIncluded(commit.Identity{Name: "Jane"}, cfg)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Error(t, ValidatePatterns([]string{"[unterminated"}))
	assert.NoError(t, ValidatePatterns([]string{"*@x.com", "bot?"}))
}

func TestSame(t *testing.T) {
	t.Parallel()

	assert.True(t, Same(
		commit.Identity{Name: "Jane Doe", Email: "jane@x.com"},
		commit.Identity{Name: "Jane D.", Email: "Jane@X.com"},
	))
	assert.False(t, Same(
		commit.Identity{Name: "Jane", Email: "jane@x.com"},
		commit.Identity{Name: "Jane", Email: "jane@y.com"},
	))
	assert.True(t, Same(commit.Identity{Name: "Jane"}, commit.Identity{Name: " jane "}))
}
