package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/okineadev/gitpaper/internal/changelog"
	"github.com/okineadev/gitpaper/internal/commit"
)

func entry(hash, typ, scope, desc string) commit.ParsedCommit {
	return commit.ParsedCommit{
		RawCommit:   commit.RawCommit{Hash: hash, Message: typ + ": " + desc},
		Type:        typ,
		Scope:       scope,
		Description: desc,
	}
}

func sampleResult() *changelog.Result {
	breaking := entry("1234567890", "fix", "", "drop legacy flag")
	breaking.IsBreaking = true

	return &changelog.Result{
		Sections: []changelog.Section{
			{Type: "feat", Title: "🚀 Enhancements", Commits: []commit.ParsedCommit{entry("abcdef1234", "feat", "api", "add endpoint")}},
			{Type: "fix", Title: "🩹 Fixes", Commits: []commit.ParsedCommit{breaking}},
		},
		Contributors: []commit.Identity{
			{Name: "Jane Doe", Email: "jane@example.com", Username: "jdoe"},
			{Name: "John Smith", Email: "john@example.com"},
		},
	}
}

func TestMarkdown_Full(t *testing.T) {
	t.Parallel()

	got, err := MarkdownString(Data{
		Result:       sampleResult(),
		Repo:         "o/r",
		From:         "v1.0.0",
		To:           "v1.1.0",
		Emoji:        true,
		Contributors: true,
	})
	require.NoError(t, err)

	want := "[compare changes](https://github.com/o/r/compare/v1.0.0...v1.1.0)\n" +
		"\n" +
		"### 🚀 Enhancements\n" +
		"\n" +
		"- **api:** Add endpoint ([abcde](https://github.com/o/r/commit/abcdef1234))\n" +
		"\n" +
		"### 🩹 Fixes\n" +
		"\n" +
		"- ⚠️ **BREAKING** Drop legacy flag ([12345](https://github.com/o/r/commit/1234567890))\n" +
		"\n" +
		"### ❤️ Contributors\n" +
		"\n" +
		"- Jane Doe ([@jdoe](https://github.com/jdoe))\n" +
		"- John Smith\n"
	assert.Equal(t, want, got)
}

func TestMarkdown_Options(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data        Data
		contains    []string
		notContains []string
	}{
		"no emoji": {
			data:        Data{Result: sampleResult(), Contributors: true},
			contains:    []string{"### Enhancements\n", "### Fixes\n", "### Contributors\n"},
			notContains: []string{"🚀", "❤️"},
		},
		"no contributors": {
			data:        Data{Result: sampleResult(), Emoji: true},
			notContains: []string{"Contributors", "Jane Doe"},
		},
		"no repo means no links": {
			data:        Data{Result: sampleResult(), From: "v1", To: "v2", Emoji: true},
			contains:    []string{"- **api:** Add endpoint (abcde)\n"},
			notContains: []string{"compare changes", "https://"},
		},
		"overview block": {
			data: Data{Result: sampleResult(), Emoji: true, Overview: "First line.\nSecond line.\n"},
			contains: []string{
				"> **Overview**\n>\n> First line.\n> Second line.\n\n### 🚀 Enhancements",
			},
		},
		"enterprise server url": {
			data:     Data{Result: sampleResult(), Repo: "o/r", From: "a", To: "b", ServerURL: "https://git.example.com/"},
			contains: []string{"(https://git.example.com/o/r/compare/a...b)"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := MarkdownString(tt.data)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestMarkdown_ChangelogBodyOverridesDescription(t *testing.T) {
	t.Parallel()

	c := entry("abcdef1234", "feat", "cli", "add thing")
	c.ChangelogBody = "Hand-written entry\nwith a second line"
	result := &changelog.Result{Sections: []changelog.Section{
		{Type: "feat", Title: "🚀 Enhancements", Commits: []commit.ParsedCommit{c}},
	}}

	got, err := MarkdownString(Data{Result: result, Emoji: true})
	require.NoError(t, err)

	assert.Equal(t, "### 🚀 Enhancements\n\n- **cli:** Hand-written entry (abcde)\n  with a second line\n", got)
	assert.NotContains(t, got, "Add thing")
}

func TestMarkdown_EmptyResult(t *testing.T) {
	t.Parallel()

	got, err := MarkdownString(Data{Result: &changelog.Result{}, Contributors: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abcde", shortHash("abcdef1234"))
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\r\nb\nc"))
	assert.Equal(t, "Éclair", upperFirst("éclair"))
	assert.Equal(t, "", upperFirst(""))
	assert.Equal(t, "Enhancements", sectionTitle("🚀 Enhancements", false))
	assert.Equal(t, "🚀 Enhancements", sectionTitle("🚀 Enhancements", true))
	assert.Equal(t, "🚀", sectionTitle("🚀", false))
	assert.Equal(t, "Plain", sectionTitle("Plain", false))

	funcs := funcMap(Data{Repo: "o/r"})
	emoji := funcs["sectionEmoji"].(func(string) string)
	assert.Equal(t, "⚡", emoji("⚡ Performance"))
	assert.Equal(t, "", emoji("Performance"))
}

func TestContributorLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		id   commit.Identity
		want string
	}{
		"resolved":          {id: commit.Identity{Name: "Jane", Username: "jdoe"}, want: "Jane ([@jdoe](https://github.com/jdoe))"},
		"name equals login": {id: commit.Identity{Name: "JDoe", Username: "jdoe"}, want: "[@jdoe](https://github.com/jdoe)"},
		"unresolved":        {id: commit.Identity{Name: "John", Email: "john@example.com"}, want: "John"},
		"email only":        {id: commit.Identity{Email: "anon@example.com"}, want: "anon@example.com"},
		"username only":     {id: commit.Identity{Username: "ghost"}, want: "[@ghost](https://github.com/ghost)"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, contributorLabel(tt.id, DefaultServerURL))
		})
	}
}

func TestTerminal_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Terminal(&buf, Data{
		Result:       sampleResult(),
		From:         "v1.0.0",
		To:           "v1.1.0",
		Contributors: true,
	}, TerminalOptions{Plain: true, MaxWidth: 80})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "v1.0.0 → v1.1.0\n"))
	assert.Contains(t, out, "\nEnhancements\n  - api: Add endpoint abcde\n")
	assert.Contains(t, out, "  - BREAKING Drop legacy flag 12345\n")
	assert.Contains(t, out, "  - Jane Doe (@jdoe)\n")
	assert.Contains(t, out, "  - John Smith\n")
}

func TestTerminal_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, Data{To: "main"}, TerminalOptions{Plain: true}))
	assert.Equal(t, "main\n\nNo changes.\n", buf.String())
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", wrapText("short", 20, "  "))
	assert.Equal(t, "aaa bbb\n  ccc", wrapText("aaa bbb ccc", 8, "  "))
	assert.Equal(t, "no limit at all", wrapText("no limit at all", 0, ""))
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, Data{Result: sampleResult(), Repo: "o/r", From: "a", To: "b", Contributors: true}))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "https://github.com/o/r/compare/a...b", doc["compare_url"])
	assert.Equal(t, true, doc["breaking"])
	sections := doc["sections"].([]interface{})
	require.Len(t, sections, 2)
	first := sections[0].(map[string]interface{})
	assert.Equal(t, "feat", first["type"])
	commits := first["commits"].([]interface{})
	assert.Equal(t, "abcdef1234", commits[0].(map[string]interface{})["hash"])
	assert.Len(t, doc["contributors"], 2)
}

func TestYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, Data{Result: sampleResult()}))

	var doc struct {
		Sections []struct {
			Type    string `yaml:"type"`
			Commits []struct {
				Hash  string `yaml:"hash"`
				Scope string `yaml:"scope"`
			} `yaml:"commits"`
		} `yaml:"sections"`
		Contributors []commit.Identity `yaml:"contributors"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "api", doc.Sections[0].Commits[0].Scope)
	assert.Equal(t, "abcdef1234", doc.Sections[0].Commits[0].Hash)
	assert.Empty(t, doc.Contributors)
}

func TestDocumentContributors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data    Data
		wantKey bool
		wantLen int
	}{
		"disabled":           {data: Data{Result: sampleResult()}},
		"enabled":            {data: Data{Result: sampleResult(), Contributors: true}, wantKey: true, wantLen: 2},
		"enabled but empty":  {data: Data{Result: &changelog.Result{Contributors: []commit.Identity{}}, Contributors: true}, wantKey: true},
		"enabled, no result": {data: Data{Contributors: true}, wantKey: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var jsonBuf bytes.Buffer
			require.NoError(t, JSON(&jsonBuf, tt.data))
			var jsonDoc map[string]interface{}
			require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &jsonDoc))

			var yamlBuf bytes.Buffer
			require.NoError(t, YAML(&yamlBuf, tt.data))
			var yamlDoc map[string]interface{}
			require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &yamlDoc))

			for format, doc := range map[string]map[string]interface{}{"json": jsonDoc, "yaml": yamlDoc} {
				list, ok := doc["contributors"]
				if !tt.wantKey {
					assert.False(t, ok, format)
					continue
				}
				require.True(t, ok, format)
				require.NotNil(t, list, format)
				assert.Len(t, list, tt.wantLen, format)
			}
		})
	}
}
