package config

import "time"

// DefaultGitHubAPIURL is the public GitHub REST endpoint.
const DefaultGitHubAPIURL = "https://api.github.com"

// DefaultOverviewModel is the model used for --generate-overview.
const DefaultOverviewModel = "gemini-2.5-flash"

// GetDefaultConfigTemplate returns a commented project config template.
func GetDefaultConfigTemplate() string {
	return `# gitpaper configuration

# Section order follows this mapping. Use true for the built-in title,
# a string for a custom one, false to drop the type.
types:
  feat: "🚀 Enhancements"
  perf: "⚡ Performance"
  fix: "🩹 Fixes"
  types: "🌊 Types"

# repo: owner/name                    # default: origin remote

contributors: true                    # Render the contributors section
emoji: true                           # Keep emojis in section titles
exclude_bots: true                    # Drop dependabot[bot], renovate[bot], ...
exclude_contributors: []              # Exact names or emails to drop
exclude_patterns: []                  # Glob patterns, e.g. "*@users.noreply.example.com"

format: markdown                      # markdown | terminal | json | yaml

github:
  api_url: https://api.github.com
  rate: 10                            # Requests per second
  burst: 5

resolver:
  enabled: true
  concurrency: 8
  timeout: 30s

cache:
  backend: file                       # file | redis | none
  path: ""                            # default: user cache dir
  ttl: 24h
  redis_url: ""                       # redis://localhost:6379/0

overview:
  enabled: false                      # Same as --generate-overview
  model: gemini-2.5-flash
`
}

// GetDefaults returns the default values keyed by koanf path.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"contributors":         true,
		"emoji":                true,
		"exclude_bots":         true,
		"exclude_contributors": []string{},
		"exclude_patterns":     []string{},
		"format":               "markdown",
		"output":               "",
		"github.token":         "",
		"github.api_url":       DefaultGitHubAPIURL,
		"github.rate":          10.0,
		"github.burst":         5,
		"resolver.enabled":     true,
		"resolver.concurrency": 8,
		"resolver.timeout":     30 * time.Second,
		"cache.backend":        "file",
		"cache.path":           "",
		"cache.ttl":            24 * time.Hour,
		"cache.redis_url":      "",
		"overview.enabled":     false,
		"overview.model":       DefaultOverviewModel,
		"overview.api_key":     "",
		"overview.base_url":    "",
	}
}
