// gitpaper - changelog generation from conventional commits
// Source: https://github.com/okineadev/gitpaper

// Package config provides hierarchical configuration for gitpaper using koanf.
// Configuration is loaded with priority: flag overrides > environment variables
// (GITPAPER_*) > project config (gitpaper.config.{yml,yaml,json,toml}) > user
// config (~/.config/gitpaper/config.yml) > defaults. The `types` mapping is
// decoded separately so that its document order survives.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okineadev/gitpaper/internal/changelog"
	"github.com/okineadev/gitpaper/internal/contributor"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys: GITPAPER_CACHE__BACKEND -> cache.backend.
const EnvPrefix = "GITPAPER_"

// Configuration represents the gitpaper configuration.
type Configuration struct {
	// Types is the ordered type-to-title mapping, merged over DefaultTypes.
	Types changelog.TypeOrder `koanf:"-"`
	// Repo is the hosting repository. Empty means "use the origin remote".
	Repo Repo `koanf:"-"`

	Contributors        bool     `koanf:"contributors"`
	Emoji               bool     `koanf:"emoji"`
	ExcludeBots         bool     `koanf:"exclude_bots"`
	ExcludeContributors []string `koanf:"exclude_contributors"`
	// ExcludePatterns are glob patterns matched against contributor names and emails.
	ExcludePatterns []string `koanf:"exclude_patterns"`

	Format string `koanf:"format" validate:"oneof=markdown terminal json yaml"`
	Output string `koanf:"output"`

	GitHub   GitHubConfig   `koanf:"github"`
	Resolver ResolverConfig `koanf:"resolver"`
	Cache    CacheConfig    `koanf:"cache"`
	Overview OverviewConfig `koanf:"overview"`

	// Source is the project config file that was loaded, if any.
	Source string `koanf:"-"`
}

// GitHubConfig configures the REST client used for identity lookups and releases.
type GitHubConfig struct {
	Token  string  `koanf:"token"`
	APIURL string  `koanf:"api_url" validate:"required,url"`
	Rate   float64 `koanf:"rate" validate:"gt=0"`
	Burst  int     `koanf:"burst" validate:"gte=1"`
}

// ResolverConfig configures identity resolution.
type ResolverConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Concurrency int           `koanf:"concurrency" validate:"gte=1,lte=64"`
	Timeout     time.Duration `koanf:"timeout" validate:"gte=0"`
}

// CacheConfig configures the identity cache.
type CacheConfig struct {
	Backend  string        `koanf:"backend" validate:"oneof=file redis none"`
	Path     string        `koanf:"path"`
	TTL      time.Duration `koanf:"ttl" validate:"gte=0"`
	RedisURL string        `koanf:"redis_url" validate:"required_if=Backend redis"`
}

// OverviewConfig configures the generated narrative overview.
type OverviewConfig struct {
	Enabled bool   `koanf:"enabled"`
	Model   string `koanf:"model" validate:"required"`
	APIKey  string `koanf:"api_key"`
	// BaseURL overrides the Gemini endpoint.
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
}

// ExclusionConfig returns the contributor policy described by the configuration.
func (c *Configuration) ExclusionConfig() contributor.ExclusionConfig {
	policy := contributor.ExclusionConfig{
		ExcludeBots:         c.ExcludeBots,
		ExcludeContributors: c.ExcludeContributors,
	}
	if len(c.ExcludePatterns) > 0 {
		policy.Predicate = contributor.PatternPredicate(c.ExcludePatterns)
	}
	return policy
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Dir is searched for the project config and .env file (default: cwd).
	Dir string
	// ConfigPath overrides project config discovery. The file must exist.
	ConfigPath string
	// UserConfigPath overrides the user config location (tests).
	UserConfigPath string
	// Overrides are applied last, keyed by koanf path (e.g. "emoji").
	Overrides map[string]any
}

// Load loads configuration from defaults, user, project, .env, environment
// and overrides, in increasing priority.
func Load(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	types := changelog.DefaultTypes()

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if fileExists(userPath) {
		userTypes, err := loadFile(k, userPath)
		if err != nil {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
		types = userTypes.Merge(types)
	}

	projectPath, err := resolveProjectPath(opts)
	if err != nil {
		return nil, err
	}
	if projectPath != "" {
		projectTypes, err := loadFile(k, projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
		types = projectTypes.Merge(types)
	}

	if err := loadDotEnv(opts.Dir); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	cfg, err := finalize(k, displayPath(projectPath))
	if err != nil {
		return nil, err
	}
	cfg.Types = types
	cfg.Source = projectPath
	return cfg, nil
}

func resolveProjectPath(opts LoadOptions) (string, error) {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return "", &ValidationError{FilePath: opts.ConfigPath, Message: "config file not found"}
		}
		return opts.ConfigPath, nil
	}
	return FindProjectConfig(opts.Dir), nil
}

// loadFile merges one config file into k and returns its ordered types.
func loadFile(k *koanf.Koanf, path string) (changelog.TypeOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".toml" {
		if err := ValidateYAMLSyntaxFromBytes(data, path); err != nil {
			return nil, err
		}
	}

	parser, err := parserFor(ext)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	types, err := decodeTypes(data, ext)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Field: "types", Message: err.Error()}
	}
	return types, nil
}

func parserFor(ext string) (koanf.Parser, error) {
	switch ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return TOMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}
}

// loadDotEnv loads dir/.env without overriding variables already set.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func finalize(k *koanf.Koanf, source string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	repo, err := ParseRepo(k.Get("repo"))
	if err != nil {
		return nil, &ValidationError{FilePath: source, Field: "repo", Message: err.Error()}
	}
	cfg.Repo = repo

	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = firstEnv("GITHUB_TOKEN", "GH_TOKEN")
	}
	if cfg.Overview.APIKey == "" {
		cfg.Overview.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY")
	}
	cfg.Cache.Path = expandHomePath(cfg.Cache.Path)

	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func displayPath(path string) string {
	if path == "" {
		return "config"
	}
	return path
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: GITPAPER_CACHE__REDIS_URL -> cache.redis_url
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
