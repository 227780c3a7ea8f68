package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/okineadev/gitpaper/internal/build"
	"github.com/okineadev/gitpaper/internal/cache"
	"github.com/okineadev/gitpaper/internal/changelog"
	"github.com/okineadev/gitpaper/internal/commit"
	"github.com/okineadev/gitpaper/internal/config"
	"github.com/okineadev/gitpaper/internal/contributor"
	clierrors "github.com/okineadev/gitpaper/internal/errors"
	"github.com/okineadev/gitpaper/internal/git"
	"github.com/okineadev/gitpaper/internal/github"
	"github.com/okineadev/gitpaper/internal/logging"
	"github.com/okineadev/gitpaper/internal/overview"
	"github.com/okineadev/gitpaper/internal/progress"
	"github.com/okineadev/gitpaper/internal/render"
)

// revRange is the resolved commit range.
type revRange struct {
	// from labels the compare link.
	from string
	// base is the exclusive lower bound; "" walks the full history.
	base string
	to   string
}

func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	logger := logging.New(opts.verbose, stderr)
	defer logger.Sync() //nolint:errcheck // stderr sync fails on terminals

	if err := opts.validate(cmd.Flags()); err != nil {
		return err
	}

	dir := opts.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		dir = wd
	}

	repo, err := git.Open(dir, logger)
	if err != nil {
		return clierrors.NotARepository(dir, err)
	}

	cfg, err := config.Load(config.LoadOptions{
		Dir:        repo.Root(),
		ConfigPath: opts.configPath,
		Overrides:  opts.overrides(cmd.Flags()),
	})
	if err != nil {
		return configError(err)
	}
	logger.Debug("configuration loaded", zap.String("source", cfg.Source), zap.String("format", cfg.Format))

	if opts.release && cfg.Format != FormatMarkdown {
		return clierrors.ReleaseNeedsTarget(cfg.Format)
	}

	rng, err := resolveRange(repo, opts.from, opts.to)
	if err != nil {
		return err
	}
	logger.Debug("range", zap.String("from", rng.from), zap.String("base", rng.base), zap.String("to", rng.to))

	raws, err := repo.CommitsBetween(rng.base, rng.to)
	if err != nil {
		return revisionError(rng.base, err)
	}
	parsed := commit.ParseAll(raws)
	logger.Debug("commits parsed", zap.Int("total", len(raws)), zap.Int("conventional", len(parsed)))

	fullName, err := repoName(cfg, repo)
	if err != nil {
		return err
	}

	result, err := aggregate(ctx, cfg, parsed, stderr, logger)
	if err != nil {
		return err
	}

	data := render.Data{
		Result:       result,
		Repo:         fullName,
		From:         rng.from,
		To:           rng.to,
		Emoji:        cfg.Emoji,
		Contributors: cfg.Contributors,
	}

	if cfg.Overview.Enabled {
		summary, err := generateOverview(ctx, cfg, data, stderr, logger)
		if err != nil {
			return err
		}
		data.Overview = summary
	}

	if opts.release {
		return publishRelease(ctx, cmd, opts, cfg, repo, data, logger)
	}

	var buf bytes.Buffer
	if err := renderFormat(&buf, cfg, data); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return writeOutput(stdout, cfg.Output, buf.Bytes())
}

// resolveRange fills in defaults: to is the current branch, from the last
// tag before to. Without any tag the whole history up to to is used and
// the root commit labels the compare link.
func resolveRange(repo *git.Repository, from, to string) (revRange, error) {
	if to == "" {
		branch, err := repo.CurrentBranch()
		if err != nil {
			return revRange{}, clierrors.WrapWithMessage(err, clierrors.Repository,
				"cannot determine the current branch", "Make a first commit or pass --to")
		}
		to = branch
	}
	if _, err := repo.Resolve(to); err != nil {
		return revRange{}, clierrors.UnknownRevision(to, err)
	}

	if from != "" {
		if _, err := repo.Resolve(from); err != nil {
			return revRange{}, clierrors.UnknownRevision(from, err)
		}
		return revRange{from: from, base: from, to: to}, nil
	}

	tag, err := repo.LastTag(to)
	if err != nil {
		return revRange{}, revisionError(to, err)
	}
	if tag != "" {
		return revRange{from: tag, base: tag, to: to}, nil
	}

	first, err := repo.FirstCommit(to)
	if err != nil {
		return revRange{}, revisionError(to, err)
	}
	return revRange{from: first, to: to}, nil
}

func repoName(cfg *config.Configuration, repo *git.Repository) (string, error) {
	if !cfg.Repo.IsZero() {
		return cfg.Repo.String(), nil
	}
	owner, name, ok, err := repo.RepoInfo()
	if err != nil {
		return "", clierrors.Wrap(err, clierrors.Repository)
	}
	if !ok {
		return "", nil
	}
	return owner + "/" + name, nil
}

// aggregate groups the commits, resolving identities when the output shows them.
func aggregate(ctx context.Context, cfg *config.Configuration, parsed []commit.ParsedCommit, stderr io.Writer, logger *zap.Logger) (*changelog.Result, error) {
	opts := changelog.Options{
		Types:        cfg.Types,
		Policy:       cfg.ExclusionConfig(),
		Contributors: cfg.Contributors,
		Concurrency:  cfg.Resolver.Concurrency,
		Logger:       logger,
	}

	needsIdentities := cfg.Contributors || cfg.Format == FormatJSON || cfg.Format == FormatYAML
	if !cfg.Resolver.Enabled || !needsIdentities {
		return runAggregate(ctx, parsed, opts)
	}

	store := openStore(ctx, cfg, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("saving identity cache failed", zap.Error(err))
		}
	}()
	opts.Resolver = cache.NewResolver(newGitHubClient(cfg, logger), store, logger)

	if cfg.Resolver.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Resolver.Timeout)
		defer cancel()
	}

	spin := newSpinner(stderr)
	spin.Start("Resolving contributors")
	result, err := runAggregate(ctx, parsed, opts)
	if err != nil {
		spin.Fail("Resolving contributors failed")
		return nil, err
	}
	spin.Success(fmt.Sprintf("Resolved %d contributors", len(result.Contributors)))
	return result, nil
}

func runAggregate(ctx context.Context, parsed []commit.ParsedCommit, opts changelog.Options) (*changelog.Result, error) {
	result, err := changelog.Aggregate(ctx, parsed, opts)
	if err != nil {
		var policyErr *contributor.ConfigError
		if errors.As(err, &policyErr) {
			return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid contributor exclusion",
				"Check exclude_patterns in the config file")
		}
		return nil, clierrors.Wrap(err, clierrors.Runtime)
	}
	return result, nil
}

// openStore falls back to no caching when the configured backend is unavailable.
func openStore(ctx context.Context, cfg *config.Configuration, logger *zap.Logger) cache.Store {
	path := cfg.Cache.Path
	if path == "" && cfg.Cache.Backend == cache.BackendFile {
		p, err := config.DefaultCachePath()
		if err != nil {
			logger.Warn("no cache directory, identity cache disabled", zap.Error(err))
			return cache.NoopStore{}
		}
		path = p
	}

	store, err := cache.Open(ctx, cache.Options{
		Backend:  cfg.Cache.Backend,
		Path:     path,
		RedisURL: cfg.Cache.RedisURL,
		TTL:      cfg.Cache.TTL,
	})
	if err != nil {
		logger.Warn("identity cache unavailable", zap.String("backend", cfg.Cache.Backend), zap.Error(err))
		return cache.NoopStore{}
	}
	return store
}

func newGitHubClient(cfg *config.Configuration, logger *zap.Logger) *github.Client {
	return github.NewClient(github.Options{
		BaseURL:   cfg.GitHub.APIURL,
		Token:     cfg.GitHub.Token,
		UserAgent: build.UserAgent(),
		Rate:      cfg.GitHub.Rate,
		Burst:     cfg.GitHub.Burst,
		Logger:    logger,
	})
}

func newSpinner(w io.Writer) *progress.Spinner {
	var caps progress.TerminalCapabilities
	if f, ok := w.(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}
	return progress.NewSpinner(w, caps)
}

func generateOverview(ctx context.Context, cfg *config.Configuration, data render.Data, stderr io.Writer, logger *zap.Logger) (string, error) {
	if cfg.Overview.APIKey == "" {
		return "", clierrors.MissingOverviewKey()
	}

	md, err := render.MarkdownString(data)
	if err != nil {
		return "", clierrors.Wrap(err, clierrors.Runtime)
	}

	gen := overview.New(overview.Options{
		APIKey:  cfg.Overview.APIKey,
		Model:   cfg.Overview.Model,
		BaseURL: cfg.Overview.BaseURL,
		Logger:  logger,
	})

	spin := newSpinner(stderr)
	spin.Start("Writing overview")
	summary, err := gen.Generate(ctx, md)
	if err != nil {
		spin.Fail("Overview generation failed")
		return "", clierrors.WrapWithMessage(err, clierrors.Remote, "generating overview",
			"Retry later or drop --generate-overview")
	}
	spin.Success("Overview written")
	return summary, nil
}

func publishRelease(ctx context.Context, cmd *cobra.Command, opts *rootOptions, cfg *config.Configuration, repo *git.Repository, data render.Data, logger *zap.Logger) error {
	if data.Repo == "" {
		return clierrors.MissingRepository()
	}
	if cfg.GitHub.Token == "" {
		return clierrors.MissingToken("--release")
	}
	isTag, err := repo.HasTag(data.To)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Repository)
	}
	if !isTag {
		return clierrors.NewArgumentError(
			fmt.Sprintf("--release needs --to to name a tag, got %q", data.To),
			"Tag the release first: git tag v1.2.3 && git push --tags",
			"Then run: gitpaper --to v1.2.3 --release",
		)
	}

	body, err := render.MarkdownString(data)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	if cfg.Output != "" {
		if err := writeOutput(cmd.OutOrStdout(), cfg.Output, []byte(body)); err != nil {
			return err
		}
	}

	name := opts.releaseName
	if name == "" {
		name = data.To
	}

	owner, repoName := splitRepo(data.Repo)
	rel, err := newGitHubClient(cfg, logger).CreateRelease(ctx, owner, repoName, github.ReleaseOptions{
		TagName:    data.To,
		Name:       name,
		Body:       body,
		Draft:      opts.draft,
		Prerelease: opts.prerelease,
	})
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Remote, "creating release",
			"Check the token has the repo (or contents: write) scope",
			"A release for this tag may already exist")
	}

	logger.Info("release published", zap.String("tag", rel.TagName), zap.Bool("draft", rel.Draft))
	fmt.Fprintln(cmd.OutOrStdout(), rel.HTMLURL)
	return nil
}

func renderFormat(w io.Writer, cfg *config.Configuration, data render.Data) error {
	switch cfg.Format {
	case FormatTerminal:
		return render.Terminal(w, data, render.TerminalOptions{
			Plain: cfg.Output != "" || color.NoColor,
		})
	case FormatJSON:
		return render.JSON(w, data)
	case FormatYAML:
		return render.YAML(w, data)
	default:
		return render.Markdown(w, data)
	}
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, content []byte) error {
	if path == "" {
		_, err := stdout.Write(content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing "+path)
	}
	return nil
}

func splitRepo(full string) (owner, name string) {
	r, err := config.ParseRepoString(full)
	if err != nil {
		return "", ""
	}
	return r.Owner, r.Name
}

func configError(err error) error {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return clierrors.Wrap(err, clierrors.Configuration,
			"Fix the value in "+verr.FilePath,
			"Run gitpaper init to write a commented config template")
	}
	return clierrors.Wrap(err, clierrors.Configuration)
}

func revisionError(rev string, err error) error {
	if errors.Is(err, git.ErrUnknownRevision) {
		return clierrors.UnknownRevision(rev, err)
	}
	return clierrors.Wrap(err, clierrors.Repository)
}
