// Package cli implements the gitpaper command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	clierrors "github.com/okineadev/gitpaper/internal/errors"
)

// Output formats accepted by --format.
const (
	FormatMarkdown = "markdown"
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

var validFormats = map[string]bool{
	FormatMarkdown: true,
	FormatTerminal: true,
	FormatJSON:     true,
	FormatYAML:     true,
}

// rootOptions holds the flags of the root command.
type rootOptions struct {
	dir        string
	configPath string
	repo       string

	from string
	to   string

	contributors     bool
	noContributors   bool
	emoji            bool
	noEmoji          bool
	generateOverview bool
	noResolve        bool

	format string
	output string

	release     bool
	releaseName string
	draft       bool
	prerelease  bool

	verbose bool
}

// NewRootCmd builds the gitpaper command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitpaper",
		Short: "Generate changelogs and release notes from conventional commits",
		Long: `Generate a changelog from the conventional commits between two revisions.

Commits are grouped by type in the configured order, contributors are
resolved to GitHub accounts, and the result is printed as markdown, a
colored terminal preview, JSON or YAML. With --release the notes are
published as a GitHub release.

By default the range runs from the last tag to the current branch.`,
		Example: `  # Changelog since the last tag
  gitpaper

  # Explicit range, written to a file
  gitpaper --from v1.0.0 --to v1.1.0 --output CHANGELOG.md

  # Preview in the terminal without GitHub lookups
  gitpaper --format terminal --no-resolve

  # Publish the notes for a tag as a draft release
  gitpaper --to v1.1.0 --release --draft`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(), "Run gitpaper --help for the list of flags")
	})

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "", "Start of the range, exclusive (default: last tag, else first commit)")
	f.StringVar(&opts.to, "to", "", "End of the range, inclusive (default: current branch)")
	f.BoolVar(&opts.contributors, "contributors", true, "Render the contributors section")
	f.BoolVar(&opts.noContributors, "no-contributors", false, "Omit the contributors section")
	f.BoolVar(&opts.emoji, "emoji", true, "Keep emojis in section titles")
	f.BoolVar(&opts.noEmoji, "no-emoji", false, "Strip emojis from section titles")
	f.BoolVar(&opts.generateOverview, "generate-overview", false, "Prepend an AI-written overview (experimental, needs GEMINI_API_KEY)")
	f.BoolVar(&opts.noResolve, "no-resolve", false, "Skip GitHub account lookups for contributors")
	f.StringVarP(&opts.format, "format", "f", "", "Output format: markdown, terminal, json, yaml (default: markdown)")
	f.StringVarP(&opts.output, "output", "o", "", "Write the changelog to a file instead of stdout")
	f.BoolVar(&opts.release, "release", false, "Publish the changelog as a GitHub release for --to")
	f.StringVar(&opts.releaseName, "release-name", "", "Release title (default: the tag name)")
	f.BoolVar(&opts.draft, "draft", false, "Create the release as a draft")
	f.BoolVar(&opts.prerelease, "prerelease", false, "Mark the release as a prerelease")
	f.StringVar(&opts.repo, "repo", "", "GitHub repository as owner/name (default: origin remote)")
	f.StringVarP(&opts.dir, "dir", "C", "", "Run as if gitpaper was started in this directory")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to a config file (default: gitpaper.config.* in the repository root)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		return clierrors.Report(cmd.ErrOrStderr(), err)
	}
	return ExitSuccess
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("unexpected argument %q", args[0]),
			cmd.UseLine(),
			"Pass revisions with --from and --to",
		)
	}
	return nil
}

// validate checks flag combinations that do not need the configuration.
func (o *rootOptions) validate(flags *pflag.FlagSet) error {
	if flags.Changed("format") && !validFormats[o.format] {
		return clierrors.InvalidFormat(o.format)
	}
	for _, pair := range [][2]string{{"contributors", "no-contributors"}, {"emoji", "no-emoji"}} {
		if flags.Changed(pair[0]) && flags.Changed(pair[1]) {
			return clierrors.NewArgumentError(
				fmt.Sprintf("--%s and --%s cannot be used together", pair[0], pair[1]),
			)
		}
	}
	if !o.release && (flags.Changed("release-name") || o.draft || o.prerelease) {
		return clierrors.NewArgumentError(
			"--release-name, --draft and --prerelease only apply with --release",
			"Add --release",
		)
	}
	return nil
}

// overrides turns explicitly set flags into config keys. Flags left at their
// defaults do not shadow config files or the environment.
func (o *rootOptions) overrides(flags *pflag.FlagSet) map[string]any {
	ov := map[string]any{}
	if flags.Changed("contributors") {
		ov["contributors"] = o.contributors
	}
	if flags.Changed("no-contributors") {
		ov["contributors"] = !o.noContributors
	}
	if flags.Changed("emoji") {
		ov["emoji"] = o.emoji
	}
	if flags.Changed("no-emoji") {
		ov["emoji"] = !o.noEmoji
	}
	if flags.Changed("format") {
		ov["format"] = o.format
	}
	if flags.Changed("output") {
		ov["output"] = o.output
	}
	if flags.Changed("repo") {
		ov["repo"] = o.repo
	}
	if o.noResolve {
		ov["resolver.enabled"] = false
	}
	if o.generateOverview {
		ov["overview.enabled"] = true
	}
	return ov
}
