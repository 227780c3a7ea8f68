package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okineadev/gitpaper/internal/build"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/okineadev/gitpaper"

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for gitpaper",
		Example: `  # Show version info
  gitpaper version

  # Plain output (for scripts)
  gitpaper version --plain`,
		Args: noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "gitpaper %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s\n", build.Platform())
}

// printPrettyVersion prints an aligned, colored version block
func printPrettyVersion(w io.Writer) {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	label := color.New(color.FgYellow).SprintFunc()
	value := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(w, "\n  %s %s\n", title("gitpaper"), dim("changelogs from conventional commits"))
	fmt.Fprintln(w)

	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", build.Platform()},
	}
	for _, item := range info {
		fmt.Fprintf(w, "  %s  %s\n", label(fmt.Sprintf("%10s", item.label)), value(item.value))
	}

	fmt.Fprintf(w, "\n  %s\n\n", dim(SourceURL))
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
