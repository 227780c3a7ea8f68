package errors

import "fmt"

// Common error messages for the gitpaper CLI.

// NotARepository is returned when the working directory is not inside a git repository.
func NotARepository(dir string, cause error) *CLIError {
	return WrapWithMessage(cause, Repository, fmt.Sprintf("%s is not a git repository", dir),
		"Run gitpaper from inside a git working tree",
	)
}

// UnknownRevision is returned when --from or --to cannot be resolved.
func UnknownRevision(rev string, cause error) *CLIError {
	return WrapWithMessage(cause, Repository, fmt.Sprintf("cannot resolve revision %q", rev),
		"Check the tag, branch or commit hash exists: git rev-parse "+rev,
		"Fetch tags if the repository is a shallow clone: git fetch --tags --unshallow",
	)
}

// MissingRepository is returned when the hosting repository cannot be determined.
func MissingRepository() *CLIError {
	return NewConfigError(
		"could not determine the GitHub repository",
		"Set repo: owner/name in gitpaper.config.yml",
		"Or add an origin remote pointing at github.com",
	)
}

// MissingToken is returned when an operation needs a GitHub token and none is set.
func MissingToken(operation string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("%s requires a GitHub token", operation),
		"Export GITHUB_TOKEN or GH_TOKEN",
		"Or set github.token in the config file",
	)
}

// MissingOverviewKey is returned when --generate-overview is used without an API key.
func MissingOverviewKey() *CLIError {
	return NewConfigError(
		"overview generation requires a Gemini API key",
		"Export GEMINI_API_KEY or GOOGLE_GENERATIVE_AI_API_KEY",
		"Or drop --generate-overview",
	)
}

// InvalidFormat is returned for an unsupported --format value.
func InvalidFormat(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unsupported output format: %s", provided),
		"gitpaper --format markdown|terminal|json|yaml",
		"Pick one of: markdown, terminal, json, yaml",
	)
}

// ReleaseNeedsTarget is returned when --release is combined with a non-markdown format.
func ReleaseNeedsTarget(format string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("--release publishes markdown and cannot be combined with --format %s", format),
		"Drop --format or use --format markdown",
	)
}
