package cli

// Exit codes for the gitpaper CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeError indicates an unexpected failure
	ExitRuntimeError = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitConfigError indicates an invalid or incomplete configuration
	ExitConfigError = 4

	// ExitRepositoryError indicates a missing repository or unknown revision
	ExitRepositoryError = 5

	// ExitRemoteError indicates a failed GitHub or Gemini call
	ExitRemoteError = 6
)
