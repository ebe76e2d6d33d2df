package cli

import (
	clierrors "github.com/harrisjoseph/chlog/internal/errors"
)

// Exit codes for the chlog CLI
// These codes support scripting and CI/CD integration
const (
	// ExitSuccess indicates the changelog was updated
	ExitSuccess = 0

	// ExitFailure indicates the changelog could not be updated (bad layout, I/O)
	ExitFailure = 1

	// ExitConfigError indicates invalid configuration
	ExitConfigError = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingFile indicates the changelog file does not exist
	ExitMissingFile = 4
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch clierrors.FromError(err).Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigError
	case clierrors.Prerequisite:
		return ExitMissingFile
	default:
		return ExitFailure
	}
}
