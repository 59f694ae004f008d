// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by local
// version-control operations.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrGit indicates a git command failure
	ErrGit = errors.New("git command failed")

	// ErrNoRepo indicates that the workspace is not a git working tree
	ErrNoRepo = errors.New("not a git repository")
)
