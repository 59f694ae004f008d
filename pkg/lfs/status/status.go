// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the large-object
// tool adapter.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrNotInstalled indicates that the git-lfs binary is not on the PATH
	ErrNotInstalled = errors.New("git-lfs is not installed")

	// ErrNotInitialized indicates that git-lfs is not set up in the repository
	ErrNotInitialized = errors.New("git-lfs is not initialized in this repository")

	// ErrHookMissing indicates that the pre-push hook is absent, inert or not executable
	ErrHookMissing = errors.New("git-lfs pre-push hook is missing or not functional")

	// ErrTool indicates any other git-lfs command failure
	ErrTool = errors.New("git-lfs command failed")
)
