// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the release
// orchestrator.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrInvalidRequest indicates that the release request fails validation
	ErrInvalidRequest = errors.New("invalid release request")

	// ErrSignatureMismatch indicates that the workspace content does not match
	// the reviewer's signature
	ErrSignatureMismatch = errors.New("signature verification failed: the artifact does not match the reviewer signature")

	// ErrNoVersion indicates that the workspace version could not be determined
	ErrNoVersion = errors.New("could not determine version from workspace")

	// ErrEvidence indicates that the review evidence could not be persisted
	ErrEvidence = errors.New("failed to persist review evidence")
)
