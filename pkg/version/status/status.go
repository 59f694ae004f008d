// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the version manager.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrInvalidVersion indicates a version string which is not three dot-separated non-negative integers
	ErrInvalidVersion = errors.New("invalid version format")

	// ErrTagLookup indicates that the hosting provider could not report the last released tag
	ErrTagLookup = errors.New("failed to look up last released tag")

	// ErrPersist indicates a failure writing the version declaration or changelog
	ErrPersist = errors.New("failed to persist version files")
)
