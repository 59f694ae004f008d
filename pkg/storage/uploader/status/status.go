// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the uploader.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrSource indicates that the local file could not be read
	ErrSource = errors.New("failed to read source file")

	// ErrUpload indicates that the object could not be written to the remote store
	ErrUpload = errors.New("failed to upload object")
)
