// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the bundler.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrWorkspaceNotFound indicates that the workspace root does not exist
	ErrWorkspaceNotFound = errors.New("workspace path does not exist")

	// ErrOffload indicates that an oversized file could not be moved to remote storage
	ErrOffload = errors.New("failed to offload file to remote storage")

	// ErrColocate indicates that a model artifact could not be moved into place
	ErrColocate = errors.New("failed to co-locate model artifact")

	// ErrTracking indicates that large-object tracking could not be configured
	ErrTracking = errors.New("failed to configure large-object tracking")

	// ErrManifest indicates that the council manifest could not be produced
	ErrManifest = errors.New("failed to generate council manifest")

	// ErrCertificate indicates that the certificate of analysis could not be produced
	ErrCertificate = errors.New("failed to generate CERTIFICATE.md")
)
