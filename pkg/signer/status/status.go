// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the signer.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrBundleNotFound indicates that the tree to fingerprint does not exist
	ErrBundleNotFound = errors.New("bundle path does not exist")

	// ErrHash indicates an I/O failure while hashing the bundle content
	ErrHash = errors.New("failed to hash bundle content")

	// ErrAudit indicates that the audit record could not be delivered to the audit sink
	ErrAudit = errors.New("failed to emit audit record")

	// ErrNoAuditTrail indicates that a change description carries no audit trail block
	ErrNoAuditTrail = errors.New("no audit trail found in change description")
)
