// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the foundry client.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrSubmit indicates that the draft could not be submitted for review
	ErrSubmit = errors.New("failed to submit draft for review")

	// ErrApprove indicates that the release approval was not recorded
	ErrApprove = errors.New("failed to approve release")

	// ErrReject indicates that the draft rejection was not recorded
	ErrReject = errors.New("failed to reject draft")

	// ErrDraftStatus indicates that the draft status could not be retrieved
	ErrDraftStatus = errors.New("failed to retrieve draft status")

	// ErrNoStatus indicates that the draft document carries no status field
	ErrNoStatus = errors.New("response missing 'status' field")
)
