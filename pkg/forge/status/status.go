// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by forge providers.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrCreateMR indicates that the merge request could not be created
	ErrCreateMR = errors.New("failed to create merge request")

	// ErrMergeMR indicates that the merge request could not be merged
	ErrMergeMR = errors.New("failed to merge merge request")

	// ErrCreateTag indicates that the tag could not be created
	ErrCreateTag = errors.New("failed to create tag")

	// ErrListTags indicates that the repository tags could not be listed
	ErrListTags = errors.New("failed to list tags")

	// ErrPostComment indicates that the comment could not be posted
	ErrPostComment = errors.New("failed to post comment")

	// ErrMRStatus indicates that the merge request state could not be retrieved
	ErrMRStatus = errors.New("failed to retrieve merge request status")
)
