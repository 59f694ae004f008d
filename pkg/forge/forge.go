// Copyright © 2025 CoReason, Inc.

// Package forge abstracts the source-hosting service: merge requests, tags
// and review comments on the remote repository.
package forge

import (
	"context"
)

// Provider knows how to operate on the hosted repository of a project.
//
// Merge request identifiers are project-scoped (the IID on GitLab), not
// instance-global.
type Provider interface {
	CreateMergeRequest(ctx context.Context, sourceBranch, targetBranch, title, description string) (int, error)
	MergeMergeRequest(ctx context.Context, mrID int) error
	CreateTag(ctx context.Context, name, ref, message string) error

	// LastTag returns the most recently updated tag name, or "" when the
	// repository has no tags.
	LastTag(ctx context.Context) (string, error)

	PostComment(ctx context.Context, mrID int, body string) error
	MergeRequestStatus(ctx context.Context, mrID int) (string, error)
}
