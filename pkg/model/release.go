// Copyright © 2025 CoReason, Inc.

package model

import "fmt"

// ProposeRequest asks for a new release candidate to be assembled and
// submitted for review.
type ProposeRequest struct {
	ProjectID   string   `json:"project_id" yaml:"project_id"`
	DraftID     string   `json:"draft_id" yaml:"draft_id"`
	Bump        BumpKind `json:"bump_type" yaml:"bump_type"`
	Description string   `json:"description" yaml:"description"`
}

// Validate checks the request fields that a workflow cannot proceed without.
func (r ProposeRequest) Validate() error {
	if _, err := ParseBumpKind(string(r.Bump)); err != nil {
		return err
	}
	return nil
}

// ProposeResult reports what a successful proposal created.
type ProposeResult struct {
	Version        string `json:"version" yaml:"version"`
	Branch         string `json:"branch" yaml:"branch"`
	MergeRequestID int    `json:"mr_id" yaml:"mr_id"`
	Signature      string `json:"signature" yaml:"signature"`
	DraftID        string `json:"draft_id" yaml:"draft_id"`
}

// FinalizeRequest asks for a reviewed candidate to be merged, tagged and approved.
type FinalizeRequest struct {
	MergeRequestID int    `json:"mr_id" yaml:"mr_id"`
	Signature      string `json:"srb_signature" yaml:"srb_signature"`
}

// FinalizeResult reports the released version.
type FinalizeResult struct {
	Version        string `json:"version" yaml:"version"`
	MergeRequestID int    `json:"mr_id" yaml:"mr_id"`
}

// RejectRequest asks for a candidate to be sent back to its proposer.
type RejectRequest struct {
	MergeRequestID int    `json:"mr_id" yaml:"mr_id"`
	DraftID        string `json:"draft_id" yaml:"draft_id"`
	Reason         string `json:"reason" yaml:"reason"`
}

// CandidateBranch names the branch holding a release candidate.
func CandidateBranch(version string) string {
	return fmt.Sprint("candidate/", version)
}

// ReleaseTitle names the merge request for a candidate version.
func ReleaseTitle(version string) string {
	return fmt.Sprint("Release ", version)
}
