// Copyright © 2025 CoReason, Inc.

// Package release sequences the regulated release workflow.
//
// A release moves through Proposed and ends Finalized or Rejected. The
// orchestrator owns the ordering contract between workspace mutations,
// audit emission and external side effects: audit records are emitted
// before anything becomes externally visible, and each failure aborts the
// transition before the next irreversible step.
//
// The orchestrator assumes exclusive ownership of the workspace for the
// duration of a transition; callers serialize at a higher layer.
package release

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/coreason-ai/publisher/pkg/assay"
	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/forge"
	"github.com/coreason-ai/publisher/pkg/foundry"
	"github.com/coreason-ai/publisher/pkg/lfs"
	"github.com/coreason-ai/publisher/pkg/metrics"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/release/status"
	"github.com/coreason-ai/publisher/pkg/vcs"

	"go.uber.org/zap"
)

const reviewType = "release"

// Bundler prepares a workspace for release.
type Bundler interface {
	Bundle(ctx context.Context, workspacePath string) error
}

// Signer signs and verifies bundle content and emits audit records.
type Signer interface {
	Sign(bundlePath string, identity model.Identity) (string, error)
	Verify(bundlePath string, signature string) (bool, error)
	FormatChangeDescription(original string, identity model.Identity, signature, role string) string
	EmitAudit(ctx context.Context, identity model.Identity, signature, role string) error
}

// Versioner reads, computes and persists agent versions.
type Versioner interface {
	Current(ctx context.Context, workspacePath string) (string, error)
	Next(current string, bump model.BumpKind) (string, error)
	Persist(workspacePath, newVersion string) error
}

// Orchestrator drives the three release transitions over a workspace.
type Orchestrator struct {
	workspace    string
	targetBranch string

	assay   assay.Client
	foundry foundry.Client
	forge   forge.Provider
	git     vcs.Ops
	tracker lfs.Tool
	bundler Bundler
	signer  Signer
	version Versioner

	l *zap.Logger

	metrics.Enable
	m *releaseMetrics
}

// Option is a functor to pass optional parameters to the orchestrator
type Option func(*Orchestrator)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.l = l
		}
	}
}

// TargetBranch overrides the branch candidates are merged into
func TargetBranch(branch string) Option {
	return func(o *Orchestrator) {
		if branch != "" {
			o.targetBranch = branch
		}
	}
}

// WithMetrics toggles metrics collection
func WithMetrics(enabled bool) Option {
	return func(o *Orchestrator) {
		o.EnableMetrics(enabled)
	}
}

// Collaborators groups the services the orchestrator coordinates.
type Collaborators struct {
	Assay   assay.Client
	Foundry foundry.Client
	Forge   forge.Provider
	Git     vcs.Ops
	Tracker lfs.Tool
	Bundler Bundler
	Signer  Signer
	Version Versioner
}

// New builds an orchestrator over a workspace
func New(workspace string, c Collaborators, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		workspace:    workspace,
		targetBranch: "main",
		assay:        c.Assay,
		foundry:      c.Foundry,
		forge:        c.Forge,
		git:          c.Git,
		tracker:      c.Tracker,
		bundler:      c.Bundler,
		signer:       c.Signer,
		version:      c.Version,
		l:            dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(o)
	}
	if o.MetricsEnabled() {
		o.m = newReleaseMetrics()
	}
	return o
}

// Propose assembles a release candidate and submits it for review.
//
// Ordering is part of the contract: the audit record is emitted after the
// local commit and before anything externally visible; the large-object
// readiness gate runs before the push; a merge-request failure prevents the
// draft submission.
func (o *Orchestrator) Propose(ctx context.Context, identity model.Identity, req model.ProposeRequest) (model.ProposeResult, error) {
	defer o.measureDuration(time.Now())

	none := model.ProposeResult{}
	o.l.Info("starting release proposal",
		zap.String("project", req.ProjectID),
		zap.String("draft", req.DraftID),
		zap.String("proposer", identity.String()),
	)
	if err := req.Validate(); err != nil {
		return none, status.ErrInvalidRequest.Wrap(err)
	}

	report, err := o.assay.LatestReport(ctx, req.ProjectID)
	if err != nil {
		return none, err
	}
	if err := o.persistEvidence(report); err != nil {
		return none, err
	}

	current, err := o.version.Current(ctx, o.workspace)
	if err != nil {
		return none, err
	}
	next, err := o.version.Next(current, req.Bump)
	if err != nil {
		return none, err
	}
	branch := model.CandidateBranch(next)

	if err := o.git.CheckoutNewBranch(ctx, branch); err != nil {
		return none, err
	}
	if err := o.version.Persist(o.workspace, next); err != nil {
		return none, err
	}
	if err := o.bundler.Bundle(ctx, o.workspace); err != nil {
		return none, err
	}

	signature, err := o.signer.Sign(o.workspace, identity)
	if err != nil {
		return none, err
	}
	description := o.signer.FormatChangeDescription(
		fmt.Sprintf("chore(release): propose %s\n\n%s", next, req.Description),
		identity, signature, model.RoleProposer,
	)
	if err := o.git.AddAll(ctx); err != nil {
		return none, err
	}
	if err := o.git.Commit(ctx, description); err != nil {
		return none, err
	}

	// nothing externally visible may happen without an audit record
	if err := o.signer.EmitAudit(ctx, identity, signature, model.RoleProposer); err != nil {
		return none, err
	}

	// heavy artifacts must go out as pointers, never as content
	if err := o.tracker.VerifyReady(ctx, o.workspace); err != nil {
		return none, err
	}
	if err := o.git.Push(ctx, branch); err != nil {
		return none, err
	}

	mrID, err := o.forge.CreateMergeRequest(ctx, branch, o.targetBranch,
		model.ReleaseTitle(next), proposalDescription(next, identity, signature, req.Description))
	if err != nil {
		// the draft-review service must not be notified about a proposal
		// that has no merge request
		return none, err
	}

	if err := o.foundry.SubmitForReview(ctx, req.DraftID, reviewType); err != nil {
		return none, err
	}
	if err := o.forge.PostComment(ctx, mrID, fmt.Sprintf("Linked Foundry Draft: %s", req.DraftID)); err != nil {
		return none, err
	}

	o.l.Info("release proposal completed",
		zap.Int("mr", mrID),
		zap.String("version", next),
	)
	o.countProposed()
	return model.ProposeResult{
		Version:        next,
		Branch:         branch,
		MergeRequestID: mrID,
		Signature:      signature,
		DraftID:        req.DraftID,
	}, nil
}

// Finalize merges a reviewed candidate, tags it and records the approval.
//
// The ordering verify, audit, merge, tag, approve is an externally
// observable contract.
func (o *Orchestrator) Finalize(ctx context.Context, identity model.Identity, req model.FinalizeRequest) (model.FinalizeResult, error) {
	defer o.measureDuration(time.Now())

	none := model.FinalizeResult{}
	o.l.Info("finalizing release",
		zap.Int("mr", req.MergeRequestID),
		zap.String("reviewer", identity.String()),
	)

	ok, err := o.signer.Verify(o.workspace, req.Signature)
	if err != nil {
		return none, err
	}
	if !ok {
		return none, status.ErrSignatureMismatch
	}

	version, err := o.version.Current(ctx, o.workspace)
	if err != nil {
		return none, err
	}
	if version == "" {
		return none, status.ErrNoVersion
	}

	if err := o.signer.EmitAudit(ctx, identity, req.Signature, model.RoleReviewer); err != nil {
		return none, err
	}

	if err := o.forge.MergeMergeRequest(ctx, req.MergeRequestID); err != nil {
		return none, err
	}
	if err := o.forge.CreateTag(ctx, version, o.targetBranch, model.ReleaseTitle(version)); err != nil {
		return none, err
	}
	if err := o.foundry.ApproveRelease(ctx, req.MergeRequestID, req.Signature); err != nil {
		return none, err
	}

	o.l.Info("release finalized", zap.String("version", version))
	o.countFinalized()
	return model.FinalizeResult{
		Version:        version,
		MergeRequestID: req.MergeRequestID,
	}, nil
}

// Reject sends a candidate back to its proposer.
//
// The draft stays locked unless the rejection comment was posted; an unlock
// failure after a posted comment still propagates, with the comment as an
// accepted partial effect.
func (o *Orchestrator) Reject(ctx context.Context, req model.RejectRequest) error {
	defer o.measureDuration(time.Now())

	o.l.Info("rejecting release",
		zap.Int("mr", req.MergeRequestID),
		zap.String("draft", req.DraftID),
		zap.String("reason", req.Reason),
	)

	if err := o.forge.PostComment(ctx, req.MergeRequestID, fmt.Sprintf("Changes Requested: %s", req.Reason)); err != nil {
		return err
	}
	if err := o.foundry.RejectRelease(ctx, req.DraftID, req.Reason); err != nil {
		return err
	}

	o.l.Info("release rejection processed", zap.Int("mr", req.MergeRequestID))
	o.countRejected()
	return nil
}

func (o *Orchestrator) countProposed() {
	if o.MetricsEnabled() && o.m != nil {
		o.m.Proposed()
	}
}

func (o *Orchestrator) countFinalized() {
	if o.MetricsEnabled() && o.m != nil {
		o.m.Finalized()
	}
}

func (o *Orchestrator) countRejected() {
	if o.MetricsEnabled() && o.m != nil {
		o.m.Rejected()
	}
}

func (o *Orchestrator) measureDuration(start time.Time) {
	if o.MetricsEnabled() && o.m != nil {
		o.m.Duration(start)
	}
}

// persistEvidence writes the report verbatim to the evidence path.
func (o *Orchestrator) persistEvidence(report *model.AssayReport) error {
	reportPath := model.AssayReportPath(o.workspace)
	if err := os.MkdirAll(filepath.Dir(reportPath), 0755); err != nil {
		return status.ErrEvidence.Wrap(err)
	}
	if err := ioutil.WriteFile(reportPath, report.Raw, 0644); err != nil {
		return status.ErrEvidence.Wrap(err)
	}
	o.l.Info("saved assay report", zap.String("path", reportPath))
	return nil
}

func proposalDescription(version string, identity model.Identity, signature, description string) string {
	return fmt.Sprintf("Release Candidate: %s\nProposer: %s\nSignature: %s\n\nDescription: %s",
		version, identity.ID, signature, description)
}
