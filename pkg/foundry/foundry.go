// Copyright © 2025 CoReason, Inc.

// Package foundry drives the draft-review service.
//
// The foundry holds release drafts and their review workflow: a draft is
// submitted for review when a release candidate goes up, approved when the
// signed release lands, and rejected (review unlocked) when changes are
// requested.
package foundry

import (
	"context"
	"net/url"
	"strconv"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/foundry/status"
	"github.com/coreason-ai/publisher/pkg/rest"

	"go.uber.org/zap"
)

// Client knows how to drive the review workflow of a release draft.
type Client interface {
	SubmitForReview(ctx context.Context, draftID, reviewType string) error
	ApproveRelease(ctx context.Context, mrID int, signature string) error
	RejectRelease(ctx context.Context, draftID, reason string) error
	DraftStatus(ctx context.Context, draftID string) (string, error)
}

var _ Client = &HTTPClient{}

// HTTPClient talks to the foundry REST API.
type HTTPClient struct {
	api *rest.Client
	l   *zap.Logger
}

// Option is a functor to pass optional parameters to the client
type Option func(*HTTPClient)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.l = l
		}
	}
}

// WithRest overrides the underlying REST client (used by tests)
func WithRest(api *rest.Client) Option {
	return func(c *HTTPClient) {
		if api != nil {
			c.api = api
		}
	}
}

// New builds a foundry client for the service at baseURL
func New(baseURL, token string, opts ...Option) *HTTPClient {
	l := dlogger.MustGetLogger(dlogger.LogLevelInfo)
	c := &HTTPClient{
		api: rest.New(baseURL, rest.BearerToken(token), rest.Logger(l)),
		l:   l,
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// SubmitForReview hands a draft over to the review board.
func (c *HTTPClient) SubmitForReview(ctx context.Context, draftID, reviewType string) error {
	c.l.Info("submitting draft for review",
		zap.String("draft", draftID),
		zap.String("type", reviewType),
	)
	payload := struct {
		Type string `json:"type"`
	}{Type: reviewType}
	if err := c.api.Post(ctx, "/drafts/"+url.PathEscape(draftID)+"/submit", payload, nil); err != nil {
		return status.ErrSubmit.Wrap(err)
	}
	return nil
}

// ApproveRelease records the reviewer's approval, keyed by the merge request
// and carrying the bundle signature for the audit trail.
func (c *HTTPClient) ApproveRelease(ctx context.Context, mrID int, signature string) error {
	c.l.Info("approving release", zap.Int("mr", mrID))
	payload := struct {
		Signature string `json:"signature"`
	}{Signature: signature}
	if err := c.api.Post(ctx, "/merge-requests/"+strconv.Itoa(mrID)+"/approve", payload, nil); err != nil {
		return status.ErrApprove.Wrap(err)
	}
	return nil
}

// RejectRelease sends a draft back to its author with a reason, unlocking it
// for further edits.
func (c *HTTPClient) RejectRelease(ctx context.Context, draftID, reason string) error {
	c.l.Info("rejecting draft",
		zap.String("draft", draftID),
		zap.String("reason", reason),
	)
	payload := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	if err := c.api.Post(ctx, "/drafts/"+url.PathEscape(draftID)+"/reject", payload, nil); err != nil {
		return status.ErrReject.Wrap(err)
	}
	return nil
}

// DraftStatus retrieves the current review status of a draft.
func (c *HTTPClient) DraftStatus(ctx context.Context, draftID string) (string, error) {
	var doc struct {
		Status *string `json:"status"`
	}
	if err := c.api.Get(ctx, "/drafts/"+url.PathEscape(draftID), &doc); err != nil {
		return "", status.ErrDraftStatus.Wrap(err)
	}
	if doc.Status == nil {
		return "", status.ErrNoStatus
	}
	c.l.Info("retrieved draft status",
		zap.String("draft", draftID),
		zap.String("status", *doc.Status),
	)
	return *doc.Status, nil
}
