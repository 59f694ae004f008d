// Copyright © 2025 CoReason, Inc.

// Package assay retrieves review evidence from the assay service.
//
// The assay service runs the review council over candidate agents and
// serves the latest passing report per project. The report document is
// kept verbatim: it is persisted as evidence exactly as served.
package assay

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/coreason-ai/publisher/pkg/assay/status"
	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/rest"

	"go.uber.org/zap"
)

// Client knows how to fetch review reports.
type Client interface {
	LatestReport(ctx context.Context, projectID string) (*model.AssayReport, error)
}

var _ Client = &HTTPClient{}

// HTTPClient talks to the assay service REST API.
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

// New builds an assay client for the service at baseURL
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

// LatestReport fetches the latest passing report for a project.
func (c *HTTPClient) LatestReport(ctx context.Context, projectID string) (*model.AssayReport, error) {
	c.l.Info("fetching latest assay report", zap.String("project", projectID))

	var raw json.RawMessage
	pth := "/projects/" + url.PathEscape(projectID) + "/reports/latest"
	if err := c.api.Get(ctx, pth, &raw); err != nil {
		return nil, status.ErrFetchReport.Wrap(err)
	}

	report, err := model.ParseAssayReport(raw)
	if err != nil {
		return nil, status.ErrInvalidReport.Wrap(err)
	}
	c.l.Info("retrieved assay report", zap.String("project", projectID))
	return report, nil
}
