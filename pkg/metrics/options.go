// Copyright © 2025 CoReason, Inc.

package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats/view"
)

// Option configures the global metrics settings
type Option func(*settings)

// WithExporter defines the view exporter metrics are pushed to.
// The default exporter targets a local influxdb backend.
func WithExporter(e view.Exporter) Option {
	return func(s *settings) {
		if e != nil {
			s.exporter = e
		}
	}
}

// WithBasePath defines a prefix for all measure names declared by this process
func WithBasePath(basePath string) Option {
	return func(s *settings) {
		s.basePath = basePath
	}
}

// WithReportingPeriod overrides the default period at which views are exported
func WithReportingPeriod(d time.Duration) Option {
	return func(s *settings) {
		s.d = d
	}
}

// WithContexter overrides the context constructor used when recording measurements
func WithContexter(contexter func() context.Context) Option {
	return func(s *settings) {
		if contexter != nil {
			s.contexter = contexter
		}
	}
}
