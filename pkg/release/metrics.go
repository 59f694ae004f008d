// Copyright © 2025 CoReason, Inc.

package release

import (
	"sync"
	"time"

	"github.com/coreason-ai/publisher/pkg/metrics"

	"go.opencensus.io/stats"
)

// releaseMetrics describes the measurements taken by this package
type releaseMetrics struct {
	Proposals        *stats.Int64Measure
	Finalizations    *stats.Int64Measure
	Rejections       *stats.Int64Measure
	WorkflowDuration *stats.Float64Measure
}

var (
	releaseMetricsOnce sync.Once
	sharedMetrics      *releaseMetrics
)

// newReleaseMetrics declares the release measures once per process
func newReleaseMetrics() *releaseMetrics {
	releaseMetricsOnce.Do(func() {
		sharedMetrics = &releaseMetrics{
			Proposals:        metrics.Counter("release/proposals", "number of completed release proposals"),
			Finalizations:    metrics.Counter("release/finalizations", "number of finalized releases"),
			Rejections:       metrics.Counter("release/rejections", "number of rejected release candidates"),
			WorkflowDuration: metrics.Timing("release/workflowDuration", "time spent in a release transition"),
		}
	})
	return sharedMetrics
}

func (m *releaseMetrics) Proposed() {
	metrics.Inc(m.Proposals)
}

func (m *releaseMetrics) Finalized() {
	metrics.Inc(m.Finalizations)
}

func (m *releaseMetrics) Rejected() {
	metrics.Inc(m.Rejections)
}

func (m *releaseMetrics) Duration(start time.Time) {
	metrics.Since(start, m.WorkflowDuration)
}
