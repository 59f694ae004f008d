// Copyright © 2025 CoReason, Inc.

package bundler

import (
	"sync"
	"time"

	"github.com/coreason-ai/publisher/pkg/metrics"

	"go.opencensus.io/stats"
)

// bundlerMetrics describes the measurements taken by this package
type bundlerMetrics struct {
	FilesOffloaded *stats.Int64Measure
	BytesOffloaded *stats.Int64Measure
	ModelsMoved    *stats.Int64Measure
	BundleDuration *stats.Float64Measure
}

var (
	bundlerMetricsOnce sync.Once
	sharedMetrics      *bundlerMetrics
)

// newBundlerMetrics declares the bundler measures once per process
func newBundlerMetrics() *bundlerMetrics {
	bundlerMetricsOnce.Do(func() {
		sharedMetrics = &bundlerMetrics{
			FilesOffloaded: metrics.Counter("bundler/filesOffloaded", "number of files replaced by pointer records"),
			BytesOffloaded: metrics.Bytes("bundler/bytesOffloaded", "cumulated volume moved to remote storage"),
			ModelsMoved:    metrics.Counter("bundler/modelsMoved", "number of model artifacts co-located"),
			BundleDuration: metrics.Timing("bundler/bundleDuration", "time spent bundling a workspace"),
		}
	})
	return sharedMetrics
}

func (m *bundlerMetrics) Offloaded(bytes int64) {
	metrics.Inc(m.FilesOffloaded)
	metrics.Int64(m.BytesOffloaded, bytes)
}

func (m *bundlerMetrics) Moved() {
	metrics.Inc(m.ModelsMoved)
}

func (m *bundlerMetrics) Duration(start time.Time) {
	metrics.Since(start, m.BundleDuration)
}
