// Copyright © 2025 CoReason, Inc.

package signer

import (
	"sync"
	"time"

	"github.com/coreason-ai/publisher/pkg/metrics"

	"go.opencensus.io/stats"
)

// signerMetrics describes the measurements taken by this package
type signerMetrics struct {
	FilesHashed  *stats.Int64Measure
	BytesHashed  *stats.Int64Measure
	HashDuration *stats.Float64Measure
}

var (
	signerMetricsOnce sync.Once
	sharedMetrics     *signerMetrics
)

// newSignerMetrics declares the signer measures once per process
func newSignerMetrics() *signerMetrics {
	signerMetricsOnce.Do(func() {
		sharedMetrics = &signerMetrics{
			FilesHashed:  metrics.Counter("signer/filesHashed", "number of files contributing to a fingerprint"),
			BytesHashed:  metrics.Bytes("signer/bytesHashed", "cumulated volume of hashed content"),
			HashDuration: metrics.Timing("signer/hashDuration", "time spent computing a fingerprint"),
		}
	})
	return sharedMetrics
}

func (m *signerMetrics) Files(files int) {
	metrics.Int64(m.FilesHashed, int64(files))
}

func (m *signerMetrics) Volume(bytes int64) {
	metrics.Int64(m.BytesHashed, bytes)
}

func (m *signerMetrics) Duration(start time.Time) {
	metrics.Since(start, m.HashDuration)
}
