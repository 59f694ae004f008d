// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"github.com/coreason-ai/publisher/pkg/metrics"
	"github.com/coreason-ai/publisher/pkg/metrics/exporters/influxdb"
)

// initMetrics sets up the metrics pipeline when enabled from the CLI.
// Collection stays off by default.
func initMetrics() {
	if !publisherFlags.root.metrics {
		return
	}
	opts := []metrics.Option{}
	if config.Metrics.URL != "" {
		sink, err := influxdb.NewStore(
			influxdb.WithURL(config.Metrics.URL),
			influxdb.WithDatabase("publisher"),
			influxdb.WithNameAsTag("metrics"),
		)
		if err != nil {
			wrapFatalln("invalid metrics backend", err)
			return
		}
		opts = append(opts, metrics.WithExporter(metrics.DefaultExporter(influxdb.WithStore(sink))))
	}
	metrics.Init(opts...)
}

// flushMetrics exports any remaining data points before the command returns
func flushMetrics() {
	if publisherFlags.root.metrics {
		metrics.Flush()
	}
}
