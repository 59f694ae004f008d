// Copyright © 2025 CoReason, Inc.

// Package mocks provides an in-memory opencensus exporter for tests.
package mocks

import (
	"sync"

	"go.opencensus.io/stats/view"
	"go.uber.org/zap"
)

// NewExporter builds an in-memory exporter that records exported rows per view.
func NewExporter() *Exporter {
	l, _ := zap.NewDevelopment()
	return &Exporter{
		l:     l,
		views: make(map[string]int),
	}
}

var _ view.Exporter = &Exporter{}

// Exporter accumulates exported view data in memory.
type Exporter struct {
	mu    sync.Mutex
	l     *zap.Logger
	views map[string]int
}

// ExportView records the exported rows for later inspection.
func (e *Exporter) ExportView(viewData *view.Data) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.views[viewData.View.Name] += len(viewData.Rows)
	e.l.Debug("MockExporter", zap.Any("data", viewData))
}

// Rows reports how many rows have been exported for the named view.
func (e *Exporter) Rows(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.views[name]
}
