// Copyright © 2025 CoReason, Inc.

// Package metrics centralizes the definition and publication of measurements
// taken by publisher components.
//
// It is based on opencensus measures and views: instrumented packages declare
// their measures with Counter, Bytes or Timing, then record values with Inc,
// Int64 or Since. Nothing is exported until Init registers an exporter.
package metrics

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/coreason-ai/publisher/pkg/metrics/exporters/influxdb"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const (
	unitCount = "count"
	unitBytes = "sumbytes"
	unitMs    = "ms"
)

var (
	// global settings for metrics
	mp       *settings
	initOnce sync.Once
)

type settings struct {
	basePath  string
	contexter func() context.Context
	exporter  view.Exporter

	allViews  []*view.View
	exclusive sync.Mutex

	d time.Duration
}

func defaultSettings() *settings {
	return &settings{
		contexter: context.Background,
		// reporting period is left to the default from the opencensus worker (10s)
	}
}

func init() {
	mp = defaultSettings()
}

func defaultStore() influxdb.Store {
	sink, _ := influxdb.NewStore(
		influxdb.WithDatabase("publisher"),
		influxdb.WithNameAsTag("metrics"), // use metric name as an influxdb tag, with unique time series "metrics"
	)
	return sink
}

// DefaultExporter returns a metrics exporter for an influxdb backend, with db "publisher" and time series "metrics"
func DefaultExporter(opts ...influxdb.Option) view.Exporter {
	return influxdb.NewExporter(
		append([]influxdb.Option{
			influxdb.WithStore(defaultStore()),
			influxdb.WithTags(map[string]string{"service": "publisher"}),
		}, opts...)...,
	)
}

// Init global settings for metrics collection, such as the exporter setup.
//
// Init may be called multiple times: only the first time matters.
// Measures and views may be declared before or after Init.
func Init(opts ...Option) {
	initOnce.Do(func() {
		for _, apply := range opts {
			apply(mp)
		}
		if mp.exporter == nil {
			mp.exporter = DefaultExporter()
		}
		view.RegisterExporter(mp.exporter)
		if mp.d > 0 {
			view.SetReportingPeriod(mp.d)
		}
	})
}

// Flush collects all remaining data for registered views and exports them
func Flush() {
	mp.exclusive.Lock()
	defer mp.exclusive.Unlock()
	if mp.exporter == nil {
		return
	}
	for _, v := range mp.allViews {
		rows, err := view.RetrieveData(v.Name)
		if err != nil {
			continue // ignore errors when pushing metrics
		}
		mp.exporter.ExportView(&view.Data{
			View:  v,
			Start: time.Now(),
			End:   time.Now(),
			Rows:  rows,
		})
	}
}

// Counter declares a counter measure and registers a count view for it.
func Counter(name, description string, tags ...string) *stats.Int64Measure {
	m := stats.Int64(qualified(name), description, unitCount)
	registerView(m, view.Count(), tags)
	return m
}

// Bytes declares a volume measure in bytes and registers a sum view for it.
func Bytes(name, description string, tags ...string) *stats.Int64Measure {
	m := stats.Int64(qualified(name), description, unitBytes)
	registerView(m, view.Sum(), tags)
	return m
}

// Timing declares a duration measure in milliseconds and registers a
// distribution view for it.
func Timing(name, description string, tags ...string) *stats.Float64Measure {
	m := stats.Float64(qualified(name), description, unitMs)
	registerView(m, view.Distribution(1, 10, 100, 1000, 10000, 60000), tags)
	return m
}

func qualified(name string) string {
	mp.exclusive.Lock()
	defer mp.exclusive.Unlock()
	return path.Join(mp.basePath, name)
}

func registerView(m stats.Measure, agg *view.Aggregation, tags []string) {
	keys := make([]tag.Key, 0, len(tags))
	for _, t := range tags {
		keys = append(keys, tag.MustNewKey(t))
	}
	v := &view.View{
		Name:        m.Name(),
		Description: m.Description(),
		Measure:     m,
		Aggregation: agg,
		TagKeys:     keys,
	}
	if err := view.Register(v); err != nil {
		// a duplicate view registration is a programming error
		panic(err)
	}
	mp.exclusive.Lock()
	mp.allViews = append(mp.allViews, v)
	mp.exclusive.Unlock()
}

// Inc increments a counter-like metric
func Inc(counter *stats.Int64Measure, tags ...map[string]string) {
	_ = stats.RecordWithTags(mp.contexter(), mergeTags(tags), counter.M(1))
}

// Int64 sets a value to a measurement
func Int64(measure *stats.Int64Measure, value int64, tags ...map[string]string) {
	_ = stats.RecordWithTags(mp.contexter(), mergeTags(tags), measure.M(value))
}

// Since feeds a millisecs timing measurement from some start time
func Since(start time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	_ = stats.RecordWithTags(mp.contexter(), mergeTags(tags), measure.M(ms))
}

// mergeTags adds some dynamically defined tags to a single measurement
func mergeTags(extras []map[string]string) []tag.Mutator {
	mutators := make([]tag.Mutator, 0, 10)
	for _, extra := range extras {
		for k, v := range extra {
			mutators = append(mutators, tag.Upsert(tag.MustNewKey(k), v))
		}
	}
	return mutators
}

// Enable equips a type with the capability to toggle metrics collection.
//
// Instrumented components embed Enable and guard their recording calls
// with MetricsEnabled().
type Enable struct {
	metricsEnabled bool
}

// MetricsEnabled tells whether metrics are enabled or not
func (e Enable) MetricsEnabled() bool {
	return e.metricsEnabled
}

// EnableMetrics toggles metrics collection
func (e *Enable) EnableMetrics(enabled bool) {
	e.metricsEnabled = enabled
}
