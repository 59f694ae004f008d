// Copyright © 2025 CoReason, Inc.

// Package bundler aggregates scattered workspace assets into a standardized
// deployment bundle.
//
// Bundling runs four ordered stages: ultra-large files are offloaded to
// remote storage and replaced with pointer records, stray model weights are
// co-located under models/distilled/, large files are registered with the
// large-object tracking tool, and the compliance manifest plus certificate
// of analysis are generated from the review evidence.
package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coreason-ai/publisher/pkg/bundler/status"
	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/lfs"
	"github.com/coreason-ai/publisher/pkg/metrics"
	"github.com/coreason-ai/publisher/pkg/model"

	"github.com/docker/go-units"
	"go.uber.org/zap"
)

const (
	defaultOffloadThreshold  = 70 * units.GiB
	defaultTrackingThreshold = 100 * units.MiB
)

// model artifacts recognized by the co-location stage
var (
	modelExtensions = map[string]struct{}{
		".safetensors": {},
		".bin":         {},
		".pt":          {},
	}
	modelFilenames = map[string]struct{}{
		"adapter_config.json": {},
	}
)

// Uploader moves a local file to remote storage and returns an opaque
// identifier for the stored object.
type Uploader interface {
	Upload(ctx context.Context, filePath string) (string, error)
}

// Bundler prepares a workspace for release.
type Bundler struct {
	uploader          Uploader
	tracker           lfs.Tool
	offloadThreshold  int64
	trackingThreshold int64
	timeFn            func() time.Time
	l                 *zap.Logger

	metrics.Enable
	m *bundlerMetrics
}

// Option is a functor to pass optional parameters to the bundler
type Option func(*Bundler)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(b *Bundler) {
		if l != nil {
			b.l = l
		}
	}
}

// OffloadThresholdMiB overrides the remote-storage offload threshold
func OffloadThresholdMiB(mib int64) Option {
	return func(b *Bundler) {
		if mib > 0 {
			b.offloadThreshold = mib * units.MiB
		}
	}
}

// TrackingThresholdMiB overrides the large-object tracking threshold
func TrackingThresholdMiB(mib int64) Option {
	return func(b *Bundler) {
		if mib > 0 {
			b.trackingThreshold = mib * units.MiB
		}
	}
}

// WithMetrics toggles metrics collection
func WithMetrics(enabled bool) Option {
	return func(b *Bundler) {
		b.EnableMetrics(enabled)
	}
}

// New builds a bundler from its collaborators
func New(uploader Uploader, tracker lfs.Tool, opts ...Option) *Bundler {
	b := &Bundler{
		uploader:          uploader,
		tracker:           tracker,
		offloadThreshold:  defaultOffloadThreshold,
		trackingThreshold: defaultTrackingThreshold,
		timeFn:            time.Now,
		l:                 dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(b)
	}
	if b.MetricsEnabled() {
		b.m = newBundlerMetrics()
	}
	return b
}

// Bundle runs all bundling stages on a workspace.
func (b *Bundler) Bundle(ctx context.Context, workspacePath string) error {
	defer b.measureDuration(time.Now())

	b.l.Info("starting bundling process", zap.String("workspace", workspacePath))

	if _, err := os.Stat(workspacePath); err != nil {
		return status.ErrWorkspaceNotFound.WrapMessage("%s", workspacePath)
	}

	if err := b.offloadOversized(ctx, workspacePath); err != nil {
		return err
	}
	if err := b.colocateModels(workspacePath); err != nil {
		return err
	}
	if err := b.configureTracking(ctx, workspacePath); err != nil {
		return err
	}
	if err := b.writeCouncilManifest(workspacePath); err != nil {
		return err
	}
	if err := b.writeCertificate(workspacePath); err != nil {
		return err
	}

	b.l.Info("bundling process completed", zap.String("workspace", workspacePath))
	return nil
}

// offloadOversized replaces files above the offload threshold with pointer
// records to remote storage.
func (b *Bundler) offloadOversized(ctx context.Context, workspacePath string) error {
	b.l.Info("scanning for ultra-large files",
		zap.String("threshold", units.BytesSize(float64(b.offloadThreshold))),
	)
	walkErr := filepath.Walk(workspacePath, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			b.l.Warn("could not inspect path, skipping", zap.String("path", pth), zap.Error(err))
			return nil
		}
		if info.IsDir() {
			if info.Name() == model.GitDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if info.Size() <= b.offloadThreshold {
			return nil
		}

		b.l.Info("found ultra-large file",
			zap.String("path", pth),
			zap.String("size", units.BytesSize(float64(info.Size()))),
		)
		identifier, err := b.uploader.Upload(ctx, pth)
		if err != nil {
			// an upload failure aborts the whole scan
			return status.ErrOffload.WrapMessage("%s: %v", pth, err)
		}
		pointer := fmt.Sprintf("pointer:%s\n", identifier)
		if err := ioutil.WriteFile(pth, []byte(pointer), 0644); err != nil {
			// the upload took: leave the original content in place and move on
			b.l.Warn("could not write pointer record, skipping",
				zap.String("path", pth), zap.Error(err))
			return nil
		}
		b.l.Info("replaced file with pointer",
			zap.String("path", pth), zap.String("identifier", identifier))
		b.countOffloaded(info.Size())
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, status.ErrOffload) {
			return walkErr
		}
		return status.ErrOffload.Wrap(walkErr)
	}
	return nil
}

// colocateModels moves stray model artifacts under models/distilled/.
func (b *Bundler) colocateModels(workspacePath string) error {
	distilledDir := model.DistilledModelsPath(workspacePath)
	if err := os.MkdirAll(distilledDir, 0755); err != nil {
		return status.ErrColocate.Wrap(err)
	}

	b.l.Info("scanning for model artifacts to consolidate")

	// collect first: moving files while walking would rescan the destination
	var toMove []string
	walkErr := filepath.Walk(workspacePath, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			b.l.Warn("could not inspect path, skipping", zap.String("path", pth), zap.Error(err))
			return nil
		}
		rel, relErr := filepath.Rel(workspacePath, pth)
		if relErr != nil {
			return nil
		}
		if info.IsDir() {
			if excludedFromColocation(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || excludedFromColocation(rel) {
			return nil
		}
		if isModelArtifact(pth) {
			toMove = append(toMove, pth)
		}
		return nil
	})
	if walkErr != nil {
		return status.ErrColocate.Wrap(walkErr)
	}

	for _, src := range toMove {
		dest := filepath.Join(distilledDir, filepath.Base(src))
		if _, err := os.Stat(dest); err == nil {
			b.l.Warn("destination already exists, overwriting", zap.String("path", dest))
		}
		b.l.Info("moving model artifact", zap.String("from", src), zap.String("to", dest))
		if err := os.Rename(src, dest); err != nil {
			return status.ErrColocate.WrapMessage("%s: %v", src, err)
		}
		b.countMoved()
	}
	return nil
}

func (b *Bundler) countOffloaded(bytes int64) {
	if b.MetricsEnabled() && b.m != nil {
		b.m.Offloaded(bytes)
	}
}

func (b *Bundler) countMoved() {
	if b.MetricsEnabled() && b.m != nil {
		b.m.Moved()
	}
}

func (b *Bundler) measureDuration(start time.Time) {
	if b.MetricsEnabled() && b.m != nil {
		b.m.Duration(start)
	}
}

func excludedFromColocation(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		switch part {
		case model.GitDir, model.ModelsDir, model.TestsDir:
			return true
		}
	}
	return false
}

func isModelArtifact(pth string) bool {
	if _, ok := modelFilenames[filepath.Base(pth)]; ok {
		return true
	}
	_, ok := modelExtensions[filepath.Ext(pth)]
	return ok
}

// configureTracking registers files above the tracking threshold with the
// large-object tool.
func (b *Bundler) configureTracking(ctx context.Context, workspacePath string) error {
	if !b.tracker.IsInstalled() {
		return status.ErrTracking.WrapMessage("tracking tool is not installed")
	}
	if !b.tracker.IsInitialized(ctx, workspacePath) {
		if err := b.tracker.Initialize(ctx, workspacePath); err != nil {
			return status.ErrTracking.Wrap(err)
		}
	}

	largeFiles, err := b.tracker.FindLargeFiles(workspacePath, b.trackingThreshold)
	if err != nil {
		return status.ErrTracking.Wrap(err)
	}
	if len(largeFiles) == 0 {
		return nil
	}
	// exact relative paths are valid tracking patterns
	if err := b.tracker.TrackPatterns(ctx, workspacePath, largeFiles); err != nil {
		return status.ErrTracking.Wrap(err)
	}
	return nil
}

// writeCouncilManifest extracts the council section of the assay report into
// a canonical lock file.
func (b *Bundler) writeCouncilManifest(workspacePath string) error {
	reportPath := model.AssayReportPath(workspacePath)
	manifestPath := model.CouncilManifestPath(workspacePath)
	b.l.Info("generating council snapshot",
		zap.String("from", reportPath), zap.String("to", manifestPath))

	report, err := b.readReport(reportPath)
	if err != nil {
		return status.ErrManifest.Wrap(err)
	}
	council, err := report.Council()
	if err != nil {
		return status.ErrManifest.Wrap(err)
	}

	// encoding/json sorts object keys, which keeps the manifest canonical
	manifest, err := json.MarshalIndent(council, "", "  ")
	if err != nil {
		return status.ErrManifest.Wrap(err)
	}
	manifest = append(manifest, '\n')
	if err := ioutil.WriteFile(manifestPath, manifest, 0644); err != nil {
		return status.ErrManifest.Wrap(err)
	}
	b.l.Info("council snapshot generated")
	return nil
}

// writeCertificate renders CERTIFICATE.md from the assay report.
func (b *Bundler) writeCertificate(workspacePath string) error {
	reportPath := model.AssayReportPath(workspacePath)
	b.l.Info("generating certificate of analysis", zap.String("from", reportPath))

	report, err := b.readReport(reportPath)
	if err != nil {
		return status.ErrCertificate.Wrap(err)
	}
	content, err := renderCertificate(report, b.timeFn().UTC())
	if err != nil {
		return status.ErrCertificate.Wrap(err)
	}
	if err := ioutil.WriteFile(model.CertificatePath(workspacePath), []byte(content), 0644); err != nil {
		return status.ErrCertificate.Wrap(err)
	}
	b.l.Info("certificate generated")
	return nil
}

func (b *Bundler) readReport(reportPath string) (*model.AssayReport, error) {
	raw, err := ioutil.ReadFile(reportPath)
	if err != nil {
		return nil, err
	}
	return model.ParseAssayReport(raw)
}
