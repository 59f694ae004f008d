// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/coreason-ai/publisher/pkg/assay"
	"github.com/coreason-ai/publisher/pkg/auth"
	"github.com/coreason-ai/publisher/pkg/auth/google"
	"github.com/coreason-ai/publisher/pkg/auth/static"
	"github.com/coreason-ai/publisher/pkg/bundler"
	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/forge"
	"github.com/coreason-ai/publisher/pkg/foundry"
	"github.com/coreason-ai/publisher/pkg/lfs"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/release"
	"github.com/coreason-ai/publisher/pkg/signer"
	"github.com/coreason-ai/publisher/pkg/storage"
	"github.com/coreason-ai/publisher/pkg/storage/gcs"
	"github.com/coreason-ai/publisher/pkg/storage/localfs"
	"github.com/coreason-ai/publisher/pkg/storage/sthree"
	"github.com/coreason-ai/publisher/pkg/storage/uploader"
	"github.com/coreason-ai/publisher/pkg/vcs"
	"github.com/coreason-ai/publisher/pkg/version"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func mustLogger() *zap.Logger {
	level := publisherFlags.root.logLevel
	if level == "" {
		level = dlogger.LogLevelInfo
	}
	l, err := dlogger.GetLogger(level)
	if err != nil {
		wrapFatalln("invalid log level "+level, err)
		return nil
	}
	return l
}

// authBackend reports the configured identity backend, defaulting to static.
func authBackend() string {
	if config == nil || config.Auth == "" {
		return authStatic
	}
	return config.Auth
}

// newAuthorizer selects the identity backend from the configuration.
func newAuthorizer() (auth.Authable, error) {
	switch backend := authBackend(); backend {
	case authStatic:
		return static.New(), nil
	case authGoogle:
		return google.New(), nil
	default:
		return nil, errors.New("unsupported auth backend: " + backend)
	}
}

// principal resolves the acting identity: explicit flags win, then the
// configured identity backend with the credential file. Google auth can
// resolve the principal from application default credentials, so it does not
// require a credential file.
func principal() (model.Identity, error) {
	if publisherFlags.identity.userID != "" {
		return model.Identity{
			ID:    publisherFlags.identity.userID,
			Email: publisherFlags.identity.userEmail,
		}, nil
	}
	if publisherFlags.root.credFile == "" && authBackend() != authGoogle {
		return model.Identity{}, errors.New("no identity: set --user-id or point --credential at a credential file")
	}
	if authorizer == nil {
		a, err := newAuthorizer()
		if err != nil {
			return model.Identity{}, err
		}
		authorizer = a
	}
	return authorizer.Principal(publisherFlags.root.credFile)
}

// newStore selects the artifact storage backend from the configuration.
func newStore(ctx context.Context, l *zap.Logger) (storage.Store, error) {
	switch config.Storage {
	case backendLocalFS:
		if config.Bucket == "" {
			return nil, errors.New("localfs storage needs a directory set as 'bucket'")
		}
		return localfs.New(afero.NewBasePathFs(afero.NewOsFs(), config.Bucket)), nil
	case backendGCS:
		return gcs.New(ctx, config.Bucket, config.Credential, gcs.Logger(l))
	case backendS3:
		return sthree.New(sthree.Bucket(config.Bucket), sthree.Logger(l)), nil
	default:
		return nil, errors.New("unsupported storage backend: " + config.Storage)
	}
}

// storeSink retains audit records in the artifact store, one object per
// record, keyed by timestamp and signer.
type storeSink struct {
	store storage.Store
}

var _ signer.AuditSink = storeSink{}

func (s storeSink) Emit(ctx context.Context, record model.AuditRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("audit/%s-%s.json", record.Timestamp.UTC().Format("20060102T150405.000000000Z"), record.SignerID)
	return s.store.Put(ctx, key, bytes.NewReader(doc), storage.NoOverWrite)
}

func newUploader(ctx context.Context, l *zap.Logger) (*uploader.Uploader, error) {
	store, err := newStore(ctx, l)
	if err != nil {
		return nil, err
	}
	return uploader.New(store, uploader.Logger(l))
}

func newBundler(ctx context.Context, tracker lfs.Tool, l *zap.Logger) (*bundler.Bundler, error) {
	up, err := newUploader(ctx, l)
	if err != nil {
		return nil, err
	}
	opts := []bundler.Option{
		bundler.Logger(l),
		bundler.WithMetrics(publisherFlags.root.metrics),
	}
	if config.Thresholds.Offload > 0 {
		opts = append(opts, bundler.OffloadThresholdMiB(config.Thresholds.Offload))
	}
	if config.Thresholds.Tracking > 0 {
		opts = append(opts, bundler.TrackingThresholdMiB(config.Thresholds.Tracking))
	}
	return bundler.New(up, tracker, opts...), nil
}

func newSigner(ctx context.Context, l *zap.Logger) (*signer.Signer, error) {
	store, err := newStore(ctx, l)
	if err != nil {
		return nil, err
	}
	return signer.New(
		signer.Logger(l),
		signer.Sink(storeSink{store: store}),
		signer.WithMetrics(publisherFlags.root.metrics),
	), nil
}

func newGitLab(l *zap.Logger) *forge.GitLab {
	return forge.NewGitLab(config.Gitlab.URL, config.Gitlab.Token, config.Gitlab.Project,
		forge.GitLabLogger(l))
}

// newOrchestrator assembles the full release workflow from the configuration.
func newOrchestrator(ctx context.Context, l *zap.Logger) (*release.Orchestrator, error) {
	workspace := publisherFlags.root.workspace
	tracker := lfs.New(lfs.Logger(l))
	bnd, err := newBundler(ctx, tracker, l)
	if err != nil {
		return nil, err
	}
	sgn, err := newSigner(ctx, l)
	if err != nil {
		return nil, err
	}
	gl := newGitLab(l)
	collaborators := release.Collaborators{
		Assay:   assay.New(config.Assay.URL, config.Assay.Token, assay.Logger(l)),
		Foundry: foundry.New(config.Foundry.URL, config.Foundry.Token, foundry.Logger(l)),
		Forge:   gl,
		Git:     vcs.NewGit(workspace, vcs.Logger(l)),
		Tracker: tracker,
		Bundler: bnd,
		Signer:  sgn,
		Version: version.New(gl, version.Logger(l)),
	}
	opts := []release.Option{
		release.Logger(l),
		release.WithMetrics(publisherFlags.root.metrics),
	}
	if config.Branch != "" {
		opts = append(opts, release.TargetBranch(config.Branch))
	}
	return release.New(workspace, collaborators, opts...), nil
}
