// Copyright © 2025 CoReason, Inc.

// Package uploader moves large workspace files to a remote object store.
//
// Objects are content-addressed: the key is the BLAKE2B-256 digest of the
// file content, so re-uploading an unchanged file is a no-op and two files
// with the same content share one object.
package uploader

import (
	"context"
	"encoding/hex"
	"os"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/storage"
	"github.com/coreason-ai/publisher/pkg/storage/status"
	ustatus "github.com/coreason-ai/publisher/pkg/storage/uploader/status"

	lru "github.com/hashicorp/golang-lru"
	"github.com/minio/blake2b-simd"
	"go.uber.org/zap"
)

const defaultKeysCacheSize = 4096

// Uploader writes files to a Store under their content digest.
type Uploader struct {
	store         storage.Store
	keysCache     *lru.Cache // keys already known present on the store
	keysCacheSize int
	l             *zap.Logger
}

// Option is a functor to pass optional parameters to the uploader
type Option func(*Uploader)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.l = l
		}
	}
}

// KeysCacheSize sets the number of known-present keys remembered between calls
func KeysCacheSize(size int) Option {
	return func(u *Uploader) {
		if size > 0 {
			u.keysCacheSize = size
		}
	}
}

// New builds an uploader on top of a store
func New(store storage.Store, opts ...Option) (*Uploader, error) {
	u := &Uploader{
		store:         store,
		keysCacheSize: defaultKeysCacheSize,
		l:             dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(u)
	}
	var err error
	u.keysCache, err = lru.New(u.keysCacheSize)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Upload writes the file at filePath to the store and returns the object key
// (the hex BLAKE2B-256 digest of its content). The write is skipped when the
// object is already present.
func (u *Uploader) Upload(ctx context.Context, filePath string) (string, error) {
	key, err := u.contentKey(filePath)
	if err != nil {
		return "", err
	}
	logger := u.l.With(zap.String("file", filePath), zap.String("key", key))

	if u.keysCache.Contains(key) {
		logger.Debug("object known present, skipping upload")
		return key, nil
	}
	has, err := u.store.Has(ctx, key)
	if err != nil {
		return "", ustatus.ErrUpload.Wrap(err)
	}
	if has {
		_, _ = u.keysCache.ContainsOrAdd(key, struct{}{})
		logger.Debug("object already on store, skipping upload")
		return key, nil
	}

	source, err := os.Open(filePath)
	if err != nil {
		return "", ustatus.ErrSource.Wrap(err)
	}
	defer source.Close()

	if err := u.store.Put(ctx, key, source, storage.NoOverWrite); err != nil {
		// a concurrent writer got there first: same content, same key
		if !errors.Is(err, status.ErrExists) {
			return "", ustatus.ErrUpload.Wrap(err)
		}
	}
	_, _ = u.keysCache.ContainsOrAdd(key, struct{}{})
	logger.Info("uploaded object", zap.String("store", u.store.String()))
	return key, nil
}

func (u *Uploader) contentKey(filePath string) (string, error) {
	source, err := os.Open(filePath)
	if err != nil {
		return "", ustatus.ErrSource.Wrap(err)
	}
	defer source.Close()

	hasher := blake2b.New256()
	if _, err := storage.PipeIO(hasher, source); err != nil {
		return "", ustatus.ErrSource.Wrap(err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
