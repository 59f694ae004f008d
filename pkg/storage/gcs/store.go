// Copyright © 2025 CoReason, Inc.

// Package gcs implements the offloaded-object store on Google Cloud Storage.
package gcs

import (
	"context"
	"io"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/storage"
	"github.com/coreason-ai/publisher/pkg/storage/status"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcs struct {
	client         *gcsStorage.Client
	readOnlyClient *gcsStorage.Client
	bucket         string
	l              *zap.Logger
}

// Option is a functor to pass optional parameters to the gcs store
type Option func(*gcs)

// Logger specifies a logger for this store
func Logger(logger *zap.Logger) Option {
	return func(g *gcs) {
		if logger != nil {
			g.l = logger
		}
	}
}

// New builds a store backed by a GCS bucket. An empty credentialFile falls
// back to application default credentials.
func New(ctx context.Context, bucket, credentialFile string, opts ...Option) (storage.Store, error) {
	googleStore := &gcs{
		bucket: bucket,
		l:      dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(googleStore)
	}

	readOnly := []option.ClientOption{option.WithScopes(gcsStorage.ScopeReadOnly)}
	fullControl := []option.ClientOption{option.WithScopes(gcsStorage.ScopeFullControl)}
	if credentialFile != "" {
		readOnly = append(readOnly, option.WithCredentialsFile(credentialFile))
		fullControl = append(fullControl, option.WithCredentialsFile(credentialFile))
	}

	var err error
	if googleStore.readOnlyClient, err = gcsStorage.NewClient(ctx, readOnly...); err != nil {
		return nil, toSentinelErrors(err)
	}
	if googleStore.client, err = gcsStorage.NewClient(ctx, fullControl...); err != nil {
		return nil, toSentinelErrors(err)
	}
	return googleStore, nil
}

func (g *gcs) String() string {
	return "gcs@" + g.bucket
}

func (g *gcs) Has(ctx context.Context, objectName string) (bool, error) {
	_, err := g.readOnlyClient.Bucket(g.bucket).Object(objectName).Attrs(ctx)
	if err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

// gcsReader exposes the object reader's own WriteTo to PipeIO.
type gcsReader struct {
	objectReader io.ReadCloser
}

func (r gcsReader) WriteTo(writer io.Writer) (int64, error) {
	return io.Copy(writer, r.objectReader)
}

func (r gcsReader) Close() error {
	return r.objectReader.Close()
}

func (r gcsReader) Read(p []byte) (int, error) {
	return r.objectReader.Read(p)
}

func (g *gcs) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	objectReader, err := g.readOnlyClient.Bucket(g.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return nil, status.ErrNotExists.Wrap(err)
		}
		return nil, toSentinelErrors(err)
	}
	return gcsReader{objectReader: objectReader}, nil
}

func (g *gcs) Put(ctx context.Context, objectName string, reader io.Reader, exclusive bool) error {
	b := g.client.Bucket(g.bucket).Object(objectName)
	var writer *gcsStorage.Writer
	if exclusive {
		writer = b.If(gcsStorage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	} else {
		writer = b.NewWriter(ctx)
	}
	if _, err := storage.PipeIO(writer, reader); err != nil {
		return toSentinelErrors(err)
	}
	if err := writer.Close(); err != nil {
		// a precondition failure on close means the object already exists
		return toSentinelErrors(err)
	}
	g.l.Debug("uploaded object", zap.String("key", objectName))
	return nil
}

func (g *gcs) Delete(ctx context.Context, objectName string) error {
	if err := g.client.Bucket(g.bucket).Object(objectName).Delete(ctx); err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return nil
		}
		return toSentinelErrors(err)
	}
	return nil
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	objectsIterator := g.readOnlyClient.Bucket(g.bucket).Objects(ctx, nil)
	for {
		attrs, err := objectsIterator.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, toSentinelErrors(err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (g *gcs) Clear(ctx context.Context) error {
	keys, err := g.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := g.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
