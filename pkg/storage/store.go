// Copyright © 2025 CoReason, Inc.

package storage

import (
	"context"
	"io"
)

const (
	// NoOverWrite makes Put fail on an already existing object
	NoOverWrite = true

	// OverWrite makes Put replace an already existing object
	OverWrite = false
)

// Store implementations know how to write entries to a K/V store.
//
// Typically this is something file system-like. Examples are S3, GCS, local FS.
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

// PipeIO copies a reader out to a writer, preferring the reader's own
// WriteTo when it has one.
func PipeIO(writer io.Writer, reader io.Reader) (int64, error) {
	if wt, ok := reader.(io.WriterTo); ok {
		return wt.WriteTo(writer)
	}
	return io.Copy(writer, reader)
}
