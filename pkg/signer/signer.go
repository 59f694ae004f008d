// Copyright © 2025 CoReason, Inc.

package signer

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/metrics"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/signer/status"

	blake2b "github.com/minio/blake2b-simd"
	"go.uber.org/zap"
)

const defaultChunkSize = 32 * 1024

// AuditSink receives audit records for long-term retention.
//
// Delivery failures are fatal to the calling workflow: a release action
// without a retained audit record must not proceed.
type AuditSink interface {
	Emit(ctx context.Context, record model.AuditRecord) error
}

// Signer fingerprints bundle trees and emits audit records.
type Signer struct {
	l         *zap.Logger
	chunkSize int
	sink      AuditSink

	metrics.Enable
	m *signerMetrics
}

// Option is a functor to pass optional parameters to the signer
type Option func(*Signer)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(s *Signer) {
		if l != nil {
			s.l = l
		}
	}
}

// ChunkSize tunes the size of the read buffer used while hashing files
func ChunkSize(size int) Option {
	return func(s *Signer) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// Sink sets the audit sink records are delivered to
func Sink(sink AuditSink) Option {
	return func(s *Signer) {
		s.sink = sink
	}
}

// WithMetrics toggles metrics collection
func WithMetrics(enabled bool) Option {
	return func(s *Signer) {
		s.EnableMetrics(enabled)
	}
}

// New builds a signer with some options
func New(opts ...Option) *Signer {
	s := &Signer{
		l:         dlogger.MustGetLogger(dlogger.LogLevelInfo),
		chunkSize: defaultChunkSize,
	}
	for _, apply := range opts {
		apply(s)
	}
	if s.MetricsEnabled() {
		s.m = newSignerMetrics()
	}
	return s
}

// Fingerprint computes the deterministic content hash of the tree rooted at
// bundlePath.
//
// Regular files are enumerated, sorted by their slash-separated relative
// path, then fed to the hash as (path bytes, content bytes) pairs. The
// version-control metadata directory is excluded at any depth. Symlinks and
// other non-regular files never contribute to the hash.
func (s *Signer) Fingerprint(bundlePath string) (string, error) {
	defer s.measureDuration(time.Now())

	if _, err := os.Stat(bundlePath); err != nil {
		if os.IsNotExist(err) {
			return "", status.ErrBundleNotFound.WrapMessage("%s", bundlePath)
		}
		return "", status.ErrHash.Wrap(err)
	}

	files, err := s.collectFiles(bundlePath)
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	s.l.Info("hashing bundle content",
		zap.String("bundle", bundlePath),
		zap.Int("files", len(files)),
	)

	h := blake2b.New256()
	buffer := make([]byte, s.chunkSize)
	for _, relPath := range files {
		// the path contributes to the hash first, so renames are detected
		_, _ = h.Write([]byte(relPath))

		if err := s.hashContent(h, filepath.Join(bundlePath, filepath.FromSlash(relPath)), buffer); err != nil {
			return "", err
		}
	}

	digest := hex.EncodeToString(h.Sum(nil))
	s.l.Debug("bundle fingerprint", zap.String("digest", digest))
	s.countFiles(len(files))
	return digest, nil
}

// collectFiles returns the slash-separated relative paths of all regular
// files under root, excluding the version-control metadata directory.
func (s *Signer) collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return status.ErrHash.Wrap(err)
		}
		if info.IsDir() {
			if info.Name() == model.GitDir {
				return filepath.SkipDir
			}
			return nil
		}
		// Walk does not follow symlinks: a symlink reports its own mode here
		// and is excluded with every other non-regular file
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, e := filepath.Rel(root, pth)
		if e != nil {
			return status.ErrHash.Wrap(e)
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Signer) hashContent(w io.Writer, pth string, buffer []byte) error {
	f, err := os.Open(pth)
	if err != nil {
		s.l.Error("failed to open file for hashing", zap.String("file", pth), zap.Error(err))
		return status.ErrHash.Wrap(err)
	}
	defer f.Close()

	n, err := io.CopyBuffer(w, f, buffer)
	if err != nil {
		s.l.Error("failed to read file for hashing", zap.String("file", pth), zap.Error(err))
		return status.ErrHash.Wrap(err)
	}
	s.countBytes(n)
	return nil
}

// Sign produces the signature for a bundle on behalf of an identity.
//
// The signature is currently the bundle fingerprint. The identity does not
// yet contribute to the signature value: it is recorded by the audit trail.
func (s *Signer) Sign(bundlePath string, identity model.Identity) (string, error) {
	s.l.Info("creating signature",
		zap.String("bundle", bundlePath),
		zap.Stringer("signer", identity),
	)
	return s.Fingerprint(bundlePath)
}

// Verify recomputes the bundle fingerprint and compares it to a signature.
// A mismatch is not an error: it yields false.
func (s *Signer) Verify(bundlePath string, signature string) (bool, error) {
	current, err := s.Fingerprint(bundlePath)
	if err != nil {
		return false, err
	}
	if current != signature {
		s.l.Warn("signature verification failed",
			zap.String("expected", signature),
			zap.String("actual", current),
		)
		return false, nil
	}
	s.l.Info("signature verification passed")
	return true, nil
}

// EmitAudit delivers an audit record to the configured sink. Without a sink
// the record is logged only, preserving a local trace for development runs.
func (s *Signer) EmitAudit(ctx context.Context, identity model.Identity, signature, role string) error {
	record := model.NewAuditRecord(identity, signature, role)
	if s.sink == nil {
		s.l.Info("audit record (no sink configured)",
			zap.String("signer_id", record.SignerID),
			zap.String("signer_role", record.SignerRole),
			zap.String("signature", record.Signature),
		)
		return nil
	}
	if err := s.sink.Emit(ctx, record); err != nil {
		return status.ErrAudit.Wrap(err)
	}
	return nil
}

func (s *Signer) countFiles(files int) {
	if s.MetricsEnabled() && s.m != nil {
		s.m.Files(files)
	}
}

func (s *Signer) countBytes(bytes int64) {
	if s.MetricsEnabled() && s.m != nil {
		s.m.Volume(bytes)
	}
}

func (s *Signer) measureDuration(start time.Time) {
	if s.MetricsEnabled() && s.m != nil {
		s.m.Duration(start)
	}
}
