// Copyright © 2025 CoReason, Inc.

// Package storage provides an interface to handle backend storage objects,
// used as the offload target for oversized release artifacts.
//
// This package supports the following backends:
//   - GCS (Google)
//   - S3 (AWS)
//   - local file system
package storage
