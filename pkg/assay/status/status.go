// Copyright © 2025 CoReason, Inc.

// Package status declares the sentinel errors returned by the assay client.
package status

import "github.com/coreason-ai/publisher/pkg/errors"

var (
	// ErrFetchReport indicates that the assay service did not serve a report
	ErrFetchReport = errors.New("failed to fetch assay report")

	// ErrInvalidReport indicates that the served report is not a valid document
	ErrInvalidReport = errors.New("invalid assay report")
)
