// Copyright © 2025 CoReason, Inc.

// Package auth resolves the principal accountable for release actions
// against some identity provider.
package auth

import "github.com/coreason-ai/publisher/pkg/model"

// Authable knows how to retrieve a principal from credentials
type Authable interface {
	Principal(credFile string) (model.Identity, error)
}
