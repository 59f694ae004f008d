// Copyright © 2025 CoReason, Inc.

// Package static implements Authable from a local YAML credential file.
package static

import (
	"io/ioutil"

	"github.com/coreason-ai/publisher/pkg/auth"
	"github.com/coreason-ai/publisher/pkg/auth/status"
	"github.com/coreason-ai/publisher/pkg/model"

	yaml "gopkg.in/yaml.v2"
)

// New returns a new instance of static Auth
func New() Auth {
	return Auth{}
}

// Auth implements Authable for file-based credentials.
//
// The credential file declares the principal directly:
//
//	id: alice
//	email: alice@example.com
type Auth struct{}

var _ auth.Authable = Auth{}

// Principal reads the principal from a credential file.
func (s Auth) Principal(credFile string) (model.Identity, error) {
	raw, err := ioutil.ReadFile(credFile)
	if err != nil {
		return model.Identity{}, status.ErrInvalidCredentials.Wrap(err)
	}
	var identity model.Identity
	if err := yaml.UnmarshalStrict(raw, &identity); err != nil {
		return model.Identity{}, status.ErrInvalidCredentials.Wrap(err)
	}
	if identity.ID == "" {
		return model.Identity{}, status.ErrInvalidCredentials.WrapMessage("credential file %s carries no id", credFile)
	}
	return identity, nil
}
