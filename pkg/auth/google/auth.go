// Copyright © 2025 CoReason, Inc.

// Package google implements Authable against google oauth2.
package google

import (
	"context"
	"time"

	"github.com/coreason-ai/publisher/pkg/auth"
	"github.com/coreason-ai/publisher/pkg/auth/status"
	"github.com/coreason-ai/publisher/pkg/model"

	goauth "google.golang.org/api/oauth2/v2"
	goption "google.golang.org/api/option"
)

const timeout = 60 * time.Second

// New returns a new instance of google Auth
func New() Auth {
	return Auth{}
}

// Auth implements Authable for google credentials
type Auth struct{}

var _ auth.Authable = Auth{}

// Principal queries google oauth2 with some local credentials to extract user
// information (aka principal).
//
// By default, credentials are taken from your default application_default_credentials.
// On linux, this is located at ~/.config/gcloud/application_default_credentials.json.
func (g Auth) Principal(credFile string) (model.Identity, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := []goption.ClientOption{
		goption.WithScopes(goauth.UserinfoEmailScope, goauth.UserinfoProfileScope),
	}
	if credFile != "" {
		opts = append(opts, goption.WithCredentialsFile(credFile))
	}
	svc, err := goauth.NewService(ctx, opts...)
	if err != nil {
		return model.Identity{}, status.ErrAuthService.Wrap(err)
	}

	u, err := svc.Userinfo.Get().Do()
	if err != nil {
		return model.Identity{}, status.ErrUserinfo.Wrap(err)
	}
	id := u.Id
	if id == "" {
		// fall back on email when the provider serves no stable id
		id = u.Email
	}
	return model.Identity{
		ID:    id,
		Email: u.Email,
	}, nil
}
