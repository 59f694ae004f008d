// Copyright © 2025 CoReason, Inc.

package static

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/coreason-ai/publisher/pkg/auth/status"
	"github.com/coreason-ai/publisher/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal(t *testing.T) {
	credFile := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, ioutil.WriteFile(credFile,
		[]byte("id: alice\nemail: alice@example.com\n"), 0600))

	p, err := New().Principal(credFile)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.ID)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, "alice <alice@example.com>", p.String())
}

func TestPrincipalMissingFile(t *testing.T) {
	_, err := New().Principal(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidCredentials))
}

func TestPrincipalMissingID(t *testing.T) {
	credFile := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, ioutil.WriteFile(credFile,
		[]byte("email: alice@example.com\n"), 0600))

	_, err := New().Principal(credFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidCredentials))
}

func TestPrincipalGarbage(t *testing.T) {
	credFile := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, ioutil.WriteFile(credFile,
		[]byte("not: [valid\n"), 0600))

	_, err := New().Principal(credFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidCredentials))
}
