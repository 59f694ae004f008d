// Copyright © 2025 CoReason, Inc.

package forge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/forge/status"
	"github.com/coreason-ai/publisher/pkg/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ version.LastTagger = &GitLab{}

type capture struct {
	method string
	path   string
	query  string
	token  string
	body   map[string]interface{}
}

func newCaptureServer(t *testing.T, responseBody string) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.EscapedPath()
		c.query = r.URL.RawQuery
		c.token = r.Header.Get("PRIVATE-TOKEN")
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &c.body))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	}))
	return server, c
}

func TestCreateMergeRequest(t *testing.T) {
	server, got := newCaptureServer(t, `{"iid": 12, "web_url": "https://gitlab.example.com/agents/demo/-/merge_requests/12"}`)
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "agents/demo-agent")
	iid, err := g.CreateMergeRequest(context.Background(),
		"release/candidate/v1.1.0", "main", "Release v1.1.0", "Release Candidate: v1.1.0")
	require.NoError(t, err)

	assert.Equal(t, 12, iid)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/projects/agents%2Fdemo-agent/merge_requests", got.path)
	assert.Equal(t, "secret", got.token)
	assert.Equal(t, "release/candidate/v1.1.0", got.body["source_branch"])
	assert.Equal(t, "main", got.body["target_branch"])
	assert.Equal(t, "Release v1.1.0", got.body["title"])
}

func TestMergeMergeRequest(t *testing.T) {
	server, got := newCaptureServer(t, `{"state": "merged"}`)
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "42")
	require.NoError(t, g.MergeMergeRequest(context.Background(), 12))

	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/projects/42/merge_requests/12/merge", got.path)
}

func TestCreateTag(t *testing.T) {
	server, got := newCaptureServer(t, `{}`)
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "42")
	require.NoError(t, g.CreateTag(context.Background(), "v1.1.0", "main", "Release v1.1.0"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/projects/42/repository/tags", got.path)
	assert.Equal(t, map[string]interface{}{
		"tag_name": "v1.1.0",
		"ref":      "main",
		"message":  "Release v1.1.0",
	}, got.body)
}

func TestLastTag(t *testing.T) {
	server, got := newCaptureServer(t, `[{"name": "v1.0.3"}]`)
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "42")
	tag, err := g.LastTag(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "v1.0.3", tag)
	assert.Equal(t, "/projects/42/repository/tags", got.path)
	assert.Equal(t, "order_by=updated&sort=desc&per_page=1", got.query)
}

func TestLastTagEmptyRepository(t *testing.T) {
	server, _ := newCaptureServer(t, `[]`)
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "42")
	tag, err := g.LastTag(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tag)
}

func TestPostComment(t *testing.T) {
	server, got := newCaptureServer(t, `{}`)
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "42")
	require.NoError(t, g.PostComment(context.Background(), 12, "Linked Foundry Draft: draft-9"))

	assert.Equal(t, "/projects/42/merge_requests/12/notes", got.path)
	assert.Equal(t, map[string]interface{}{"body": "Linked Foundry Draft: draft-9"}, got.body)
}

func TestMergeRequestStatus(t *testing.T) {
	server, got := newCaptureServer(t, `{"state": "opened"}`)
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "42")
	state, err := g.MergeRequestStatus(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "opened", state)
	assert.Equal(t, "/projects/42/merge_requests/12", got.path)
}

func TestCreateMergeRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "another open merge request already exists", http.StatusConflict)
	}))
	defer server.Close()

	g := NewGitLab(server.URL, "secret", "42")
	_, err := g.CreateMergeRequest(context.Background(), "release/candidate/v1.1.0", "main", "Release v1.1.0", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrCreateMR))
}
