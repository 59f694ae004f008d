// Copyright © 2025 CoReason, Inc.

package foundry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/foundry/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	method string
	path   string
	body   map[string]interface{}
}

func newCaptureServer(t *testing.T, responseBody string) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.EscapedPath()
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

func TestSubmitForReview(t *testing.T) {
	server, got := newCaptureServer(t, `{}`)
	defer server.Close()

	c := New(server.URL, "secret")
	require.NoError(t, c.SubmitForReview(context.Background(), "draft/42", "release"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/drafts/draft%2F42/submit", got.path)
	assert.Equal(t, map[string]interface{}{"type": "release"}, got.body)
}

func TestApproveRelease(t *testing.T) {
	server, got := newCaptureServer(t, `{}`)
	defer server.Close()

	c := New(server.URL, "secret")
	require.NoError(t, c.ApproveRelease(context.Background(), 7, "deadbeef"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/merge-requests/7/approve", got.path)
	assert.Equal(t, map[string]interface{}{"signature": "deadbeef"}, got.body)
}

func TestRejectRelease(t *testing.T) {
	server, got := newCaptureServer(t, `{}`)
	defer server.Close()

	c := New(server.URL, "secret")
	require.NoError(t, c.RejectRelease(context.Background(), "draft-9", "score too low"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/drafts/draft-9/reject", got.path)
	assert.Equal(t, map[string]interface{}{"reason": "score too low"}, got.body)
}

func TestDraftStatus(t *testing.T) {
	server, got := newCaptureServer(t, `{"status": "in_review", "owner": "sre"}`)
	defer server.Close()

	c := New(server.URL, "secret")
	st, err := c.DraftStatus(context.Background(), "draft-9")
	require.NoError(t, err)
	assert.Equal(t, "in_review", st)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/drafts/draft-9", got.path)
}

func TestDraftStatusMissingField(t *testing.T) {
	server, _ := newCaptureServer(t, `{"owner": "sre"}`)
	defer server.Close()

	c := New(server.URL, "secret")
	_, err := c.DraftStatus(context.Background(), "draft-9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoStatus))
}

func TestSubmitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "draft is locked", http.StatusConflict)
	}))
	defer server.Close()

	c := New(server.URL, "secret")
	err := c.SubmitForReview(context.Background(), "draft-9", "release")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrSubmit))
}
