// Copyright © 2025 CoReason, Inc.

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/rest"

	forgestatus "github.com/coreason-ai/publisher/pkg/forge/status"
	relstatus "github.com/coreason-ai/publisher/pkg/release/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	proposeIdentity model.Identity
	proposeReq      model.ProposeRequest
	proposeResult   model.ProposeResult
	proposeErr      error

	finalizeReq    model.FinalizeRequest
	finalizeResult model.FinalizeResult
	finalizeErr    error

	rejectReq model.RejectRequest
	rejectErr error
}

func (f *fakeOrchestrator) Propose(_ context.Context, identity model.Identity, req model.ProposeRequest) (model.ProposeResult, error) {
	f.proposeIdentity = identity
	f.proposeReq = req
	return f.proposeResult, f.proposeErr
}

func (f *fakeOrchestrator) Finalize(_ context.Context, _ model.Identity, req model.FinalizeRequest) (model.FinalizeResult, error) {
	f.finalizeReq = req
	return f.finalizeResult, f.finalizeErr
}

func (f *fakeOrchestrator) Reject(_ context.Context, req model.RejectRequest) error {
	f.rejectReq = req
	return f.rejectErr
}

type fakeTracker struct {
	initialized bool
}

func (f *fakeTracker) IsInstalled() bool {
	return true
}

func (f *fakeTracker) IsInitialized(_ context.Context, _ string) bool {
	return f.initialized
}

func (f *fakeTracker) VerifyReady(_ context.Context, _ string) error {
	return nil
}

func (f *fakeTracker) Initialize(_ context.Context, _ string) error {
	return nil
}

func (f *fakeTracker) FindLargeFiles(_ string, _ int64) ([]string, error) {
	return nil, nil
}

func (f *fakeTracker) TrackPatterns(_ context.Context, _ string, _ []string) error {
	return nil
}

type fakeTags struct {
	tag string
	err error
}

func (f *fakeTags) LastTag(_ context.Context) (string, error) {
	return f.tag, f.err
}

var _ Orchestrator = &fakeOrchestrator{}

type fixedAuth struct {
	identity model.Identity
	err      error
}

func (f fixedAuth) Principal(_ string) (model.Identity, error) {
	return f.identity, f.err
}

func postJSON(t *testing.T, handler http.Handler, path string, doc interface{}, headers map[string]string) *httptest.ResponseRecorder {
	body, err := json.Marshal(doc)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	return doc
}

func TestProposeAccepted(t *testing.T) {
	orch := &fakeOrchestrator{
		proposeResult: model.ProposeResult{
			Version:        "v1.1.0",
			Branch:         "candidate/v1.1.0",
			MergeRequestID: 42,
			Signature:      "deadbeef",
			DraftID:        "draft-1",
		},
	}
	handler := InitRouter(NewServer(orch,
		Auth(fixedAuth{identity: model.Identity{ID: "sre-1", Email: "sre@example.com"}}, ""),
	))

	w := postJSON(t, handler, "/propose", model.ProposeRequest{
		ProjectID:   "42",
		DraftID:     "draft-1",
		Bump:        model.BumpMinor,
		Description: "tuned prompts",
	}, nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	doc := decodeBody(t, w)
	assert.Equal(t, "Proposal submitted successfully", doc["status"])
	assert.Equal(t, "v1.1.0", doc["version"])
	assert.Equal(t, float64(42), doc["mr_id"])

	assert.Equal(t, "sre-1", orch.proposeIdentity.ID)
	assert.Equal(t, "draft-1", orch.proposeReq.DraftID)
	assert.Equal(t, model.BumpMinor, orch.proposeReq.Bump)
}

func TestProposeValidationError(t *testing.T) {
	orch := &fakeOrchestrator{
		proposeErr: errors.New("bump type must be one of major, minor, patch").Wrap(relstatus.ErrInvalidRequest),
	}
	handler := InitRouter(NewServer(orch))

	w := postJSON(t, handler, "/propose", model.ProposeRequest{DraftID: "draft-1"}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	doc := decodeBody(t, w)
	assert.Contains(t, doc["detail"], "bump type")
}

func TestProposeCollaboratorError(t *testing.T) {
	orch := &fakeOrchestrator{
		proposeErr: forgestatus.ErrCreateMR.
			Wrap(&rest.Error{StatusCode: http.StatusConflict, Body: "conflict"}),
	}
	handler := InitRouter(NewServer(orch))

	w := postJSON(t, handler, "/propose", model.ProposeRequest{
		ProjectID: "42", DraftID: "draft-1", Bump: model.BumpPatch,
	}, nil)

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestProposeUnknownError(t *testing.T) {
	orch := &fakeOrchestrator{proposeErr: errors.New("disk on fire")}
	handler := InitRouter(NewServer(orch))

	w := postJSON(t, handler, "/propose", model.ProposeRequest{
		ProjectID: "42", DraftID: "draft-1", Bump: model.BumpPatch,
	}, nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProposeMalformedBody(t *testing.T) {
	orch := &fakeOrchestrator{}
	handler := InitRouter(NewServer(orch))

	req := httptest.NewRequest(http.MethodPost, "/propose", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, orch.proposeReq.DraftID)
}

func TestReleaseOK(t *testing.T) {
	orch := &fakeOrchestrator{
		finalizeResult: model.FinalizeResult{Version: "v1.1.0", MergeRequestID: 42},
	}
	handler := InitRouter(NewServer(orch))

	w := postJSON(t, handler, "/release", model.FinalizeRequest{
		MergeRequestID: 42,
		Signature:      "deadbeef",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody(t, w)
	assert.Equal(t, "Release finalized successfully", doc["status"])
	assert.Equal(t, "v1.1.0", doc["version"])
	assert.Equal(t, 42, orch.finalizeReq.MergeRequestID)
	assert.Equal(t, "deadbeef", orch.finalizeReq.Signature)
}

func TestReleaseSignatureMismatch(t *testing.T) {
	orch := &fakeOrchestrator{
		finalizeErr: errors.New("workspace digest differs").Wrap(relstatus.ErrSignatureMismatch),
	}
	handler := InitRouter(NewServer(orch))

	w := postJSON(t, handler, "/release", model.FinalizeRequest{
		MergeRequestID: 42,
		Signature:      "stale",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectOK(t *testing.T) {
	orch := &fakeOrchestrator{}
	handler := InitRouter(NewServer(orch))

	w := postJSON(t, handler, "/reject", model.RejectRequest{
		MergeRequestID: 42,
		DraftID:        "draft-1",
		Reason:         "tests are flaky",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody(t, w)
	assert.Equal(t, "Changes requested", doc["status"])
	assert.Equal(t, "tests are flaky", orch.rejectReq.Reason)
}

func TestBearerTokenRequired(t *testing.T) {
	orch := &fakeOrchestrator{}
	handler := InitRouter(NewServer(orch, APIToken("sekret")))

	w := postJSON(t, handler, "/propose", model.ProposeRequest{
		ProjectID: "42", DraftID: "draft-1", Bump: model.BumpPatch,
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, handler, "/propose", model.ProposeRequest{
		ProjectID: "42", DraftID: "draft-1", Bump: model.BumpPatch,
	}, map[string]string{"Authorization": "Bearer wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, handler, "/propose", model.ProposeRequest{
		ProjectID: "42", DraftID: "draft-1", Bump: model.BumpPatch,
	}, map[string]string{"Authorization": "Bearer sekret"})
	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestIdentityResolutionFailure(t *testing.T) {
	orch := &fakeOrchestrator{}
	handler := InitRouter(NewServer(orch,
		Auth(fixedAuth{err: errors.New("credential file missing")}, "nowhere.yaml"),
	))

	w := postJSON(t, handler, "/propose", model.ProposeRequest{
		ProjectID: "42", DraftID: "draft-1", Bump: model.BumpPatch,
	}, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthHealthy(t *testing.T) {
	handler := InitRouter(NewServer(&fakeOrchestrator{},
		Health(&fakeTracker{initialized: true}, &fakeTags{tag: "v1.0.0"}, "/tmp/ws"),
	))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody(t, w)
	assert.Equal(t, "healthy", doc["status"])
}

func TestHealthLFSNotInitialized(t *testing.T) {
	handler := InitRouter(NewServer(&fakeOrchestrator{},
		Health(&fakeTracker{initialized: false}, &fakeTags{}, "/tmp/ws"),
	))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	doc := decodeBody(t, w)
	assert.Contains(t, doc["detail"], "Git LFS")
}

func TestHealthProviderDown(t *testing.T) {
	handler := InitRouter(NewServer(&fakeOrchestrator{},
		Health(&fakeTracker{initialized: true}, &fakeTags{err: errors.New("connection refused")}, "/tmp/ws"),
	))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	doc := decodeBody(t, w)
	assert.Contains(t, doc["detail"], "provider")
}
