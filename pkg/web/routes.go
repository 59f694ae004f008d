// Copyright © 2025 CoReason, Inc.

// Package web exposes the release workflow over HTTP as a small JSON API.
//
// The server publishes four routes: POST /propose, POST /release,
// POST /reject and GET /health. Request and response bodies reuse the
// model package types, and errors are reported as {"detail": "..."}
// documents with a status code reflecting where the failure occurred
// (400 for invalid requests, 502 for collaborator failures, 500 otherwise).
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coreason-ai/publisher/pkg/auth"
	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/lfs"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/rest"
	"github.com/coreason-ai/publisher/pkg/version"

	assaystatus "github.com/coreason-ai/publisher/pkg/assay/status"
	forgestatus "github.com/coreason-ai/publisher/pkg/forge/status"
	foundrystatus "github.com/coreason-ai/publisher/pkg/foundry/status"
	relstatus "github.com/coreason-ai/publisher/pkg/release/status"
	verstatus "github.com/coreason-ai/publisher/pkg/version/status"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

// Orchestrator runs the release workflow on behalf of the HTTP handlers.
//
// *release.Orchestrator implements it.
type Orchestrator interface {
	Propose(ctx context.Context, identity model.Identity, req model.ProposeRequest) (model.ProposeResult, error)
	Finalize(ctx context.Context, identity model.Identity, req model.FinalizeRequest) (model.FinalizeResult, error)
	Reject(ctx context.Context, req model.RejectRequest) error
}

// Server serves the release workflow API.
type Server struct {
	orchestrator Orchestrator
	auth         auth.Authable
	credFile     string
	apiToken     string
	tracker      lfs.Tool
	tags         version.LastTagger
	workspace    string
	l            *zap.Logger
}

// Option alters the behavior of the Server
type Option func(*Server)

// Logger injects a zap logger
func Logger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.l = l
		}
	}
}

// Auth resolves the identity of the operator running the server from
// a credential file. When left unset, requests proceed with an empty
// identity.
func Auth(a auth.Authable, credFile string) Option {
	return func(s *Server) {
		s.auth = a
		s.credFile = credFile
	}
}

// APIToken requires clients to present this bearer token on every
// workflow route. Health checks remain unauthenticated.
func APIToken(token string) Option {
	return func(s *Server) {
		s.apiToken = token
	}
}

// Health wires the dependencies probed by GET /health: the large file
// tracker for the workspace and the hosting provider tag listing.
func Health(tracker lfs.Tool, tags version.LastTagger, workspace string) Option {
	return func(s *Server) {
		s.tracker = tracker
		s.tags = tags
		s.workspace = workspace
	}
}

// NewServer builds a Server around a release orchestrator.
func NewServer(orchestrator Orchestrator, opts ...Option) *Server {
	s := &Server{
		orchestrator: orchestrator,
		l:            dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type proposeResponse struct {
	Status string `json:"status"`
	model.ProposeResult
}

type finalizeResponse struct {
	Status string `json:"status"`
	model.FinalizeResult
}

func writeJSON(w http.ResponseWriter, code int, doc interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(doc)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorResponse{Detail: detail})
}

// httpStatus maps a workflow failure to a response code: requests the
// caller can fix come back as 400, failures of an upstream collaborator
// as 502, anything else as 500.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, relstatus.ErrInvalidRequest),
		errors.Is(err, relstatus.ErrSignatureMismatch),
		errors.Is(err, relstatus.ErrNoVersion),
		errors.Is(err, verstatus.ErrInvalidVersion):
		return http.StatusBadRequest
	case isCollaboratorFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isCollaboratorFailure(err error) bool {
	var apiErr *rest.Error
	if errors.As(err, &apiErr) {
		return true
	}
	for _, sentinel := range []error{
		assaystatus.ErrFetchReport,
		foundrystatus.ErrSubmit,
		foundrystatus.ErrApprove,
		foundrystatus.ErrReject,
		foundrystatus.ErrDraftStatus,
		forgestatus.ErrCreateMR,
		forgestatus.ErrMergeMR,
		forgestatus.ErrCreateTag,
		forgestatus.ErrListTags,
		forgestatus.ErrPostComment,
		forgestatus.ErrMRStatus,
		verstatus.ErrTagLookup,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// identity authenticates the request and resolves the acting identity.
func (s *Server) identity(r *http.Request) (model.Identity, int, string) {
	if s.apiToken != "" {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == token || token != s.apiToken {
			return model.Identity{}, http.StatusUnauthorized, "invalid or missing bearer token"
		}
	}
	if s.auth == nil {
		return model.Identity{}, 0, ""
	}
	identity, err := s.auth.Principal(s.credFile)
	if err != nil {
		s.l.Error("failed to resolve identity", zap.Error(err))
		return model.Identity{}, http.StatusUnauthorized, "could not resolve identity"
	}
	return identity, 0, ""
}

// HandlePropose submits a release candidate. It replies 202 when the
// proposal went through, since review and finalization are still pending.
func (s *Server) HandlePropose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, code, detail := s.identity(r)
		if code != 0 {
			writeError(w, code, detail)
			return
		}
		var req model.ProposeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		result, err := s.orchestrator.Propose(r.Context(), identity, req)
		if err != nil {
			s.l.Error("proposal failed", zap.String("draft_id", req.DraftID), zap.Error(err))
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, proposeResponse{
			Status:        "Proposal submitted successfully",
			ProposeResult: result,
		})
	}
}

// HandleRelease finalizes a reviewed release candidate.
func (s *Server) HandleRelease() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, code, detail := s.identity(r)
		if code != 0 {
			writeError(w, code, detail)
			return
		}
		var req model.FinalizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		result, err := s.orchestrator.Finalize(r.Context(), identity, req)
		if err != nil {
			s.l.Error("release failed", zap.Int("mr_id", req.MergeRequestID), zap.Error(err))
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, finalizeResponse{
			Status:         "Release finalized successfully",
			FinalizeResult: result,
		})
	}
}

// HandleReject records a rejection and reopens the draft.
func (s *Server) HandleReject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, code, detail := s.identity(r)
		if code != 0 {
			writeError(w, code, detail)
			return
		}
		var req model.RejectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if err := s.orchestrator.Reject(r.Context(), req); err != nil {
			s.l.Error("rejection failed", zap.Int("mr_id", req.MergeRequestID), zap.Error(err))
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "Changes requested"})
	}
}

// HandleHealth reports whether the service can do useful work: the
// workspace must be tracked by git-lfs and the hosting provider must
// answer a tag listing.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.tracker != nil && !s.tracker.IsInitialized(r.Context(), s.workspace) {
			writeError(w, http.StatusServiceUnavailable, "Git LFS is not initialized")
			return
		}
		if s.tags != nil {
			if _, err := s.tags.LastTag(r.Context()); err != nil {
				s.l.Warn("provider health check failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "Git provider check failed: "+err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "healthy"})
	}
}

// InitRouter builds the route table for the server.
func InitRouter(srv *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/propose", srv.HandlePropose())
	r.Post("/release", srv.HandleRelease())
	r.Post("/reject", srv.HandleReject())
	r.Get("/health", srv.HandleHealth())

	return r
}
