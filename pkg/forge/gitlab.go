// Copyright © 2025 CoReason, Inc.

package forge

import (
	"context"
	"net/url"
	"strconv"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/forge/status"
	"github.com/coreason-ai/publisher/pkg/rest"

	"go.uber.org/zap"
)

var _ Provider = &GitLab{}

// GitLab operates on a single project through the GitLab v4 REST API.
//
// The base URL points at the API root (e.g. https://gitlab.example.com/api/v4)
// and the project is addressed by its numeric ID or full path.
type GitLab struct {
	api     *rest.Client
	project string
	l       *zap.Logger
}

// GitLabOption is a functor to pass optional parameters to the provider
type GitLabOption func(*GitLab)

// GitLabLogger injects a logging facility
func GitLabLogger(l *zap.Logger) GitLabOption {
	return func(g *GitLab) {
		if l != nil {
			g.l = l
		}
	}
}

// WithRest overrides the underlying REST client (used by tests)
func WithRest(api *rest.Client) GitLabOption {
	return func(g *GitLab) {
		if api != nil {
			g.api = api
		}
	}
}

// NewGitLab builds a provider for one project hosted at baseURL
func NewGitLab(baseURL, token, projectID string, opts ...GitLabOption) *GitLab {
	l := dlogger.MustGetLogger(dlogger.LogLevelInfo)
	g := &GitLab{
		api:     rest.New(baseURL, rest.Header("PRIVATE-TOKEN", token), rest.Logger(l)),
		project: url.PathEscape(projectID),
		l:       l,
	}
	for _, apply := range opts {
		apply(g)
	}
	return g
}

func (g *GitLab) projectPath(suffix string) string {
	return "/projects/" + g.project + suffix
}

// CreateMergeRequest opens a merge request and returns its project-scoped IID.
func (g *GitLab) CreateMergeRequest(ctx context.Context, sourceBranch, targetBranch, title, description string) (int, error) {
	g.l.Info("creating merge request",
		zap.String("source", sourceBranch),
		zap.String("target", targetBranch),
		zap.String("title", title),
	)
	payload := struct {
		SourceBranch string `json:"source_branch"`
		TargetBranch string `json:"target_branch"`
		Title        string `json:"title"`
		Description  string `json:"description"`
	}{
		SourceBranch: sourceBranch,
		TargetBranch: targetBranch,
		Title:        title,
		Description:  description,
	}
	var mr struct {
		IID    int    `json:"iid"`
		WebURL string `json:"web_url"`
	}
	if err := g.api.Post(ctx, g.projectPath("/merge_requests"), payload, &mr); err != nil {
		return 0, status.ErrCreateMR.Wrap(err)
	}
	g.l.Info("merge request created", zap.Int("iid", mr.IID), zap.String("url", mr.WebURL))
	return mr.IID, nil
}

// MergeMergeRequest merges an open merge request.
func (g *GitLab) MergeMergeRequest(ctx context.Context, mrID int) error {
	g.l.Info("merging merge request", zap.Int("iid", mrID))
	if err := g.api.Put(ctx, g.projectPath("/merge_requests/"+strconv.Itoa(mrID)+"/merge"), nil, nil); err != nil {
		return status.ErrMergeMR.WrapMessage("mr %d: %v", mrID, err)
	}
	return nil
}

// CreateTag creates an annotated tag at ref.
func (g *GitLab) CreateTag(ctx context.Context, name, ref, message string) error {
	g.l.Info("creating tag", zap.String("tag", name), zap.String("ref", ref))
	payload := struct {
		TagName string `json:"tag_name"`
		Ref     string `json:"ref"`
		Message string `json:"message"`
	}{TagName: name, Ref: ref, Message: message}
	if err := g.api.Post(ctx, g.projectPath("/repository/tags"), payload, nil); err != nil {
		return status.ErrCreateTag.WrapMessage("tag %s: %v", name, err)
	}
	return nil
}

// LastTag returns the most recently updated tag, or "" for an untagged
// repository.
func (g *GitLab) LastTag(ctx context.Context) (string, error) {
	var tags []struct {
		Name string `json:"name"`
	}
	pth := g.projectPath("/repository/tags") + "?order_by=updated&sort=desc&per_page=1"
	if err := g.api.Get(ctx, pth, &tags); err != nil {
		return "", status.ErrListTags.Wrap(err)
	}
	if len(tags) == 0 {
		return "", nil
	}
	return tags[0].Name, nil
}

// PostComment posts a note on a merge request.
func (g *GitLab) PostComment(ctx context.Context, mrID int, body string) error {
	g.l.Info("posting comment", zap.Int("iid", mrID))
	payload := struct {
		Body string `json:"body"`
	}{Body: body}
	if err := g.api.Post(ctx, g.projectPath("/merge_requests/"+strconv.Itoa(mrID)+"/notes"), payload, nil); err != nil {
		return status.ErrPostComment.WrapMessage("mr %d: %v", mrID, err)
	}
	return nil
}

// MergeRequestStatus returns the state of a merge request (opened, merged,
// closed, locked).
func (g *GitLab) MergeRequestStatus(ctx context.Context, mrID int) (string, error) {
	var mr struct {
		State string `json:"state"`
	}
	if err := g.api.Get(ctx, g.projectPath("/merge_requests/"+strconv.Itoa(mrID)), &mr); err != nil {
		return "", status.ErrMRStatus.WrapMessage("mr %d: %v", mrID, err)
	}
	return mr.State, nil
}
