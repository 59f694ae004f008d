// Copyright © 2025 CoReason, Inc.

// Package lfs adapts the git-lfs CLI as the large-object tracking tool.
//
// Files above the tracking threshold stay in version control but are stored
// as pointers by git-lfs. This package decides when and with what arguments
// the tool runs; it does not reimplement any of its storage protocol.
package lfs

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/lfs/status"
	"github.com/coreason-ai/publisher/pkg/model"

	"go.uber.org/zap"
)

// Tool is the contract the bundler and orchestrator have with the
// large-object tracking tool.
type Tool interface {
	IsInstalled() bool
	IsInitialized(ctx context.Context, repoPath string) bool
	VerifyReady(ctx context.Context, repoPath string) error
	Initialize(ctx context.Context, repoPath string) error
	FindLargeFiles(repoPath string, thresholdBytes int64) ([]string, error)
	TrackPatterns(ctx context.Context, repoPath string, patterns []string) error
}

var _ Tool = &GitLFS{}

// GitLFS implements Tool with the git-lfs CLI.
type GitLFS struct {
	l *zap.Logger

	// patched over in tests
	lookPath func(string) (string, error)
}

// Option is a functor to pass optional parameters to the adapter
type Option func(*GitLFS)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(g *GitLFS) {
		if l != nil {
			g.l = l
		}
	}
}

// New builds a git-lfs adapter
func New(opts ...Option) *GitLFS {
	g := &GitLFS{
		l:        dlogger.MustGetLogger(dlogger.LogLevelInfo),
		lookPath: exec.LookPath,
	}
	for _, apply := range opts {
		apply(g)
	}
	return g
}

func (g *GitLFS) run(ctx context.Context, dir string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", args...)
	command.Dir = dir
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return "", status.ErrTool.WrapMessage("git %s: %v (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// IsInstalled reports whether the git-lfs binary is available.
func (g *GitLFS) IsInstalled() bool {
	_, err := g.lookPath("git-lfs")
	return err == nil
}

// IsInitialized reports whether git-lfs is set up for the repository:
// the directory is inside a git work tree and "git lfs env" shows a
// configured endpoint.
func (g *GitLFS) IsInitialized(ctx context.Context, repoPath string) bool {
	if _, err := g.run(ctx, repoPath, "rev-parse", "--is-inside-work-tree"); err != nil {
		g.l.Debug("not inside a git work tree", zap.String("repo", repoPath))
		return false
	}
	out, err := g.run(ctx, repoPath, "lfs", "env")
	if err != nil {
		g.l.Debug("git lfs env failed", zap.Error(err))
		return false
	}
	if !strings.Contains(out, "Endpoint") {
		g.l.Debug("git lfs env shows no configured endpoint")
		return false
	}
	return true
}

// Initialize installs the git-lfs hooks into the repository.
func (g *GitLFS) Initialize(ctx context.Context, repoPath string) error {
	g.l.Info("initializing git-lfs", zap.String("repo", repoPath))
	_, err := g.run(ctx, repoPath, "lfs", "install")
	return err
}

// VerifyReady checks that git-lfs is installed, initialized, and that the
// pre-push hook is present, mentions git-lfs and is executable. A push
// without a working hook would silently upload heavy content inline, so
// the orchestrator gates pushes on this check.
func (g *GitLFS) VerifyReady(ctx context.Context, repoPath string) error {
	if !g.IsInstalled() {
		return status.ErrNotInstalled
	}
	if !g.IsInitialized(ctx, repoPath) {
		return status.ErrNotInitialized.WrapMessage("%s", repoPath)
	}

	hooksOut, err := g.run(ctx, repoPath, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return status.ErrHookMissing.Wrap(err)
	}
	hooksDir := strings.TrimSpace(hooksOut)
	if !filepath.IsAbs(hooksDir) {
		hooksDir = filepath.Join(repoPath, hooksDir)
	}
	hook := filepath.Join(hooksDir, "pre-push")

	info, err := os.Stat(hook)
	if err != nil {
		return status.ErrHookMissing.WrapMessage("no pre-push hook at %s", hook)
	}
	content, err := os.ReadFile(hook)
	if err != nil {
		return status.ErrHookMissing.Wrap(err)
	}
	if !bytes.Contains(content, []byte("git-lfs")) && !bytes.Contains(content, []byte("git lfs")) {
		return status.ErrHookMissing.WrapMessage("pre-push hook at %s does not call git-lfs", hook)
	}
	if info.Mode().Perm()&0111 == 0 {
		return status.ErrHookMissing.WrapMessage("pre-push hook at %s is not executable", hook)
	}

	g.l.Info("git-lfs verified ready", zap.String("repo", repoPath))
	return nil
}

// FindLargeFiles scans the tree for regular files strictly larger than the
// threshold, excluding version-control metadata. Paths come back
// slash-separated, relative to repoPath. Per-file stat trouble is logged
// and the scan continues.
func (g *GitLFS) FindLargeFiles(repoPath string, thresholdBytes int64) ([]string, error) {
	g.l.Info("scanning for large files",
		zap.String("repo", repoPath),
		zap.Int64("thresholdBytes", thresholdBytes),
	)
	if _, err := os.Stat(repoPath); err != nil {
		g.l.Warn("search path does not exist", zap.String("repo", repoPath))
		return nil, nil
	}

	var large []string
	err := filepath.Walk(repoPath, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			g.l.Warn("could not check file", zap.String("file", pth), zap.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if info.Name() == model.GitDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if info.Size() > thresholdBytes {
			rel, e := filepath.Rel(repoPath, pth)
			if e != nil {
				return status.ErrTool.Wrap(e)
			}
			large = append(large, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return large, nil
}

// TrackPatterns registers patterns with git-lfs, skipping those already
// present in the attributes file so repeated bundling stays idempotent.
func (g *GitLFS) TrackPatterns(ctx context.Context, repoPath string, patterns []string) error {
	fresh := g.untrackedPatterns(repoPath, patterns)
	if len(fresh) == 0 {
		g.l.Info("all patterns are already tracked")
		return nil
	}

	g.l.Info("tracking patterns with git-lfs", zap.Strings("patterns", fresh))
	args := append([]string{"lfs", "track"}, fresh...)
	_, err := g.run(ctx, repoPath, args...)
	return err
}

// untrackedPatterns filters out patterns the attributes file already routes
// through the lfs filter.
func (g *GitLFS) untrackedPatterns(repoPath string, patterns []string) []string {
	attributes := ""
	raw, err := os.ReadFile(filepath.Join(repoPath, model.GitAttributesFile))
	if err == nil {
		attributes = string(raw)
	} else if !os.IsNotExist(err) {
		g.l.Warn("failed to read attributes file", zap.Error(err))
	}

	fresh := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		tracked := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(pattern) + `\s+filter=lfs`)
		if tracked.MatchString(attributes) {
			g.l.Debug("pattern already tracked", zap.String("pattern", pattern))
			continue
		}
		fresh = append(fresh, pattern)
	}
	return fresh
}
