// Copyright © 2025 CoReason, Inc.

// Package vcs wraps local version-control operations on the workspace.
//
// The concrete implementation shells out to the git CLI, always targeting
// the workspace through "git -C <dir>" so the process working directory
// never matters.
package vcs

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/vcs/status"

	"go.uber.org/zap"
)

// Ops is the set of local version-control operations the release workflows
// rely on.
type Ops interface {
	CheckoutNewBranch(ctx context.Context, name string) error
	CheckoutBranch(ctx context.Context, name string) error
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, branch string) error
	IsDirty(ctx context.Context) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
}

var _ Ops = &Git{}

// Git implements Ops with the git CLI.
type Git struct {
	dir    string
	remote string
	l      *zap.Logger
}

// Option is a functor to pass optional parameters to the adapter
type Option func(*Git)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(g *Git) {
		if l != nil {
			g.l = l
		}
	}
}

// Remote overrides the remote pushed to (default "origin")
func Remote(remote string) Option {
	return func(g *Git) {
		if remote != "" {
			g.remote = remote
		}
	}
}

// NewGit builds a git adapter for the working copy at dir
func NewGit(dir string, opts ...Option) *Git {
	g := &Git{
		dir:    dir,
		remote: "origin",
		l:      dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(g)
	}
	return g
}

// run executes a git command targeting the working copy and returns stdout.
// Stderr is captured and folded into the returned error on failure.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", g.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", status.ErrGit.WrapMessage("git %s: %v (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CheckoutNewBranch creates and checks out a branch off the current head.
// When the branch already exists, it is checked out as-is with a warning.
func (g *Git) CheckoutNewBranch(ctx context.Context, name string) error {
	if _, err := g.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name); err == nil {
		g.l.Warn("branch already exists, checking it out", zap.String("branch", name))
		return g.CheckoutBranch(ctx, name)
	}
	g.l.Info("creating branch", zap.String("branch", name))
	_, err := g.run(ctx, "checkout", "-b", name)
	return err
}

// CheckoutBranch checks out an existing local branch.
func (g *Git) CheckoutBranch(ctx context.Context, name string) error {
	g.l.Info("checking out branch", zap.String("branch", name))
	_, err := g.run(ctx, "checkout", name)
	return err
}

// AddAll stages every change in the working copy.
func (g *Git) AddAll(ctx context.Context) error {
	g.l.Info("staging all changes")
	_, err := g.run(ctx, "add", "--all")
	return err
}

// Commit records the staged changes with the given message.
func (g *Git) Commit(ctx context.Context, message string) error {
	g.l.Info("committing staged changes")
	_, err := g.run(ctx, "commit", "-m", message)
	return err
}

// Push publishes a branch to the remote, setting its upstream.
func (g *Git) Push(ctx context.Context, branch string) error {
	g.l.Info("pushing branch", zap.String("branch", branch), zap.String("remote", g.remote))
	_, err := g.run(ctx, "push", "--set-upstream", g.remote, branch+":"+branch)
	return err
}

// IsDirty reports whether the working copy has uncommitted or untracked changes.
func (g *Git) IsDirty(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CurrentBranch returns the name of the checked-out branch, or "detached"
// when the head does not point at one.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "detached", nil
	}
	return out, nil
}
