// Copyright © 2025 CoReason, Inc.

// Package version computes and persists the semantic version of a release.
//
// The last released version is read from the hosting provider's tags, never
// from the working copy: the version declaration file is consulted only as a
// cross-check. File updates are narrow text patches so that unrelated
// content stays byte-stable.
package version

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/version/status"

	"go.uber.org/zap"
)

// LastTagger reports the most recently released tag, or "" when none exists.
type LastTagger interface {
	LastTag(ctx context.Context) (string, error)
}

// Manager computes next versions and rewrites version-bearing files.
type Manager struct {
	tags LastTagger
	l    *zap.Logger
}

// Option is a functor to pass optional parameters to the manager
type Option func(*Manager)

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.l = l
		}
	}
}

// New builds a version manager reading released tags from the given source
func New(tags LastTagger, opts ...Option) *Manager {
	m := &Manager{
		tags: tags,
		l:    dlogger.MustGetLogger(dlogger.LogLevelInfo),
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

// versionLine matches the version declaration key at the start of a line,
// capturing the surrounding quoting so a patch preserves it byte-for-byte.
var versionLine = regexp.MustCompile(`(?m)^(version:[ \t]*)(["']?)([^"'\s]+)(["']?)`)

// Current returns the last released version, taken from the hosting
// provider's tags. When the version declaration file disagrees, a warning is
// logged and the tag wins. No tag means no release yet: Current returns ""
// without error.
func (m *Manager) Current(ctx context.Context, workspacePath string) (string, error) {
	tag, err := m.tags.LastTag(ctx)
	if err != nil {
		return "", status.ErrTagLookup.Wrap(err)
	}

	declared := m.readDeclaredVersion(workspacePath)
	if tag != "" && declared != "" {
		if tag != declared && tag != "v"+declared {
			m.l.Warn("version mismatch, using tag as the source of truth",
				zap.String("tag", tag),
				zap.String("declared", declared),
			)
		}
	}
	return tag, nil
}

// Next computes the next semantic version. An empty current version yields
// the initial version regardless of the bump kind.
func (m *Manager) Next(current string, bump model.BumpKind) (string, error) {
	if current == "" {
		m.l.Info("no current version found, defaulting to initial version",
			zap.String("version", model.InitialVersion))
		return model.InitialVersion, nil
	}

	parsed, err := model.ParseSemVer(current)
	if err != nil {
		return "", status.ErrInvalidVersion.WrapMessage("%s", current)
	}

	next := parsed.Bump(bump).Tagged()
	m.l.Info("calculated next version",
		zap.String("current", current),
		zap.String("next", next),
		zap.String("bump", string(bump)),
	)
	return next, nil
}

// Persist writes a new version to the version declaration file and prepends
// a dated section to the changelog.
func (m *Manager) Persist(workspacePath, newVersion string) error {
	m.l.Info("updating version files",
		zap.String("workspace", workspacePath),
		zap.String("version", newVersion),
	)
	if err := m.patchAgentConfig(workspacePath, newVersion); err != nil {
		return err
	}
	return m.prependChangelog(workspacePath, newVersion)
}

func (m *Manager) readDeclaredVersion(workspacePath string) string {
	content, err := os.ReadFile(model.AgentConfigPath(workspacePath))
	if err != nil {
		// a fresh repo legitimately has no declaration file
		return ""
	}
	matches := versionLine.FindSubmatch(content)
	if matches == nil {
		return ""
	}
	return string(matches[3])
}

// patchAgentConfig rewrites the version value in place, preserving the
// quoting style and every other byte of the file. A missing file is created
// with just the version key; a file without the key gets it appended.
func (m *Manager) patchAgentConfig(workspacePath, newVersion string) error {
	pth := model.AgentConfigPath(workspacePath)
	bare := strings.TrimPrefix(newVersion, "v")

	content, err := os.ReadFile(pth)
	if err != nil {
		if !os.IsNotExist(err) {
			return status.ErrPersist.Wrap(err)
		}
		m.l.Info("creating version declaration file", zap.String("file", pth))
		return writeFile(pth, []byte(`version: "`+bare+`"`+"\n"))
	}

	loc := versionLine.FindSubmatchIndex(content)
	if loc == nil {
		appended := string(content) + "\nversion: \"" + bare + "\"\n"
		return writeFile(pth, []byte(appended))
	}

	// splice the new value between the captured key prefix and quotes,
	// patching only the first occurrence. Submatch 3 is the old value.
	var b strings.Builder
	b.Write(content[:loc[6]])
	b.WriteString(bare)
	b.Write(content[loc[7]:])
	return writeFile(pth, []byte(b.String()))
}

// prependChangelog inserts a dated section for the new version right before
// the first existing version heading, leaving prior entries untouched.
func (m *Manager) prependChangelog(workspacePath, newVersion string) error {
	pth := model.ChangelogPath(workspacePath)
	header := "## [" + strings.TrimPrefix(newVersion, "v") + "] - " + time.Now().UTC().Format("2006-01-02")

	content, err := os.ReadFile(pth)
	if err != nil {
		if !os.IsNotExist(err) {
			return status.ErrPersist.Wrap(err)
		}
		m.l.Info("creating changelog", zap.String("file", pth))
		created := "# Changelog\n\nAll notable changes to this project will be documented in this file.\n\n" +
			header + "\n\n- Initial release.\n"
		return writeFile(pth, []byte(created))
	}

	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	entry := header + "\n\n- No changes documented.\n"

	insertAt := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "## [") {
			insertAt = i
			break
		}
	}

	var out []string
	if insertAt >= 0 {
		out = append(out, lines[:insertAt]...)
		out = append(out, entry)
		out = append(out, lines[insertAt:]...)
	} else {
		out = append(out, lines...)
		out = append(out, "", entry)
	}
	return writeFile(pth, []byte(strings.Join(out, "\n")+"\n"))
}

func writeFile(pth string, content []byte) error {
	if err := os.WriteFile(pth, content, 0644); err != nil {
		return status.ErrPersist.Wrap(err)
	}
	return nil
}
