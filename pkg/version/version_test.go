package version

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coreason-ai/publisher/pkg/dlogger"
	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/version/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTags struct {
	tag string
	err error
}

func (f *fakeTags) LastTag(_ context.Context) (string, error) {
	return f.tag, f.err
}

func testManager(tags LastTagger) *Manager {
	return New(tags, Logger(dlogger.MustGetLogger(dlogger.LogLevelNone)))
}

func TestCurrentFromTag(t *testing.T) {
	m := testManager(&fakeTags{tag: "v1.2.3"})
	current, err := m.Current(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", current)
}

func TestCurrentNoTag(t *testing.T) {
	m := testManager(&fakeTags{})
	current, err := m.Current(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestCurrentTagWinsOverDeclaration(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(model.AgentConfigPath(ws), []byte("version: \"9.9.9\"\n"), 0644))

	m := testManager(&fakeTags{tag: "v1.2.3"})
	current, err := m.Current(context.Background(), ws)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", current)
}

func TestCurrentTagLookupFailure(t *testing.T) {
	m := testManager(&fakeTags{err: errors.New("api down")})
	_, err := m.Current(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTagLookup))
}

func TestNext(t *testing.T) {
	m := testManager(&fakeTags{})
	for _, toPin := range []struct {
		current  string
		bump     model.BumpKind
		expected string
	}{
		{current: "", bump: model.BumpMajor, expected: "v0.1.0"},
		{current: "", bump: model.BumpPatch, expected: "v0.1.0"},
		{current: "v1.2.3", bump: model.BumpPatch, expected: "v1.2.4"},
		{current: "v1.2.3", bump: model.BumpMinor, expected: "v1.3.0"},
		{current: "1.2.3", bump: model.BumpMajor, expected: "v2.0.0"},
	} {
		next, err := m.Next(toPin.current, toPin.bump)
		require.NoError(t, err, "current %q bump %q", toPin.current, toPin.bump)
		assert.Equal(t, toPin.expected, next)
	}
}

func TestNextInvalid(t *testing.T) {
	m := testManager(&fakeTags{})
	for _, invalid := range []string{"abc", "1.2", "1.2.3.4", "v1.x.0"} {
		_, err := m.Next(invalid, model.BumpPatch)
		require.Error(t, err, "input %q", invalid)
		assert.True(t, errors.Is(err, status.ErrInvalidVersion))
	}
}

func TestPersistCreatesFiles(t *testing.T) {
	ws := t.TempDir()
	m := testManager(&fakeTags{})

	require.NoError(t, m.Persist(ws, "v0.1.0"))

	agent, err := os.ReadFile(model.AgentConfigPath(ws))
	require.NoError(t, err)
	assert.Equal(t, "version: \"0.1.0\"\n", string(agent))

	changelog, err := os.ReadFile(model.ChangelogPath(ws))
	require.NoError(t, err)
	date := time.Now().UTC().Format("2006-01-02")
	assert.Contains(t, string(changelog), "# Changelog")
	assert.Contains(t, string(changelog), "## [0.1.0] - "+date)
	assert.Contains(t, string(changelog), "- Initial release.")
}

func TestPersistPreservesQuotingAndNeighbors(t *testing.T) {
	ws := t.TempDir()
	original := "# my agent\nname: demo-agent\nversion: '1.0.0'\nowner: sre-team # on call\n"
	require.NoError(t, os.WriteFile(model.AgentConfigPath(ws), []byte(original), 0644))

	m := testManager(&fakeTags{})
	require.NoError(t, m.Persist(ws, "v1.1.0"))

	patched, err := os.ReadFile(model.AgentConfigPath(ws))
	require.NoError(t, err)
	assert.Equal(t, "# my agent\nname: demo-agent\nversion: '1.1.0'\nowner: sre-team # on call\n", string(patched))
}

func TestPersistAppendsMissingKey(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(model.AgentConfigPath(ws), []byte("name: demo-agent\n"), 0644))

	m := testManager(&fakeTags{})
	require.NoError(t, m.Persist(ws, "v0.2.0"))

	patched, err := os.ReadFile(model.AgentConfigPath(ws))
	require.NoError(t, err)
	assert.Contains(t, string(patched), "name: demo-agent")
	assert.Contains(t, string(patched), "version: \"0.2.0\"")
}

func TestPersistPrependsChangelogSection(t *testing.T) {
	ws := t.TempDir()
	existing := "# Changelog\n\n## [1.0.0] - 2025-01-15\n\n- First release.\n"
	require.NoError(t, os.WriteFile(model.ChangelogPath(ws), []byte(existing), 0644))

	m := testManager(&fakeTags{})
	require.NoError(t, m.Persist(ws, "v1.1.0"))

	changelog, err := os.ReadFile(model.ChangelogPath(ws))
	require.NoError(t, err)
	text := string(changelog)

	newIdx := strings.Index(text, "## [1.1.0]")
	oldIdx := strings.Index(text, "## [1.0.0]")
	require.GreaterOrEqual(t, newIdx, 0)
	require.GreaterOrEqual(t, oldIdx, 0)
	assert.Less(t, newIdx, oldIdx, "new section must come first")
	assert.Contains(t, text, "- First release.")
}

func TestPersistChangelogWithoutVersionHeadings(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(model.ChangelogPath(ws), []byte("# Changelog\n\nNothing yet.\n"), 0644))

	m := testManager(&fakeTags{})
	require.NoError(t, m.Persist(ws, "v0.1.0"))

	changelog, err := os.ReadFile(model.ChangelogPath(ws))
	require.NoError(t, err)
	text := string(changelog)
	assert.True(t, strings.Index(text, "Nothing yet.") < strings.Index(text, "## [0.1.0]"))
}
