package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/pkg/registry"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New("test", "none", "today")
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, "test", a.Version())
	assert.NotNil(t, a.Config())
	assert.NotNil(t, a.Logger())
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	cmd := a.NewVersionCommand()
	cmd.SetOut(&buf)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "mcpsync test")
	assert.Contains(t, buf.String(), "commit none")
}

func TestExecuteSync(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	require.NoError(t, os.WriteFile(first, []byte(`{"mcpServers":{"a":{"command":"a"}}}`), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`{"mcpServers":{}}`), 0o644))

	a := newTestApp(t)
	root := a.createRootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{
		"sync",
		"--config-files", first + "," + second,
		"--format", "json",
		"--quiet",
	})
	require.NoError(t, root.ExecuteContext(context.Background()))

	out := buf.String()
	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, `"written"`)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command": "a"`)
}

func TestExecuteSyncWithConfigFlag(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	require.NoError(t, os.WriteFile(first, []byte(`{"mcpServers":{"a":{"command":"a"}}}`), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`{"mcpServers":{}}`), 0o644))

	configFile := filepath.Join(dir, "mcpsync.yaml")
	yaml := fmt.Sprintf("config_files:\n  - %s\n  - %s\nno_backup: true\n", first, second)
	require.NoError(t, os.WriteFile(configFile, []byte(yaml), 0o644))

	a := newTestApp(t)
	root := a.createRootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{
		"sync",
		"--config", configFile,
		"--format", "json",
		"--quiet",
	})
	require.NoError(t, root.ExecuteContext(context.Background()))

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command": "a"`, "targets come from the --config file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no_backup from the --config file suppresses backups")
}

func TestExecuteRemoveUnknownServer(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	require.NoError(t, os.WriteFile(first, []byte(`{"mcpServers":{"a":{"command":"a"}}}`), 0o644))

	a := newTestApp(t)
	root := a.createRootCommand()
	root.SetArgs([]string{
		"remove", "ghost",
		"--config-files", first,
		"--quiet",
	})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestAppsCommandUsesInjectedRegistry(t *testing.T) {
	reg := registry.New(registry.App{
		ID:   "custom-editor",
		Name: "Custom Editor",
		Path: filepath.Join(t.TempDir(), "mcp.json"),
	})

	a, err := New("test", "none", "today", WithRegistry(reg))
	require.NoError(t, err)
	a.config.Format = "json"

	var buf bytes.Buffer
	cmd := a.NewAppsCommand()
	cmd.SetOut(&buf)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "custom-editor")
	assert.NotContains(t, buf.String(), "claude-desktop")
}

func TestBuildSyncerOptions(t *testing.T) {
	a := newTestApp(t)
	a.config.ConfigFiles = []string{"/tmp/one.json"}
	a.config.NoBackup = true

	s, err := a.Syncer()
	require.NoError(t, err)

	targets := s.Discover()
	require.Len(t, targets, 1)
	assert.Equal(t, "/tmp/one.json", targets[0].Path)
}
