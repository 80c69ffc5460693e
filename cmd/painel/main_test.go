package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sandbox points HOME, the config file and the database into a temp dir
// and returns the config file path.
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	cfgPath := filepath.Join(home, "painel.toml")
	t.Setenv("HOME", home)
	t.Setenv("PAINEL_CONFIG", cfgPath)
	t.Setenv("PAINEL_DATABASE_PATH", filepath.Join(home, "data", "painel.db"))
	t.Setenv("PAINEL_AUTH_GRANTS", "")
	t.Setenv("PAINEL_AUTH_USER", "")
	t.Setenv("PAINEL_AUTH_MODE", "")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return cfgPath
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	sandbox(t)
	out, err := run(args...)
	require.NoError(t, err)
	return out
}

func TestPermsDefaultUser(t *testing.T) {
	out := execute(t, "perms", "--lint")
	assert.Contains(t, out, "user: admin")
	assert.Regexp(t, `clientes\s+comercial:clientes\s+scoped\(view,visualize,create,edit,delete,preview,download\)`, out)
	assert.Regexp(t, `pessoas\s+cadastros:pessoas\s+scoped\(view,visualize\)`, out)
	assert.Regexp(t, `comunicacoes\s+comunicacao:mensagens\s+hidden`, out)
	assert.Contains(t, out, "no problems found")
}

func TestPermsModeOverride(t *testing.T) {
	out := execute(t, "perms", "--mode", "read-only", "--user", "bia")
	assert.Contains(t, out, "user: bia")
	assert.Regexp(t, `pessoas\s+cadastros:pessoas\s+read-only`, out)
	assert.NotContains(t, out, "full")
}

func TestMigrateReportsVersion(t *testing.T) {
	out := execute(t, "migrate")
	assert.Contains(t, out, "schema version 1 (dirty=false)")
}

func TestSeedFake(t *testing.T) {
	out := execute(t, "seed", "--fake", "2")
	assert.Contains(t, out, "generated 10 records")
}

func TestGrantAndRevoke(t *testing.T) {
	sandbox(t)

	out, err := run("grant", "bia", "cadastros:pessoas:{listar,editar}")
	require.NoError(t, err)
	assert.Contains(t, out, "bia: 2 permissions")
	assert.Contains(t, out, "cadastros:pessoas:editar")

	out, err = run("perms", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "user: admin")
	assert.Contains(t, out, "user: bia")
	assert.Regexp(t, `pessoas\s+cadastros:pessoas\s+scoped\(view,visualize,edit\)`, out)

	out, err = run("grant", "--revoke", "bia", "cadastros:pessoas:editar")
	require.NoError(t, err)
	assert.Contains(t, out, "bia: 1 permissions")
	assert.NotContains(t, out, "cadastros:pessoas:editar")

	_, err = run("grant", "bia", "*:listar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patterns match nothing: *:listar")
}

func TestPermsLintReportsUnmatchedPattern(t *testing.T) {
	sandbox(t)
	t.Setenv("PAINEL_AUTH_GRANTS", "*:listar")

	out, err := run("perms", "--lint")
	require.NoError(t, err)
	assert.Contains(t, out, "*:listar: pattern matches nothing")
	assert.NotContains(t, out, "no problems found")
}

func TestConfigWrite(t *testing.T) {
	cfgPath := sandbox(t)

	out, err := run("config", "--user", "bia")
	require.NoError(t, err)
	assert.Regexp(t, `auth.user\s+bia`, out)
	assert.NoFileExists(t, cfgPath)

	out, err = run("config", "--write", "--mode", "read-only")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+cfgPath)
	require.FileExists(t, cfgPath)

	out, err = run("config")
	require.NoError(t, err)
	assert.Regexp(t, `auth.mode\s+read-only`, out)
}
