package commands

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"KeyringRaw/internal/keyring"
	"KeyringRaw/internal/keyring/keyringtest"
	"KeyringRaw/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cmd Command, cfgArgs ...string) (string, error) {
	t.Helper()
	cfg := testConfig(t)
	var err error
	out := withStdoutCapture(t, func() { err = cmd.Run(context.Background(), cfg, cfgArgs) })
	return out, err
}

func mustGet(t *testing.T, name string) Command {
	t.Helper()
	c, ok := Get(name)
	require.True(t, ok, "command %s not registered", name)
	return c
}

func TestShow(t *testing.T) {
	p := writeKeyring(t, "login.keyring", mailKeyring(), testPassword)
	out, err := run(t, mustGet(t, "show"), p)
	require.NoError(t, err)
	assert.Contains(t, out, "   name: login\n")
	assert.Contains(t, out, "      secret: hunter2\n")
	assert.Contains(t, out, "            value: alice\n")
	assert.NotContains(t, out, "==>")
}

func TestShow_MultipleFilesIsolated(t *testing.T) {
	good := writeKeyring(t, "good.keyring", mailKeyring(), testPassword)
	bad := writeKeyring(t, "bad.keyring", mailKeyring(), "another password")

	out, err := run(t, mustGet(t, "show"), good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 file(s) failed")
	assert.Contains(t, out, "==> "+good+" <==")
	assert.Contains(t, out, "secret: hunter2")
	assert.Contains(t, out, bad+": ")
	assert.Contains(t, out, keyring.ErrIntegrityCheckFailed.Error())
}

func TestShow_Usage(t *testing.T) {
	_, err := run(t, mustGet(t, "show"))
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCompact(t *testing.T) {
	p := writeKeyring(t, "login.keyring", mailKeyring(), testPassword)
	out, err := run(t, mustGet(t, "compact"), p)
	require.NoError(t, err)
	assert.Equal(t, "alice\thunter2\tmail\n\tp@ss\twifi\n", out)
}

func TestJSON(t *testing.T) {
	p := writeKeyring(t, "login.keyring", mailKeyring(), testPassword)
	out, err := run(t, mustGet(t, "json"), p)
	require.NoError(t, err)

	var doc struct {
		Name  string `json:"name"`
		Items []struct {
			Name   string `json:"name"`
			Secret string `json:"secret"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "login", doc.Name)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "wifi", doc.Items[1].Name)
}

func TestYAML_MultipleDocuments(t *testing.T) {
	a := writeKeyring(t, "a.keyring", mailKeyring(), testPassword)
	b := writeKeyring(t, "b.keyring", keyringtest.Minimal(), testPassword)
	out, err := run(t, mustGet(t, "yaml"), a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "---\n"))
	assert.Equal(t, 2, strings.Count(out, "name: login\n"))
}

func TestHeader_NoPasswordNeeded(t *testing.T) {
	p := writeKeyring(t, "login.keyring", mailKeyring(), testPassword)
	cfg := testConfig(t)
	cfg.Password = ""

	var err error
	out := withStdoutCapture(t, func() { err = mustGet(t, "header").Run(context.Background(), cfg, []string{p}) })
	require.NoError(t, err)
	assert.Contains(t, out, "          items: 2\n")
	assert.Contains(t, out, "username_value (string) hash")
	assert.NotContains(t, out, "hunter2")
}

func TestHeader_BadFile(t *testing.T) {
	_, err := run(t, mustGet(t, "header"), "/nonexistent/file.keyring")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	p := writeKeyring(t, "login.keyring", mailKeyring(), testPassword)

	out, err := run(t, mustGet(t, "get"), p, "wifi")
	require.NoError(t, err)
	assert.Equal(t, "p@ss\n", out)

	_, err = run(t, mustGet(t, "get"), p, "nope")
	assert.ErrorContains(t, err, `item "nope" not found`)

	_, err = run(t, mustGet(t, "get"), p)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestExport(t *testing.T) {
	p := writeKeyring(t, "login.keyring", mailKeyring(), testPassword)
	cfg := testConfig(t)
	cfg.ExportSecrets = true

	var err error
	out := withStdoutCapture(t, func() { err = mustGet(t, "export").Run(context.Background(), cfg, []string{p}) })
	require.NoError(t, err)
	assert.Contains(t, out, "exported "+p)
	assert.Contains(t, out, "items=2")

	db, err := repo.InitDB(cfg.DatabaseDSN)
	require.NoError(t, err)
	defer func() { _ = repo.Close(db) }()
	r := repo.NewKeyringRepository(db)

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	kr, err := r.Get(context.Background(), list[0].ID)
	require.NoError(t, err)
	require.Len(t, kr.Items, 2)
	assert.Equal(t, "hunter2", kr.Items[0].Secret)
	assert.Len(t, kr.Items[0].Attributes, 2)
}

func TestStrictConfig(t *testing.T) {
	f := mailKeyring()
	f.Items[0].Attributes[1].HeaderIntHash = keyringtest.U32(42)
	p := writeKeyring(t, "login.keyring", f, testPassword)

	// по умолчанию несовпадение хэша только предупреждение
	out, err := run(t, mustGet(t, "compact"), p)
	require.NoError(t, err)
	assert.Contains(t, out, "hunter2")

	cfg := testConfig(t)
	cfg.StrictHashes = true
	out = withStdoutCapture(t, func() { err = mustGet(t, "compact").Run(context.Background(), cfg, []string{p}) })
	require.Error(t, err)
	assert.Contains(t, out, keyring.ErrAttributeValueHashMismatch.Error())
}
