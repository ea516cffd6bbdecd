package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vobon-server/internal/domain"
)

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	body := "log:\n  level: error\ndb:\n  driver: sqlite\n  dsn: file:" + filepath.Join(dir, "vobon.db") + "\n  loglevel: silent\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))
	return cfg
}

func TestSeedThenPromote(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	file := filepath.Join(t.TempDir(), "apartments.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"floorNo": 1, "blockName": "A", "apartmentNo": "A-101", "rent": 1200},
		{"floorNo": 2, "blockName": "A", "apartmentNo": "A-201", "rent": "1350.50"}
	]`), 0o600))
	out, err = run(t, cfg, "seed", "apartments", file)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 apartments")

	e, err := openEnv(cfg)
	require.NoError(t, err)
	_, _, err = e.store.Users().CreateIfAbsent(context.Background(), &domain.User{ID: "u1", Email: "ops@x.io", Role: domain.RoleUser})
	require.NoError(t, err)
	n, err := e.store.Apartments().Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	e.close()

	out, err = run(t, cfg, "promote", "OPS@x.io")
	require.NoError(t, err)
	assert.Contains(t, out, "ops@x.io is now admin")
}

func TestPromoteUnknownUser(t *testing.T) {
	_, err := run(t, writeConfig(t), "promote", "ghost@x.io")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeedRejectsBadFile(t *testing.T) {
	cfg := writeConfig(t)
	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"not": "an array"}`), 0o600))
	_, err := run(t, cfg, "seed", "apartments", file)
	assert.Error(t, err)
}
