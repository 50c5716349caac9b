package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadicTree/frayerstore/internal/importer"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "frayer.db"))
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OTEL_ENABLED", "false")
	return dir
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestRunUsage(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, out.String(), "usage: frayerstore")

	out.Reset()
	err = run(context.Background(), []string{"bogus"}, &out)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, out.String(), `unknown command "bogus"`)

	out.Reset()
	err = run(context.Background(), []string{"import"}, &out)
	assert.ErrorIs(t, err, errUsage)
}

func TestRunImportThenWords(t *testing.T) {
	dir := setupEnv(t)
	catalogFile := write(t, dir, "computing.yaml", `
name: Computing
levels:
  - name: GCSE
    courses:
      - name: GCSE Computer Science
        topics:
          - code: "1.1"
            name: Systems architecture
`)
	wordsFile := write(t, dir, "words.yaml", `
subject: Computing
words:
  - word: Register
    definition: A small store inside the CPU
    topics:
      - course: GCSE Computer Science
        codes: ["1.1"]
`)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"import", catalogFile}, &out))
	assert.Contains(t, out.String(), "topics    created=1 skipped=0 errors=0")

	out.Reset()
	require.NoError(t, run(ctx, []string{"import", catalogFile}, &out))
	assert.Contains(t, out.String(), "topics    created=0 skipped=1 errors=0")

	out.Reset()
	require.NoError(t, run(ctx, []string{"import-words", wordsFile}, &out))
	assert.Contains(t, out.String(), "words     created=1 updated=0 linked=1")
}

func TestRunImportReportsFailure(t *testing.T) {
	dir := setupEnv(t)
	bad := write(t, dir, "bad.yaml", "levels: []\n")

	var out bytes.Buffer
	err := run(context.Background(), []string{"import", bad}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrInvalidYamlStructure)
	assert.Contains(t, out.String(), "subjects  created=0")
}

func TestRunMigrate(t *testing.T) {
	dir := setupEnv(t)
	require.NoError(t, run(context.Background(), []string{"migrate"}, &bytes.Buffer{}))
	_, err := os.Stat(filepath.Join(dir, "frayer.db"))
	assert.NoError(t, err)
}
