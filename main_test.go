package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "cache_dir = \"" + filepath.Join(dir, "cache") + "\"\nproviders = []\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "usage: lyricbar")
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", writeTestConfig(t), "sing"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), `unknown command "sing"`)
}

func TestRun_MissingFiles(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", writeTestConfig(t), "get"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "get: no files given")
}

func TestRun_Cache(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", writeTestConfig(t), "cache"}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "0 entries")
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`providers = ["nope"]`), 0o600); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", path, "cache"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Failed to load configuration")
}

func TestRun_BadLogLevelFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", writeTestConfig(t), "-log-level", "loud", "cache"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown log level")
}
