package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/tasklist/internal/config"
	"github.com/BuzzLyutic/tasklist/internal/repo"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		LogLevel: "warn",
		Storage:  config.Storage{Driver: "file", Dir: t.TempDir(), Key: "tasks"},
	}
}

func run(t *testing.T, cfg config.Config, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, &out, &errOut, cfg, repo.Open)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestCLI_AddAndList(t *testing.T) {
	cfg := testConfig(t)

	res := run(t, cfg, "add", "--date", "2024-01-01T10:00", "--priority", "low", "Buy", "milk")
	require.Equal(t, ExitOK, res.code, res.stderr)
	id := strings.TrimSpace(res.stdout)
	assert.NotEmpty(t, id)
	assert.Equal(t, "Task added successfully\n", res.stderr)

	res = run(t, cfg, "ls")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "   1  [ ] Buy milk  2024-01-01T10:00  low  "+shortID(id)+"\n", res.stdout)
}

func TestCLI_DoneEditMoveRemove(t *testing.T) {
	cfg := testConfig(t)
	for _, args := range [][]string{
		{"add", "-d", "2024-01-01T10:00", "first"},
		{"add", "-d", "2024-01-03T10:00", "second"},
		{"add", "-d", "2024-01-02T10:00", "third"},
	} {
		require.Equal(t, ExitOK, run(t, cfg, args...).code)
	}

	res := run(t, cfg, "done", "2")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "Task completed\n", res.stderr)

	res = run(t, cfg, "ls", "--filter", "completed")
	require.Len(t, lines(res.stdout), 1)
	assert.Contains(t, res.stdout, "   2  [x] second")

	res = run(t, cfg, "edit", "1", "--title", "first, renamed", "-p", "high")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "Task updated successfully\n", res.stderr)

	res = run(t, cfg, "ls", "--sort", "date")
	got := lines(res.stdout)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "second")
	assert.Contains(t, got[1], "third")
	assert.Contains(t, got[2], "first, renamed  2024-01-01T10:00  high", "unset flags keep their value")

	require.Equal(t, ExitOK, run(t, cfg, "move", "3").code)
	got = lines(run(t, cfg, "ls").stdout)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "   1  [ ] third")
	assert.Contains(t, got[1], "   2  [ ] first, renamed")
	assert.Contains(t, got[2], "   3  [x] second")

	res = run(t, cfg, "rm", "1", "2")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "Task deleted\nTask deleted\n", res.stderr)

	got = lines(run(t, cfg, "ls").stdout)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "second")
}

func TestCLI_Errors(t *testing.T) {
	cfg := testConfig(t)
	require.Equal(t, ExitOK, run(t, cfg, "add", "-d", "2024-01-01", "only").code)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "add without title", args: []string{"add"}, wantCode: ExitUserError},
		{name: "blank title", args: []string{"add", "  "}, wantCode: ExitUserError, wantErr: "title is required"},
		{name: "bad date", args: []string{"add", "-d", "whenever", "x"}, wantCode: ExitUserError, wantErr: "unparseable date"},
		{name: "bad priority", args: []string{"add", "-p", "urgent", "x"}, wantCode: ExitUserError, wantErr: "unknown priority"},
		{name: "unknown number", args: []string{"done", "9"}, wantCode: ExitUserError, wantErr: "task not found"},
		{name: "unknown id", args: []string{"rm", "nope-nope"}, wantCode: ExitUserError, wantErr: "task not found"},
		{name: "bad filter", args: []string{"ls", "-f", "archived"}, wantCode: ExitUserError, wantErr: "unknown filter"},
		{name: "unknown flag", args: []string{"ls", "--colour"}, wantCode: ExitUserError},
		{name: "bad export format", args: []string{"export", "--format", "csv"}, wantCode: ExitUserError, wantErr: "unsupported export format"},
		{name: "bad storage", args: []string{"ls", "--storage", "etcd"}, wantCode: ExitError, wantErr: "unknown storage driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, cfg, tt.args...)
			assert.Equal(t, tt.wantCode, res.code, res.stderr)
			assert.Contains(t, res.stderr, "error:")
			if tt.wantErr != "" {
				assert.Contains(t, res.stderr, tt.wantErr)
			}
		})
	}

	assert.Len(t, lines(run(t, cfg, "ls").stdout), 1, "failed commands must not change the list")
}

func TestCLI_Quiet(t *testing.T) {
	cfg := testConfig(t)

	res := run(t, cfg, "-q", "add", "-d", "2024-01-01", "silent")
	require.Equal(t, ExitOK, res.code)
	assert.Empty(t, res.stderr)
}

func TestCLI_ExportAndStats(t *testing.T) {
	cfg := testConfig(t)
	require.Equal(t, ExitOK, run(t, cfg, "add", "-d", "2024-01-01", "-p", "high", "ship it").code)
	require.Equal(t, ExitOK, run(t, cfg, "add", "-d", "2024-01-02", "rest").code)
	require.Equal(t, ExitOK, run(t, cfg, "done", "2").code)

	res := run(t, cfg, "export", "--format", "yaml", "--filter", "incomplete")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "title: ship it")
	assert.NotContains(t, res.stdout, "rest")

	res = run(t, cfg, "stats")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, []string{
		"total       2",
		"completed   1",
		"incomplete  1",
		"high        1",
		"medium      1",
		"low         0",
	}, lines(res.stdout))
}

func TestCLI_CorruptStorageRecovers(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.Dir, "tasks.json"), []byte("{oops"), 0o644))

	res := run(t, cfg, "ls")
	assert.Equal(t, ExitOK, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "error: Saved tasks were unreadable and have been reset")

	require.Equal(t, ExitOK, run(t, cfg, "add", "-d", "2024-01-01", "fresh start").code)
	assert.Len(t, lines(run(t, cfg, "ls").stdout), 1)
}

func TestCLI_ListsAreSeparate(t *testing.T) {
	cfg := testConfig(t)
	require.Equal(t, ExitOK, run(t, cfg, "--list", "work", "add", "-d", "2024-01-01", "report").code)

	assert.Empty(t, run(t, cfg, "ls").stdout)
	assert.Contains(t, run(t, cfg, "--list", "work", "ls").stdout, "report")
}
