package service

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quill/app/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	f()

	w.Close()
	os.Stdout = oldStdout
	<-done
	return buf.String()
}

// setupTestDirs points the commands at a scratch database and session store.
func setupTestDirs(t *testing.T) (dbFile, sessionDir string) {
	t.Helper()
	for _, k := range []string{"QUILL_CONFIG", "QUILL_DATABASE_PATH", "QUILL_SESSION_DIR", "QUILL_SENTRY_DSN"} {
		t.Setenv(k, "")
	}
	tmpDir := t.TempDir()
	return filepath.Join(tmpDir, "posts.db"), filepath.Join(tmpDir, "sessions")
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "no arguments",
			args:           []string{},
			expectedOutput: "Usage: quill <command> [options]",
			expectedExit:   1,
		},
		{
			name:           "help command",
			args:           []string{"help"},
			expectedOutput: "clean-sessions",
			expectedExit:   0,
		},
		{
			name:           "version command",
			args:           []string{"version"},
			expectedOutput: "quill version " + Version,
			expectedExit:   0,
		},
		{
			name:           "unknown command",
			args:           []string{"unknown"},
			expectedOutput: "Unknown command: unknown",
			expectedExit:   1,
		},
		{
			name:           "backup without file",
			args:           []string{"backup"},
			expectedOutput: "Error: destination file required for backup",
			expectedExit:   1,
		},
		{
			name:           "serve with a bad flag",
			args:           []string{"serve", "-no-such-flag"},
			expectedOutput: "Error:",
			expectedExit:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitCode int
			output := captureOutput(func() {
				exitCode = HandleCommand(tt.args)
			})

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestMigrate(t *testing.T) {
	dbFile, _ := setupTestDirs(t)

	for range 2 {
		var code int
		output := captureOutput(func() {
			code = HandleCommand([]string{"migrate", "-db", dbFile})
		})
		assert.Equal(t, 0, code)
		assert.Contains(t, output, "is up to date")
	}
	assert.FileExists(t, dbFile)
}

func TestBackup(t *testing.T) {
	dbFile, _ := setupTestDirs(t)
	dest := filepath.Join(t.TempDir(), "backup.db")

	t.Run("writes a copy", func(t *testing.T) {
		var code int
		output := captureOutput(func() {
			code = HandleCommand([]string{"backup", dest, "-db", dbFile})
		})
		assert.Equal(t, 0, code)
		assert.Contains(t, output, "Database backed up successfully")
		assert.FileExists(t, dest)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		var code int
		output := captureOutput(func() {
			code = HandleCommand([]string{"backup", dest, "-db", dbFile})
		})
		assert.Equal(t, 1, code)
		assert.Contains(t, output, "Failed to backup database")
	})
}

func TestCleanSessions(t *testing.T) {
	_, sessionDir := setupTestDirs(t)

	store, err := auth.OpenSessionStore(sessionDir, time.Hour)
	require.NoError(t, err)
	for range 3 {
		_, err := store.New()
		require.NoError(t, err)
	}
	require.NoError(t, store.Close())

	var code int
	output := captureOutput(func() {
		code = HandleCommand([]string{"clean-sessions", "-sessions", sessionDir})
	})
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "Removed 3 sessions")

	store, err = auth.OpenSessionStore(sessionDir, time.Hour)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
