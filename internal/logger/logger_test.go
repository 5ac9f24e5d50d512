package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log, closeFn, err := New(dir, "info", 3)
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("hello")
	require.NoError(t, log.Sync())
	require.NoError(t, closeFn())

	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	require.NoError(t, err)
	require.Len(t, files, 1)

	b, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(b, &line), "exactly one JSON line: %s", b)
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "INFO", line["level"])
	require.Contains(t, line, "timestamp")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, _, err := New(t.TempDir(), "chatty", 3)
	require.Error(t, err)
}

func TestOpenFile_KeepsNewest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		f, err := openFile(dir, base.Add(time.Duration(i)*time.Minute), 2)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "glnotes-2024-01-01T00-02-00.000.log"),
		filepath.Join(dir, "glnotes-2024-01-01T00-03-00.000.log"),
	}, files)
}
