package rawstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestamp_Format(t *testing.T) {
	t.Parallel()

	got := Timestamp(time.Date(2026, 10, 5, 7, 8, 9, 0, time.UTC))
	if got != "2026-10-05_07-08-09" {
		t.Fatalf("unexpected timestamp: %s", got)
	}
}

func TestNewRunDir_NeverReusesDirectory(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "raw", "matches")
	now := time.Date(2026, 10, 5, 7, 8, 9, 0, time.UTC)

	first, err := NewRunDir(root, now)
	require.NoError(t, err)
	second, err := NewRunDir(root, now)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(root, "2026-10-05_07-08-09"), first)
	require.Equal(t, filepath.Join(root, "2026-10-05_07-08-09_2"), second)

	third, err := NewRunDir(root, now.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "2026-10-05_07-08-10"), third)
}

func TestCreateFile_NeverOverwrites(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "processed")
	now := time.Date(2026, 10, 5, 7, 8, 9, 0, time.UTC)

	first, err := CreateFile(dir, "matches_with_odds_", now)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first, []byte("[1]"), 0o644))

	second, err := CreateFile(dir, "matches_with_odds_", now)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "matches_with_odds_2026-10-05_07-08-09.json"), first)
	require.Equal(t, filepath.Join(dir, "matches_with_odds_2026-10-05_07-08-09_2.json"), second)

	raw, err := os.ReadFile(first)
	require.NoError(t, err)
	require.Equal(t, "[1]", string(raw))
}

func TestWriteJSON_IndentedRoundTrip(t *testing.T) {
	t.Parallel()

	type row struct {
		ID    string   `json:"id"`
		Names []string `json:"names"`
	}
	path := filepath.Join(t.TempDir(), "rows.json")

	require.NoError(t, WriteJSON(path, []row{{ID: "1", Names: []string{}}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	if !strings.Contains(string(raw), "\n  {\n    \"id\": \"1\",") {
		t.Fatalf("expected two-space indentation, got:\n%s", raw)
	}

	var got []row
	require.NoError(t, ReadJSON(path, &got))
	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)
	require.NotNil(t, got[0].Names)
}

func TestReadJSON_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0o644))

	var got []map[string]any
	if err := ReadJSON(path, &got); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	require.True(t, FileExists(path))
	require.False(t, FileExists(dir))
	require.False(t, FileExists(filepath.Join(dir, "missing.json")))
}
