// Package rawstore keeps fetch runs on disk as timestamped directories and
// finds the newest one again.
package rawstore

import (
	"os"
	"path/filepath"
)

// LatestSubdir returns the immediate subdirectory of root with the newest
// modification time. A missing or unreadable root, or one without
// subdirectories, yields ok=false.
func LatestSubdir(root string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}

	var (
		latest   string
		latestAt int64
		found    bool
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		modAt := info.ModTime().UnixNano()
		if !found || modAt > latestAt {
			latest = filepath.Join(root, entry.Name())
			latestAt = modAt
			found = true
		}
	}

	return latest, found
}
