package rawstore

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

// TimestampLayout sorts lexically in chronological order.
const TimestampLayout = "2006-01-02_15-04-05"

// maxCollisionSuffix bounds the _2, _3, ... suffixes tried for one second.
const maxCollisionSuffix = 1000

func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// NewRunDir creates root/<timestamp> for a new fetch run. Runs never share a
// directory: when the name is taken a numeric suffix is appended.
func NewRunDir(root string, now time.Time) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", crerr.Wrapf(err, "create raw root %s", root)
	}

	base := Timestamp(now)
	for attempt := 1; attempt <= maxCollisionSuffix; attempt++ {
		dir := filepath.Join(root, withSuffix(base, attempt))
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !crerr.Is(err, fs.ErrExist) {
			return "", crerr.Wrapf(err, "create run dir %s", dir)
		}
	}

	return "", crerr.Newf("no free run dir for %s under %s", base, root)
}

// CreateFile exclusively creates dir/<prefix><timestamp>.json and returns its path.
func CreateFile(dir, prefix string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", crerr.Wrapf(err, "create dir %s", dir)
	}

	base := prefix + Timestamp(now)
	for attempt := 1; attempt <= maxCollisionSuffix; attempt++ {
		path := filepath.Join(dir, withSuffix(base, attempt)+".json")
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			if closeErr := f.Close(); closeErr != nil {
				return "", crerr.Wrapf(closeErr, "close %s", path)
			}
			return path, nil
		}
		if !crerr.Is(err, fs.ErrExist) {
			return "", crerr.Wrapf(err, "create file %s", path)
		}
	}

	return "", crerr.Newf("no free file name for %s under %s", base, dir)
}

// WriteJSON writes v as a two-space indented JSON document.
func WriteJSON(path string, v any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigStd.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return crerr.Wrapf(err, "encode %s", filepath.Base(path))
	}

	if err := os.WriteFile(path, buf.B, 0o644); err != nil {
		return crerr.Wrapf(err, "write %s", path)
	}
	return nil
}

func ReadJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return crerr.Wrapf(err, "read %s", path)
	}
	if err := sonic.ConfigStd.Unmarshal(raw, v); err != nil {
		return crerr.Wrapf(err, "decode %s", path)
	}
	return nil
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func withSuffix(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return base + "_" + strconv.Itoa(attempt)
}
