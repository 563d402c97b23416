package infra

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupStampLayout sorts lexically in time order, to the second.
const BackupStampLayout = "20060102_150405"

func ensureDir(path string) error { return os.MkdirAll(path, 0o755) }

func splitName(path string) (dir, stem, ext string) {
	dir, base := filepath.Split(path)
	ext = filepath.Ext(base)
	return dir, strings.TrimSuffix(base, ext), ext
}

// BackupPath names the backup of source taken at now:
// <dir>/<stem>.backup-YYYYMMDD_HHMMSS<ext>. An empty dir means the
// directory of source.
func BackupPath(source, dir string, now time.Time) string {
	srcDir, stem, ext := splitName(source)
	if dir == "" {
		dir = srcDir
	}
	return filepath.Join(dir, stem+".backup-"+now.Format(BackupStampLayout)+ext)
}

// OutputPath tags source with suffix before its extension:
// "Imm supabase.json" + ".migrated" -> "Imm supabase.migrated.json".
func OutputPath(source, suffix string) string {
	dir, stem, ext := splitName(source)
	return filepath.Join(dir, stem+suffix+ext)
}

// withSuffix inserts tag right before the extension of path.
func withSuffix(path, tag string) string {
	dir, stem, ext := splitName(path)
	return filepath.Join(dir, stem+tag+ext)
}

// SamePath reports whether a and b name the same file. Existing files are
// compared with os.SameFile so links and case-folding file systems are
// handled; otherwise the cleaned absolute paths are compared.
func SamePath(a, b string) bool {
	if ai, err := os.Stat(a); err == nil {
		if bi, err := os.Stat(b); err == nil {
			return os.SameFile(ai, bi)
		}
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
