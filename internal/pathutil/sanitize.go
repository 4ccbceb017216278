package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SafeJoin joins rel onto root and returns the cleaned absolute path.
// It rejects results outside root and existing symlinks. New files in
// existing or missing directories are accepted.
func SafeJoin(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}
	joined := filepath.Join(absRoot, filepath.FromSlash(rel))
	if joined != absRoot && !strings.HasPrefix(joined, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("pathutil: path escapes output directory: %s", rel)
	}

	info, err := os.Lstat(joined)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", joined)
		}
	case os.IsNotExist(err):
		// New file.
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}
	return joined, nil
}
