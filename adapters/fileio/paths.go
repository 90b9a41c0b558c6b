package fileio

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// AllowedExtensions are the dataset file types the service accepts.
var AllowedExtensions = map[string]bool{".csv": true, ".xls": true, ".xlsx": true}

var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SecureFilename strips any directory components from an uploaded filename,
// replaces unsafe characters, and checks the extension whitelist.
func SecureFilename(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = filenameSanitizer.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "", fmt.Errorf("invalid filename")
	}
	ext := strings.ToLower(filepath.Ext(base))
	if !AllowedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type %q: only .csv, .xls, .xlsx are supported", ext)
	}
	return base, nil
}

// ResolveUnder resolves a caller-supplied relative path against baseDir and
// verifies it lands inside one of the allowed directories. Absolute paths
// and traversal out of the allowed directories are rejected.
func ResolveUnder(relPath, baseDir string, allowedDirs ...string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("file path is required")
	}
	norm := filepath.Clean(relPath)
	if filepath.IsAbs(norm) {
		return "", fmt.Errorf("absolute paths are not allowed; use a relative path under the data directories")
	}
	abs := filepath.Join(baseDir, norm)
	for _, dir := range allowedDirs {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("invalid file path %q: must be inside the data directories", relPath)
}
