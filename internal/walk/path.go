package allfiles

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeRoot returns root unchanged, or its absolute, cleaned form when
// resolve is set.
func NormalizeRoot(root string, resolve bool) (string, error) {
	if !resolve {
		return root, nil
	}
	return filepath.Abs(root)
}

// canonicalDir is the form every directory path takes inside a walk: clean,
// forward-slash separated and without a trailing separator.
func canonicalDir(dir string) string {
	return filepath.ToSlash(filepath.Clean(dir))
}

// joinPath builds the path of an entry found in dir. dir is already canonical,
// so the result is canonical too.
func joinPath(dir, name string) string {
	return filepath.ToSlash(filepath.Join(dir, name))
}

// NormalizeMatchPath brings a path into the form used to compare against
// ExcludedDirs: forward slashes, cleaned, no trailing slash, NFC.
func NormalizeMatchPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return norm.NFC.String(p)
}
