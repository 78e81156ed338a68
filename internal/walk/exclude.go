package allfiles

import (
	"path/filepath"
)

// excluder decides whether a directory is skipped. It is built once per walk
// so the per-directory check is a function call and a map lookup.
type excluder struct {
	isExcluded func(string) bool
	dirs       map[string]struct{}
}

func newExcluder(opts Options) excluder {
	ex := excluder{isExcluded: opts.IsExcludedDir}
	if len(opts.ExcludedDirs) == 0 {
		return ex
	}
	ex.dirs = make(map[string]struct{}, len(opts.ExcludedDirs))
	for _, dir := range opts.ExcludedDirs {
		if opts.Resolve && !filepath.IsAbs(dir) {
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}
		}
		ex.dirs[NormalizeMatchPath(dir)] = struct{}{}
	}
	return ex
}

// excluded reports whether dir, a canonical directory path, must not be listed.
func (ex excluder) excluded(dir string) bool {
	if ex.isExcluded != nil && ex.isExcluded(dir) {
		return true
	}
	if ex.dirs == nil {
		return false
	}
	_, ok := ex.dirs[NormalizeMatchPath(dir)]
	return ok
}
