package walk

import (
	internal "github.com/TFMV/allfiles/internal/walk"
	"github.com/spf13/afero"
)

// Re-export the types from the internal package
type (
	// Options configures a single walk.
	Options = internal.Options

	// Files is the lazy, restartable result of WalkSync.
	Files = internal.Files

	// AsyncFiles is the result of WalkAsync.
	AsyncFiles = internal.AsyncFiles

	// Stats holds walk statistics.
	Stats = internal.Stats

	// FS is the filesystem a walk reads from.
	FS = internal.FS

	// Entry is one result of a directory listing.
	Entry = internal.Entry

	// OSFS reads the operating system filesystem.
	OSFS = internal.OSFS

	// AferoFS adapts an afero filesystem.
	AferoFS = internal.AferoFS

	// PathError records a failed filesystem operation.
	PathError = internal.PathError

	// ErrorKind classifies filesystem failures.
	ErrorKind = internal.ErrorKind

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel
)

// Re-export all the constants
const (
	// Error kinds
	KindOtherIO          = internal.KindOtherIO
	KindNotFound         = internal.KindNotFound
	KindPermissionDenied = internal.KindPermissionDenied

	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug
)

// WalkSync returns the files beneath root, found depth-first.
func WalkSync(root string, opts Options) *Files {
	return internal.WalkSync(root, opts)
}

// WalkAsync returns the files beneath root, found one depth level at a time
// with every directory of a level listed concurrently.
func WalkAsync(root string, opts Options) *AsyncFiles {
	return internal.WalkAsync(root, opts)
}

// NormalizeRoot returns root unchanged, or absolute when resolve is set.
func NormalizeRoot(root string, resolve bool) (string, error) {
	return internal.NormalizeRoot(root, resolve)
}

// NewAferoFS wraps an afero filesystem so it can be walked.
func NewAferoFS(fs afero.Fs) AferoFS {
	return internal.NewAferoFS(fs)
}

// KindOf returns the kind of the first *PathError in err's chain.
func KindOf(err error) ErrorKind {
	return internal.KindOf(err)
}

// FormatPath replaces {}, {base}, {dir} and {ext} in template with parts of path.
func FormatPath(template, path string) string {
	return internal.FormatPath(template, path)
}

// ExcludeDirs returns an exclusion predicate matching exactly the given
// directory paths, after the same normalization ExcludedDirs applies.
func ExcludeDirs(dirs ...string) func(string) bool {
	set := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		set[internal.NormalizeMatchPath(dir)] = struct{}{}
	}
	return func(dir string) bool {
		_, ok := set[internal.NormalizeMatchPath(dir)]
		return ok
	}
}
