package allfiles

import (
	"os"

	"github.com/karrick/godirwalk"
	"github.com/spf13/afero"
)

// Entry is one result of a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// FS is the filesystem the walkers read from. Implementations must not follow
// symbolic links: a link to a directory is reported as a non-directory.
// Errors are returned as-is; the walkers wrap them in a *PathError.
type FS interface {
	// ReadDir lists the entries of the directory at path.
	ReadDir(path string) ([]Entry, error)

	// IsDir reports whether path is a directory without following a final
	// symbolic link.
	IsDir(path string) (bool, error)
}

// OSFS reads the operating system filesystem through godirwalk.
type OSFS struct{}

// ReadDir lists path using a fresh scratch buffer, so concurrent calls from
// the asynchronous walker never share memory.
func (OSFS) ReadDir(path string) ([]Entry, error) {
	dirents, err := godirwalk.ReadDirents(path, nil)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		entries = append(entries, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return entries, nil
}

// IsDir lstats path.
func (OSFS) IsDir(path string) (bool, error) {
	de, err := godirwalk.NewDirent(path)
	if err != nil {
		return false, err
	}
	return de.IsDir(), nil
}

// AferoFS adapts an afero filesystem, which makes in-memory trees and
// base-path sandboxes usable as walk roots.
type AferoFS struct {
	Fs afero.Fs
}

// NewAferoFS wraps fs.
func NewAferoFS(fs afero.Fs) AferoFS {
	return AferoFS{Fs: fs}
}

// ReadDir lists path with afero.ReadDir.
func (a AferoFS) ReadDir(path string) ([]Entry, error) {
	infos, err := afero.ReadDir(a.Fs, path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{Name: info.Name(), IsDir: info.IsDir()})
	}
	return entries, nil
}

// IsDir lstats path when the underlying filesystem supports it and stats it
// otherwise.
func (a AferoFS) IsDir(path string) (bool, error) {
	var (
		info os.FileInfo
		err  error
	)
	if lst, ok := a.Fs.(afero.Lstater); ok {
		info, _, err = lst.LstatIfPossible(path)
	} else {
		info, err = a.Fs.Stat(path)
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
