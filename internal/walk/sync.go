package allfiles

import (
	"iter"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Files is the lazy result of WalkSync. Every call to All runs the traversal
// again from scratch.
type Files struct {
	root  string
	opts  Options
	stats atomic.Pointer[Stats]
}

// WalkSync returns the files beneath root. Nothing is read until the sequence
// is iterated.
func WalkSync(root string, opts Options) *Files {
	return &Files{root: root, opts: opts}
}

// All yields every file path depth-first, in listing order. A filesystem
// error is yielded once with an empty path and ends the sequence.
func (f *Files) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		opts := f.opts.withDefaults()
		if f.opts.Logger == nil {
			defer opts.Logger.Sync()
		}

		stats := &Stats{}
		f.stats.Store(stats)
		start := time.Now()
		defer func() {
			stats.finish(start)
			opts.Logger.Debug("sync walk finished", stats.snapshot().logFields()...)
		}()

		root, err := NormalizeRoot(f.root, opts.Resolve)
		if err != nil {
			yield("", newPathError("resolve", f.root, err))
			return
		}

		isDir, err := opts.FS.IsDir(root)
		if err != nil {
			yield("", newPathError("lstat", root, err))
			return
		}
		if !isDir {
			stats.addFile()
			yield(root, nil)
			return
		}

		opts.Logger.Debug("starting sync walk", zap.String("root", root), zap.Bool("resolve", opts.Resolve))

		w := &syncWalker{
			fs:     opts.FS,
			ex:     newExcluder(opts),
			logger: opts.Logger,
			stats:  stats,
			yield:  yield,
		}
		w.walk(canonicalDir(root))
	}
}

// Collect drains All into a slice. On failure it returns the paths produced
// before the error along with the error.
func (f *Files) Collect() ([]string, error) {
	var paths []string
	for path, err := range f.All() {
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Stats returns the statistics of the most recent iteration.
func (f *Files) Stats() Stats {
	if s := f.stats.Load(); s != nil {
		return s.snapshot()
	}
	return Stats{}
}

// syncWalker holds the state of one depth-first traversal.
type syncWalker struct {
	fs     FS
	ex     excluder
	logger *zap.Logger
	stats  *Stats
	yield  func(string, error) bool
}

// walk lists dir and descends into its subdirectories. It returns false once
// the consumer stopped or an error was yielded.
func (w *syncWalker) walk(dir string) bool {
	if w.ex.excluded(dir) {
		w.stats.addExcluded()
		w.logger.Debug("skipping excluded directory", zap.String("dir", dir))
		return true
	}

	entries, err := w.fs.ReadDir(dir)
	w.stats.addListed()
	if err != nil {
		w.yield("", newPathError("readdir", dir, err))
		return false
	}

	for _, entry := range entries {
		path := joinPath(dir, entry.Name)
		if entry.IsDir {
			if !w.walk(path) {
				return false
			}
			continue
		}
		w.stats.addFile()
		if !w.yield(path, nil) {
			return false
		}
	}
	return true
}
