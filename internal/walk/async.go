package allfiles

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// AsyncFiles is the result of WalkAsync. Each call to All starts an
// independent walk.
type AsyncFiles struct {
	root  string
	opts  Options
	stats atomic.Pointer[Stats]
}

// WalkAsync returns the files beneath root, found by listing every directory
// of a depth level concurrently. Nothing is read until the sequence is
// iterated.
func WalkAsync(root string, opts Options) *AsyncFiles {
	return &AsyncFiles{root: root, opts: opts}
}

// All yields file paths as listings complete. Paths discovered since the last
// wake-up are yielded most recent first; beyond that the order is
// unspecified. A filesystem error is yielded once with an empty path and ends
// the sequence.
//
// Stopping the iteration, or cancelling ctx, leaves listings already issued
// to complete in the background but schedules no further depth level.
func (f *AsyncFiles) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		opts := f.opts.withDefaults()
		if f.opts.Logger == nil {
			defer opts.Logger.Sync()
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stats := &Stats{}
		f.stats.Store(stats)
		start := time.Now()
		defer func() {
			stats.finish(start)
			opts.Logger.Debug("async walk finished", stats.snapshot().logFields()...)
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

		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}

		opts.Logger.Debug("starting async walk", zap.String("root", root), zap.Bool("resolve", opts.Resolve))

		w := &asyncWalker{
			ctx:      ctx,
			fs:       opts.FS,
			ex:       newExcluder(opts),
			logger:   opts.Logger,
			stats:    stats,
			notifier: newNotifier(),
		}
		w.traverse([]string{canonicalDir(root)})
		w.consume(ctx, yield)
	}
}

// Collect drains All into a slice. On failure it returns the paths produced
// before the error along with the error.
func (f *AsyncFiles) Collect(ctx context.Context) ([]string, error) {
	var paths []string
	for path, err := range f.All(ctx) {
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Stats returns the statistics of the most recent iteration.
func (f *AsyncFiles) Stats() Stats {
	if s := f.stats.Load(); s != nil {
		return s.snapshot()
	}
	return Stats{}
}

// asyncWalker is the state of one asynchronous walk. Nothing in it is shared
// with other walks.
type asyncWalker struct {
	ctx      context.Context
	fs       FS
	ex       excluder
	logger   *zap.Logger
	stats    *Stats
	notifier *notifier

	mu    sync.Mutex
	ready []string // discovered, not yet yielded
}

// batch is one depth level being listed.
type batch struct {
	next    []string // subdirectories found so far, guarded by asyncWalker.mu
	pending int      // listings still in flight, guarded by asyncWalker.mu
}

// traverse issues one listing per non-excluded directory in dirs. When dirs
// holds nothing to list the walk is finished.
func (w *asyncWalker) traverse(dirs []string) {
	if len(dirs) == 0 {
		w.notifier.finish()
		return
	}
	w.stats.addBatch()

	toList := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if w.ex.excluded(dir) {
			w.stats.addExcluded()
			w.logger.Debug("skipping excluded directory", zap.String("dir", dir))
			continue
		}
		toList = append(toList, dir)
	}
	if len(toList) == 0 {
		w.notifier.finish()
		return
	}

	w.logger.Debug("scheduling batch", zap.Int("dirs", len(toList)))

	b := &batch{pending: len(toList)}
	for _, dir := range toList {
		go w.list(dir, b)
	}
}

// list reads one directory, publishes its files and subdirectories, signals
// the consumer and, as the last listing of its batch, schedules the next one.
func (w *asyncWalker) list(dir string, b *batch) {
	entries, err := w.fs.ReadDir(dir)
	w.stats.addListed()
	if err != nil {
		w.logger.Debug("listing failed", zap.String("dir", dir), zap.Error(err))
		w.notifier.fail(newPathError("readdir", dir, err))
		return
	}

	var files, subdirs []string
	for _, entry := range entries {
		path := joinPath(dir, entry.Name)
		if entry.IsDir {
			subdirs = append(subdirs, path)
		} else {
			files = append(files, path)
		}
	}

	w.mu.Lock()
	w.ready = append(w.ready, files...)
	b.next = append(b.next, subdirs...)
	w.mu.Unlock()
	for range files {
		w.stats.addFile()
	}

	w.notifier.signal()

	w.mu.Lock()
	b.pending--
	last := b.pending == 0
	next := b.next
	w.mu.Unlock()

	if !last {
		return
	}
	if w.ctx.Err() != nil {
		w.logger.Debug("walk abandoned, not scheduling next batch", zap.Int("dirs", len(next)))
		w.notifier.finish()
		return
	}
	w.traverse(next)
}

// pop removes the most recently discovered path.
func (w *asyncWalker) pop() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.ready) == 0 {
		return "", false
	}
	path := w.ready[len(w.ready)-1]
	w.ready = w.ready[:len(w.ready)-1]
	return path, true
}

func (w *asyncWalker) empty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.ready) == 0
}

// consume waits for wake-ups and drains the ready buffer until the walk is
// done and nothing is left to yield.
func (w *asyncWalker) consume(ctx context.Context, yield func(string, error) bool) {
	for {
		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}
		if err := w.notifier.wait(ctx); err != nil {
			yield("", err)
			return
		}
		for {
			path, ok := w.pop()
			if !ok {
				break
			}
			if !yield(path, nil) {
				return
			}
		}
		if w.notifier.Done() && w.empty() {
			return
		}
	}
}
