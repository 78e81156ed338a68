// Package allfiles enumerates every non-directory entry beneath a root path,
// either with a lazy depth-first walk or with a level-by-level concurrent walk.
package allfiles

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// --------------------------------------------------------------------------
// Configuration types
// --------------------------------------------------------------------------

// LogLevel defines the verbosity of logging.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Options configures a single walk. The zero value walks the OS filesystem,
// keeps paths relative and excludes nothing.
type Options struct {
	// Resolve turns the root (and therefore every yielded path) into an
	// absolute path before the walk starts.
	Resolve bool

	// IsExcludedDir is called with the canonical path of every directory
	// before it is listed. Returning true skips the directory and everything
	// beneath it. Nil excludes nothing.
	IsExcludedDir func(dir string) bool

	// ExcludedDirs lists directory paths to skip. Entries are compared after
	// separator, trailing slash and Unicode normalization.
	ExcludedDirs []string

	FS       FS          // Filesystem collaborator, OSFS when nil
	Logger   *zap.Logger // Logger, built from LogLevel when nil
	LogLevel LogLevel
}

// withDefaults resolves the optional capabilities once, at walk start.
func (o Options) withDefaults() Options {
	if o.FS == nil {
		o.FS = OSFS{}
	}
	if o.Logger == nil {
		o.Logger = createLogger(o.LogLevel)
	}
	return o
}

// --------------------------------------------------------------------------
// Statistics
// --------------------------------------------------------------------------

// Stats holds walk statistics that are updated atomically during the walk.
type Stats struct {
	FilesFound   int64         // Number of file paths produced
	DirsListed   int64         // Number of listing calls issued
	DirsExcluded int64         // Number of directories skipped by exclusion
	Batches      int64         // Number of depth levels scheduled (async only)
	ElapsedTime  time.Duration // Total time elapsed
}

func (s *Stats) addFile()     { atomic.AddInt64(&s.FilesFound, 1) }
func (s *Stats) addListed()   { atomic.AddInt64(&s.DirsListed, 1) }
func (s *Stats) addExcluded() { atomic.AddInt64(&s.DirsExcluded, 1) }
func (s *Stats) addBatch()    { atomic.AddInt64(&s.Batches, 1) }

// snapshot returns a copy that is safe to read while the walk is running.
func (s *Stats) snapshot() Stats {
	return Stats{
		FilesFound:   atomic.LoadInt64(&s.FilesFound),
		DirsListed:   atomic.LoadInt64(&s.DirsListed),
		DirsExcluded: atomic.LoadInt64(&s.DirsExcluded),
		Batches:      atomic.LoadInt64(&s.Batches),
		ElapsedTime:  time.Duration(atomic.LoadInt64((*int64)(&s.ElapsedTime))),
	}
}

func (s *Stats) finish(start time.Time) {
	atomic.StoreInt64((*int64)(&s.ElapsedTime), int64(time.Since(start)))
}

// logFields renders the statistics as zap fields.
func (s Stats) logFields() []zap.Field {
	return []zap.Field{
		zap.Int64("files", s.FilesFound),
		zap.Int64("dirs_listed", s.DirsListed),
		zap.Int64("dirs_excluded", s.DirsExcluded),
		zap.Int64("batches", s.Batches),
		zap.Duration("elapsed", s.ElapsedTime),
	}
}

// createLogger creates a zap logger with the specified log level.
func createLogger(level LogLevel) *zap.Logger {
	var config zap.Config

	switch level {
	case LogLevelError:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case LogLevelWarn:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelInfo:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LogLevelDebug:
		config = zap.NewDevelopmentConfig() // More detailed output for debugging
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
