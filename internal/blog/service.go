// Package blog assembles posts from the content store and answers listing,
// filtering, aggregation and relatedness queries over them.
//
// Nothing is cached: every call re-reads the store, so results always
// reflect the files on disk.
package blog

import (
	"log/slog"
	"time"

	"github.com/starford/inkwell/internal/readtime"
	"github.com/starford/inkwell/internal/storage"
)

// Defaults are the attribute values used when a post does not author them.
type Defaults struct {
	Title    string
	Author   string
	Category string
}

// BuiltinDefaults are used unless WithDefaults overrides them.
var BuiltinDefaults = Defaults{
	Title:    "Untitled",
	Author:   "RapidPro Memphis",
	Category: "General",
}

// DefaultWorkers bounds how many posts are assembled concurrently.
const DefaultWorkers = 8

// Service is the content engine. It holds configuration only.
type Service struct {
	store       storage.Provider
	clock       func() time.Time
	logger      *slog.Logger
	defaults    Defaults
	wpm         int
	workers     int
	requireDate bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for posts without a date.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaults overrides the fallback attribute values. Empty fields keep
// the built-in value.
func WithDefaults(d Defaults) Option {
	return func(s *Service) {
		if d.Title != "" {
			s.defaults.Title = d.Title
		}
		if d.Author != "" {
			s.defaults.Author = d.Author
		}
		if d.Category != "" {
			s.defaults.Category = d.Category
		}
	}
}

// WithWordsPerMinute sets the reading speed for reading-time labels.
func WithWordsPerMinute(wpm int) Option {
	return func(s *Service) {
		if wpm > 0 {
			s.wpm = wpm
		}
	}
}

// WithWorkers bounds concurrent post assembly.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRequireDate makes a missing date a parse failure instead of
// defaulting it to the current time.
func WithRequireDate(require bool) Option {
	return func(s *Service) {
		s.requireDate = require
	}
}

// NewService creates a content engine reading from store.
func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		clock:    time.Now,
		logger:   slog.Default(),
		defaults: BuiltinDefaults,
		wpm:      readtime.DefaultWordsPerMinute,
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
