package wdf

import "log/slog"

// DefaultMaxEntries is the default upper bound on the entity count.
const DefaultMaxEntries = 1 << 20

// Option configures an Archive.
type Option func(*Archive)

// WithCategory sets the archive category. It prefixes synthesized paths
// and is passed to decode policies. By default there is no category.
func WithCategory(name string) Option {
	return func(a *Archive) {
		a.category = name
	}
}

// WithMaxEntries limits the entity count accepted from the header.
// Set limit to 0 to disable the limit.
func WithMaxEntries(limit uint32) Option {
	return func(a *Archive) {
		a.maxEntries = limit
	}
}

// WithLogger sets the logger for archive operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}
