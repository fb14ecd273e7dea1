package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/herbcat/pkg/core"
)

// options holds the internal configuration for an Engine.
type options struct {
	source      core.Source
	logger      *slog.Logger
	adapter     string
	noMemo      bool
	config      map[string]interface{}
	serializers map[string]any
}

// Option defines a functional option for configuring an Engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     "fs",
		config:      make(map[string]interface{}),
		serializers: make(map[string]any),
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSerializer registers a custom serializer for a specific extension.
// The serializer 's' must implement the adapter's Serializer interface (e.g. fs.Serializer).
// Validation happens when the source is built.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithMustExist makes Init fail when the catalog directory is missing
// instead of creating it.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the engine and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource injects a custom catalog source (e.g. core.SpecSource in tests).
// If provided, the default filesystem adapter will be skipped.
func WithSource(src core.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithAdapter selects the source adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory holding the parse cache.
// Defaults to ".herbcat" (handled by the adapter).
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithNoCache disables the on-disk parse cache.
func WithNoCache(disabled bool) Option {
	return func(o *options) {
		o.config["no_cache"] = disabled
	}
}

// WithNoMemo disables memoization of resolved documents in the service.
func WithNoMemo(disabled bool) Option {
	return func(o *options) {
		o.noMemo = disabled
	}
}

// WithDebounce sets how long the watcher waits for a burst of file changes
// to settle before reloading.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.config["debounce"] = d
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop (e.g. permission denied), which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
