package herbcat

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/herbcat/internal/platform"
	"github.com/aretw0/herbcat/pkg/core"
	"github.com/aretw0/herbcat/pkg/typed"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Engine is a catalog service bound to its source, able to reload and watch it.
type Engine = platform.Engine

// EngineState is the introspection snapshot of an Engine.
type EngineState = platform.EngineState

// Core types, re-exported for callers that only import the root package.
type (
	Locale     = core.Locale
	ProductKey = core.ProductKey
	Document   = core.Document
	Money      = core.Money
	Quote      = core.Quote
	Event      = core.Event
)

const (
	LocaleDefault   = core.LocaleDefault
	LocaleAlternate = core.LocaleAlternate
)

// SectionModel is a public alias for a decoded section.
type SectionModel[T any] = typed.SectionModel[T]

// View is a public alias for the typed section view.
type View[T any] = typed.View[T]

// Page is a public alias for the typed model of a full product page.
type Page = typed.Page

// ErrNotWatchable is returned by Engine.Watch for sources that cannot report changes.
var ErrNotWatchable = platform.ErrNotWatchable

// ErrRootNotFound is returned by FindRoot when no catalog is found.
var ErrRootNotFound = platform.ErrRootNotFound

// --- Configuration ---

// Option defines a functional option for configuring an Engine.
type Option = platform.Option

// WithMustExist makes Init fail when the catalog directory is missing.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSource allows injecting a custom catalog source.
func WithSource(src core.Source) Option {
	return platform.WithSource(src)
}

// WithAdapter allows specifying the source adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSerializer registers a parser for an extension in the fs adapter.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".herbcat").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithNoCache disables the on-disk parse cache.
func WithNoCache(disabled bool) Option {
	return platform.WithNoCache(disabled)
}

// WithNoMemo disables memoization of resolved documents.
func WithNoMemo(disabled bool) Option {
	return platform.WithNoMemo(disabled)
}

// WithDebounce sets the quiet period the watcher waits for before reloading.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithWatcherErrorHandler registers a callback for watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New loads the catalog at path and returns an Engine serving it.
func New(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	return platform.New(ctx, path, opts...)
}

// Init scaffolds a starter catalog at path.
func Init(ctx context.Context, path string, opts ...Option) ([]string, error) {
	return platform.Init(ctx, path, opts...)
}

// FindRoot recursively looks upwards for a catalog root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Typed Access ---

// NewView creates a typed view of one section.
func NewView[T any](r typed.Resolver, section string) *typed.View[T] {
	return typed.NewView[T](r, section)
}

// GetPage resolves every section of a product page into its typed model.
func GetPage(r typed.Resolver, key ProductKey, loc Locale) (Page, error) {
	return typed.GetPage(r, key, loc)
}
