package core

import "context"

// Source loads the raw catalog material. Adhering to this interface keeps the
// core independent of where content lives (directory, embedded FS, tests).
type Source interface {
	// Load reads the whole catalog.
	Load(ctx context.Context) (Spec, error)
}

// Watchable defines an interface for sources that can report changes.
type Watchable interface {
	// Watch emits an Event each time the source changes and has been reloaded.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Build loads src and builds a Catalog from it.
func Build(ctx context.Context, src Source) (*Catalog, error) {
	spec, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(spec)
}

// SpecSource serves a fixed Spec, useful for tests and embedded catalogs.
type SpecSource Spec

// Load implements Source.
func (s SpecSource) Load(ctx context.Context) (Spec, error) {
	if err := ctx.Err(); err != nil {
		return Spec{}, err
	}
	return Spec(s), nil
}
