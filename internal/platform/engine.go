package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/herbcat/pkg/core"
)

// ErrNotWatchable is returned by Watch when the source cannot report changes.
var ErrNotWatchable = errors.New("source does not support watching")

// Engine is a Service bound to the source it was built from, so the catalog
// can be reloaded in place.
type Engine struct {
	*core.Service
	source core.Source
	logger *slog.Logger
}

// Source returns the catalog source.
func (e *Engine) Source() core.Source {
	return e.source
}

// Reload rebuilds the catalog from the source and swaps it in. On failure
// the current catalog stays active.
func (e *Engine) Reload(ctx context.Context) (*core.Catalog, error) {
	c, err := core.Build(ctx, e.source)
	if err != nil {
		return nil, err
	}
	e.Swap(c)
	return c, nil
}

// Watch reloads the catalog on every change reported by the source. Each
// attempt is reported as a RELOAD event (with the new revision) or an
// INVALID event (with the build error). The channel is closed when ctx is
// done or the source stops watching.
func (e *Engine) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := e.source.(core.Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	out := make(chan core.Event)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case change, ok := <-changes:
				if !ok {
					return nil
				}
				select {
				case out <- e.reloadFor(ctx, change):
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		e.logger.Error("reload loop failed", "error", err)
	}))
	return out, nil
}

func (e *Engine) reloadFor(ctx context.Context, change core.Event) core.Event {
	ev := core.Event{Path: change.Path, Timestamp: time.Now().Unix()}

	c, err := e.Reload(ctx)
	if err != nil {
		e.logger.Warn("catalog reload rejected, keeping previous revision",
			"path", change.Path, "revision", e.Catalog().Revision(), "error", err)
		ev.Type = core.EventInvalid
		ev.Err = err
		ev.Revision = e.Catalog().Revision()
		return ev
	}

	e.logger.Info("catalog reloaded", "path", change.Path, "revision", c.Revision())
	ev.Type = core.EventReload
	ev.Revision = c.Revision()
	return ev
}

// EngineState aggregates the state of the engine's components.
type EngineState struct {
	Service core.ServiceState `json:"service"`
	Catalog core.CatalogState `json:"catalog"`
	Source  any               `json:"source,omitempty"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	state := EngineState{
		Service: e.Service.State().(core.ServiceState),
		Catalog: e.Catalog().State().(core.CatalogState),
	}
	if src, ok := e.source.(introspection.Introspectable); ok {
		state.Source = src.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
