package platform

import (
	"context"

	"github.com/aretw0/herbcat/pkg/core"
)

// New loads the catalog at uri and returns an Engine serving it.
//
//	eng, err := herbcat.New(ctx, "./catalog", herbcat.WithLogger(logger))
//
// The uri argument is adapter-specific (a directory for 'fs').
func New(ctx context.Context, uri string, opts ...Option) (*Engine, error) {
	o := apply(opts)

	src, err := newSource(uri, o)
	if err != nil {
		return nil, err
	}

	c, err := core.Build(ctx, src)
	if err != nil {
		return nil, err
	}

	log := logger(o)
	log.Debug("catalog built", "uri", uri, "revision", c.Revision(), "products", len(c.Products()))

	return &Engine{
		Service: core.NewService(c, core.ServiceConfig{Logger: log, NoCache: o.noMemo}),
		source:  src,
		logger:  log,
	}, nil
}
