package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/herbcat/pkg/adapters/fs"
	"github.com/aretw0/herbcat/pkg/core"
)

// Init scaffolds a starter catalog at uri and returns the files it created.
// Existing files are never overwritten.
func Init(ctx context.Context, uri string, opts ...Option) ([]string, error) {
	o := apply(opts)
	if o.adapter != "fs" {
		return nil, fmt.Errorf("adapter %s does not support init", o.adapter)
	}
	repo, err := initFS(uri, o)
	if err != nil {
		return nil, err
	}
	return repo.Initialize(ctx)
}

// newSource picks the catalog source: an injected one, or the named adapter.
func newSource(uri string, o *options) (core.Source, error) {
	if o.source != nil {
		return o.source, nil
	}

	switch o.adapter {
	case "fs":
		return initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS maps the options onto the filesystem adapter configuration.
func initFS(path string, o *options) (*fs.Repository, error) {
	mustExist, _ := o.config["must_exist"].(bool)
	noCache, _ := o.config["no_cache"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	debounce, _ := o.config["debounce"].(time.Duration)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	serializers := make(map[string]fs.Serializer, len(o.serializers))
	for ext, s := range o.serializers {
		serializer, ok := s.(fs.Serializer)
		if !ok {
			logger(o).Warn("invalid serializer type ignored", "ext", ext, "expected", "fs.Serializer")
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		serializers[ext] = serializer
	}

	return fs.NewRepository(fs.Config{
		Path:         path,
		MustExist:    mustExist,
		Logger:       o.logger,
		SystemDir:    systemDir,
		NoCache:      noCache,
		Serializers:  serializers,
		Debounce:     debounce,
		ErrorHandler: errorHandler,
	}), nil
}

func logger(o *options) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
