package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	Cache         bool       `json:"cache"`
	CacheSize     int        `json:"cache_size"`
	Serializers   []string   `json:"serializers"`
	Patterns      []string   `json:"patterns"`
	Files         int        `json:"files"`
	WatcherActive bool       `json:"watcher_active"`
	LastLoad      *time.Time `json:"last_load,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		SystemDir:     r.config.SystemDir,
		Cache:         !r.config.NoCache,
		CacheSize:     r.cache.Len(),
		Serializers:   r.Extensions(),
		Patterns:      r.Patterns(),
		Files:         r.files,
		WatcherActive: r.watcherActive,
		LastLoad:      r.lastLoad,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
