package core

import (
	"github.com/aretw0/introspection"
)

// CatalogState exposes catalog contents for observability.
type CatalogState struct {
	Revision   string     `json:"revision"`
	Locales    LocaleTags `json:"locales"`
	Products   int        `json:"products"`
	Categories int        `json:"categories"`
	Sections   []string   `json:"sections"`
	Aliases    int        `json:"aliases"`
	Exceptions int        `json:"exceptions"`
	Alternate  bool       `json:"alternate_base"`
}

// State implements introspection.Introspectable.
func (c *Catalog) State() any {
	_, alt := c.bases[LocaleAlternate]
	return CatalogState{
		Revision:   c.revision,
		Locales:    c.locales,
		Products:   len(c.order),
		Categories: len(c.categories),
		Sections:   c.Sections(),
		Aliases:    len(c.norm.aliases),
		Exceptions: c.exceptions.Len(),
		Alternate:  alt,
	}
}

// ComponentType implements introspection.Component.
func (c *Catalog) ComponentType() string {
	return "catalog"
}

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Revision  string `json:"revision"`
	Cache     bool   `json:"cache"`
	CacheSize int    `json:"cache_size"`
	CacheHits int64  `json:"cache_hits"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	return ServiceState{
		Revision:  s.Catalog().Revision(),
		Cache:     !s.noCache,
		CacheSize: s.memoSize(),
		CacheHits: s.hits.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Catalog)(nil)
var _ introspection.Component = (*Catalog)(nil)
var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
