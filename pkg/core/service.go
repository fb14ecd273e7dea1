package core

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Logger *slog.Logger
	// NoCache disables memoization of resolved documents.
	NoCache bool
}

type memoKey struct {
	revision string
	key      ProductKey
	locale   Locale
}

// Service fronts a Catalog with logging and memoization. The catalog can be
// swapped at runtime (e.g. after a reload); each swap starts a fresh memo.
type Service struct {
	catalog atomic.Pointer[Catalog]
	logger  *slog.Logger
	noCache bool

	mu   sync.RWMutex
	memo map[memoKey]Document
	hits atomic.Int64
}

// NewService creates a new Service over c.
func NewService(c *Catalog, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		logger:  logger,
		noCache: cfg.NoCache,
		memo:    make(map[memoKey]Document),
	}
	s.catalog.Store(c)
	return s
}

// Catalog returns the current catalog snapshot.
func (s *Service) Catalog() *Catalog {
	return s.catalog.Load()
}

// Swap replaces the catalog and drops memoized documents.
func (s *Service) Swap(c *Catalog) {
	if c == nil {
		return
	}
	prev := s.catalog.Swap(c)
	s.mu.Lock()
	s.memo = make(map[memoKey]Document)
	s.mu.Unlock()

	from := ""
	if prev != nil {
		from = prev.Revision()
	}
	s.logger.Info("catalog swapped", "from", from, "to", c.Revision(), "products", len(c.order))
}

// Normalize maps a raw identifier onto a canonical key.
func (s *Service) Normalize(raw string) ProductKey {
	return s.Catalog().Normalize(raw)
}

// Resolve returns the document for key in loc. Results for catalog products
// are memoized per (catalog revision, key, locale) and handed out as copies.
func (s *Service) Resolve(key ProductKey, loc Locale) Document {
	c := s.Catalog()
	known := c.Has(key)
	if !known {
		s.logger.Debug("unknown product, using base document", "key", key, "locale", loc)
	}
	// Unknown keys come from arbitrary input and are not memoized.
	if s.noCache || !known {
		return c.Resolve(key, loc)
	}

	mk := memoKey{revision: c.Revision(), key: key, locale: loc}
	s.mu.RLock()
	doc, ok := s.memo[mk]
	s.mu.RUnlock()
	if ok {
		s.hits.Add(1)
		return CloneDocument(doc)
	}

	doc = c.Resolve(key, loc)
	s.mu.Lock()
	if s.Catalog().Revision() == mk.revision {
		s.memo[mk] = CloneDocument(doc)
	}
	s.mu.Unlock()
	return doc
}

// ResolveRaw normalizes raw and resolves it.
func (s *Service) ResolveRaw(raw string, loc Locale) (ProductKey, Document) {
	key := s.Normalize(raw)
	return key, s.Resolve(key, loc)
}

// PriceFor returns the order total for quantity units of key.
func (s *Service) PriceFor(key ProductKey, quantity int) Money {
	return s.Catalog().PriceFor(key, quantity)
}

// Quote prices an order and reports how the total was reached.
func (s *Service) Quote(key ProductKey, quantity int) Quote {
	q := s.Catalog().Quote(key, quantity)
	if q.Overflow {
		s.logger.Warn("order total clamped", "key", key, "quantity", quantity)
	}
	if q.Extrapolated {
		s.logger.Debug("quantity beyond price table, extrapolating from tier 1",
			"key", key, "quantity", quantity, "total", int64(q.Total))
	}
	return q
}

func (s *Service) memoSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memo)
}
