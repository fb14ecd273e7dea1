// Package typed decodes resolved documents into Go structs.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/herbcat/pkg/core"
)

// Resolver is satisfied by *core.Catalog and *core.Service.
type Resolver interface {
	Resolve(key core.ProductKey, loc core.Locale) core.Document
}

// SectionModel is a typed view of one resolved section.
type SectionModel[T any] struct {
	Product core.ProductKey
	Locale  core.Locale
	Section string
	Data    T
}

// View decodes one section of resolved documents into T.
type View[T any] struct {
	resolver Resolver
	section  string
}

// NewView creates a typed view of section over r.
func NewView[T any](r Resolver, section string) *View[T] {
	return &View[T]{resolver: r, section: section}
}

// Get resolves key in loc and decodes the section.
func (v *View[T]) Get(key core.ProductKey, loc core.Locale) (*SectionModel[T], error) {
	doc := v.resolver.Resolve(key, loc)
	s, ok := doc[v.section]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownSection, v.section)
	}
	data, err := Decode[T](s)
	if err != nil {
		return nil, fmt.Errorf("decode %s for %s: %w", v.section, key, err)
	}
	return &SectionModel[T]{Product: key, Locale: loc, Section: v.section, Data: data}, nil
}

// List decodes the section for every key, in order.
func (v *View[T]) List(keys []core.ProductKey, loc core.Locale) ([]*SectionModel[T], error) {
	result := make([]*SectionModel[T], 0, len(keys))
	for _, key := range keys {
		m, err := v.Get(key, loc)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

// Decode converts a loosely typed value (a Section or a whole Document) into T
// through JSON.
func Decode[T any](v any) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("marshal failed: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return out, nil
}
