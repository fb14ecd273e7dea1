// Package core holds the content-resolution engine: the immutable catalog,
// the per-field override cascade, the exception registry and the tiered
// price calculator.
package core

import "fmt"

// Locale identifies one of the two content layers of the site.
type Locale string

const (
	LocaleDefault   Locale = "default"
	LocaleAlternate Locale = "alternate"
)

// Valid reports whether l is one of the two supported locales.
func (l Locale) Valid() bool {
	return l == LocaleDefault || l == LocaleAlternate
}

func (l Locale) String() string {
	return string(l)
}

// ProductKey is the canonical, alias-resolved identifier of a product.
type ProductKey string

// Section maps field names to field values.
// A value is a scalar, a list of scalars or a list of records (see Kind).
type Section map[string]any

// Document is a tree of named sections.
type Document map[string]Section

// Fragment is a partial Document. Only the fields present override anything.
type Fragment map[string]Section

// Lookup returns the value of section.field and whether it is present.
func (f Fragment) Lookup(section, field string) (any, bool) {
	if f == nil {
		return nil, false
	}
	s, ok := f[section]
	if !ok {
		return nil, false
	}
	v, ok := s[field]
	return v, ok
}

// Product is a catalog entry with its own override layer and an optional
// alternate-locale layer nested under it.
type Product struct {
	Key      ProductKey
	Name     string
	Category string
	Price    Money
	// OriginalPrice is the struck-through listing price shown next to
	// Price. Zero means none.
	OriginalPrice Money
	Order         int
	Aliases       []string
	Own           Fragment
	Alternate     Fragment
}

// Category groups products for listing pages.
type Category struct {
	Slug        string `json:"slug" yaml:"slug"`
	Label       string `json:"label" yaml:"label"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ExceptionRule forces a locale for a product section, or for one field of it
// when Field is set.
type ExceptionRule struct {
	Product ProductKey `json:"product" yaml:"product"`
	Section string     `json:"section" yaml:"section"`
	Field   string     `json:"field,omitempty" yaml:"field,omitempty"`
	Locale  Locale     `json:"locale" yaml:"locale"`
}

func (r ExceptionRule) String() string {
	if r.Field != "" {
		return fmt.Sprintf("%s:%s.%s->%s", r.Product, r.Section, r.Field, r.Locale)
	}
	return fmt.Sprintf("%s:%s->%s", r.Product, r.Section, r.Locale)
}

// Spec is the raw material a Catalog is built from.
type Spec struct {
	Locales         LocaleTags
	Bases           map[Locale]Document
	Products        []Product
	Aliases         map[string]ProductKey
	Categories      []Category
	CategoryAliases map[string]string
	Exceptions      []ExceptionRule
}

// EventType classifies catalog events: a raw file change, or the outcome of
// the reload it triggered.
type EventType string

const (
	EventChange  EventType = "CHANGE"
	EventReload  EventType = "RELOAD"
	EventInvalid EventType = "INVALID"
)

// Event is emitted whenever the catalog directory changes.
type Event struct {
	Type      EventType
	Path      string
	Revision  string
	Err       error
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s (revision %s)", e.Type, e.Path, e.Revision)
}
