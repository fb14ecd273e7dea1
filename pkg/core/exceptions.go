package core

import (
	"fmt"
	"sort"
)

type exceptionKey struct {
	product ProductKey
	section string
	field   string
}

// ExceptionRegistry is the declarative table of forced-locale rules.
// The zero value has no rules.
type ExceptionRegistry struct {
	rules map[exceptionKey]Locale
}

// NewExceptionRegistry indexes rules. The same target listed twice with
// different locales is rejected; exact duplicates are collapsed.
func NewExceptionRegistry(rules []ExceptionRule) (ExceptionRegistry, error) {
	reg := ExceptionRegistry{rules: make(map[exceptionKey]Locale, len(rules))}
	for _, r := range rules {
		if !r.Locale.Valid() {
			return ExceptionRegistry{}, invalid("exception "+r.String(), ErrUnknownLocale)
		}
		k := exceptionKey{product: r.Product, section: r.Section, field: r.Field}
		if prev, ok := reg.rules[k]; ok && prev != r.Locale {
			return ExceptionRegistry{}, invalid("exception "+r.String(),
				fmt.Errorf("%w: already forced to %s", ErrConflictingException, prev))
		}
		reg.rules[k] = r.Locale
	}
	return reg, nil
}

// ForcedLocaleFor returns the locale forced for a whole section of a product.
func (r ExceptionRegistry) ForcedLocaleFor(key ProductKey, section string) (Locale, bool) {
	l, ok := r.rules[exceptionKey{product: key, section: section}]
	return l, ok
}

// ForcedLocaleForField checks a field-level rule first and falls back to the
// section-level rule.
func (r ExceptionRegistry) ForcedLocaleForField(key ProductKey, section, field string) (Locale, bool) {
	if l, ok := r.rules[exceptionKey{product: key, section: section, field: field}]; ok {
		return l, true
	}
	return r.ForcedLocaleFor(key, section)
}

// Rules lists the registered rules in a stable order.
func (r ExceptionRegistry) Rules() []ExceptionRule {
	out := make([]ExceptionRule, 0, len(r.rules))
	for k, l := range r.rules {
		out = append(out, ExceptionRule{Product: k.product, Section: k.section, Field: k.field, Locale: l})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Len returns the number of rules.
func (r ExceptionRegistry) Len() int {
	return len(r.rules)
}
