package core

import (
	"fmt"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate checks the record-level invariants of a product.
func (p Product) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Key, validation.Required),
		validation.Field(&p.Price, validation.Min(Money(0))),
		validation.Field(&p.OriginalPrice, validation.When(p.OriginalPrice != 0, validation.Min(p.Price))),
		validation.Field(&p.Aliases, validation.Each(validation.Required)),
	)
}

// Validate checks the record-level invariants of a category.
func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Slug, validation.Required, validation.Match(slugPattern)),
		validation.Field(&c.Label, validation.Required),
	)
}

// Validate checks the record-level invariants of an exception rule.
func (r ExceptionRule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Product, validation.Required),
		validation.Field(&r.Section, validation.Required),
		validation.Field(&r.Locale, validation.Required, validation.In(LocaleDefault, LocaleAlternate)),
	)
}

// schema is the field layout of the default base document.
type schema struct {
	sections []string
	fields   map[string][]string
	kinds    map[string]map[string]Kind
	// sub holds, for list-of-record fields, the kind of each record
	// sub-field across all records of the base list.
	sub map[string]map[string]map[string]Kind
}

func buildSchema(base Document) (schema, []error) {
	var errs []error
	s := schema{
		fields: make(map[string][]string, len(base)),
		kinds:  make(map[string]map[string]Kind, len(base)),
		sub:    make(map[string]map[string]map[string]Kind),
	}
	for name, section := range base {
		s.sections = append(s.sections, name)
		s.kinds[name] = make(map[string]Kind, len(section))
		for field, v := range section {
			k := KindOf(v)
			if k == KindInvalid {
				errs = append(errs, invalid(fmt.Sprintf("base %s: %s.%s", LocaleDefault, name, field),
					fmt.Errorf("%w: %T", ErrInvalidValue, v)))
				continue
			}
			s.fields[name] = append(s.fields[name], field)
			s.kinds[name][field] = k
			if k != KindRecords {
				continue
			}
			sub, err := recordKinds(v.([]any))
			if err != nil {
				errs = append(errs, invalid(fmt.Sprintf("base %s: %s.%s", LocaleDefault, name, field), err))
				continue
			}
			if s.sub[name] == nil {
				s.sub[name] = make(map[string]map[string]Kind)
			}
			s.sub[name][field] = sub
		}
		sort.Strings(s.fields[name])
	}
	sort.Strings(s.sections)
	return s, errs
}

// recordKinds merges the sub-field kinds of records. An empty list gives way
// to a concrete list kind; any other disagreement is a shape mismatch.
func recordKinds(list []any) (map[string]Kind, error) {
	out := make(map[string]Kind)
	for i, item := range list {
		for sub, v := range item.(map[string]any) {
			k := KindOf(v)
			prev, seen := out[sub]
			switch {
			case !seen || prev == KindEmptyList:
				out[sub] = k
			case k == KindEmptyList || k == prev:
			default:
				return nil, fmt.Errorf("%w: item %d %s is %s, earlier items have %s", ErrShapeMismatch, i+1, sub, k, prev)
			}
		}
	}
	return out, nil
}

func (s schema) has(section, field string) bool {
	_, ok := s.kinds[section][field]
	return ok
}

// checkFragment verifies every field of f exists in the schema with a
// compatible shape.
func (s schema) checkFragment(subject string, f Fragment) []error {
	var errs []error
	for name, section := range f {
		kinds, ok := s.kinds[name]
		if !ok {
			errs = append(errs, invalid(subject, fmt.Errorf("%w: %q", ErrUnknownSection, name)))
			continue
		}
		for field, v := range section {
			want, ok := kinds[field]
			if !ok {
				errs = append(errs, invalid(subject, fmt.Errorf("%w: %s.%s", ErrUnknownField, name, field)))
				continue
			}
			got := KindOf(v)
			if got == KindInvalid {
				errs = append(errs, invalid(subject, fmt.Errorf("%w: %s.%s is %T", ErrInvalidValue, name, field, v)))
				continue
			}
			if !compatible(want, got) {
				errs = append(errs, invalid(subject,
					fmt.Errorf("%w: %s.%s is %s, base has %s", ErrShapeMismatch, name, field, got, want)))
				continue
			}
			if got == KindRecords {
				errs = append(errs, s.checkRecords(subject, name, field, v.([]any))...)
			}
		}
	}
	return errs
}

// checkRecords verifies the sub-fields of override records against the base
// list. Sub-fields the base never uses are allowed.
func (s schema) checkRecords(subject, section, field string, list []any) []error {
	want := s.sub[section][field]
	var errs []error
	for i, item := range list {
		rec := item.(map[string]any)
		for _, sub := range sortedFields(rec) {
			w, ok := want[sub]
			if !ok {
				continue
			}
			if got := KindOf(rec[sub]); !compatible(w, got) {
				errs = append(errs, invalid(subject, fmt.Errorf("%w: %s.%s[%d].%s is %s, base has %s",
					ErrShapeMismatch, section, field, i, sub, got, w)))
			}
		}
	}
	return errs
}

func sortedFields(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
