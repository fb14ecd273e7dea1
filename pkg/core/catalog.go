package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Catalog is the immutable, load-time store behind resolution and pricing.
// All methods are safe for concurrent use.
type Catalog struct {
	revision   string
	locales    LocaleTags
	bases      map[Locale]Document
	schema     schema
	products   map[ProductKey]*Product
	order      []ProductKey
	norm       *Normalizer
	exceptions ExceptionRegistry
	categories []Category
	catIndex   map[string]int
	catNorm    *Normalizer
}

// NewCatalog validates spec and builds a Catalog from it. Every malformed
// record is reported; the returned error joins *ValidationError values.
func NewCatalog(spec Spec) (*Catalog, error) {
	base, ok := spec.Bases[LocaleDefault]
	if !ok || len(base) == 0 {
		return nil, ErrMissingBase
	}

	var errs []error
	if err := spec.Locales.validate(); err != nil {
		errs = append(errs, invalid("locales", err))
	}

	sch, schemaErrs := buildSchema(base)
	errs = append(errs, schemaErrs...)

	c := &Catalog{
		revision: uuid.NewString(),
		locales:  spec.Locales.withDefaults(),
		bases:    make(map[Locale]Document, 2),
		schema:   sch,
		products: make(map[ProductKey]*Product, len(spec.Products)),
		catIndex: make(map[string]int, len(spec.Categories)),
	}
	c.bases[LocaleDefault] = CloneDocument(base)
	if alt, ok := spec.Bases[LocaleAlternate]; ok {
		errs = append(errs, sch.checkFragment("base "+string(LocaleAlternate), Fragment(alt))...)
		c.bases[LocaleAlternate] = CloneDocument(alt)
	}

	for _, cat := range spec.Categories {
		if err := cat.Validate(); err != nil {
			errs = append(errs, invalid("category "+cat.Slug, err))
			continue
		}
		if _, dup := c.catIndex[cat.Slug]; dup {
			errs = append(errs, invalid("category "+cat.Slug, errors.New("duplicate category")))
			continue
		}
		c.catIndex[cat.Slug] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	catAliases := make(map[string]string, len(spec.CategoryAliases))
	for raw, slug := range spec.CategoryAliases {
		if _, ok := c.catIndex[slug]; !ok {
			errs = append(errs, invalid("category alias "+raw, fmt.Errorf("%w: %q", ErrUnknownCategory, slug)))
			continue
		}
		catAliases[raw] = slug
	}
	slugs := make([]string, len(c.categories))
	for i, cat := range c.categories {
		slugs[i] = cat.Slug
	}
	c.catNorm = newNormalizer(catAliases, slugs)

	for i := range spec.Products {
		p := spec.Products[i]
		subject := "product " + string(p.Key)
		if err := p.Validate(); err != nil {
			errs = append(errs, invalid(subject, err))
			continue
		}
		if _, dup := c.products[p.Key]; dup {
			errs = append(errs, invalid(subject, ErrDuplicateProduct))
			continue
		}
		if p.Category != "" && len(c.categories) > 0 {
			if _, ok := c.catIndex[p.Category]; !ok {
				errs = append(errs, invalid(subject, fmt.Errorf("%w: %q", ErrUnknownCategory, p.Category)))
			}
		}
		errs = append(errs, sch.checkFragment(subject, p.Own)...)
		errs = append(errs, sch.checkFragment(subject+" ("+string(LocaleAlternate)+")", p.Alternate)...)

		p.Own = Fragment(CloneDocument(Document(p.Own)))
		p.Alternate = Fragment(CloneDocument(Document(p.Alternate)))
		p.Aliases = append([]string(nil), p.Aliases...)
		c.products[p.Key] = &p
		c.order = append(c.order, p.Key)
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.products[c.order[i]], c.products[c.order[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Key < b.Key
	})

	aliases, aliasErrs := c.buildAliases(spec.Aliases)
	errs = append(errs, aliasErrs...)
	keys := make([]string, len(c.order))
	for i, k := range c.order {
		keys[i] = string(k)
	}
	c.norm = newNormalizer(aliases, keys)

	for _, r := range spec.Exceptions {
		subject := "exception " + r.String()
		if err := r.Validate(); err != nil {
			errs = append(errs, invalid(subject, err))
			continue
		}
		if _, ok := c.products[r.Product]; !ok {
			errs = append(errs, invalid(subject, fmt.Errorf("%w: %q", ErrUnknownProduct, r.Product)))
		}
		if _, ok := sch.kinds[r.Section]; !ok {
			errs = append(errs, invalid(subject, fmt.Errorf("%w: %q", ErrUnknownSection, r.Section)))
		} else if r.Field != "" && !sch.has(r.Section, r.Field) {
			errs = append(errs, invalid(subject, fmt.Errorf("%w: %s.%s", ErrUnknownField, r.Section, r.Field)))
		}
	}
	reg, err := NewExceptionRegistry(spec.Exceptions)
	if err != nil {
		errs = append(errs, err)
	}
	c.exceptions = reg

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Prices are checked on resolved tables so inherited sub-fields count.
	for _, key := range append([]ProductKey{""}, c.order...) {
		for _, loc := range []Locale{LocaleDefault, LocaleAlternate} {
			if _, err := c.priceTable(key, loc); err != nil {
				subject := fmt.Sprintf("product %s (%s)", key, loc)
				if key == "" {
					subject = "base " + string(loc)
				}
				errs = append(errs, invalid(subject, err))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// buildAliases merges explicit aliases with per-product aliases and the name
// slugs of products. Explicit entries win; implicit ones never shadow a key.
func (c *Catalog) buildAliases(explicit map[string]ProductKey) (map[string]string, []error) {
	var errs []error
	out := make(map[string]string, len(explicit))
	for raw, target := range explicit {
		if _, ok := c.products[target]; !ok {
			errs = append(errs, invalid("alias "+raw, fmt.Errorf("%w: %q", ErrUnknownAliasTarget, target)))
			continue
		}
		out[raw] = string(target)
	}
	for _, key := range c.order {
		p := c.products[key]
		for _, raw := range p.Aliases {
			if prev, ok := out[raw]; ok && prev != string(key) {
				errs = append(errs, invalid("alias "+raw, fmt.Errorf("claimed by %q and %q", prev, key)))
				continue
			}
			out[raw] = string(key)
		}
	}
	for _, key := range c.order {
		slug := Slugify(c.products[key].Name)
		if slug == "" || slug == string(key) {
			continue
		}
		if _, taken := out[slug]; taken {
			continue
		}
		if _, isKey := c.products[ProductKey(slug)]; isKey {
			continue
		}
		out[slug] = string(key)
	}
	return out, errs
}

// Revision identifies this catalog build.
func (c *Catalog) Revision() string {
	return c.revision
}

// Locales returns the language tags bound to the locale slots.
func (c *Catalog) Locales() LocaleTags {
	return c.locales
}

// ParseLocale maps user input to a Locale using the catalog's tags.
func (c *Catalog) ParseLocale(s string) (Locale, error) {
	return c.locales.Parse(s)
}

// Normalize maps a raw identifier onto a canonical product key.
func (c *Catalog) Normalize(raw string) ProductKey {
	return c.norm.Normalize(raw)
}

// Normalizer exposes the product identifier normalizer.
func (c *Catalog) Normalizer() *Normalizer {
	return c.norm
}

// Exceptions exposes the exception registry.
func (c *Catalog) Exceptions() ExceptionRegistry {
	return c.exceptions
}

// Has reports whether key is a catalog product.
func (c *Catalog) Has(key ProductKey) bool {
	_, ok := c.products[key]
	return ok
}

// Product returns a copy of the product record.
func (c *Catalog) Product(key ProductKey) (Product, bool) {
	p, ok := c.products[key]
	if !ok {
		return Product{}, false
	}
	out := *p
	out.Own = Fragment(CloneDocument(Document(p.Own)))
	out.Alternate = Fragment(CloneDocument(Document(p.Alternate)))
	out.Aliases = append([]string(nil), p.Aliases...)
	return out, true
}

// Products lists canonical keys in display order.
func (c *Catalog) Products() []ProductKey {
	return append([]ProductKey(nil), c.order...)
}

// Sections lists the section names of the base document, sorted.
func (c *Catalog) Sections() []string {
	return append([]string(nil), c.schema.sections...)
}

// Base returns a copy of the base document for loc, with fields missing from
// the alternate base filled from the default base.
func (c *Catalog) Base(loc Locale) Document {
	return c.Resolve("", loc)
}

// Categories lists categories in declared order.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// Category finds a category by a raw slug taken from a URL path.
func (c *Catalog) Category(raw string) (Category, bool) {
	slug, ok := c.catNorm.lookup(raw)
	if !ok {
		return Category{}, false
	}
	return c.categories[c.catIndex[slug]], true
}

// ProductsIn lists the products of a category in display order.
func (c *Catalog) ProductsIn(slug string) []ProductKey {
	var out []ProductKey
	for _, key := range c.order {
		if c.products[key].Category == slug {
			out = append(out, key)
		}
	}
	return out
}

// Related returns up to n other products from the same category.
func (c *Catalog) Related(key ProductKey, n int) []ProductKey {
	p, ok := c.products[key]
	if !ok || p.Category == "" || n <= 0 {
		return nil
	}
	var out []ProductKey
	for _, other := range c.ProductsIn(p.Category) {
		if other == key {
			continue
		}
		out = append(out, other)
		if len(out) == n {
			break
		}
	}
	return out
}
