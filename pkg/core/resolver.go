package core

// Resolve produces the document for key in loc. Every field of the default
// base document is present in the result. Precedence per field:
//
//  1. the locale forced by an exception rule replaces loc;
//  2. the product's alternate fragment, when the effective locale is alternate;
//  3. the product's own fragment;
//  4. the base document of the effective locale, then the default base.
//
// Unknown keys resolve to the base document. The result is a deep copy.
func (c *Catalog) Resolve(key ProductKey, loc Locale) Document {
	if !loc.Valid() {
		loc = LocaleDefault
	}
	p := c.products[key]

	doc := make(Document, len(c.schema.sections))
	for _, name := range c.schema.sections {
		fields := c.schema.fields[name]
		section := make(Section, len(fields))
		for _, field := range fields {
			section[field] = c.resolveField(p, key, name, field, loc)
		}
		doc[name] = section
	}
	return doc
}

// ResolveField resolves a single field with the same precedence as Resolve.
// The boolean is false when the base document does not define the field.
func (c *Catalog) ResolveField(key ProductKey, loc Locale, section, field string) (any, bool) {
	if !c.schema.has(section, field) {
		return nil, false
	}
	if !loc.Valid() {
		loc = LocaleDefault
	}
	return c.resolveField(c.products[key], key, section, field, loc), true
}

func (c *Catalog) resolveField(p *Product, key ProductKey, section, field string, loc Locale) any {
	eff := loc
	if forced, ok := c.exceptions.ForcedLocaleForField(key, section, field); ok {
		eff = forced
	}
	base := c.baseValue(eff, section, field)

	if p != nil {
		if eff == LocaleAlternate {
			if v, ok := p.Alternate.Lookup(section, field); ok {
				return inheritPositional(v, base)
			}
		}
		if v, ok := p.Own.Lookup(section, field); ok {
			return inheritPositional(v, base)
		}
	}
	return deepCopy(base)
}

// baseValue reads the base document for loc, falling back to the default
// base, which is total over the schema.
func (c *Catalog) baseValue(loc Locale, section, field string) any {
	if loc != LocaleDefault {
		if v, ok := Fragment(c.bases[loc]).Lookup(section, field); ok {
			return v
		}
	}
	v, _ := Fragment(c.bases[LocaleDefault]).Lookup(section, field)
	return v
}

// inheritPositional copies an override value. When both the override and the
// base are lists of records, each override record at index i picks up the
// sub-fields it omits from base record i; records past the end of the base
// list inherit nothing. The override list always decides the length.
func inheritPositional(override, base any) any {
	out := deepCopy(override)
	list, ok := out.([]any)
	if !ok {
		return out
	}
	baseList, ok := base.([]any)
	if !ok {
		return out
	}
	for i, item := range list {
		if i >= len(baseList) {
			break
		}
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		baseRec, ok := baseList[i].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range baseRec {
			if _, present := rec[k]; !present {
				rec[k] = deepCopy(v)
			}
		}
	}
	return out
}
