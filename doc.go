// Package herbcat is the Composition Root for the herbal catalog engine.
//
// It connects the content resolution core (Domain Layer) with the catalog
// sources (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// A storefront shows every product through the same page template. herbcat
// keeps one base document per locale and lets each product override only the
// fields that differ. Resolution is deterministic and needs no I/O once the
// catalog is loaded, so it can sit directly behind a request handler.
//
// Features:
//
//   - **Three-Tier Resolution**: product override, then locale base, then default base, per field.
//   - **Positional Inheritance**: list items override only the sub-fields they set.
//   - **Locale Exceptions**: force a section or field of a product to one locale.
//   - **Tiered Pricing**: package prices by quantity, extrapolated from tier 1 beyond the table.
//   - **Identifier Normalization**: URL slugs, aliases and free text map to canonical keys.
//   - **Hot Reload**: the filesystem source is watched and the catalog swapped atomically.
//   - **Typed Access**: generic views (`NewView[T]`) decode sections into Go structs.
//
// Usage:
//
//	eng, err := herbcat.New(ctx, "./catalog",
//		herbcat.WithLogger(logger),
//	)
//
//	key, doc := eng.ResolveRaw("B-Maxman/", herbcat.LocaleAlternate)
//	total := eng.PriceFor(key, 3)
package herbcat
