package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// starterFiles is the catalog written by Initialize.
func starterFiles() map[string]Payload {
	return map[string]Payload{
		ConfigFile: {Data: map[string]any{
			"locales": map[string]any{"default": "en", "alternate": "ur"},
			"categories": []any{
				map[string]any{"slug": "men", "label": "MEN"},
				map[string]any{"slug": "women", "label": "WOMEN"},
				map[string]any{"slug": "weight-lose", "label": "WEIGHT LOSE"},
			},
			"category_aliases": map[string]any{"weight-loss": "weight-lose"},
			"aliases":          map[string]any{},
			"exceptions":       []any{},
		}},
		BaseDir + "/default.yaml": {Data: map[string]any{
			"hero": map[string]any{
				"title":    "Pure Herbal Power",
				"subtitle": "Trusted for generations",
			},
			"details": map[string]any{
				"overview": "",
			},
			"pricing": map[string]any{
				"title": "Choose your pack",
				"packages": []any{
					map[string]any{"title": "1 Pack", "price": 2500, "save": 0, "features": []any{"Free delivery"}},
					map[string]any{"title": "2 Packs", "price": 4500, "save": 500, "features": []any{"Free delivery"}},
					map[string]any{"title": "3 Packs", "price": 6000, "save": 1500, "features": []any{"Free delivery", "Gift"}},
				},
			},
			"faq": map[string]any{
				"title": "Frequently asked questions",
				"cta":   "Order on WhatsApp",
			},
		}},
		BaseDir + "/alternate.yaml": {Data: map[string]any{
			"hero": map[string]any{
				"title": "خالص جڑی بوٹیوں کی طاقت",
			},
			"faq": map[string]any{
				"cta": "واٹس ایپ پر آرڈر کریں",
			},
		}},
		ProductsDir + "/men/sample-product.md": {
			Data: map[string]any{
				"name":           "Sample Product",
				"category":       "men",
				"price":          2500,
				"original_price": 3000,
				"order":          1,
				"sections": map[string]any{
					"hero": map[string]any{"title": "Sample Product"},
				},
			},
			Body: "A short overview of the sample product.",
		},
	}
}

// Initialize scaffolds a starter catalog in the repository path. Existing
// files are left untouched. It returns the relative paths it created.
func (r *Repository) Initialize(ctx context.Context) ([]string, error) {
	if r.config.MustExist {
		if err := r.checkRoot(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	files := starterFiles()
	var created []string
	for _, rel := range sortedKeys(files) {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		full := filepath.Join(r.Path, filepath.FromSlash(rel))
		if _, err := os.Stat(full); err == nil {
			r.config.Logger.Debug("scaffold file exists, skipping", "path", rel)
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return created, err
		}

		s, ok := r.serializers[filepath.Ext(rel)]
		if !ok {
			return created, fmt.Errorf("%s: no serializer for %q", rel, filepath.Ext(rel))
		}
		data, err := s.Serialize(files[rel])
		if err != nil {
			return created, fmt.Errorf("%s: %w", rel, err)
		}
		if err := writeBytes(full, data); err != nil {
			return created, err
		}
		created = append(created, rel)
	}

	r.config.Logger.Info("catalog initialized", "path", r.Path, "created", len(created))
	return created, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
