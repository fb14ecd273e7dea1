package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/herbcat/pkg/core"
)

func packages(recs ...map[string]any) []any {
	out := make([]any, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return out
}

func strs(s ...string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// fixtureSpec is a small two-locale catalog shared by the core tests.
func fixtureSpec() core.Spec {
	return core.Spec{
		Bases: map[core.Locale]core.Document{
			core.LocaleDefault: {
				"hero": {
					"title":    "Pure Herbal Power",
					"subtitle": "Trusted for centuries",
				},
				"problems": {
					"items": strs("Low energy", "Stress"),
				},
				"pricing": {
					"title": "Choose your pack",
					"packages": packages(
						map[string]any{"title": "1 Pack", "price": 2500, "features": strs("Free delivery")},
						map[string]any{"title": "2 Packs", "price": 4500, "save": 500, "features": strs("Free delivery", "Gift")},
						map[string]any{"title": "3 Packs", "price": 6000, "save": 1500, "features": strs("Free delivery", "Gift", "Priority")},
					),
				},
				"faq": {
					"title": "Frequently asked questions",
					"cta":   "Order on WhatsApp",
					"items": packages(
						map[string]any{"question": "Is it safe?", "answer": "Yes, 100% herbal."},
					),
				},
			},
			core.LocaleAlternate: {
				"hero": {
					"title":    "خالص جڑی بوٹیوں کی طاقت",
					"subtitle": "صدیوں سے قابل اعتماد",
				},
				"pricing": {
					"title": "اپنا پیک منتخب کریں",
					"packages": packages(
						map[string]any{"title": "ایک پیک", "price": 2500, "features": strs("مفت ڈیلیوری")},
						map[string]any{"title": "دو پیک", "price": 4500, "features": strs("مفت ڈیلیوری", "تحفہ")},
						map[string]any{"title": "تین پیک", "price": 6000, "features": strs("مفت ڈیلیوری", "تحفہ", "ترجیح")},
					),
				},
				"faq": {
					"cta": "واٹس ایپ پر آرڈر کریں",
				},
			},
		},
		Products: []core.Product{
			{
				Key:      "b-maxman-royal",
				Name:     "B-Maxman Royal Special Treatment",
				Category: "men",
				Price:    2500,
				Order:    1,
				Own: core.Fragment{
					"hero": {
						"title":    "B-Maxman Royal",
						"subtitle": "Royal strength formula",
					},
					"pricing": {
						"packages": packages(
							map[string]any{"title": "1 Bottle", "price": 2500},
							map[string]any{"title": "2 Bottles", "price": 4500},
							map[string]any{"title": "3 Bottles", "price": 6000},
						),
					},
				},
				Alternate: core.Fragment{
					"hero": {
						"title": "بی میکس مین رائل",
					},
				},
			},
			{
				Key:      "sultan-shahi-gold-majoon",
				Name:     "Sultan Shahi Gold Majoon",
				Category: "men",
				Price:    5000,
				Order:    2,
				Own: core.Fragment{
					"pricing": {
						"title": "Royal packs",
						"packages": packages(
							map[string]any{"title": "1 Jar", "price": 5000},
							map[string]any{"title": "2 Jars", "price": 9000, "save": 1000},
						),
					},
				},
				Alternate: core.Fragment{
					"pricing": {
						"packages": packages(
							map[string]any{"title": "ایک جار", "price": 5000},
						),
					},
				},
			},
			{
				Key:      "slim-n-shape-herbal-tea",
				Name:     "Slim n Shape Herbal Tea",
				Category: "weight-lose",
				Price:    1200,
				Order:    3,
			},
			{
				Key:      "g-max-passion",
				Name:     "G-Max Passion",
				Category: "women",
				Price:    2500,
				Order:    4,
				Own: core.Fragment{
					"pricing": {"packages": []any{}},
				},
			},
		},
		Aliases: map[string]core.ProductKey{
			"bmaxman": "b-maxman-royal",
		},
		Categories: []core.Category{
			{Slug: "men", Label: "MEN"},
			{Slug: "women", Label: "WOMEN"},
			{Slug: "weight-lose", Label: "WEIGHT LOSE"},
		},
		CategoryAliases: map[string]string{
			"weight-loss": "weight-lose",
		},
		Exceptions: []core.ExceptionRule{
			{Product: "sultan-shahi-gold-majoon", Section: "pricing", Locale: core.LocaleDefault},
			{Product: "b-maxman-royal", Section: "faq", Field: "cta", Locale: core.LocaleAlternate},
		},
	}
}

func newFixtureCatalog(t *testing.T) *core.Catalog {
	t.Helper()
	c, err := core.NewCatalog(fixtureSpec())
	require.NoError(t, err)
	return c
}
