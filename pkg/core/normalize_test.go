package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/herbcat/pkg/core"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"B-Maxman Royal Special Treatment", "b-maxman-royal-special-treatment"},
		{"  Slim n Shape Herbal Tea ", "slim-n-shape-herbal-tea"},
		{"Hair & Skin Oil", "hair-and-skin-oil"},
		{"--Sultan   Shahi!!", "sultan-shahi"},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, core.Slugify(tc.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	c := newFixtureCatalog(t)

	tests := []struct {
		name string
		raw  string
		want core.ProductKey
	}{
		{"canonical key", "b-maxman-royal", "b-maxman-royal"},
		{"explicit alias", "bmaxman", "b-maxman-royal"},
		{"name slug alias", "b-maxman-royal-special-treatment", "b-maxman-royal"},
		{"percent encoded", "B-Maxman%20Royal", "b-maxman-royal"},
		{"query and fragment", "slim-n-shape-herbal-tea?ref=home#buy", "slim-n-shape-herbal-tea"},
		{"trailing slash and case", "G-MAX-PASSION/", "g-max-passion"},
		{"spaces", "slim n shape herbal tea", "slim-n-shape-herbal-tea"},
		{"unknown passes through", "Does Not Exist", "Does Not Exist"},
		{"unknown encoded passes through", "no%20such", "no%20such"},
		{"malformed escape", "%zz", "%zz"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Normalize(tc.raw))
		})
	}
}

func TestNormalize_AliasWinsOverKey(t *testing.T) {
	spec := fixtureSpec()
	spec.Aliases["g-max-passion"] = "b-maxman-royal"
	c, err := core.NewCatalog(spec)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	assert.Equal(t, core.ProductKey("b-maxman-royal"), c.Normalize("g-max-passion"))
}
