package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/herbcat/pkg/core"
)

func TestLocaleTags_Parse(t *testing.T) {
	tags := core.DefaultLocaleTags

	tests := []struct {
		in   string
		want core.Locale
	}{
		{"default", core.LocaleDefault},
		{"Alternate", core.LocaleAlternate},
		{"en", core.LocaleDefault},
		{"en-US", core.LocaleDefault},
		{"ur", core.LocaleAlternate},
		{"ur-PK", core.LocaleAlternate},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := tags.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	// Languages close to a bound one are still unknown.
	for _, bad := range []string{"fr", "pa", "hi", "ar", "", "not a tag!"} {
		_, err := tags.Parse(bad)
		assert.ErrorIs(t, err, core.ErrUnknownLocale, "input %q", bad)
	}
}

func TestLocaleTags_CustomBinding(t *testing.T) {
	tags := core.LocaleTags{Default: "en", Alternate: "ar"}

	got, err := tags.Parse("ar-EG")
	require.NoError(t, err)
	assert.Equal(t, core.LocaleAlternate, got)

	got, err = tags.Parse("EN-gb")
	require.NoError(t, err)
	assert.Equal(t, core.LocaleDefault, got)

	for _, bad := range []string{"ur", "ur-PK", "fa"} {
		_, err = tags.Parse(bad)
		assert.ErrorIs(t, err, core.ErrUnknownLocale, "input %q", bad)
	}
}

func TestLocale_Valid(t *testing.T) {
	assert.True(t, core.LocaleDefault.Valid())
	assert.True(t, core.LocaleAlternate.Valid())
	assert.False(t, core.Locale("").Valid())
	assert.False(t, core.Locale("ur").Valid())
}

func TestExceptionRegistry(t *testing.T) {
	reg, err := core.NewExceptionRegistry([]core.ExceptionRule{
		{Product: "a", Section: "pricing", Locale: core.LocaleDefault},
		{Product: "a", Section: "pricing", Locale: core.LocaleDefault},
		{Product: "a", Section: "faq", Field: "cta", Locale: core.LocaleAlternate},
		{Product: "b", Section: "faq", Locale: core.LocaleDefault},
		{Product: "b", Section: "faq", Field: "cta", Locale: core.LocaleAlternate},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())

	l, ok := reg.ForcedLocaleFor("a", "pricing")
	assert.True(t, ok)
	assert.Equal(t, core.LocaleDefault, l)

	_, ok = reg.ForcedLocaleFor("a", "faq")
	assert.False(t, ok, "field rules do not force the whole section")

	l, ok = reg.ForcedLocaleForField("a", "pricing", "packages")
	assert.True(t, ok)
	assert.Equal(t, core.LocaleDefault, l)

	l, ok = reg.ForcedLocaleForField("b", "faq", "cta")
	assert.True(t, ok)
	assert.Equal(t, core.LocaleAlternate, l, "field rule beats section rule")

	l, ok = reg.ForcedLocaleForField("b", "faq", "title")
	assert.True(t, ok)
	assert.Equal(t, core.LocaleDefault, l)

	_, ok = reg.ForcedLocaleFor("c", "pricing")
	assert.False(t, ok)

	rules := reg.Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, core.ProductKey("a"), rules[0].Product)

	var zero core.ExceptionRegistry
	_, ok = zero.ForcedLocaleFor("a", "pricing")
	assert.False(t, ok)
}

func TestExceptionRegistry_InvalidLocale(t *testing.T) {
	_, err := core.NewExceptionRegistry([]core.ExceptionRule{{Product: "a", Section: "x", Locale: "ur"}})
	assert.ErrorIs(t, err, core.ErrUnknownLocale)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want core.Kind
	}{
		{"string", "x", core.KindScalar},
		{"int", 3, core.KindScalar},
		{"float", 2.5, core.KindScalar},
		{"bool", true, core.KindScalar},
		{"list", strs("a", "b"), core.KindList},
		{"empty list", []any{}, core.KindEmptyList},
		{"records", packages(map[string]any{"title": "x", "features": strs("a")}), core.KindRecords},
		{"mixed list", []any{"a", map[string]any{}}, core.KindInvalid},
		{"nil", nil, core.KindInvalid},
		{"map", map[string]any{"a": 1}, core.KindInvalid},
		{"typed slice", []string{"a"}, core.KindInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, core.KindOf(tc.v))
		})
	}
}
