package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// LocaleTags binds the two locale slots to BCP 47 language tags.
type LocaleTags struct {
	Default   string `json:"default" yaml:"default"`
	Alternate string `json:"alternate" yaml:"alternate"`
}

// DefaultLocaleTags mirrors the site: English copy with an Urdu toggle.
var DefaultLocaleTags = LocaleTags{Default: "en", Alternate: "ur"}

// withDefaults fills empty slots from DefaultLocaleTags.
func (t LocaleTags) withDefaults() LocaleTags {
	if strings.TrimSpace(t.Default) == "" {
		t.Default = DefaultLocaleTags.Default
	}
	if strings.TrimSpace(t.Alternate) == "" {
		t.Alternate = DefaultLocaleTags.Alternate
	}
	return t
}

// Tag returns the language tag bound to l.
func (t LocaleTags) Tag(l Locale) language.Tag {
	t = t.withDefaults()
	if l == LocaleAlternate {
		return language.Make(t.Alternate)
	}
	return language.Make(t.Default)
}

// Parse maps user input to a Locale. It accepts the slot names ("default",
// "alternate") and any language tag whose base language matches one of the
// bound tags, e.g. "ur-PK" for an "ur" alternate slot.
func (t LocaleTags) Parse(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	switch Locale(strings.ToLower(s)) {
	case LocaleDefault:
		return LocaleDefault, nil
	case LocaleAlternate:
		return LocaleAlternate, nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
	}

	// Only the base language counts; related languages (e.g. "pa" for an "ur"
	// slot) must not be folded into a slot.
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
	}
	if altBase, _ := t.Tag(LocaleAlternate).Base(); base == altBase {
		return LocaleAlternate, nil
	}
	if defBase, _ := t.Tag(LocaleDefault).Base(); base == defBase {
		return LocaleDefault, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
}

func (t LocaleTags) validate() error {
	t = t.withDefaults()
	for _, raw := range []string{t.Default, t.Alternate} {
		if _, err := language.Parse(raw); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownLocale, raw)
		}
	}
	def, _ := language.Parse(t.Default)
	alt, _ := language.Parse(t.Alternate)
	if def == alt {
		return fmt.Errorf("%w: default and alternate share tag %q", ErrUnknownLocale, t.Default)
	}
	return nil
}
