package model

import "github.com/sdmxkit/sdmxml/i18n"

// LocalizedText is one (locale, value) pair of an InternationalString, as
// carried by a single localized wire element.
type LocalizedText struct {
	Locale string
	Value  string
}

// InternationalString is an ordered mapping from locale tag to text.
// Insertion order is preserved; setting an existing locale replaces its
// value in place. The zero value is empty and ready to use.
type InternationalString struct {
	locales []string
	values  map[string]string
}

// Set adds or replaces the text for a locale. An empty locale is stored
// under the default locale.
func (s *InternationalString) Set(locale, value string) {
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[locale]; !ok {
		s.locales = append(s.locales, locale)
	}
	s.values[locale] = value
}

// Update applies a sequence of localized texts in order.
func (s *InternationalString) Update(texts ...LocalizedText) {
	for _, t := range texts {
		s.Set(t.Locale, t.Value)
	}
}

// Get returns the text for an exact locale tag.
func (s *InternationalString) Get(locale string) (string, bool) {
	v, ok := s.values[locale]
	return v, ok
}

// Localized returns the best text for the requested locale preferences,
// falling back to the default locale and then to the first localization.
func (s *InternationalString) Localized(requested ...string) string {
	if len(s.locales) == 0 {
		return ""
	}
	loc, _ := i18n.Match(s.locales, requested...)
	return s.values[loc]
}

// Locales returns the locale tags in insertion order.
func (s *InternationalString) Locales() []string {
	out := make([]string, len(s.locales))
	copy(out, s.locales)
	return out
}

// Len returns the number of localizations.
func (s *InternationalString) Len() int { return len(s.locales) }

// IsZero reports whether no localization is present.
func (s *InternationalString) IsZero() bool { return len(s.locales) == 0 }

// String returns the default-locale text when present, else the first
// localization in insertion order.
func (s InternationalString) String() string {
	if v, ok := s.values[i18n.DefaultLocale]; ok {
		return v
	}
	if len(s.locales) > 0 {
		return s.values[s.locales[0]]
	}
	return ""
}
