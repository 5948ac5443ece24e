// Package i18n provides locale-tag handling for localized artefact names.
//
// SDMX-ML carries names and descriptions as repeated elements tagged with
// xml:lang. This package canonicalizes those tags and picks the best
// available localization for a requested set of preferences.
package i18n

import "golang.org/x/text/language"

// DefaultLocale is used when a localized element carries no xml:lang tag,
// and is the preferred locale when none is requested.
const DefaultLocale = "en"

// Canonical normalizes a BCP 47 tag ("en-GB", "fr"). Unparseable tags are
// returned unchanged so that decoding never fails on a bad xml:lang value.
func Canonical(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}

// Match selects the best entry of available for the requested preferences.
// The boolean reports whether a confident match was found; when it is false
// the first available locale is returned as a fallback.
func Match(available []string, requested ...string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}
	tags := make([]language.Tag, 0, len(available))
	for _, a := range available {
		t, err := language.Parse(a)
		if err != nil {
			t = language.Und
		}
		tags = append(tags, t)
	}
	want := make([]language.Tag, 0, len(requested)+1)
	for _, r := range requested {
		if t, err := language.Parse(r); err == nil {
			want = append(want, t)
		}
	}
	if len(want) == 0 {
		want = append(want, language.Make(DefaultLocale))
	}
	m := language.NewMatcher(tags)
	_, idx, conf := m.Match(want...)
	if conf == language.No {
		return available[0], false
	}
	return available[idx], true
}
