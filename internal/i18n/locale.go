package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale parses a BCP 47 tag. Underscore separators ("de_CH") are
// accepted. An empty string yields language.Und, meaning "not specified".
func ParseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrInvalidLocale, s)
	}
	return tag, nil
}

// PreferredLocale returns the highest-weighted tag of an Accept-Language
// header, or language.Und when the header is empty or unparsable.
func PreferredLocale(acceptLanguage string) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return language.Und
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.Und
	}
	return tags[0]
}

// StaticLocaleProvider always reports the same locale.
type StaticLocaleProvider struct {
	Tag language.Tag
}

// Locale returns the configured tag.
func (p StaticLocaleProvider) Locale() language.Tag {
	return p.Tag
}
