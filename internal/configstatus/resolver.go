package configstatus

import "golang.org/x/text/language"

// Resolver turns a message key suffix into display text.
type Resolver struct {
	translations TranslationProvider
}

// NewResolver returns a resolver backed by translations.
func NewResolver(translations TranslationProvider) *Resolver {
	return &Resolver{translations: translations}
}

// Resolve looks up keyPrefix+keySuffix in bundle for locale and renders it
// with args. It adds no locale fallback of its own; ok is false when the
// translation provider has no text.
func (r *Resolver) Resolve(bundle, keyPrefix, keySuffix string, locale language.Tag, args ...any) (string, bool) {
	return r.translations.Text(bundle, keyPrefix+keySuffix, "", locale, args...)
}
