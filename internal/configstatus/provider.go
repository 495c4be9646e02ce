package configstatus

import (
	"context"

	"golang.org/x/text/language"
)

// DefaultBundle is used for providers that do not name their own bundle.
const DefaultBundle = "core"

// Provider reports raw status messages for the entities it supports.
//
// Implementations must be comparable (typically a pointer) because the
// registry uses them as set members.
type Provider interface {
	// SupportsEntity reports whether the provider has status for entityID.
	// It is evaluated on every query.
	SupportsEntity(entityID string) bool

	// ConfigStatus returns the provider's raw messages.
	ConfigStatus(ctx context.Context) ([]Message, error)
}

// BundleProvider is implemented by providers whose message keys live in a
// bundle other than DefaultBundle.
type BundleProvider interface {
	Bundle() string
}

// Source identifies the entity whose configuration changed.
type Source struct {
	EntityID string
}

// Callback is notified by providers when an entity's configuration changes.
type Callback interface {
	ConfigUpdated(ctx context.Context, source Source)
}

// CallbackAware is implemented by providers that push change notifications.
// The service sets the callback on registration and clears it (nil) on
// removal.
type CallbackAware interface {
	SetConfigStatusCallback(cb Callback)
}

// TranslationProvider looks up and renders translated text. Locale
// fallback is its responsibility.
type TranslationProvider interface {
	Text(bundle, key, defaultText string, locale language.Tag, args ...any) (string, bool)
}

// LocaleProvider supplies the locale used when a caller does not name one.
type LocaleProvider interface {
	Locale() language.Tag
}

func bundleOf(p Provider) string {
	if bp, ok := p.(BundleProvider); ok {
		if b := bp.Bundle(); b != "" {
			return b
		}
	}
	return DefaultBundle
}
