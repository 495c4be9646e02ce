// Package configstatus aggregates configuration status messages about
// entities from independently registered providers and renders each
// message in the caller's locale.
//
// A Provider reports raw messages keyed by a suffix; the Service prepends
// the key prefix ("config-status." by default), resolves the text in the
// provider's bundle through a TranslationProvider and returns the merged
// Info. Messages whose key cannot be resolved are left out and reported
// as faults; a failing provider does not affect the others.
//
// Usage:
//
//	svc, err := configstatus.NewService(configstatus.Deps{
//	    Translations: catalog,
//	    Locales:      i18n.StaticLocaleProvider{Tag: language.English},
//	})
//	svc.AddProvider(myProvider)
//	info, err := svc.GetConfigStatus(ctx, "thing-1", language.German)
//	if errors.Is(err, configstatus.ErrEntityNotFound) {
//	    // no provider knows thing-1
//	}
package configstatus
