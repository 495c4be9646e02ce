package i18n

import "errors"

var (
	// ErrInvalidLocale is returned when a locale string is not a valid BCP 47 tag.
	ErrInvalidLocale = errors.New("i18n: invalid locale")

	// ErrMalformedPattern is returned when a message template cannot be parsed.
	ErrMalformedPattern = errors.New("i18n: malformed message pattern")

	// ErrArgumentType is returned when an argument does not match its
	// placeholder's format type.
	ErrArgumentType = errors.New("i18n: argument does not match format type")

	// ErrInvalidBundleFile is returned for bundle files that do not decode
	// into string templates.
	ErrInvalidBundleFile = errors.New("i18n: invalid bundle file")
)
