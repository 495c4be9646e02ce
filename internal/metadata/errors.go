package metadata

import "errors"

// Domain-specific errors for metadata operations.
var (
	// ErrMetadataNotFound is returned when no metadata exists for a key.
	ErrMetadataNotFound = errors.New("metadata: not found")

	// ErrMetadataExists is returned by Add when the key is already taken.
	ErrMetadataExists = errors.New("metadata: already exists")

	// ErrInvalidKey is returned for malformed namespaces or item names.
	ErrInvalidKey = errors.New("metadata: invalid key")

	// ErrInvalidValue is returned for configuration values that cannot be
	// represented as a string, bool or canonical decimal.
	ErrInvalidValue = errors.New("metadata: invalid configuration value")
)
