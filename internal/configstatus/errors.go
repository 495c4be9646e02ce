package configstatus

import "errors"

// Domain-specific errors for config status aggregation.
var (
	// ErrEntityNotFound is returned when no registered provider supports
	// the entity. It is distinct from an empty result.
	ErrEntityNotFound = errors.New("configstatus: entity not found")

	// ErrMessageNotResolved records a message whose key has no template for
	// the requested locale.
	ErrMessageNotResolved = errors.New("configstatus: message key not resolved")

	// ErrProviderFailed records a provider that returned an error or panicked.
	ErrProviderFailed = errors.New("configstatus: provider failed")

	// ErrInvalidMessage is returned for messages that break the Message rules.
	ErrInvalidMessage = errors.New("configstatus: invalid message")

	// ErrMissingDependency is returned by NewService for absent collaborators.
	ErrMissingDependency = errors.New("configstatus: missing dependency")
)
