package configstatus

import (
	"fmt"
	"reflect"
)

// Type classifies a status message.
type Type string

// Message types in ascending severity.
const (
	TypeInformation Type = "INFORMATION"
	TypeWarning     Type = "WARNING"
	TypeError       Type = "ERROR"
)

// IsValid reports whether t is a known type.
func (t Type) IsValid() bool {
	return t.severity() > 0
}

func (t Type) severity() int {
	switch t {
	case TypeInformation:
		return 1
	case TypeWarning:
		return 2
	case TypeError:
		return 3
	default:
		return 0
	}
}

// Message is one diagnostic about a configuration parameter of an entity.
//
// A raw message from a provider carries MessageKeySuffix and Arguments;
// the service resolves it into a message carrying Message text instead.
// The two forms are mutually exclusive. Build raw messages with
// Information, Warning or Error:
//
//	configstatus.Warning("port").
//	    WithMessageKeySuffix("port.range").
//	    WithStatusCode(1).
//	    WithArguments(70000)
type Message struct {
	ParameterName    string `json:"parameter_name"`
	Type             Type   `json:"type"`
	MessageKeySuffix string `json:"message_key_suffix,omitempty"`
	Message          string `json:"message,omitempty"`
	StatusCode       *int   `json:"status_code,omitempty"`
	Arguments        []any  `json:"arguments,omitempty"`
}

// Information starts an INFORMATION message for parameterName.
func Information(parameterName string) Message {
	return Message{ParameterName: parameterName, Type: TypeInformation}
}

// Warning starts a WARNING message for parameterName.
func Warning(parameterName string) Message {
	return Message{ParameterName: parameterName, Type: TypeWarning}
}

// Error starts an ERROR message for parameterName.
func Error(parameterName string) Message {
	return Message{ParameterName: parameterName, Type: TypeError}
}

// WithMessageKeySuffix returns a copy keyed by suffix.
func (m Message) WithMessageKeySuffix(suffix string) Message {
	m.MessageKeySuffix = suffix
	return m
}

// WithMessage returns a copy carrying pre-resolved text.
func (m Message) WithMessage(text string) Message {
	m.Message = text
	return m
}

// WithStatusCode returns a copy with the status code set.
func (m Message) WithStatusCode(code int) Message {
	m.StatusCode = &code
	return m
}

// WithArguments returns a copy with its own copy of args.
func (m Message) WithArguments(args ...any) Message {
	m.Arguments = append([]any(nil), args...)
	return m
}

// Resolved reports whether m carries display text rather than a key.
func (m Message) Resolved() bool {
	return m.Message != ""
}

// Validate checks the parameter name, type and the key/text exclusivity.
func (m Message) Validate() error {
	if m.ParameterName == "" {
		return fmt.Errorf("%w: parameter name is required", ErrInvalidMessage)
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q for parameter %s", ErrInvalidMessage, m.Type, m.ParameterName)
	}
	switch {
	case m.MessageKeySuffix == "" && m.Message == "":
		return fmt.Errorf("%w: parameter %s has neither key suffix nor text", ErrInvalidMessage, m.ParameterName)
	case m.MessageKeySuffix != "" && m.Message != "":
		return fmt.Errorf("%w: parameter %s has both key suffix and text", ErrInvalidMessage, m.ParameterName)
	}
	return nil
}

// Equal reports whether every field of m and other is equal.
func (m Message) Equal(other Message) bool {
	if m.ParameterName != other.ParameterName ||
		m.Type != other.Type ||
		m.MessageKeySuffix != other.MessageKeySuffix ||
		m.Message != other.Message {
		return false
	}
	if (m.StatusCode == nil) != (other.StatusCode == nil) {
		return false
	}
	if m.StatusCode != nil && *m.StatusCode != *other.StatusCode {
		return false
	}
	if len(m.Arguments) != len(other.Arguments) {
		return false
	}
	return len(m.Arguments) == 0 || reflect.DeepEqual(m.Arguments, other.Arguments)
}

// String renders the message for logs.
func (m Message) String() string {
	text := m.Message
	if text == "" {
		text = "key=" + m.MessageKeySuffix
	}
	if m.StatusCode != nil {
		return fmt.Sprintf("%s %s: %s (code %d)", m.Type, m.ParameterName, text, *m.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s", m.Type, m.ParameterName, text)
}

// less orders resolved messages by parameter name, severity, text and
// status code (absent first).
func (m Message) less(other Message) bool {
	if m.ParameterName != other.ParameterName {
		return m.ParameterName < other.ParameterName
	}
	if m.Type.severity() != other.Type.severity() {
		return m.Type.severity() < other.Type.severity()
	}
	if m.Message != other.Message {
		return m.Message < other.Message
	}
	switch {
	case m.StatusCode == nil:
		return other.StatusCode != nil
	case other.StatusCode == nil:
		return false
	default:
		return *m.StatusCode < *other.StatusCode
	}
}
