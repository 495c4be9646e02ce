package configstatus

import "encoding/json"

// Info is the immutable set of resolved messages for one entity.
//
// Equality ignores message order; duplicates count.
type Info struct {
	messages []Message
}

// NewInfo returns an Info holding a copy of messages.
func NewInfo(messages ...Message) *Info {
	return &Info{messages: append([]Message(nil), messages...)}
}

// Messages returns a copy of the messages in their stored order.
func (i *Info) Messages() []Message {
	if i == nil {
		return nil
	}
	return append([]Message(nil), i.messages...)
}

// Len returns the number of messages.
func (i *Info) Len() int {
	if i == nil {
		return 0
	}
	return len(i.messages)
}

// ByType returns the messages whose type is one of types.
func (i *Info) ByType(types ...Type) []Message {
	return i.filter(func(m Message) bool {
		for _, t := range types {
			if m.Type == t {
				return true
			}
		}
		return false
	})
}

// ByParameter returns the messages for any of the named parameters.
func (i *Info) ByParameter(names ...string) []Message {
	return i.filter(func(m Message) bool {
		for _, n := range names {
			if m.ParameterName == n {
				return true
			}
		}
		return false
	})
}

func (i *Info) filter(keep func(Message) bool) []Message {
	var out []Message
	for _, m := range i.Messages() {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Equal reports whether i and other hold the same multiset of messages.
func (i *Info) Equal(other *Info) bool {
	if i == nil || other == nil {
		return i == other
	}
	if len(i.messages) != len(other.messages) {
		return false
	}

	used := make([]bool, len(other.messages))
outer:
	for _, m := range i.messages {
		for j, o := range other.messages {
			if !used[j] && m.Equal(o) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// MarshalJSON encodes the messages as a JSON array.
func (i *Info) MarshalJSON() ([]byte, error) {
	msgs := i.Messages()
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(msgs)
}

// UnmarshalJSON decodes a JSON array of messages.
func (i *Info) UnmarshalJSON(data []byte) error {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return err
	}
	i.messages = msgs
	return nil
}
