package node

// Message is the unit of data that travels along wires between node
// instances. Payload carries the primary value; Fields holds named
// auxiliary values a node may read or set for downstream consumers.
type Message struct {
	// ID uniquely identifies this message within the host.
	ID string

	// Topic is an optional routing or correlation hint.
	Topic string

	// Payload is the primary value of the message.
	Payload any

	// Fields holds auxiliary named values. May be nil.
	Fields map[string]any
}

// Clone returns a copy of the message with its own Fields map, so that a
// fan-out delivery to several wires cannot leak field mutations between
// recipients. Payload and field values themselves are shared, not deep
// copied.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	out := &Message{
		ID:      m.ID,
		Topic:   m.Topic,
		Payload: m.Payload,
	}
	if m.Fields != nil {
		out.Fields = make(map[string]any, len(m.Fields))
		for k, v := range m.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// Field returns the named auxiliary value, or nil when absent.
func (m *Message) Field(name string) any {
	if m == nil || m.Fields == nil {
		return nil
	}
	return m.Fields[name]
}

// SetField stores a named auxiliary value, allocating the Fields map on
// first use.
func (m *Message) SetField(name string, value any) {
	if m.Fields == nil {
		m.Fields = make(map[string]any)
	}
	m.Fields[name] = value
}
