package document

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// ServerMap is an order-preserving mapping from server name to its raw JSON
// definition, as stored under a client's server-map key.
type ServerMap struct {
	names []string
	defs  map[string]json.RawMessage
}

// NewServerMap returns an empty server map.
func NewServerMap() *ServerMap {
	return &ServerMap{defs: make(map[string]json.RawMessage)}
}

// Set adds or replaces the definition for name, keeping first-insertion
// order for existing names.
func (m *ServerMap) Set(name string, def json.RawMessage) {
	if _, ok := m.defs[name]; !ok {
		m.names = append(m.names, name)
	}
	m.defs[name] = def
}

// Get returns the raw definition for name.
func (m *ServerMap) Get(name string) (json.RawMessage, bool) {
	def, ok := m.defs[name]
	return def, ok
}

// Names returns the server names in insertion order.
func (m *ServerMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of servers in the map.
func (m *ServerMap) Len() int {
	return len(m.names)
}

// encode renders the map as a compact JSON object in insertion order.
func (m *ServerMap) encode() json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(name)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(m.defs[name])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// EqualDefinitions reports structural equality of two raw JSON definitions.
// Whitespace and object key order do not matter; only the decoded values do.
func EqualDefinitions(a, b json.RawMessage) bool {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
