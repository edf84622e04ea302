// Package document loads and rewrites client configuration files as generic
// JSON documents. A document keeps the raw bytes and original order of every
// top-level key so that write-back only ever touches the server-map key;
// everything else a client application stores in its config file passes
// through untouched.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	mcperrors "github.com/agentstation/mcpsync/pkg/errors"
)

// Document is the parsed content of one configuration file. Top-level
// values are held as raw JSON so unknown keys survive a rewrite verbatim.
type Document struct {
	path   string
	exists bool
	keys   []string
	values map[string]json.RawMessage
}

// New returns an empty document for the given path, as used for files that
// have not been created yet.
func New(path string) *Document {
	return &Document{
		path:   path,
		values: make(map[string]json.RawMessage),
	}
}

// Load reads and parses the JSON document at path. A missing file is a
// legitimate starting state and yields a fresh empty document; malformed
// JSON or a non-object root yields a *errors.ParseError.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(path), nil
		}
		return nil, mcperrors.WrapIO("read", path, err)
	}

	keys, values, err := parseObject(data)
	if err != nil {
		return nil, mcperrors.NewParseError("json", path, err.Error(), err)
	}

	return &Document{
		path:   path,
		exists: true,
		keys:   keys,
		values: values,
	}, nil
}

// Path returns the file path this document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Exists reports whether the document was backed by a file on disk at load
// time.
func (d *Document) Exists() bool {
	return d.exists
}

// Keys returns the top-level keys in their original file order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Value returns the raw JSON value of a top-level key.
func (d *Document) Value(key string) (json.RawMessage, bool) {
	v, ok := d.values[key]
	return v, ok
}

// ServerMap decodes the server map stored under key. An absent or null key
// yields an empty map; any other non-object value is a parse error because
// the document cannot be safely rewritten around it.
func (d *Document) ServerMap(key string) (*ServerMap, error) {
	raw, ok := d.values[key]
	if !ok || isNull(raw) {
		return NewServerMap(), nil
	}

	names, defs, err := parseObject(raw)
	if err != nil {
		return nil, mcperrors.NewParseError("json", d.path, "key "+key+": "+err.Error(), err)
	}

	return &ServerMap{names: names, defs: defs}, nil
}

// SetServerMap replaces the value under key with the given server map,
// appending the key if the document does not have it yet. No other key is
// touched.
func (d *Document) SetServerMap(key string, servers *ServerMap) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = servers.encode()
}

// Encode renders the document with two-space indentation. Top-level keys
// appear in their original order; values of keys other than the server-map
// key are emitted from their original raw bytes.
func (d *Document) Encode() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		compact.Write(kb)
		compact.WriteByte(':')
		compact.Write(d.values[key])
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// parseObject decodes a JSON object while recording key order and the raw
// bytes of each value. Duplicate keys keep their first position with the
// last value, matching encoding/json semantics.
func parseObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("top-level value is not a JSON object")
	}

	var keys []string
	values := make(map[string]json.RawMessage)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, errors.New("object key is not a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}

		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}

	// Consume the closing brace and make sure nothing follows it.
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, errors.New("trailing data after top-level object")
	}

	return keys, values, nil
}

// isNull reports whether raw is the JSON null literal.
func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
