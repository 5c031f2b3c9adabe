package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Known JSON keys of a university record.
const (
	keyName    = "name"
	keyCountry = "country"
	keyDomains = "domains"
	keyState   = "state"
)

// University is a single record of the world universities dataset.
//
// Keys other than name, country, domains and state are kept verbatim and
// written back in their original order, so a rewrite only ever changes the
// state field.
type University struct {
	Name    string
	Country string
	Domains []string
	State   string

	order []string
	raw   map[string]json.RawMessage
}

// HasState reports whether the record already carries a state code.
func (u *University) HasState() bool {
	return strings.TrimSpace(u.State) != ""
}

// SetState assigns the state code only when the record has none yet.
// It returns true when the record was modified.
func (u *University) SetState(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || u.HasState() {
		return false
	}
	u.State = code
	return true
}

// UnmarshalJSON decodes a record, remembering key order and unknown keys.
func (u *University) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "model: read university")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.Errorf("model: expected object, got %v", tok)
	}

	*u = University{raw: make(map[string]json.RawMessage)}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "model: read key")
		}
		key, ok := tok.(string)
		if !ok {
			return eris.Errorf("model: expected key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return eris.Wrapf(err, "model: read value for %q", key)
		}

		if _, seen := u.raw[key]; !seen {
			u.order = append(u.order, key)
		}
		u.raw[key] = value

		if err := u.decodeKnown(key, value); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return eris.Wrap(err, "model: read closing brace")
	}
	return nil
}

func (u *University) decodeKnown(key string, value json.RawMessage) error {
	var target any
	switch key {
	case keyName:
		target = &u.Name
	case keyCountry:
		target = &u.Country
	case keyDomains:
		target = &u.Domains
	case keyState:
		target = &u.State
	default:
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(value, target); err != nil {
		return eris.Wrapf(err, "model: decode %q", key)
	}
	return nil
}

// MarshalJSON writes the record with its original key order. Keys the input
// did not have are appended; state is omitted when it was never present and
// is still empty.
func (u University) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	written := make(map[string]bool, len(u.order)+4)
	first := true
	writeField := func(key string, value []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := encodeNoEscape(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		written[key] = true
	}

	for _, key := range u.order {
		value, known, err := u.encodeKnown(key)
		if err != nil {
			return nil, err
		}
		if !known {
			value = u.raw[key]
		}
		writeField(key, value)
	}

	for _, key := range []string{keyName, keyCountry, keyDomains, keyState} {
		if written[key] {
			continue
		}
		if key == keyState && !u.HasState() {
			continue
		}
		value, _, err := u.encodeKnown(key)
		if err != nil {
			return nil, err
		}
		writeField(key, value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeKnown returns the current encoding of a known field. For state, an
// untouched empty value keeps whatever the input had (often null).
func (u University) encodeKnown(key string) ([]byte, bool, error) {
	var value any
	switch key {
	case keyName:
		value = u.Name
	case keyCountry:
		value = u.Country
	case keyDomains:
		value = u.Domains
	case keyState:
		if !u.HasState() {
			if orig, ok := u.raw[keyState]; ok {
				return orig, true, nil
			}
		}
		value = u.State
	default:
		return nil, false, nil
	}
	b, err := encodeNoEscape(value)
	if err != nil {
		return nil, true, eris.Wrapf(err, "model: encode %q", key)
	}
	return b, true, nil
}

// encodeNoEscape marshals v without HTML escaping so names like "A&M" stay readable.
func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
