package sdjwt

import (
	"bytes"
	"encoding/json"
)

// orderedObject preserves object-key insertion order through decode and
// re-encode, which plain map[string]any cannot: Go's encoding/json sorts map
// keys alphabetically on Marshal, which would silently reorder `_sd` arrays
// and claim objects relative to how the issuer produced them. Digest
// computation (canon.go) needs to reproduce byte-identical JSON for values
// that round-trip through a map, so every object we decode from the wire is
// decoded into this type instead of map[string]any internally.
type orderedObject struct {
	keys   []string
	values map[string]any
}

func newOrderedObject() *orderedObject {
	return &orderedObject{values: make(map[string]any)}
}

func (o *orderedObject) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *orderedObject) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *orderedObject) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *orderedObject) Keys() []string {
	return o.keys
}

// ToMap returns a plain map[string]any snapshot for callers that don't care
// about order (the public VerificationResult/SdJwt.Payload surface).
func (o *orderedObject) ToMap() map[string]any {
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = unwrapOrdered(v)
	}
	return out
}

func unwrapOrdered(v any) any {
	switch t := v.(type) {
	case *orderedObject:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = unwrapOrdered(e)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t
	default:
		return v
	}
}

// MarshalJSON emits keys in insertion order.
func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeOrdered decodes arbitrary JSON into orderedObject/[]any/scalar trees,
// using json.Decoder token-by-token so object key order survives.
func decodeOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeOrderedValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeOrderedValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeOrderedToken(dec, tok)
}

func decodeOrderedToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := newOrderedObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := decodeOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []any
			for dec.More() {
				val, err := decodeOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			if arr == nil {
				arr = []any{}
			}
			return arr, nil
		}
	}
	return tok, nil
}

// claimsToOrdered converts a public map[string]any (as supplied by an Issuer
// caller) into an *orderedObject tree, fixing key order via a canonical
// round trip through json.Marshal/decodeOrdered — good enough since the
// caller-supplied map has no meaningful order of its own, only the issuer's
// own emitted `_sd`/claim ordering (built directly as orderedObject) matters
// for digest stability.
func claimsToOrdered(m map[string]any) (*orderedObject, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, WrapError(KindInvalidInput, "claims are not JSON-serializable", err)
	}
	v, err := decodeOrdered(data)
	if err != nil {
		return nil, WrapError(KindInvalidInput, "claims are not valid JSON", err)
	}
	obj, ok := v.(*orderedObject)
	if !ok {
		return nil, NewError(KindInvalidInput, "claims must be a JSON object")
	}
	return obj, nil
}
