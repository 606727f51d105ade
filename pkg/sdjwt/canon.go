package sdjwt

import "encoding/json"

// disclosureArray builds the plaintext JSON array a disclosure's digest is
// computed over: [salt, claimName, value] for an object property, or
// [salt, value] for an array element. Grounded on the teacher's
// Discloser.Hash, which does the same two-shape marshal before hashing.
func disclosureArray(d Disclosure) ([]byte, error) {
	var arr []any
	if d.IsArray {
		arr = []any{d.Salt, d.Value}
	} else {
		arr = []any{d.Salt, d.ClaimName, d.Value}
	}
	data, err := json.Marshal(arr)
	if err != nil {
		return nil, WrapError(KindInvalidInput, "disclosure value is not JSON-serializable", err)
	}
	return data, nil
}

// arrayPlaceholder returns the {"...": digest} object used in place of a
// disclosed array element, per the SD-JWT array-disclosure wire format.
func arrayPlaceholder(digest Digest) *orderedObject {
	o := newOrderedObject()
	o.Set("...", string(digest))
	return o
}

// isArrayPlaceholder reports whether v is a decoded {"...": "<digest>"}
// object, and returns the digest if so.
func isArrayPlaceholder(v any) (Digest, bool) {
	obj, ok := v.(*orderedObject)
	if !ok {
		return "", false
	}
	if len(obj.Keys()) != 1 {
		return "", false
	}
	raw, ok := obj.Get("...")
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return Digest(s), true
}

// marshalCanonical is a thin alias for json.Marshal. It currently has no
// caller: disclosureArray calls json.Marshal itself, and digests are computed
// over the base64url disclosure string (see computeDigest).
func marshalCanonical(v any) ([]byte, error) {
	return json.Marshal(v)
}
