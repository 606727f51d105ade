package sdjwt

import "crypto/rand"

const saltBytes = 16

// generateSalt produces a fresh CSPRNG salt for a disclosure, matching the
// teacher's generateSalt (16 random bytes, base64url, no padding).
func generateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", WrapError(KindInvalidInput, "failed to generate salt", err)
	}
	return b64Encode(buf), nil
}

// encodeDisclosure builds and returns the base64url-encoded disclosure string
// for d, computing neither a digest nor performing any I/O. It does not set
// d.raw; callers store the returned string themselves.
func encodeDisclosure(d Disclosure) (string, error) {
	arr, err := disclosureArray(d)
	if err != nil {
		return "", err
	}
	return b64Encode(arr), nil
}

// newObjectDisclosure builds a fresh object-property disclosure with a newly
// generated salt.
func newObjectDisclosure(claimName string, value any) (Disclosure, error) {
	salt, err := generateSalt()
	if err != nil {
		return Disclosure{}, err
	}
	d := Disclosure{Salt: salt, ClaimName: claimName, Value: value}
	raw, err := encodeDisclosure(d)
	if err != nil {
		return Disclosure{}, err
	}
	d.raw = raw
	return d, nil
}

// newArrayDisclosure builds a fresh array-element disclosure with a newly
// generated salt.
func newArrayDisclosure(value any) (Disclosure, error) {
	salt, err := generateSalt()
	if err != nil {
		return Disclosure{}, err
	}
	d := Disclosure{Salt: salt, Value: value, IsArray: true}
	raw, err := encodeDisclosure(d)
	if err != nil {
		return Disclosure{}, err
	}
	d.raw = raw
	return d, nil
}

// Raw returns the base64url-encoded disclosure string, as it appears on the
// wire between tildes.
func (d Disclosure) Raw() string {
	return d.raw
}

// parseDisclosure decodes a base64url disclosure string into a Disclosure,
// accepting both the 2-element (array) and 3-element (object) forms.
// Grounded on sdjwtvc/utils.go's ParseSelectiveDisclosure and
// sdjwtvc/verification.go's parseDisclosure.
func parseDisclosure(raw string) (Disclosure, error) {
	data, err := b64Decode(raw)
	if err != nil {
		return Disclosure{}, WrapError(KindMalformedDisclosure, "disclosure is not valid base64url", err)
	}

	v, err := decodeOrdered(data)
	if err != nil {
		return Disclosure{}, WrapError(KindMalformedDisclosure, "disclosure is not valid JSON", err)
	}
	arr, ok := v.([]any)
	if !ok {
		return Disclosure{}, NewError(KindMalformedDisclosure, "disclosure is not a JSON array")
	}

	var d Disclosure
	switch len(arr) {
	case 2:
		salt, ok := arr[0].(string)
		if !ok {
			return Disclosure{}, NewError(KindMalformedDisclosure, "disclosure salt is not a string")
		}
		d = Disclosure{Salt: salt, Value: unwrapOrdered(arr[1]), IsArray: true}
	case 3:
		salt, ok := arr[0].(string)
		if !ok {
			return Disclosure{}, NewError(KindMalformedDisclosure, "disclosure salt is not a string")
		}
		name, ok := arr[1].(string)
		if !ok {
			return Disclosure{}, NewError(KindMalformedDisclosure, "disclosure claim name is not a string")
		}
		d = Disclosure{Salt: salt, ClaimName: name, Value: unwrapOrdered(arr[2])}
	default:
		return Disclosure{}, NewError(KindMalformedDisclosure, "disclosure array must have 2 or 3 elements")
	}

	d.raw = raw
	return d, nil
}
