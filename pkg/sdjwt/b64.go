package sdjwt

import "encoding/base64"

// defaultMaxB64Bytes is the compiled-in default for Ceilings.MaxB64InputBytes
// (config.go), which bounds how large a single base64url-encoded token
// segment (an individual disclosure, a JWS part) b64Decode will decode,
// defending against oversized inputs before any JSON parsing happens.
const defaultMaxB64Bytes = 10 * 1024 * 1024 // 10 MiB

func b64Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func b64Decode(s string) ([]byte, error) {
	if len(s) > Ceilings.MaxB64InputBytes {
		return nil, NewError(KindInvalidInput, "base64url segment exceeds maximum size")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, WrapError(KindInvalidInput, "invalid base64url encoding", err)
	}
	return b, nil
}
