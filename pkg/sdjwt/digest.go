package sdjwt

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"hash"

	"golang.org/x/crypto/sha3"
)

// newHasher returns the hash.Hash for alg, or an error for anything outside
// the three wire-valid algorithms plus the sha3-256 dispatch-table entry
// kept for forward-compatibility testing (see SPEC_FULL.md §6 — sha3 is
// never produced on the wire; digest_test.go checks that it dispatches here
// while isWireHashAlg still rejects it as an `_sd_alg` value).
func newHasher(alg HashAlg) (hash.Hash, error) {
	switch alg {
	case HashAlgSHA256:
		return sha256.New(), nil
	case HashAlgSHA384:
		return sha512.New384(), nil
	case HashAlgSHA512:
		return sha512.New(), nil
	case "sha3-256":
		return sha3.New256(), nil
	default:
		return nil, NewError(KindHashAlgMismatch, "unsupported hash algorithm: "+string(alg))
	}
}

// isWireHashAlg reports whether alg is one of the three algorithms spec.md
// §4.3 permits `_sd_alg` to carry. sha3-256 is dispatchable by newHasher for
// forward-compatibility testing but is never wire-valid.
func isWireHashAlg(alg HashAlg) bool {
	switch alg {
	case HashAlgSHA256, HashAlgSHA384, HashAlgSHA512:
		return true
	default:
		return false
	}
}

// computeDigest hashes the ASCII bytes of a base64url-encoded disclosure
// string and returns the base64url-encoded digest used in `_sd` arrays and
// array placeholders.
func computeDigest(alg HashAlg, disclosureB64 string) (Digest, error) {
	h, err := newHasher(alg)
	if err != nil {
		return "", err
	}
	h.Write([]byte(disclosureB64))
	return Digest(b64Encode(h.Sum(nil))), nil
}

// digestsEqual compares two digests in constant time, so a timing side
// channel never reveals how many leading bytes of a guessed digest matched.
// Per §7, digest-mismatch errors must never leak partial-match information;
// the byte comparison is left to crypto/subtle.ConstantTimeCompare.
func digestsEqual(a, b Digest) bool {
	ab, bb := []byte(a), []byte(b)
	if len(ab) != len(bb) {
		// still run a constant-time compare against a zero buffer of the
		// longer length, so the false branch costs the same as a near-miss.
		longer := ab
		if len(bb) > len(ab) {
			longer = bb
		}
		dummy := make([]byte, len(longer))
		subtle.ConstantTimeCompare(longer, dummy)
		return false
	}
	return subtle.ConstantTimeCompare(ab, bb) == 1
}
