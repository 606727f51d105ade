package sdjwt

import "time"

// HashAlg identifies a digest algorithm usable for `_sd_alg` and for
// key-binding `sd_hash` computation. Only the three values below are valid on
// the wire; sha3-256 exists solely to exercise the dispatch table in tests
// (see digest.go).
type HashAlg string

const (
	HashAlgSHA256 HashAlg = "sha-256"
	HashAlgSHA384 HashAlg = "sha-384"
	HashAlgSHA512 HashAlg = "sha-512"

	// DefaultHashAlg is used whenever an issuer or verifier does not pin one
	// explicitly, matching the teacher's own default and spec.md's Open
	// Question decision (SPEC_FULL.md §10).
	DefaultHashAlg = HashAlgSHA256
)

// Disclosure is a single selectively-disclosable claim, either an object
// property ([]salt, name, value]) or an array element ([salt, value]).
type Disclosure struct {
	Salt      string
	ClaimName string // empty for array-element disclosures
	Value     any
	IsArray   bool

	// raw is the exact base64url-encoded disclosure string this value was
	// parsed from, preserved so re-serialization round-trips byte for byte
	// and so Digest can be computed without re-canonicalizing.
	raw string
}

// Digest is a single `_sd_alg`-hashed disclosure digest, base64url encoded.
type Digest string

// SdJwt is a fully assembled (or fully parsed) SD-JWT, optionally with a
// trailing key-binding JWT.
type SdJwt struct {
	// Header and Payload are the decoded JWS header/body maps of the issuer
	// JWT — Payload still contains `_sd` digest arrays, not disclosed values.
	Header  map[string]any
	Payload map[string]any

	// JWT is the compact issuer-signed JWS (header.payload.signature), not
	// including the trailing disclosures or key-binding JWT.
	JWT string

	// Disclosures are every disclosure the issuer produced, in the order
	// they were emitted. Decoy digests appear only in the payload's `_sd`
	// arrays and have no entry here.
	Disclosures []Disclosure

	// KeyBindingJWT is the compact kb+jwt, or empty if none is attached.
	KeyBindingJWT string
}

// Presentation is a holder-selected subset of an SdJwt's disclosures, ready
// to be serialized to the combined format (JWT~d1~...~dk~[kb-jwt]).
type Presentation struct {
	JWT           string
	Disclosures   []Disclosure
	KeyBindingJWT string
}

// ClaimPath identifies a single claim for disclosure selection, parsed from
// strings like "name", "address.street", or "items[2]".
type ClaimPath struct {
	Segments []PathSegment
}

// PathSegment is one step of a ClaimPath: either an object-key step or an
// array-index step.
type PathSegment struct {
	Key      string
	Index    int
	IsIndex  bool
}

// KeyResolver resolves a JWS `kid` header to the public key that should
// verify it. Returning a nil key with a nil error is treated as "no such
// key" (KindKeyIDNotFound), never as "skip verification".
type KeyResolver func(kid string) (any, error)

// VerificationOptions configures a Verify/ParseAndVerify call.
//
// Clock is injectable for deterministic tests; a nil Clock defaults to
// time.Now at call time.
type VerificationOptions struct {
	// RequireKeyBinding fails verification if no kb+jwt is attached.
	RequireKeyBinding bool `json:"requireKeyBinding"`

	// ExpectedIssuer, when non-empty, must match the token payload's own iss
	// claim exactly (§4.14 step 4).
	ExpectedIssuer string `json:"expectedIssuer"`

	// ExpectedNonce must match the kb+jwt's nonce claim exactly.
	// ExpectedAudience, when non-empty, is checked twice: against the token
	// payload's own aud claim (§4.14 step 5, independent of key binding) and,
	// when a kb+jwt is present, against its aud claim too.
	ExpectedNonce     string `json:"expectedNonce"`
	ExpectedAudience  string `json:"expectedAudience"`

	// ExpectedHashAlg, when non-empty, pins the `_sd_alg` a verified SD-JWT
	// must use; a mismatch is KindHashAlgMismatch.
	ExpectedHashAlg HashAlg `json:"expectedHashAlg"`

	// AllowedClockSkew bounds exp/nbf tolerance (iat is only type-checked).
	// Defaulted and bounded by
	// creasty/defaults + validator tags below.
	AllowedClockSkew time.Duration `json:"allowedClockSkew" default:"30s" validate:"min=0,max=300000000000"`

	// ValidateTime gates temporal validation. creasty/defaults treats a false
	// bool as unset and replaces it with the default true, so temporal
	// validation always runs; setting this to false has no effect.
	ValidateTime bool `json:"validateTime" default:"true"`

	// KeyResolver resolves the issuer signing key. Required; a nil resolver
	// is KindKeyResolverMissing.
	KeyResolver KeyResolver `json:"-"`

	// Clock overrides time.Now for deterministic tests.
	Clock func() time.Time `json:"-"`
}

// CredentialOptions configures an Issuer.Issue call.
type CredentialOptions struct {
	HashAlg       HashAlg `json:"hashAlg" default:"sha-256"`
	DecoyDigests  int     `json:"decoyDigests" validate:"min=0,max=64"`
	ExpirationDays int    `json:"expirationDays" default:"0"`

	// HolderPublicKey is the holder's public key to bind into the credential,
	// DER-encoded SubjectPublicKeyInfo (P-256), as produced by
	// crypto/x509.MarshalPKIXPublicKey. When non-empty, Issue adds
	// cnf: {jwk: <JWK>} to the issued payload (§4.10 step 7). Nil means no
	// key binding is configured.
	HolderPublicKey []byte `json:"-"`
}

// VerificationResult aggregates the outcome of a Verify call. Valid is true
// only if Errors is empty. Errors accumulates every *Error encountered when
// using the result-aggregating Verify entry point (see verifier.go);
// ParseAndVerify instead returns the first one as a plain error.
type VerificationResult struct {
	Valid bool

	Header  map[string]any
	Claims  map[string]any

	DisclosedClaims map[string]any
	Disclosures     []Disclosure

	KeyBindingValid  bool
	KeyBindingClaims map[string]any

	Errors []*Error
}
