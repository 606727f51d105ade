package sdjwt

import (
	"time"
)

// reservedClaims are the JWT claims that carry authenticity/validity
// semantics and must never be selectively disclosable (§6).
var reservedClaims = map[string]bool{
	"iss": true, "aud": true, "exp": true, "nbf": true, "cnf": true,
	"iat": true, "sub": true, "jti": true, "_sd": true, "_sd_alg": true,
}

// Issuer builds SD-JWTs from a claim set and a selection of claim paths to
// make selectively disclosable, generalizing sdjwtvc.Client.BuildCredential/
// MakeCredentialWithOptions off VCTM-driven paths onto the string
// claim-path grammar in claimpath.go.
type Issuer struct {
	SigningKey any
	Header     map[string]any

	// Log is optional; nil is a silent no-op (§4.A).
	Log *Log
}

// NewIssuer builds an Issuer that signs with signingKey, including any extra
// JWS header fields (e.g. "kid") callers want stamped on every issued JWT.
func NewIssuer(signingKey any, header map[string]any) *Issuer {
	return &Issuer{SigningKey: signingKey, Header: header}
}

// Issue builds an SdJwt from claims, replacing every claim named in
// disclosablePaths with a digest placeholder and emitting a corresponding
// Disclosure, plus any configured decoy digests, then signs the resulting
// JWS payload.
func (iss *Issuer) Issue(claims map[string]any, disclosablePaths []string, opts CredentialOptions) (*SdJwt, error) {
	opts, err := defaultCredentialOptions(opts)
	if err != nil {
		return nil, err
	}

	if err := checkNoInternalKeys(claims); err != nil {
		return nil, err
	}

	payload, err := claimsToOrdered(claims)
	if err != nil {
		return nil, err
	}

	paths := make([]ClaimPath, 0, len(disclosablePaths))
	for _, p := range disclosablePaths {
		cp, err := ParseClaimPath(p)
		if err != nil {
			return nil, err
		}
		if reservedClaims[cp.Segments[0].Key] {
			return nil, NewError(KindInvalidInput, "claim path targets a reserved claim: "+p)
		}
		paths = append(paths, cp)
	}
	sortPathsByDepth(paths)

	var disclosures []Disclosure
	for _, cp := range paths {
		d, err := applyDisclosure(payload, cp, opts.HashAlg)
		if err != nil {
			return nil, err
		}
		disclosures = append(disclosures, d)
	}

	if opts.DecoyDigests > 0 {
		if err := addDecoyDigestsRecursive(payload, opts.DecoyDigests, opts.HashAlg); err != nil {
			return nil, err
		}
	}

	if len(opts.HolderPublicKey) > 0 {
		holderJWK, err := publicKeyToJWK(opts.HolderPublicKey)
		if err != nil {
			return nil, err
		}
		payload.Set("cnf", map[string]any{"jwk": holderJWK})
	}

	payload.Set("_sd_alg", string(opts.HashAlg))

	if opts.ExpirationDays > 0 {
		if _, ok := payload.Get("exp"); !ok {
			payload.Set("exp", time.Now().AddDate(0, 0, opts.ExpirationDays).Unix())
		}
	}
	if _, ok := payload.Get("iat"); !ok {
		payload.Set("iat", time.Now().Unix())
	}

	header := map[string]any{}
	for k, v := range iss.Header {
		header[k] = v
	}

	signed, err := signJWT(header, payload.ToMap(), iss.SigningKey)
	if err != nil {
		return nil, err
	}

	if iss.Log != nil {
		iss.Log.Debug("issued sd-jwt", "disclosures", len(disclosures), "hashAlg", string(opts.HashAlg))
	}

	return &SdJwt{
		Header:      header,
		Payload:     payload.ToMap(),
		JWT:         signed,
		Disclosures: disclosures,
	}, nil
}

// checkNoInternalKeys rejects caller-supplied claims that contain either of
// the library's own internal keys, _sd or _sd_alg, at the top level or at any
// nested level (§4.10 step 7).
func checkNoInternalKeys(v any) error {
	switch t := v.(type) {
	case map[string]any:
		if _, ok := t["_sd_alg"]; ok {
			return NewError(KindInvalidInput, "claims must not contain a reserved _sd_alg key")
		}
		if _, ok := t["_sd"]; ok {
			return NewError(KindInvalidInput, "claims must not contain a reserved _sd key")
		}
		for _, val := range t {
			if err := checkNoInternalKeys(val); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range t {
			if err := checkNoInternalKeys(e); err != nil {
				return err
			}
		}
	}
	return nil
}
