package sdjwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier runs the SD-JWT(+KB) verification pipeline: signature, temporal/
// iss validation, hash-algorithm resolution, disclosure/digest validation,
// optional key-binding validation, and claim reconstruction. Grounded on
// sdjwtvc/verification.go's Client.ParseAndVerify, stripped of its
// VC-specific (vct/typ/x5c-trust) steps not in scope here (see DESIGN.md).
type Verifier struct {
	// Log is optional; nil is a silent no-op.
	Log *Log
}

// NewVerifier returns a ready Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// ParseAndVerify is the throwing entry point: it returns the first fatal
// error encountered, short-circuiting the remaining steps, per §4.14's step
// ordering and §7.
func (v *Verifier) ParseAndVerify(combined string, opts VerificationOptions) (*VerificationResult, error) {
	result, errs := v.verify(combined, opts, true)
	if len(errs) > 0 {
		return result, errs[0]
	}
	return result, nil
}

// Verify is the result-aggregating entry point: it never returns a non-nil
// error, instead always returning a *VerificationResult with Errors
// populated and Valid set accordingly.
func (v *Verifier) Verify(combined string, opts VerificationOptions) *VerificationResult {
	result, _ := v.verify(combined, opts, false)
	return result
}

// verify is the single internal routine both public entry points share.
// When stopOnFirst is true (ParseAndVerify), it returns as soon as the first
// *Error is produced; when false (Verify), it keeps going where it safely
// can so Errors accumulates everything wrong with the token, matching
// spec.md §7's two-entry-point contract.
func (v *Verifier) verify(combined string, opts VerificationOptions, stopOnFirst bool) (*VerificationResult, []*Error) {
	result := &VerificationResult{}
	var errs []*Error

	fail := func(e *Error) bool {
		errs = append(errs, e)
		result.Errors = errs
		return stopOnFirst
	}

	opts, defErr := defaultVerificationOptions(opts)
	if defErr != nil {
		if fail(defErr.(*Error)) {
			return result, errs
		}
	}

	jwtPart, disclosureRaw, kbJWT, err := splitCombined(combined)
	if err != nil {
		fail(err.(*Error))
		return result, errs
	}

	if opts.KeyResolver == nil {
		fail(NewError(KindKeyResolverMissing, "no key resolver configured"))
		if stopOnFirst {
			return result, errs
		}
	}

	token, vErr := verifyJWSSignature(jwtPart, opts.KeyResolver)
	if vErr != nil {
		fail(vErr.(*Error))
		if stopOnFirst {
			return result, errs
		}
	}
	if token == nil {
		return result, errs
	}
	result.Header = token.Header

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		fail(NewError(KindInvalidInput, "JWT claims are malformed"))
		return result, errs
	}
	rawClaims := map[string]any(claims)

	clock := time.Now
	if opts.Clock != nil {
		clock = opts.Clock
	}
	if opts.ValidateTime {
		if terr := validateTemporalClaims(rawClaims, clock(), opts.AllowedClockSkew); terr != nil {
			if fail(terr.(*Error)) {
				return result, errs
			}
		}
	}

	if iaErr := validateIssuerAudience(rawClaims, opts.ExpectedIssuer, opts.ExpectedAudience); iaErr != nil {
		if fail(iaErr.(*Error)) {
			return result, errs
		}
	}

	alg := DefaultHashAlg
	if raw, ok := rawClaims["_sd_alg"]; ok {
		s, _ := raw.(string)
		alg = HashAlg(s)
	}
	if opts.ExpectedHashAlg != "" && alg != opts.ExpectedHashAlg {
		if fail(NewError(KindHashAlgMismatch, "_sd_alg does not match expected algorithm")) {
			return result, errs
		}
	}
	if !isWireHashAlg(alg) {
		if fail(NewError(KindHashAlgMismatch, "_sd_alg is not a wire-valid hash algorithm: "+string(alg))) {
			return result, errs
		}
	}

	var disclosures []Disclosure
	for _, raw := range disclosureRaw {
		d, perr := parseDisclosure(raw)
		if perr != nil {
			if fail(perr.(*Error)) {
				return result, errs
			}
			continue
		}
		disclosures = append(disclosures, d)
	}
	if len(disclosures) > Ceilings.MaxDisclosures {
		if fail(NewError(KindInvalidInput, "too many disclosures")) {
			return result, errs
		}
	}
	result.Disclosures = disclosures

	idx, ierr := buildDigestIndex(disclosures, alg)
	if ierr != nil {
		if fail(ierr.(*Error)) {
			return result, errs
		}
	}

	payloadOrdered, operr := claimsToOrdered(rawClaims)
	if operr != nil {
		if fail(operr.(*Error)) {
			return result, errs
		}
	}

	if payloadOrdered != nil {
		present := make(map[Digest]bool)
		collectDigests(payloadOrdered, present)
		for digest, d := range idx {
			if !present[digest] {
				if fail(WrapError(KindDigestMismatch, "disclosure has no matching digest in the token: "+d.Raw(), nil)) {
					return result, errs
				}
			}
		}

		claimsOut, used, rerr := reconstructClaims(payloadOrdered, idx)
		if rerr != nil {
			if fail(rerr.(*Error)) {
				return result, errs
			}
		} else {
			result.Claims = claimsOut
			result.DisclosedClaims = make(map[string]any)
			for digest, d := range idx {
				if !used[digest] {
					if fail(NewError(KindDigestMismatch, "disclosure digest present but unused")) {
						return result, errs
					}
					continue
				}
				if !d.IsArray {
					result.DisclosedClaims[d.ClaimName] = d.Value
				}
			}
		}
	}

	if opts.RequireKeyBinding || kbJWT != "" {
		if kbJWT == "" {
			fail(NewError(KindKeyBindingInvalid, "key-binding JWT required but not present"))
		} else {
			holderKey, cnfErr := holderKeyFromClaims(rawClaims)
			if cnfErr != nil {
				fail(cnfErr.(*Error))
			} else {
				prefix := combinedPrefixFrom(jwtPart, disclosureRaw)
				kbClaims, kerr := verifyKeyBindingJWT(kbJWT, prefix, holderKey, alg, opts.ExpectedNonce, opts.ExpectedAudience, opts.Clock)
				if kerr != nil {
					fail(kerr.(*Error))
				} else {
					result.KeyBindingValid = true
					result.KeyBindingClaims = kbClaims
				}
			}
		}
	}

	result.Valid = len(errs) == 0
	if v.Log != nil {
		v.Log.Debug("verified sd-jwt", "valid", result.Valid, "errorCount", len(errs), "hashAlg", string(alg))
	}
	return result, errs
}

// splitCombined parses combined's JWT~d1~...~dk~[kb-jwt] shape.
func splitCombined(combined string) (jwt string, disclosures []string, kbJWT string, err error) {
	return ParseCombined(combined)
}

func combinedPrefixFrom(jwtPart string, disclosureRaw []string) string {
	var b strings.Builder
	b.WriteString(jwtPart)
	b.WriteByte('~')
	for _, d := range disclosureRaw {
		b.WriteString(d)
		b.WriteByte('~')
	}
	return b.String()
}

// holderKeyFromClaims extracts and converts the cnf.jwk confirmation key
// from the issuer-signed claims, generalizing sdjwtvc/verification.go's
// cnf.jwk extraction step.
func holderKeyFromClaims(claims map[string]any) (any, error) {
	cnfRaw, ok := claims["cnf"]
	if !ok {
		return nil, NewError(KindKeyBindingInvalid, "token has no cnf claim for key binding")
	}
	cnf, ok := cnfRaw.(map[string]any)
	if !ok {
		return nil, NewError(KindKeyBindingInvalid, "cnf claim is malformed")
	}
	jwkRaw, ok := cnf["jwk"]
	if !ok {
		return nil, NewError(KindKeyBindingInvalid, "cnf claim has no jwk")
	}
	jwkMap, ok := jwkRaw.(map[string]any)
	if !ok {
		return nil, NewError(KindKeyBindingInvalid, "cnf.jwk is malformed")
	}
	return jwkToPublicKey(jwkMap)
}
