package sdjwt

import "time"

// validateTemporalClaims checks exp/iat/nbf against now, tolerating skew in
// both directions. Grounded on sdjwtvc/verification.go's
// validateSDJWTVCStructure time-claim block, stripped of its VC-specific
// (vct/typ) checks and generalized into a standalone pass so it can run
// after signature verification as a distinct step, per §4.14's ordering.
func validateTemporalClaims(claims map[string]any, now time.Time, skew time.Duration) error {
	if expRaw, ok := claims["exp"]; ok {
		exp, ok := asUnixTime(expRaw)
		if !ok {
			return NewError(KindInvalidInput, "exp claim is not a valid timestamp")
		}
		if now.After(exp.Add(skew)) {
			return NewError(KindTokenExpired, "token has expired")
		}
	}

	if nbfRaw, ok := claims["nbf"]; ok {
		nbf, ok := asUnixTime(nbfRaw)
		if !ok {
			return NewError(KindInvalidInput, "nbf claim is not a valid timestamp")
		}
		if now.Before(nbf.Add(-skew)) {
			return NewError(KindTokenNotYetValid, "token is not yet valid (nbf)")
		}
	}

	if iatRaw, ok := claims["iat"]; ok {
		// iat is informational only (§4.15): its type is checked, but it is
		// never compared against now — a future or stale iat is not an error.
		if _, ok := asUnixTime(iatRaw); !ok {
			return NewError(KindInvalidInput, "iat claim is not a valid timestamp")
		}
	}

	return nil
}

// validateIssuerAudience checks the token payload's own iss/aud claims
// against expected values when the caller supplied them (empty expectation
// means "don't check"), independent of any key-binding JWT's own nonce/aud
// checks (§4.14 steps 4/5).
func validateIssuerAudience(claims map[string]any, expectedIssuer, expectedAudience string) error {
	if expectedIssuer != "" {
		iss, _ := claims["iss"].(string)
		if iss != expectedIssuer {
			return NewError(KindMissingRequired, "iss claim does not match expected issuer")
		}
	}
	if expectedAudience != "" {
		aud, _ := claims["aud"].(string)
		if aud != expectedAudience {
			return NewError(KindMissingRequired, "aud claim does not match expected audience")
		}
	}
	return nil
}

func asUnixTime(v any) (time.Time, bool) {
	switch n := v.(type) {
	case float64:
		return time.Unix(int64(n), 0), true
	case int64:
		return time.Unix(n, 0), true
	case int:
		return time.Unix(int64(n), 0), true
	default:
		return time.Time{}, false
	}
}
