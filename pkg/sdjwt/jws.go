package sdjwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// isPrintableASCII reports whether every byte of s is in the printable
// ASCII range 32–126, per §4.5's kid constraint.
func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 32 || s[i] > 126 {
			return false
		}
	}
	return true
}

func validateKid(kid string) error {
	if kid == "" {
		return nil
	}
	if len(kid) > Ceilings.MaxKidLength || !isPrintableASCII(kid) {
		return NewError(KindInvalidInput, "kid must be 1-256 printable ASCII bytes")
	}
	return nil
}

// signingMethodForKey picks a jwt.SigningMethod from the concrete key type,
// generalizing the teacher's getSigningMethodFromKey (which switches on
// *rsa.PrivateKey / *ecdsa.PrivateKey + curve/bit size) restricted to the
// three wire-valid algorithms HS256/RS256/ES256 (§4.5).
func signingMethodForKey(key any) (jwt.SigningMethod, error) {
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		if k.Curve.Params().BitSize != 256 {
			return nil, NewError(KindUnsupportedAlg, "ES256 requires a P-256 key")
		}
		return jwt.SigningMethodES256, nil
	case *rsa.PrivateKey:
		if k.N.BitLen() < 2048 {
			return nil, NewError(KindUnsupportedAlg, "RS256 requires a modulus of at least 2048 bits")
		}
		return jwt.SigningMethodRS256, nil
	case []byte:
		return jwt.SigningMethodHS256, nil
	default:
		return nil, NewError(KindUnsupportedAlg, "unsupported signing key type")
	}
}

// signJWT builds a compact JWS over header/claims with signingKey,
// generalizing the teacher's Sign(header, body, signingMethod, signingKey).
func signJWT(header map[string]any, claims map[string]any, signingKey any) (string, error) {
	method, err := signingMethodForKey(signingKey)
	if err != nil {
		return "", err
	}
	if kid, _ := header["kid"].(string); kid != "" {
		if err := validateKid(kid); err != nil {
			return "", err
		}
	}

	token := jwt.NewWithClaims(method, jwt.MapClaims(claims))
	for k, v := range header {
		token.Header[k] = v
	}
	token.Header["alg"] = method.Alg()
	if _, ok := header["typ"]; !ok {
		token.Header["typ"] = "JWT"
	}

	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", WrapError(KindInvalidSignature, "failed to sign JWT", err)
	}
	return signed, nil
}

var wireAlgs = map[string]bool{"HS256": true, "RS256": true, "ES256": true}

// verifyJWSSignature parses and verifies a compact JWS, defending against
// algorithm confusion (rejecting "none" case-insensitively, rejecting any
// alg outside HS256/RS256/ES256, and refusing to let the token's own alg
// header pick an incompatible verification key type) and resolving the
// verification key via resolver(kid), generalizing the teacher's
// verifyJWTSignature.
func verifyJWSSignature(compact string, resolver KeyResolver) (*jwt.Token, error) {
	if len(compact) > Ceilings.MaxJWTSize {
		return nil, NewError(KindInvalidInput, "JWT exceeds maximum size")
	}
	if strings.Count(compact, ".") != 2 {
		return nil, NewError(KindInvalidInput, "JWT must have exactly three dot-separated parts")
	}
	// The jwt parser fails on an alg it has no registered method for (e.g.
	// "NONE") before the key func below runs, so "none" in any casing is
	// checked here first.
	if hdr, err := b64Decode(compact[:strings.IndexByte(compact, '.')]); err == nil {
		if v, err := decodeOrdered(hdr); err == nil {
			if obj, ok := v.(*orderedObject); ok {
				rawAlg, _ := obj.Get("alg")
				if algName, _ := rawAlg.(string); strings.EqualFold(algName, "none") {
					return nil, NewError(KindAlgConfusion, "alg \"none\" is not permitted")
				}
			}
		}
	}
	if resolver == nil {
		return nil, NewError(KindKeyResolverMissing, "no key resolver configured")
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var keyErr error
	token, err := parser.Parse(compact, func(t *jwt.Token) (any, error) {
		algName, _ := t.Header["alg"].(string)
		if strings.EqualFold(algName, "none") {
			keyErr = NewError(KindAlgConfusion, "alg \"none\" is not permitted")
			return nil, keyErr
		}
		if !wireAlgs[strings.ToUpper(algName)] {
			keyErr = NewError(KindUnsupportedAlg, "unsupported alg: "+algName)
			return nil, keyErr
		}

		kid, _ := t.Header["kid"].(string)
		if kerr := validateKid(kid); kerr != nil {
			keyErr = kerr
			return nil, keyErr
		}

		key, err := resolver(kid)
		if err != nil {
			keyErr = WrapError(KindKeyResolverFailed, "key resolver failed", err)
			return nil, keyErr
		}
		if key == nil {
			keyErr = NewError(KindKeyIDNotFound, "key resolver returned no key for kid")
			return nil, keyErr
		}

		if !algMatchesKey(t.Method, key) {
			keyErr = NewError(KindAlgConfusion, "token alg does not match resolved key type")
			return nil, keyErr
		}
		return key, nil
	})

	if keyErr != nil {
		return nil, keyErr
	}
	if err != nil {
		return nil, WrapError(KindInvalidSignature, "JWS signature verification failed", err)
	}
	if !token.Valid {
		return nil, NewError(KindInvalidSignature, "JWS signature is not valid")
	}
	return token, nil
}

// algMatchesKey rejects the classic alg-confusion attack of presenting an
// HMAC signature computed with, e.g., an RSA public key's bytes as the HMAC
// secret: the resolved key's Go type must match what the claimed signing
// method expects.
func algMatchesKey(method jwt.SigningMethod, key any) bool {
	switch method.(type) {
	case *jwt.SigningMethodECDSA:
		_, ok := key.(*ecdsa.PublicKey)
		return ok
	case *jwt.SigningMethodRSA:
		_, ok := key.(*rsa.PublicKey)
		return ok
	case *jwt.SigningMethodHMAC:
		_, ok := key.([]byte)
		return ok
	default:
		return false
	}
}
