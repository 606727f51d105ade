package sdjwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const keyBindingTyp = "kb+jwt"

// CreateKeyBindingJWT builds a kb+jwt binding sdJWTWithDisclosures (the
// JWT~d1~...~dk~ prefix, including the trailing tilde) to nonce/audience,
// signed by holderPrivateKey. Grounded on sdjwtvc/keybinding.go's
// CreateKeyBindingJWT/calculateSDHash.
func CreateKeyBindingJWT(sdJWTWithDisclosures string, nonce, audience string, holderPrivateKey any, alg HashAlg) (string, error) {
	sdHash, err := calculateSDHash(sdJWTWithDisclosures, alg)
	if err != nil {
		return "", err
	}

	header := map[string]any{"typ": keyBindingTyp}
	claims := map[string]any{
		"nonce":   nonce,
		"aud":     audience,
		"iat":     time.Now().Unix(),
		"sd_hash": sdHash,
	}

	return signJWT(header, claims, holderPrivateKey)
}

// calculateSDHash hashes the exact bytes of the JWT~d1~...~dk~ prefix (the
// presentation with its trailing tilde, before any kb+jwt is appended), per
// the SD-JWT+KB sd_hash definition.
func calculateSDHash(sdJWTWithDisclosures string, alg HashAlg) (string, error) {
	h, err := newHasher(alg)
	if err != nil {
		return "", err
	}
	h.Write([]byte(sdJWTWithDisclosures))
	return b64Encode(h.Sum(nil)), nil
}

// combinedPrefix returns the JWT~d1~...~dk~ prefix (with trailing tilde) a
// kb+jwt's sd_hash is computed over, given a Presentation that has not yet
// had its KeyBindingJWT set.
func combinedPrefix(p *Presentation) string {
	var b strings.Builder
	b.WriteString(p.JWT)
	b.WriteByte('~')
	for _, d := range p.Disclosures {
		b.WriteString(d.Raw())
		b.WriteByte('~')
	}
	return b.String()
}

// AttachKeyBinding computes sd_hash over p's current JWT+disclosures,
// signs a kb+jwt with holderPrivateKey, and sets it on p.
func AttachKeyBinding(p *Presentation, nonce, audience string, holderPrivateKey any, alg HashAlg) error {
	kb, err := CreateKeyBindingJWT(combinedPrefix(p), nonce, audience, holderPrivateKey, alg)
	if err != nil {
		return err
	}
	p.KeyBindingJWT = kb
	return nil
}

// verifyKeyBindingJWT validates a kb+jwt against the presentation it's
// attached to and the verifier's expected nonce/audience, generalizing
// sdjwtvc/verification.go's verifyKeyBindingJWT off its VC-specific
// cnf-from-claims plumbing onto a caller-supplied holder public key.
func verifyKeyBindingJWT(kbJWT string, combinedPrefixStr string, holderPublicKey any, alg HashAlg, expectedNonce, expectedAudience string, clock func() time.Time) (map[string]any, error) {
	resolver := func(string) (any, error) { return holderPublicKey, nil }

	token, err := verifyJWSSignature(kbJWT, resolver)
	if err != nil {
		return nil, WrapError(KindKeyBindingInvalid, "key-binding JWT signature is invalid", err)
	}

	typ, _ := token.Header["typ"].(string)
	if typ != keyBindingTyp {
		return nil, NewError(KindKeyBindingInvalid, "key-binding JWT has wrong typ")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewError(KindKeyBindingInvalid, "key-binding JWT claims are malformed")
	}

	if expectedNonce != "" {
		nonce, _ := claims["nonce"].(string)
		if nonce != expectedNonce {
			return nil, NewError(KindKeyBindingInvalid, "key-binding JWT nonce mismatch")
		}
	}
	if expectedAudience != "" {
		aud, _ := claims["aud"].(string)
		if aud != expectedAudience {
			return nil, NewError(KindKeyBindingInvalid, "key-binding JWT audience mismatch")
		}
	}

	expectedHash, err := calculateSDHash(combinedPrefixStr, alg)
	if err != nil {
		return nil, err
	}
	actualHash, _ := claims["sd_hash"].(string)
	if !digestsEqual(Digest(expectedHash), Digest(actualHash)) {
		return nil, NewError(KindKeyBindingInvalid, "key-binding JWT sd_hash mismatch")
	}

	now := time.Now
	if clock != nil {
		now = clock
	}
	if iat, ok := claims["iat"]; ok {
		iatUnix, err := claims.GetIssuedAt()
		if err == nil && iatUnix != nil {
			if iatUnix.Time.After(now().Add(5 * time.Minute)) {
				return nil, NewError(KindKeyBindingInvalid, "key-binding JWT issued in the future")
			}
		}
		_ = iat
	}

	return map[string]any(claims), nil
}
