package sdjwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"math/big"
)

// publicKeyToJWK renders a DER-encoded SubjectPublicKeyInfo (as produced by
// crypto/x509.MarshalPKIXPublicKey) as a `cnf.jwk` map, the shape cnf
// confirmation claims and key-binding verification expect. Restricted to
// P-256 (§4.6/§4.13: curve OID 1.2.840.10045.3.1.7 only). Grounded on
// halimath-jose/jwk/ec.go's MarshalJSON field layout (kty/crv/x/y), adapted
// from that package's custom-JSON-codec style into a plain map builder since
// this library does not carry a general-purpose JWK marshaling type.
func publicKeyToJWK(spkiDER []byte) (map[string]any, error) {
	parsed, err := x509.ParsePKIXPublicKey(spkiDER)
	if err != nil {
		return nil, WrapError(KindInvalidInput, "holder public key is not a valid SPKI-encoded key", err)
	}
	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, NewError(KindUnsupportedAlg, "holder public key is not an EC key")
	}
	crv, size, err := curveName(pub.Curve)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"kty": "EC",
		"crv": crv,
		"x":   b64Encode(fixedSizeBytes(pub.X, size)),
		"y":   b64Encode(fixedSizeBytes(pub.Y, size)),
	}, nil
}

// jwkToPublicKey parses a `cnf.jwk`-shaped map back into an *ecdsa.PublicKey,
// restricted to P-256 (§4.6/§4.13). Grounded on sdjwtvc/verification.go's
// jwkToPublicKey, narrowed from the teacher's P-256/P-384/P-521 acceptance to
// the single curve a confirmation key may use here; the teacher's RSA branch
// was left unimplemented and is not carried over since key-binding
// confirmation keys in practice are EC.
func jwkToPublicKey(jwk map[string]any) (*ecdsa.PublicKey, error) {
	kty, _ := jwk["kty"].(string)
	if kty != "EC" {
		return nil, NewError(KindKeyBindingInvalid, "unsupported jwk kty: "+kty)
	}

	crvName, _ := jwk["crv"].(string)
	curve, err := curveForName(crvName)
	if err != nil {
		return nil, err
	}

	xs, _ := jwk["x"].(string)
	ys, _ := jwk["y"].(string)
	xb, err := b64Decode(xs)
	if err != nil {
		return nil, WrapError(KindKeyBindingInvalid, "invalid jwk x coordinate", err)
	}
	yb, err := b64Decode(ys)
	if err != nil {
		return nil, WrapError(KindKeyBindingInvalid, "invalid jwk y coordinate", err)
	}

	pub := &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(xb),
		Y:     new(big.Int).SetBytes(yb),
	}
	if !curve.IsOnCurve(pub.X, pub.Y) {
		return nil, NewError(KindKeyBindingInvalid, "jwk point is not on the declared curve")
	}
	return pub, nil
}

// curveName/curveForName are restricted to P-256, the only curve a cnf
// confirmation key may use per §4.6/§4.13.
func curveName(curve elliptic.Curve) (name string, byteSize int, err error) {
	if curve != elliptic.P256() {
		return "", 0, NewError(KindUnsupportedAlg, "unsupported EC curve: only P-256 is permitted for a confirmation key")
	}
	return "P-256", 32, nil
}

func curveForName(name string) (elliptic.Curve, error) {
	if name != "P-256" {
		return nil, NewError(KindUnsupportedAlg, "unsupported jwk crv: only P-256 is permitted for a confirmation key: "+name)
	}
	return elliptic.P256(), nil
}

// fixedSizeBytes renders n as a big-endian byte slice padded to size bytes,
// as JWK EC coordinates require (no stripped leading zeros).
func fixedSizeBytes(n *big.Int, size int) []byte {
	b := n.Bytes()
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
