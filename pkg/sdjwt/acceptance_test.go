package sdjwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_S1_SimpleSelectiveDisclosure mirrors spec.md scenario S1: issue with
// {sub, email}, selective ["email"], HS256 key of 32 random bytes.
func Test_S1_SimpleSelectiveDisclosure(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	issuer := NewIssuer(key, nil)
	sdJWT, err := issuer.Issue(map[string]any{
		"sub":   "user123",
		"email": "user@example.com",
	}, []string{"email"}, CredentialOptions{})
	require.NoError(t, err)

	require.Equal(t, "user123", sdJWT.Payload["sub"])
	sd, ok := sdJWT.Payload["_sd"].([]any)
	require.True(t, ok)
	require.Len(t, sd, 1)
	require.Len(t, sdJWT.Disclosures, 1)

	presentation, err := SelectDisclosures(sdJWT, []string{"email"}, "")
	require.NoError(t, err)
	combined := presentation.Combine()

	v := NewVerifier()
	result, err := v.ParseAndVerify(combined, VerificationOptions{
		KeyResolver: func(string) (any, error) { return key, nil },
	})
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "user@example.com", result.DisclosedClaims["email"])
}

// Test_S2_ArraySelectiveDisclosure mirrors S2: issue with
// {sub, degrees:["BS","MS","PhD"]}, selective ["degrees[1]","degrees[2]"].
func Test_S2_ArraySelectiveDisclosure(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	issuer := NewIssuer(key, nil)
	sdJWT, err := issuer.Issue(map[string]any{
		"sub":     "u1",
		"degrees": []any{"BS", "MS", "PhD"},
	}, []string{"degrees[1]", "degrees[2]"}, CredentialOptions{})
	require.NoError(t, err)

	require.Len(t, sdJWT.Disclosures, 2)
	_, hasTopSD := sdJWT.Payload["_sd"]
	require.False(t, hasTopSD)

	degrees, ok := sdJWT.Payload["degrees"].([]any)
	require.True(t, ok)
	require.Equal(t, "BS", degrees[0])
	_, isPlaceholder1 := degrees[1].(map[string]any)
	_, isPlaceholder2 := degrees[2].(map[string]any)
	require.True(t, isPlaceholder1)
	require.True(t, isPlaceholder2)
}

// Test_S3_NestedSelectiveDisclosure mirrors S3.
func Test_S3_NestedSelectiveDisclosure(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	claims := map[string]any{
		"sub": "u1",
		"address": map[string]any{
			"street": "123 Main St",
			"city":   "Boston",
			"geo":    map[string]any{"lat": 42.36, "lon": -71.06},
		},
	}
	paths := []string{"address.street", "address.city", "address.geo.lat", "address.geo.lon"}

	issuer := NewIssuer(key, nil)
	sdJWT, err := issuer.Issue(claims, paths, CredentialOptions{})
	require.NoError(t, err)
	require.Len(t, sdJWT.Disclosures, 4)

	resolver := func(string) (any, error) { return key, nil }

	t.Run("all selected", func(t *testing.T) {
		presentation := SelectAll(sdJWT, "")
		v := NewVerifier()
		result, err := v.ParseAndVerify(presentation.Combine(), VerificationOptions{KeyResolver: resolver})
		require.NoError(t, err)

		addr, ok := result.Claims["address"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "123 Main St", addr["street"])
		require.Equal(t, "Boston", addr["city"])
		geo, ok := addr["geo"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, 42.36, geo["lat"])
		require.Equal(t, -71.06, geo["lon"])
	})

	t.Run("only street selected", func(t *testing.T) {
		var streetDisclosure Disclosure
		for _, d := range sdJWT.Disclosures {
			if d.ClaimName == "street" {
				streetDisclosure = d
			}
		}
		require.NotEmpty(t, streetDisclosure.Raw())

		presentation := &Presentation{JWT: sdJWT.JWT, Disclosures: []Disclosure{streetDisclosure}}
		v := NewVerifier()
		result, err := v.ParseAndVerify(presentation.Combine(), VerificationOptions{KeyResolver: resolver})
		require.NoError(t, err)

		addr, ok := result.Claims["address"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "123 Main St", addr["street"])
		require.NotContains(t, addr, "city")

		// geo was never itself a selected claim path (only its children
		// lat/lon were); with neither disclosed, it reconstructs as an
		// empty subtree rather than disappearing entirely, matching the
		// spec's S3 expectation.
		geo, ok := addr["geo"].(map[string]any)
		require.True(t, ok)
		require.Empty(t, geo)
	})
}

// Test_S4_KeyBindingHappyPath mirrors S4.
func Test_S4_KeyBindingHappyPath(t *testing.T) {
	issuerKey := make([]byte, 32)
	_, err := rand.Read(issuerKey)
	require.NoError(t, err)

	holderKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	holderSPKI, err := x509.MarshalPKIXPublicKey(&holderKey.PublicKey)
	require.NoError(t, err)

	issuer := NewIssuer(issuerKey, nil)
	sdJWT, err := issuer.Issue(map[string]any{
		"sub": "u1",
		"aud": "https://v.example",
	}, nil, CredentialOptions{HolderPublicKey: holderSPKI})
	require.NoError(t, err)

	presentation := SelectAll(sdJWT, "")
	require.NoError(t, AttachKeyBinding(presentation, "n-abc", "https://v.example", holderKey, HashAlgSHA256))

	v := NewVerifier()
	result, err := v.ParseAndVerify(presentation.Combine(), VerificationOptions{
		KeyResolver:       func(string) (any, error) { return issuerKey, nil },
		RequireKeyBinding: true,
		ExpectedNonce:     "n-abc",
		ExpectedAudience:  "https://v.example",
	})
	require.NoError(t, err)
	require.True(t, result.Valid)
}

// Test_S5_AlgorithmConfusion mirrors S5: header alg "none" in several
// casings is always rejected with KindAlgConfusion.
func Test_S5_AlgorithmConfusion(t *testing.T) {
	for _, variant := range []string{"none", "None", "NONE", "nOnE"} {
		t.Run(variant, func(t *testing.T) {
			header := b64Encode([]byte(`{"alg":"` + variant + `","typ":"JWT"}`))
			payload := b64Encode([]byte(`{"sub":"attacker"}`))
			forged := header + "." + payload + "."

			v := NewVerifier()
			_, err := v.ParseAndVerify(forged+"~", VerificationOptions{
				KeyResolver: func(string) (any, error) { return []byte("irrelevant"), nil },
			})
			require.Error(t, err)
			sdErr, ok := err.(*Error)
			require.True(t, ok)
			require.Equal(t, KindAlgConfusion, sdErr.Kind)
		})
	}
}

// Test_S6_KeyRotation mirrors S6: two tokens signed with distinct kids;
// removing one kid from the resolver fails only that token.
func Test_S6_KeyRotation(t *testing.T) {
	keyV1 := make([]byte, 32)
	keyV2 := make([]byte, 32)
	_, err := rand.Read(keyV1)
	require.NoError(t, err)
	_, err = rand.Read(keyV2)
	require.NoError(t, err)

	issuerV1 := NewIssuer(keyV1, map[string]any{"kid": "key-v1"})
	issuerV2 := NewIssuer(keyV2, map[string]any{"kid": "key-v2"})

	sdJWT1, err := issuerV1.Issue(map[string]any{"sub": "u1"}, nil, CredentialOptions{})
	require.NoError(t, err)
	sdJWT2, err := issuerV2.Issue(map[string]any{"sub": "u2"}, nil, CredentialOptions{})
	require.NoError(t, err)

	combined1 := SelectAll(sdJWT1, "").Combine()
	combined2 := SelectAll(sdJWT2, "").Combine()

	keys := map[string][]byte{"key-v1": keyV1, "key-v2": keyV2}
	resolver := func(kid string) (any, error) {
		k, ok := keys[kid]
		if !ok {
			return nil, nil
		}
		return k, nil
	}

	v := NewVerifier()
	_, err = v.ParseAndVerify(combined1, VerificationOptions{KeyResolver: resolver})
	require.NoError(t, err)
	_, err = v.ParseAndVerify(combined2, VerificationOptions{KeyResolver: resolver})
	require.NoError(t, err)

	delete(keys, "key-v1")

	_, err = v.ParseAndVerify(combined1, VerificationOptions{KeyResolver: resolver})
	require.Error(t, err)
	sdErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindKeyIDNotFound, sdErr.Kind)

	_, err = v.ParseAndVerify(combined2, VerificationOptions{KeyResolver: resolver})
	require.NoError(t, err)
}
