package sdjwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testIssuerKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestIssuerIssueFlatClaims(t *testing.T) {
	key := testIssuerKey(t)
	issuer := NewIssuer(key, map[string]any{"kid": "issuer-1"})

	claims := map[string]any{
		"iss":         "https://issuer.example",
		"sub":         "user-123",
		"given_name":  "Alice",
		"family_name": "Doe",
		"email":       "alice@example.com",
	}

	sdJWT, err := issuer.Issue(claims, []string{"given_name", "email"}, CredentialOptions{})
	require.NoError(t, err)
	require.Len(t, sdJWT.Disclosures, 2)
	require.NotContains(t, sdJWT.Payload, "given_name")
	require.NotContains(t, sdJWT.Payload, "email")
	require.Contains(t, sdJWT.Payload, "family_name")
	require.Contains(t, sdJWT.Payload, "_sd")
	require.Equal(t, "sha-256", sdJWT.Payload["_sd_alg"])
}

func TestIssuerIssueNestedClaim(t *testing.T) {
	key := testIssuerKey(t)
	issuer := NewIssuer(key, nil)

	claims := map[string]any{
		"iss": "https://issuer.example",
		"address": map[string]any{
			"street_address": "123 Main St",
			"locality":       "Anytown",
		},
	}

	sdJWT, err := issuer.Issue(claims, []string{"address.street_address"}, CredentialOptions{})
	require.NoError(t, err)
	require.Len(t, sdJWT.Disclosures, 1)
	require.Equal(t, "street_address", sdJWT.Disclosures[0].ClaimName)

	addr, ok := sdJWT.Payload["address"].(map[string]any)
	require.True(t, ok)
	require.NotContains(t, addr, "street_address")
	require.Contains(t, addr, "_sd")
}

func TestIssuerIssueArrayElement(t *testing.T) {
	key := testIssuerKey(t)
	issuer := NewIssuer(key, nil)

	claims := map[string]any{
		"iss":           "https://issuer.example",
		"nationalities": []any{"DE", "FR"},
	}

	sdJWT, err := issuer.Issue(claims, []string{"nationalities[0]"}, CredentialOptions{})
	require.NoError(t, err)
	require.Len(t, sdJWT.Disclosures, 1)
	require.True(t, sdJWT.Disclosures[0].IsArray)
	require.Equal(t, "DE", sdJWT.Disclosures[0].Value)

	arr, ok := sdJWT.Payload["nationalities"].([]any)
	require.True(t, ok)
	require.Len(t, arr, 2)
	_, isDigestPlaceholder := arr[0].(map[string]any)
	require.True(t, isDigestPlaceholder)
	require.Equal(t, "FR", arr[1])
}

func TestIssuerIssueWithDecoyDigests(t *testing.T) {
	key := testIssuerKey(t)
	issuer := NewIssuer(key, nil)

	claims := map[string]any{"iss": "https://issuer.example", "given_name": "Alice"}

	sdJWT, err := issuer.Issue(claims, []string{"given_name"}, CredentialOptions{DecoyDigests: 3})
	require.NoError(t, err)

	sd, ok := sdJWT.Payload["_sd"].([]string)
	if !ok {
		// _sd may decode back as []any depending on map round trip.
		sdAny := sdJWT.Payload["_sd"].([]any)
		require.Len(t, sdAny, 4) // 1 real + 3 decoys
		return
	}
	require.Len(t, sd, 4)
}

func TestIssuerRejectsUnknownClaimPath(t *testing.T) {
	key := testIssuerKey(t)
	issuer := NewIssuer(key, nil)
	claims := map[string]any{"iss": "https://issuer.example"}

	_, err := issuer.Issue(claims, []string{"does_not_exist"}, CredentialOptions{})
	require.Error(t, err)
}
