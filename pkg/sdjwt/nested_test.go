package sdjwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDisclosureTopLevelObjectProperty(t *testing.T) {
	payload := newOrderedObject()
	payload.Set("sub", "u1")
	payload.Set("email", "alice@example.com")

	path, err := ParseClaimPath("email")
	require.NoError(t, err)

	d, err := applyDisclosure(payload, path, HashAlgSHA256)
	require.NoError(t, err)
	require.Equal(t, "email", d.ClaimName)
	require.Equal(t, "alice@example.com", d.Value)

	_, stillPresent := payload.Get("email")
	require.False(t, stillPresent)
	sd, ok := payload.Get("_sd")
	require.True(t, ok)
	require.Len(t, sd.([]any), 1)
}

func TestApplyDisclosureNestedObjectProperty(t *testing.T) {
	payload := newOrderedObject()
	addr := newOrderedObject()
	addr.Set("street", "123 Main St")
	addr.Set("city", "Boston")
	payload.Set("address", addr)

	path, err := ParseClaimPath("address.street")
	require.NoError(t, err)
	d, err := applyDisclosure(payload, path, HashAlgSHA256)
	require.NoError(t, err)
	require.Equal(t, "street", d.ClaimName)

	_, stillPresent := addr.Get("street")
	require.False(t, stillPresent)
	require.Contains(t, addr.Keys(), "_sd")
}

func TestApplyDisclosureArrayElement(t *testing.T) {
	payload := newOrderedObject()
	payload.Set("nationalities", []any{"DE", "FR"})

	path, err := ParseClaimPath("nationalities[0]")
	require.NoError(t, err)
	d, err := applyDisclosure(payload, path, HashAlgSHA256)
	require.NoError(t, err)
	require.True(t, d.IsArray)
	require.Equal(t, "DE", d.Value)

	arr, ok := payload.Get("nationalities")
	require.True(t, ok)
	asSlice := arr.([]any)
	_, isPlaceholder := isArrayPlaceholder(asSlice[0])
	require.True(t, isPlaceholder)
	require.Equal(t, "FR", asSlice[1])
}

func TestApplyDisclosureRejectsMissingPath(t *testing.T) {
	payload := newOrderedObject()
	payload.Set("sub", "u1")

	path, err := ParseClaimPath("does_not_exist")
	require.NoError(t, err)
	_, err = applyDisclosure(payload, path, HashAlgSHA256)
	require.Error(t, err)
}

func TestApplyDisclosureRejectsArrayIndexOutOfRange(t *testing.T) {
	payload := newOrderedObject()
	payload.Set("items", []any{"only-one"})

	path, err := ParseClaimPath("items[5]")
	require.NoError(t, err)
	_, err = applyDisclosure(payload, path, HashAlgSHA256)
	require.Error(t, err)
}

func TestApplyDisclosureRejectsDepthBeyondCeiling(t *testing.T) {
	segs := make([]PathSegment, Ceilings.MaxNestingDepth+1)
	for i := range segs {
		segs[i] = PathSegment{Key: "a"}
	}
	path := ClaimPath{Segments: segs}

	payload := newOrderedObject()
	_, err := applyDisclosure(payload, path, HashAlgSHA256)
	require.Error(t, err)
	sdErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindInvalidInput, sdErr.Kind)
}

func TestAppendToSDArrayRejectsDuplicateDigest(t *testing.T) {
	obj := newOrderedObject()
	require.NoError(t, appendToSDArray(obj, Digest("dup")))
	err := appendToSDArray(obj, Digest("dup"))
	require.Error(t, err)
}

func TestSortPathsByDepthOrdersDeepestFirst(t *testing.T) {
	shallow, err := ParseClaimPath("email")
	require.NoError(t, err)
	deep, err := ParseClaimPath("address.geo.lat")
	require.NoError(t, err)
	mid, err := ParseClaimPath("address.street")
	require.NoError(t, err)

	paths := []ClaimPath{shallow, deep, mid}
	sortPathsByDepth(paths)

	require.Equal(t, deep, paths[0])
	require.Equal(t, mid, paths[1])
	require.Equal(t, shallow, paths[2])
}
