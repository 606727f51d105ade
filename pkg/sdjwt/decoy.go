package sdjwt

import (
	"crypto/rand"
	"math/big"
)

const decoyRandomBytes = 32

// generateDecoyDigest produces a digest indistinguishable from a real
// disclosure digest: 32 random bytes, hashed with alg, base64url encoded.
// Grounded on sdjwtvc/methods.go's generateDecoyDigest.
func generateDecoyDigest(alg HashAlg) (Digest, error) {
	buf := make([]byte, decoyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", WrapError(KindInvalidInput, "failed to generate decoy digest", err)
	}
	h, err := newHasher(alg)
	if err != nil {
		return "", err
	}
	h.Write(buf)
	return Digest(b64Encode(h.Sum(nil))), nil
}

// addDecoyDigests appends count decoy digests to obj's `_sd` array and then
// shuffles the whole array with a CSPRNG Fisher–Yates permutation.
//
// The teacher's addDecoyDigests/sortSDArray instead sorts the `_sd` array
// alphanumerically after inserting decoys — a REDESIGN-worthy weakness: a
// sorted array leaks the lexicographic rank of every digest, and since
// digests are deterministic hashes of the disclosure bytes, an adversary who
// can brute-force candidate claim values (low-entropy fields like a boolean
// or a small enum) can use rank information to rule out decoys faster than
// with no ordering signal at all. SPEC_FULL.md §9 calls for CSPRNG shuffling
// instead, so this implements Fisher–Yates over crypto/rand rather than
// sort.Slice.
func addDecoyDigests(obj *orderedObject, count int, alg HashAlg) error {
	if count <= 0 {
		return nil
	}
	if count > Ceilings.MaxDecoyDigests {
		return NewError(KindInvalidInput, "decoy digest count exceeds ceiling")
	}

	existing, _ := obj.Get("_sd")
	arr, _ := existing.([]any)

	for i := 0; i < count; i++ {
		d, err := generateDecoyDigest(alg)
		if err != nil {
			return err
		}
		arr = append(arr, string(d))
	}

	if err := shuffleSDArray(arr); err != nil {
		return err
	}
	obj.Set("_sd", arr)
	return nil
}

// shuffleSDArray permutes arr in place using crypto/rand-backed
// Fisher–Yates, so the final `_sd` array order carries no information about
// insertion order (real digests interleaved with decoys indistinguishably).
func shuffleSDArray(arr []any) error {
	for i := len(arr) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return WrapError(KindInvalidInput, "failed to shuffle _sd array", err)
		}
		j := int(jBig.Int64())
		arr[i], arr[j] = arr[j], arr[i]
	}
	return nil
}

// addDecoyDigestsRecursive walks every orderedObject in the payload tree
// (including nested objects and array elements) and adds decoyPerObject
// decoys to each object that already carries an `_sd` array, matching the
// teacher's addDecoyDigestsRecursive behavior of spreading decoys across
// every disclosure-bearing level rather than only the top level.
func addDecoyDigestsRecursive(v any, decoyPerObject int, alg HashAlg) error {
	switch t := v.(type) {
	case *orderedObject:
		if _, ok := t.Get("_sd"); ok {
			if err := addDecoyDigests(t, decoyPerObject, alg); err != nil {
				return err
			}
		}
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			if err := addDecoyDigestsRecursive(val, decoyPerObject, alg); err != nil {
				return err
			}
		}
	case []any:
		for _, e := range t {
			if err := addDecoyDigestsRecursive(e, decoyPerObject, alg); err != nil {
				return err
			}
		}
	}
	return nil
}
