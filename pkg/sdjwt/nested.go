package sdjwt

import "sort"

// applyDisclosure navigates payload along path, replaces the targeted value
// with a digest placeholder (an `_sd` array entry for an object property, or
// a {"...": digest} object for an array element), and returns the
// Disclosure it produced. Grounded on sdjwtvc/methods.go's processClaimPath/
// addHashToPath, generalized from a []*string VCTM path onto ClaimPath, and
// extended to cover array-element disclosure, which the teacher left
// unimplemented (see other_examples/.../go-sd-jwt/sd-jwt.go for the
// placeholder shape this follows).
func applyDisclosure(payload *orderedObject, path ClaimPath, alg HashAlg) (Disclosure, error) {
	if path.Depth() > Ceilings.MaxNestingDepth {
		return Disclosure{}, NewError(KindInvalidInput, "claim path exceeds maximum nesting depth")
	}

	container, lastSeg, err := navigateToParent(payload, path)
	if err != nil {
		return Disclosure{}, err
	}

	switch c := container.(type) {
	case *orderedObject:
		if lastSeg.IsIndex {
			return Disclosure{}, NewError(KindInvalidInput, "path expects an object but found an array index")
		}
		value, ok := c.Get(lastSeg.Key)
		if !ok {
			return Disclosure{}, NewError(KindInvalidInput, "claim path does not exist: "+path.String())
		}
		d, err := newObjectDisclosure(lastSeg.Key, unwrapOrdered(value))
		if err != nil {
			return Disclosure{}, err
		}
		digest, err := computeDigest(alg, d.raw)
		if err != nil {
			return Disclosure{}, err
		}
		c.Delete(lastSeg.Key)
		if err := appendToSDArray(c, digest); err != nil {
			return Disclosure{}, err
		}
		return d, nil

	case *[]any:
		if !lastSeg.IsIndex {
			return Disclosure{}, NewError(KindInvalidInput, "path expects an array index but found an object key")
		}
		arr := *c
		if lastSeg.Index < 0 || lastSeg.Index >= len(arr) {
			return Disclosure{}, NewError(KindInvalidInput, "array index out of range: "+path.String())
		}
		d, err := newArrayDisclosure(unwrapOrdered(arr[lastSeg.Index]))
		if err != nil {
			return Disclosure{}, err
		}
		digest, err := computeDigest(alg, d.raw)
		if err != nil {
			return Disclosure{}, err
		}
		arr[lastSeg.Index] = arrayPlaceholder(digest)
		return d, nil

	default:
		return Disclosure{}, NewError(KindInvalidInput, "claim path does not resolve to a container: "+path.String())
	}
}

// navigateToParent walks payload along all but the last segment of path,
// returning the container (either *orderedObject or *[]any) holding the
// final segment and that final segment itself.
func navigateToParent(payload *orderedObject, path ClaimPath) (any, PathSegment, error) {
	segs := path.Segments
	var cur any = payload

	for i := 0; i < len(segs)-1; i++ {
		seg := segs[i]
		switch c := cur.(type) {
		case *orderedObject:
			if seg.IsIndex {
				return nil, PathSegment{}, NewError(KindInvalidInput, "path expects an object key but found an array index")
			}
			next, ok := c.Get(seg.Key)
			if !ok {
				return nil, PathSegment{}, NewError(KindInvalidInput, "claim path does not exist: "+path.String())
			}
			cur = toNavigable(next)
		case *[]any:
			if !seg.IsIndex {
				return nil, PathSegment{}, NewError(KindInvalidInput, "path expects an array index but found an object key")
			}
			arr := *c
			if seg.Index < 0 || seg.Index >= len(arr) {
				return nil, PathSegment{}, NewError(KindInvalidInput, "array index out of range: "+path.String())
			}
			cur = toNavigable(arr[seg.Index])
		default:
			return nil, PathSegment{}, NewError(KindInvalidInput, "claim path does not resolve to a container: "+path.String())
		}
	}

	return cur, segs[len(segs)-1], nil
}

func toNavigable(v any) any {
	switch t := v.(type) {
	case *orderedObject:
		return t
	case []any:
		arrCopy := t
		return &arrCopy
	default:
		return v
	}
}

// appendToSDArray appends digest to obj's `_sd` array, creating it if
// absent, and rejecting a duplicate digest (the teacher's addHashToPath does
// the same duplicate check, since a duplicate digest is ambiguous on
// reconstruction).
func appendToSDArray(obj *orderedObject, digest Digest) error {
	existing, ok := obj.Get("_sd")
	var arr []any
	if ok {
		a, ok := existing.([]any)
		if !ok {
			return NewError(KindInvalidInput, "_sd claim is not an array")
		}
		arr = a
		for _, e := range arr {
			if s, ok := e.(string); ok && s == string(digest) {
				return NewError(KindInvalidInput, "duplicate disclosure digest")
			}
		}
	}
	arr = append(arr, string(digest))
	obj.Set("_sd", arr)
	return nil
}

// sortPathsByDepth orders paths deepest-first, so nested disclosures are
// processed child-before-parent — once a child claim is replaced with a
// digest, its parent object is exactly what the parent's own disclosure (if
// any) will wrap. Grounded on sdjwtvc/methods.go's sortClaimsByDepth, which
// does the same ordering via a bubble sort; we use sort.SliceStable instead, a
// plain correctness equivalent, since nothing about the ordering algorithm
// itself is privacy-sensitive (only the final _sd array order is, which
// decoy.go's shuffle handles separately).
func sortPathsByDepth(paths []ClaimPath) {
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Depth() > paths[j].Depth()
	})
}
