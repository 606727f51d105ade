package sdjwt

import (
	"strconv"
	"strings"
)

// ParseClaimPath parses a dotted/indexed claim-path string ("name",
// "address.street", "items[2]", "a.b[0]") into a ClaimPath. An index must be
// the last segment: anything after a closing ] is rejected. There is no
// teacher file parsing this exact grammar — the teacher instead walks a
// pre-built []*string VCTM path — so this is grounded only on the *shape* of
// that walk, reworked into a string parser.
func ParseClaimPath(path string) (ClaimPath, error) {
	if path == "" {
		return ClaimPath{}, NewError(KindInvalidInput, "claim path must not be empty")
	}

	var segs []PathSegment
	var cur strings.Builder

	flushKey := func() error {
		if cur.Len() == 0 {
			return NewError(KindInvalidInput, "claim path has an empty segment")
		}
		segs = append(segs, PathSegment{Key: cur.String()})
		cur.Reset()
		return nil
	}

	i := 0
	for i < len(path) {
		c := path[i]
		switch c {
		case '.':
			if err := flushKey(); err != nil {
				return ClaimPath{}, err
			}
			i++
		case '[':
			if cur.Len() > 0 {
				if err := flushKey(); err != nil {
					return ClaimPath{}, err
				}
			}
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return ClaimPath{}, NewError(KindInvalidInput, "claim path has an unterminated index")
			}
			idxStr := path[i+1 : i+end]
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 {
				return ClaimPath{}, NewError(KindInvalidInput, "claim path has a malformed array index")
			}
			segs = append(segs, PathSegment{Index: idx, IsIndex: true})
			i += end + 1
			if i < len(path) {
				return ClaimPath{}, NewError(KindInvalidInput, "claim path must end after a closing ]")
			}
		default:
			cur.WriteByte(c)
			i++
		}
	}
	if cur.Len() > 0 {
		if err := flushKey(); err != nil {
			return ClaimPath{}, err
		}
	}

	if len(segs) == 0 {
		return ClaimPath{}, NewError(KindInvalidInput, "claim path has no segments")
	}
	return ClaimPath{Segments: segs}, nil
}

// String renders a ClaimPath back to its canonical string form.
func (p ClaimPath) String() string {
	var b strings.Builder
	for i, s := range p.Segments {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		} else {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// Depth returns how many segments deep this path is, used by nested.go's
// deepest-first processing order.
func (p ClaimPath) Depth() int {
	return len(p.Segments)
}
