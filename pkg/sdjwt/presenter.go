package sdjwt

import "strings"

// SelectDisclosures builds a Presentation carrying exactly the disclosure
// named by each entry of selectedPaths, attaching keyBinding (which may be
// empty) as the trailing kb+jwt. Every path must match a disclosure by claim
// name; the first path with no match fails the whole call with
// KindInvalidInput listing the names that were actually available, per
// §4.12 — unmatched paths are never silently dropped.
func SelectDisclosures(sdJWT *SdJwt, selectedPaths []string, keyBindingJWT string) (*Presentation, error) {
	byName := make(map[string]Disclosure, len(sdJWT.Disclosures))
	available := make([]string, 0, len(sdJWT.Disclosures))
	for _, d := range sdJWT.Disclosures {
		if d.IsArray {
			continue // array-element disclosures have no claim name and cannot be selected here; SelectAll includes them
		}
		byName[d.ClaimName] = d
		available = append(available, d.ClaimName)
	}

	selected := make([]Disclosure, 0, len(selectedPaths))
	for _, p := range selectedPaths {
		d, ok := byName[p]
		if !ok {
			return nil, NewError(KindInvalidInput, "no disclosure for claim path \""+p+"\"; available: "+strings.Join(available, ", "))
		}
		selected = append(selected, d)
	}

	return &Presentation{
		JWT:           sdJWT.JWT,
		Disclosures:   selected,
		KeyBindingJWT: keyBindingJWT,
	}, nil
}

// SelectAll builds a Presentation disclosing every disclosure the issuer
// produced (no holder-side minimization), useful for tests and for holders
// that don't implement selective release.
func SelectAll(sdJWT *SdJwt, keyBindingJWT string) *Presentation {
	return &Presentation{
		JWT:           sdJWT.JWT,
		Disclosures:   append([]Disclosure(nil), sdJWT.Disclosures...),
		KeyBindingJWT: keyBindingJWT,
	}
}

// Combine serializes p into the tilde-joined wire format:
// JWT~d1~...~dk~[kb-jwt]. Grounded on sdjwtvc/jwt.go's Combine and
// pkg/sdjwt_ref/presentations.go's PresentationFlat.String.
func (p *Presentation) Combine() string {
	var b strings.Builder
	b.WriteString(p.JWT)
	b.WriteByte('~')
	for _, d := range p.Disclosures {
		b.WriteString(d.Raw())
		b.WriteByte('~')
	}
	if p.KeyBindingJWT != "" {
		b.WriteString(p.KeyBindingJWT)
	}
	return b.String()
}

// ParseCombined splits a combined SD-JWT(+KB) string into its JWT, raw
// disclosure strings, and optional key-binding JWT, without verifying
// anything — pure wire-format parsing, the presentation-side counterpart to
// verifier.go's splitCombined.
func ParseCombined(combined string) (jwt string, disclosures []string, keyBindingJWT string, err error) {
	parts := strings.Split(combined, "~")
	if len(parts) < 2 {
		return "", nil, "", NewError(KindInvalidInput, "combined SD-JWT must contain at least one tilde")
	}

	jwt = parts[0]
	if jwt == "" {
		return "", nil, "", NewError(KindInvalidInput, "combined SD-JWT is missing its JWT part")
	}

	body := parts[1 : len(parts)-1]
	tail := parts[len(parts)-1]

	for _, d := range body {
		if d == "" {
			continue
		}
		disclosures = append(disclosures, d)
	}

	keyBindingJWT = tail
	return jwt, disclosures, keyBindingJWT, nil
}
