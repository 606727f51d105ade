package sdjwt

import "testing"

func TestParseClaimPathSimple(t *testing.T) {
	p, err := ParseClaimPath("given_name")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Segments) != 1 || p.Segments[0].Key != "given_name" {
		t.Fatalf("unexpected segments: %+v", p.Segments)
	}
}

func TestParseClaimPathDotted(t *testing.T) {
	p, err := ParseClaimPath("address.street")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Segments) != 2 || p.Segments[0].Key != "address" || p.Segments[1].Key != "street" {
		t.Fatalf("unexpected segments: %+v", p.Segments)
	}
	if p.String() != "address.street" {
		t.Fatalf("String() round trip mismatch: %s", p.String())
	}
}

func TestParseClaimPathIndexed(t *testing.T) {
	p, err := ParseClaimPath("items[2]")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Segments) != 2 || p.Segments[0].Key != "items" || !p.Segments[1].IsIndex || p.Segments[1].Index != 2 {
		t.Fatalf("unexpected segments: %+v", p.Segments)
	}
}

func TestParseClaimPathMixed(t *testing.T) {
	p, err := ParseClaimPath("nationalities[0]")
	if err != nil {
		t.Fatal(err)
	}
	if p.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", p.Depth())
	}
}

func TestParseClaimPathRejectsInvalid(t *testing.T) {
	cases := []string{"", ".", "a..b", "a[", "a[x]", "a[-1]", "a[0][1]", "a[0]x"}
	for _, c := range cases {
		if _, err := ParseClaimPath(c); err == nil {
			t.Errorf("expected error parsing claim path %q", c)
		}
	}
}
