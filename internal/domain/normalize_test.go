package domain

import "testing"

func TestNormalizeHumanName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Alice   Smith ": "Alice Smith",
		"Bob":              "Bob",
		"\tTab\nName  ":    "Tab Name",
		"   ":              "",
	}
	for in, want := range cases {
		if got := NormalizeHumanName(in); got != want {
			t.Fatalf("NormalizeHumanName(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSKU(t *testing.T) {
	t.Parallel()

	if got := NormalizeSKU("  tea-01 "); got != "TEA-01" {
		t.Fatalf("NormalizeSKU=%q", got)
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()

	if o := Unspecified[string](); o.IsSpecified() || o.IsNull() {
		t.Fatalf("unspecified: %+v", o)
	}
	if o := Null[string](); !o.IsSpecified() || !o.IsNull() {
		t.Fatalf("null: %+v", o)
	}
	if o := Some("x"); !o.IsSpecified() || o.IsNull() || o.Value() != "x" {
		t.Fatalf("some: %+v", o)
	}
}
