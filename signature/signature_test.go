package signature

import "testing"

func TestBuiltinCatalogueSize(t *testing.T) {
	table := New()
	if table.Len() < 50 {
		t.Fatalf("built-in catalogue too small: %d rules", table.Len())
	}
}

func TestMatchKnownFormats(t *testing.T) {
	table := New()
	cases := []struct {
		prefixHex string
		wantType  string
	}{
		{"89504E470D0A1A0A0000000D49484452", "PNG"},
		{"255044462D312E350D0A25", "PDF"},
		{"474946383961F0F0", "GIF"},
		{"7F454C4602010100", "ELF"},
		{"D0CF11E0A1B11AE100000000", "DOC/XLS/PPT"},
		{"4D5A90000300", "EXE/DLL"},
		{"1F8B0808", "GZIP"},
	}
	for _, tc := range cases {
		rule, ok := table.Match(tc.prefixHex)
		if !ok {
			t.Fatalf("no match for %s", tc.prefixHex)
		}
		if rule.Type != tc.wantType {
			t.Fatalf("prefix %s matched %s, want %s", tc.prefixHex, rule.Type, tc.wantType)
		}
	}
}

func TestMatchNothing(t *testing.T) {
	table := New()
	if rule, ok := table.Match("0102030405060708"); ok {
		t.Fatalf("unexpected match: %s", rule.Type)
	}
	if _, ok := table.Match(""); ok {
		t.Fatal("empty input must not match")
	}
}

func TestFirstMatchWins(t *testing.T) {
	table := Empty()
	table.Append(
		Rule{Pattern: "AA", Type: "First", Category: "Test", Description: "registered first"},
		Rule{Pattern: "AABB", Type: "Second", Category: "Test", Description: "more specific but later"},
	)
	rule, ok := table.Match("AABBCCDD")
	if !ok {
		t.Fatal("expected a match")
	}
	if rule.Type != "First" {
		t.Fatalf("got %s, want First (registration order, not specificity)", rule.Type)
	}
}

func TestZipFamilyOrdering(t *testing.T) {
	table := New()
	cases := []struct {
		prefixHex string
		wantDesc  string
	}{
		{"504B030414000000", "ZIP Archive or Office Open XML"},
		{"504B050600000000", "ZIP Archive (empty)"},
		{"504B070800000000", "ZIP Archive (spanned)"},
		{"504BFFFF00000000", "ZIP Archive"},
	}
	for _, tc := range cases {
		rule, ok := table.Match(tc.prefixHex)
		if !ok {
			t.Fatalf("no match for %s", tc.prefixHex)
		}
		if rule.Description != tc.wantDesc {
			t.Fatalf("prefix %s matched %q, want %q", tc.prefixHex, rule.Description, tc.wantDesc)
		}
	}
}

func TestWildcardMatch(t *testing.T) {
	table := Empty()
	// The wildcard spans four hex digits, so the literal tail sits at
	// byte offset two.
	table.Append(Rule{Pattern: "....66747970", Type: "MP4", Category: "Video", Description: "MPEG-4 container"})

	for _, hex := range []string{
		"000066747970697336",
		"FFFF66747970",
		"12346674797000000000",
	} {
		rule, ok := table.Match(hex)
		if !ok {
			t.Fatalf("wildcard pattern should match %s", hex)
		}
		if rule.Type != "MP4" {
			t.Fatalf("got %s, want MP4", rule.Type)
		}
	}

	// Disagreement outside the wildcard span must fail.
	if _, ok := table.Match("0000FF74797000000000"); ok {
		t.Fatal("non-wildcard positions must match exactly")
	}
	// Input shorter than the pattern must fail.
	if _, ok := table.Match("0000667479"); ok {
		t.Fatal("short input must not match")
	}
}

func TestWildcardMidPattern(t *testing.T) {
	table := Empty()
	table.Append(Rule{Pattern: "D0CF....11E0", Type: "Container", Category: "Test", Description: "wildcard in the middle"})

	rule, ok := table.Match("D0CFABCD11E0FFFF")
	if !ok || rule.Type != "Container" {
		t.Fatalf("mid-pattern wildcard should match, got %v %v", rule, ok)
	}
	if _, ok := table.Match("D0CFABCD22E0FFFF"); ok {
		t.Fatal("tail after wildcard must match exactly")
	}
	if _, ok := table.Match("D1CFABCD11E0FFFF"); ok {
		t.Fatal("head before wildcard must match exactly")
	}
}

func TestShortInputNeverMatches(t *testing.T) {
	table := New()
	// Two hex digits of a PNG header are not enough for the 8-digit pattern.
	if rule, ok := table.Match("89"); ok {
		t.Fatalf("unexpected match on truncated input: %s", rule.Type)
	}
}

func TestAppendPreservesBuiltinPriority(t *testing.T) {
	table := New()
	before := table.Len()
	table.Append(
		Rule{Pattern: "89504E47", Type: "ShadowPNG", Category: "Test", Description: "would shadow PNG"},
		Rule{Pattern: "DEADBEEF", Type: "Custom", Category: "Test", Description: "new format"},
	)
	if table.Len() != before+2 {
		t.Fatalf("append changed length to %d, want %d", table.Len(), before+2)
	}

	rule, ok := table.Match("89504E470D0A1A0A")
	if !ok || rule.Type != "PNG" {
		t.Fatalf("built-in PNG must still win, got %v %v", rule.Type, ok)
	}
	rule, ok = table.Match("DEADBEEF00000000")
	if !ok || rule.Type != "Custom" {
		t.Fatalf("appended rule unreachable, got %v %v", rule.Type, ok)
	}
}
