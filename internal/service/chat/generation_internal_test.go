package chat

import "testing"

func TestTokenBoundaries(t *testing.T) {
	text := "  For summer,\tlawn suits!  "
	cuts := tokenBoundaries(text)
	if len(cuts) != 4 {
		t.Fatalf("expected 4 tokens, got %d (%v)", len(cuts), cuts)
	}
	if cuts[len(cuts)-1] != len(text) {
		t.Fatalf("last cut must cover the whole text")
	}
	prev := 0
	for _, cut := range cuts {
		if cut <= prev {
			t.Fatalf("cuts must grow: %v", cuts)
		}
		prev = cut
	}
	if got := text[:cuts[0]]; got != "  For" {
		t.Fatalf("unexpected first token %q", got)
	}
}

func TestTokenBoundariesBlank(t *testing.T) {
	if cuts := tokenBoundaries("   "); len(cuts) != 1 || cuts[0] != 3 {
		t.Fatalf("unexpected cuts for blank text: %v", cuts)
	}
}
