package core

import (
	"strings"
	"testing"
)

func TestNewPrefixedID_Format(t *testing.T) {
	id := NewPrefixedID("hyp")
	s := id.String()

	if !strings.HasPrefix(s, "hyp-") {
		t.Errorf("Expected hyp- prefix, got %q", s)
	}
	if got := len(s) - len("hyp-"); got != 8 {
		t.Errorf("Expected 8-char short form, got %d in %q", got, s)
	}
}

func TestNewPrefixedID_UniqueWithinBurst(t *testing.T) {
	// IDs minted back to back share the UUID's timestamp section, so the
	// short form must come from the random section to stay distinct.
	seen := make(map[ID]bool)
	for i := 0; i < 1000; i++ {
		id := NewPrefixedID("hyp")
		if seen[id] {
			t.Fatalf("Duplicate ID %q after %d mints", id, i)
		}
		seen[id] = true
	}
}

func TestTypedIDConstructorsDistinct(t *testing.T) {
	ids := []string{
		NewHypothesisID().String(),
		NewExperimentID().String(),
		NewEvidenceID().String(),
		NewSchemaID().String(),
		NewSessionID().String(),
		NewHypothesisID().String(),
		NewSessionID().String(),
	}

	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("Duplicate ID %q across constructors", id)
		}
		seen[id] = true
	}
}
