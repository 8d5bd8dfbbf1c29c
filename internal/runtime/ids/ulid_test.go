package ids

import "testing"

func TestNewMessageIDLength(t *testing.T) {
	id := NewMessageID()
	if len(id) != 26 {
		t.Fatalf("expected 26-char ULID, got %q (%d chars)", id, len(id))
	}
}

func TestNewMessageIDMonotonic(t *testing.T) {
	prev := NewMessageID()
	for i := 0; i < 100; i++ {
		next := NewMessageID()
		if next <= prev {
			t.Fatalf("expected strictly increasing IDs, got %q after %q", next, prev)
		}
		prev = next
	}
}
