package metadata

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
)

func TestWithDoesNotMutateOriginal(t *testing.T) {
	original := New(KeyCorrelationID, "ORD-001")
	derived := original.With(KeyOrderStatus, "received")

	if _, ok := original[KeyOrderStatus]; ok {
		t.Fatal("With mutated the original map")
	}
	if derived[KeyCorrelationID] != "ORD-001" {
		t.Fatal("With dropped existing entries")
	}
	if derived[KeyOrderStatus] != "received" {
		t.Fatalf("expected status to be set, got %#v", derived)
	}
}

func TestWithBoolEncoding(t *testing.T) {
	md := Metadata{}.WithBool(KeyInstock, true).WithBool(KeyRequiresTechnician, false)

	if md[KeyInstock] != "true" {
		t.Fatalf("expected instock=true, got %q", md[KeyInstock])
	}
	if md[KeyRequiresTechnician] != "false" {
		t.Fatalf("expected requires_technician=false, got %q", md[KeyRequiresTechnician])
	}
}

func TestBoolDistinguishesUnsetFromFalse(t *testing.T) {
	md := Metadata{KeyInstock: "false", "garbage": "not-a-bool"}

	if v, ok := md.Bool(KeyInstock); !ok || v {
		t.Fatalf("expected (false, true), got (%v, %v)", v, ok)
	}
	if _, ok := md.Bool(KeyRequiresTechnician); ok {
		t.Fatal("expected unset attribute to report ok=false")
	}
	if _, ok := md.Bool("garbage"); ok {
		t.Fatal("expected malformed attribute to report ok=false")
	}
}

func TestWatermillRoundTrip(t *testing.T) {
	md := New(KeyCorrelationID, "ORD-002", KeyInstock, "true")

	wm := ToWatermill(md)
	if _, isWatermill := interface{}(wm).(message.Metadata); !isWatermill {
		t.Fatal("expected watermill metadata type")
	}

	back := FromWatermill(wm)
	if len(back) != len(md) {
		t.Fatalf("round trip changed size: %d != %d", len(back), len(md))
	}
	for k, v := range md {
		if back[k] != v {
			t.Fatalf("round trip lost %s=%s", k, v)
		}
	}
}

func TestWithAllMergesEntries(t *testing.T) {
	base := New(KeyCorrelationID, "ORD-003")
	merged := base.WithAll(Metadata{KeyInstock: "true", KeyOrderStatus: "routed"})

	if len(merged) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(merged))
	}
	if len(base) != 1 {
		t.Fatal("WithAll mutated the base map")
	}
}
