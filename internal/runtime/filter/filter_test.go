package filter

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	metadatapkg "github.com/fiberline/orderflow/internal/runtime/metadata"
)

func TestInstockPredicates(t *testing.T) {
	tests := []struct {
		name      string
		md        metadatapkg.Metadata
		wantTrue  bool
		wantFalse bool
	}{
		{
			name:      "instock true",
			md:        metadatapkg.New(metadatapkg.KeyInstock, "true"),
			wantTrue:  true,
			wantFalse: false,
		},
		{
			name:      "instock false",
			md:        metadatapkg.New(metadatapkg.KeyInstock, "false"),
			wantTrue:  false,
			wantFalse: true,
		},
		{
			name:      "attribute absent matches neither",
			md:        metadatapkg.New(metadatapkg.KeyCorrelationID, "ORD-1"),
			wantTrue:  false,
			wantFalse: false,
		},
		{
			name:      "malformed value matches neither",
			md:        metadatapkg.New(metadatapkg.KeyInstock, "yes please"),
			wantTrue:  false,
			wantFalse: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InstockTrue()(tt.md); got != tt.wantTrue {
				t.Fatalf("InstockTrue = %v, want %v", got, tt.wantTrue)
			}
			if got := InstockFalse()(tt.md); got != tt.wantFalse {
				t.Fatalf("InstockFalse = %v, want %v", got, tt.wantFalse)
			}
		})
	}
}

func TestRequiresTechnician(t *testing.T) {
	md := metadatapkg.New(
		metadatapkg.KeyInstock, "true",
		metadatapkg.KeyRequiresTechnician, "true",
	)
	if !RequiresTechnician()(md) {
		t.Fatal("expected technician predicate to match")
	}
	if RequiresTechnician()(metadatapkg.New(metadatapkg.KeyRequiresTechnician, "false")) {
		t.Fatal("requires_technician=false must not match")
	}
	if RequiresTechnician()(metadatapkg.Metadata{}) {
		t.Fatal("absent attribute must not match")
	}
}

func TestCorrelation(t *testing.T) {
	md := metadatapkg.New(metadatapkg.KeyCorrelationID, "ORD-2024-001")
	if !Correlation("ORD-2024-001")(md) {
		t.Fatal("expected correlation match")
	}
	if Correlation("ORD-2024-002")(md) {
		t.Fatal("different correlation id must not match")
	}
}

func TestCombinators(t *testing.T) {
	md := metadatapkg.New(
		metadatapkg.KeyInstock, "true",
		metadatapkg.KeyRequiresTechnician, "true",
	)

	both := And(InstockTrue(), RequiresTechnician())
	if !both(md) {
		t.Fatal("expected conjunction to match")
	}
	if both(metadatapkg.New(metadatapkg.KeyInstock, "true")) {
		t.Fatal("conjunction must fail when one attribute is missing")
	}

	either := Or(InstockFalse(), RequiresTechnician())
	if !either(md) {
		t.Fatal("expected disjunction to match on technician attribute")
	}

	if Not(InstockTrue())(md) {
		t.Fatal("negation of a matching predicate must not match")
	}
	if !And()(metadatapkg.Metadata{}) {
		t.Fatal("empty conjunction matches everything")
	}
	if Or()(md) {
		t.Fatal("empty disjunction matches nothing")
	}
}

// An order both in stock and technician-flagged must be visible to the stock
// rule and the scheduling rule at once.
func TestDefaultSubscriptionsOverlap(t *testing.T) {
	stockSub := StockSubscription("sub-order-stock", "topic-router-orders")
	routerSub := RouterSubscription("sub-order-router", "topic-router-orders")
	techSub := TechScheduleSubscription("sub-tech-schedule", "topic-router-orders")

	md := metadatapkg.New(
		metadatapkg.KeyInstock, "true",
		metadatapkg.KeyRequiresTechnician, "true",
	)

	if !stockSub.Matches(md) {
		t.Fatal("in-stock technician order should reach the stock subscription")
	}
	if routerSub.Matches(md) {
		t.Fatal("in-stock order must not reach the router subscription")
	}
	if !techSub.Matches(md) {
		t.Fatal("technician order should also reach scheduling")
	}

	outOfStock := metadatapkg.New(
		metadatapkg.KeyInstock, "false",
		metadatapkg.KeyRequiresTechnician, "false",
	)
	if stockSub.Matches(outOfStock) {
		t.Fatal("out-of-stock order must not reach the stock subscription")
	}
	if !routerSub.Matches(outOfStock) {
		t.Fatal("out-of-stock order should reach the router subscription")
	}
	if techSub.Matches(outOfStock) {
		t.Fatal("non-technician order must not reach scheduling")
	}
}

func TestSubscriptionWithoutPredicateMatchesAll(t *testing.T) {
	sub := Subscription{Name: "sub-audit", Topic: "topic-router-orders"}
	if !sub.Matches(metadatapkg.Metadata{}) {
		t.Fatal("subscription without a rule should match everything")
	}
}

func TestMiddlewareDropsNonMatching(t *testing.T) {
	var handled []string
	handler := func(msg *message.Message) ([]*message.Message, error) {
		handled = append(handled, msg.UUID)
		return nil, nil
	}
	filtered := Middleware(InstockTrue())(handler)

	matching := message.NewMessage("match", nil)
	matching.Metadata.Set(metadatapkg.KeyInstock, "true")
	if _, err := filtered(matching); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nonMatching := message.NewMessage("drop", nil)
	nonMatching.Metadata.Set(metadatapkg.KeyInstock, "false")
	if _, err := filtered(nonMatching); err != nil {
		t.Fatalf("dropping must not surface an error: %v", err)
	}

	if len(handled) != 1 || handled[0] != "match" {
		t.Fatalf("expected only the matching message to be handled, got %v", handled)
	}
}
