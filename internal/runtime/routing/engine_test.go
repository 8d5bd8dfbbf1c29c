package routing

import (
	"testing"

	"github.com/fiberline/orderflow/internal/runtime/order"
	"github.com/fiberline/orderflow/internal/runtime/stock"
)

func sampleOrder(productType string) *order.Order {
	return &order.Order{
		OrderID: "ORD-42",
		Product: order.Product{Type: productType, Model: "Pro Router V5"},
	}
}

func TestRouteInstockFlag(t *testing.T) {
	engine := NewEngine(nil)

	cases := []struct {
		status stock.Status
		want   bool
	}{
		{stock.StatusInStock, true},
		{stock.StatusLimited, true}, // Limited is routable stock
		{stock.StatusOutOfStock, false},
	}

	for _, tc := range cases {
		msg := engine.Route(sampleOrder("Router"), stock.Result{Status: tc.status})
		if msg.Instock != tc.want {
			t.Fatalf("status %s: expected instock=%v, got %v", tc.status, tc.want, msg.Instock)
		}
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	engine := NewEngine([]string{"Mesh System"})
	o := sampleOrder("Mesh System")
	result := stock.Result{Status: stock.StatusLimited, Quantity: 1}

	first := engine.Route(o, result)
	for i := 0; i < 10; i++ {
		if engine.Route(o, result) != first {
			t.Fatal("route is not deterministic")
		}
	}
}

func TestRouteCorrelationIDIsOrderID(t *testing.T) {
	engine := NewEngine(nil)
	msg := engine.Route(sampleOrder("Router"), stock.Result{Status: stock.StatusInStock})

	if msg.CorrelationID != "ORD-42" {
		t.Fatalf("expected correlation id to reuse order id, got %q", msg.CorrelationID)
	}
}

func TestTechnicianPredicateTable(t *testing.T) {
	engine := NewEngine([]string{"Mesh System", " Managed Gateway "})

	cases := []struct {
		productType string
		want        bool
	}{
		{"Mesh System", true},
		{"mesh system", true}, // case-insensitive
		{"MANAGED GATEWAY", true},
		{"Router", false},
		{"", false},
	}

	for _, tc := range cases {
		msg := engine.Route(sampleOrder(tc.productType), stock.Result{Status: stock.StatusInStock})
		if msg.RequiresTechnician != tc.want {
			t.Fatalf("type %q: expected requires_technician=%v, got %v", tc.productType, tc.want, msg.RequiresTechnician)
		}
	}
}

func TestEmptyTableNeverRequiresTechnician(t *testing.T) {
	engine := NewEngine(nil)
	if engine.RequiresTechnician("Router") {
		t.Fatal("empty table must never require a technician")
	}
}
