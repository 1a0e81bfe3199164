package models

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewOrderID(t *testing.T) {
	id := NewOrderID()
	if !strings.HasPrefix(id, "MO") {
		t.Fatalf("expected MO prefix, got %q", id)
	}
	if len(id) != 11 {
		t.Fatalf("expected 11 characters (MO + 9 hex), got %d in %q", len(id), id)
	}

	if other := NewOrderID(); other == id {
		t.Fatalf("expected fresh identifiers, got %q twice", id)
	}
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	}
	if got := OrderTotal(items); got != 250 {
		t.Fatalf("expected total 250, got %v", got)
	}
}

func TestOrderResponseDates(t *testing.T) {
	created := time.Date(2025, time.March, 7, 18, 45, 12, 0, time.UTC)
	estimated := created.AddDate(0, 0, 7)

	order := Order{
		ID:                primitive.NewObjectID(),
		OrderID:           "MO123456789",
		Status:            OrderStatusConfirmed,
		EstimatedDelivery: &estimated,
		CreatedAt:         created,
	}

	resp := order.Response()
	if resp.Date != "2025-03-07" {
		t.Fatalf("expected date 2025-03-07, got %q", resp.Date)
	}
	if resp.EstimatedDelivery != "2025-03-14" {
		t.Fatalf("expected estimated delivery 2025-03-14, got %q", resp.EstimatedDelivery)
	}
}

func TestOrderResponseOmitsMissingEstimatedDelivery(t *testing.T) {
	order := Order{CreatedAt: time.Now()}

	resp := order.Response()
	if resp.EstimatedDelivery != "" {
		t.Fatalf("expected empty estimated delivery, got %q", resp.EstimatedDelivery)
	}
	if resp.Items == nil {
		t.Fatal("expected items to be an empty list, not null")
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		if !ValidOrderStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []string{"", "confirmed", "Returned", "Processing"} {
		if ValidOrderStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}
