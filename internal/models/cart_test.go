package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartTotals(t *testing.T) {
	items := []CartItem{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	}

	amount, count := CartTotals(items)
	if amount != 250 {
		t.Fatalf("expected amount 250, got %v", amount)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestCartTotalsEmpty(t *testing.T) {
	amount, count := CartTotals(nil)
	if amount != 0 || count != 0 {
		t.Fatalf("expected zero totals, got %v and %d", amount, count)
	}
}

func TestCartResponseIgnoresStoredTotal(t *testing.T) {
	cart := Cart{
		ID: primitive.NewObjectID(),
		Items: []CartItem{
			{Price: 199, Quantity: 2},
			{Price: 49, Quantity: 3},
		},
		TotalAmount: 9999, // stale persisted aggregate
	}

	resp := cart.Response()
	if resp.TotalAmount != 545 {
		t.Fatalf("expected recomputed total 545, got %v", resp.TotalAmount)
	}
	if resp.TotalItems != 5 {
		t.Fatalf("expected 5 total items, got %d", resp.TotalItems)
	}
}

func TestCartResponseEmptyCart(t *testing.T) {
	cart := Cart{ID: primitive.NewObjectID(), TotalAmount: 120}

	resp := cart.Response()
	if resp.TotalAmount != 0 || resp.TotalItems != 0 {
		t.Fatalf("expected empty cart totals, got %v and %d", resp.TotalAmount, resp.TotalItems)
	}
	if resp.Items == nil {
		t.Fatal("expected items to be an empty list, not null")
	}
}
