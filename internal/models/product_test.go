package models

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDiscountZeroWhenNotDiscounted(t *testing.T) {
	tests := []struct {
		price, originalPrice float64
	}{
		{100, 100},
		{100, 90},
		{100, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Discount(tt.price, tt.originalPrice); got != 0 {
			t.Fatalf("Discount(%v, %v) = %d, want 0", tt.price, tt.originalPrice, got)
		}
	}
}

func TestDiscountRoundsDown(t *testing.T) {
	tests := []struct {
		price, originalPrice float64
		want                 int
	}{
		{50, 100, 50},
		{999, 1999, 50},
		{75, 100, 25},
		{99, 100, 1},
		{1, 3, 66},
	}
	for _, tt := range tests {
		if got := Discount(tt.price, tt.originalPrice); got != tt.want {
			t.Fatalf("Discount(%v, %v) = %d, want %d", tt.price, tt.originalPrice, got, tt.want)
		}
	}
}

func TestProductResponseDerivesDiscount(t *testing.T) {
	seller := primitive.NewObjectID()
	product := Product{
		ID:            primitive.NewObjectID(),
		Name:          "Cotton Kurta",
		Price:         299,
		OriginalPrice: 599,
		Seller:        seller,
	}

	resp := product.Response()
	if resp.Discount != 50 {
		t.Fatalf("expected discount 50, got %d", resp.Discount)
	}
	if resp.Seller != seller.Hex() {
		t.Fatalf("expected seller rendered as hex id, got %q", resp.Seller)
	}
	if resp.Images == nil || resp.Sizes == nil || resp.Colors == nil {
		t.Fatal("expected nil slices to project as empty lists")
	}
}

func TestProductResponseIsPure(t *testing.T) {
	product := Product{Price: 80, OriginalPrice: 100}
	first := product.Response()
	second := product.Response()
	if first.Discount != second.Discount || first.Discount != 20 {
		t.Fatalf("expected repeated projections to agree at 20, got %d and %d", first.Discount, second.Discount)
	}
}

func TestUserJSONNeverContainsPasswordHash(t *testing.T) {
	user := User{
		ID:           primitive.NewObjectID(),
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "$2a$10$secret-hash",
		Role:         RoleBuyer,
	}

	body, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	if strings.Contains(string(body), "secret-hash") {
		t.Fatalf("password hash leaked into json: %s", body)
	}

	respBody, err := json.Marshal(user.Response())
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	if strings.Contains(string(respBody), "secret-hash") || strings.Contains(string(respBody), "password") {
		t.Fatalf("password leaked into response json: %s", respBody)
	}
}
