package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem snapshots the product's name, price and image at add-time. Size
// and color are optional selections.
type CartItem struct {
	ProductID     primitive.ObjectID `bson:"productId" json:"productId"`
	Name          string             `bson:"name" json:"name"`
	Price         float64            `bson:"price" json:"price"`
	Image         string             `bson:"image" json:"image"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	SelectedSize  string             `bson:"selectedSize,omitempty" json:"selectedSize,omitempty"`
	SelectedColor string             `bson:"selectedColor,omitempty" json:"selectedColor,omitempty"`
}

// Cart is the stored cart document, one per user. The persisted totalAmount
// is advisory only; responses always recompute it from the item list.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Items       []CartItem         `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CartResponse struct {
	ID          string     `json:"id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	TotalItems  int        `json:"totalItems"`
}

// CartTotals sums price*quantity and quantity over the given items. Every
// response path derives totals through here instead of trusting a stored
// aggregate, which can drift whenever a write path forgets to refresh it.
func CartTotals(items []CartItem) (amount float64, count int) {
	for _, item := range items {
		amount += item.Price * float64(item.Quantity)
		count += item.Quantity
	}
	return amount, count
}

// Response projects the stored cart, recomputing both totals from the
// current items.
func (c Cart) Response() CartResponse {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	amount, count := CartTotals(items)
	return CartResponse{
		ID:          c.ID.Hex(),
		Items:       items,
		TotalAmount: amount,
		TotalItems:  count,
	}
}
