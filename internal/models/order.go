package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. The value set is enforced on status updates; no transition
// table is defined, so deployments can narrow OrderStatuses if they need
// stricter progression.
const (
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusInTransit = "In Transit"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

var OrderStatuses = []string{
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s belongs to the allowed status set.
func ValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// OrderItem has the same shape as CartItem with quantity required. Items are
// value snapshots: later product edits never change a placed order.
type OrderItem struct {
	ProductID     primitive.ObjectID `bson:"productId" json:"productId"`
	Name          string             `bson:"name" json:"name"`
	Price         float64            `bson:"price" json:"price"`
	Image         string             `bson:"image" json:"image"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	SelectedSize  string             `bson:"selectedSize,omitempty" json:"selectedSize,omitempty"`
	SelectedColor string             `bson:"selectedColor,omitempty" json:"selectedColor,omitempty"`
}

// Order is the stored order document. DeliveryAddress is a copied Address
// value, not a reference into the user document. TotalAmount is computed at
// creation and never recomputed.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID           string             `bson:"orderId" json:"orderId"`
	User              primitive.ObjectID `bson:"user" json:"user"`
	Items             []OrderItem        `bson:"items" json:"items"`
	TotalAmount       float64            `bson:"totalAmount" json:"totalAmount"`
	Status            string             `bson:"status" json:"status"`
	DeliveryAddress   Address            `bson:"deliveryAddress" json:"deliveryAddress"`
	PaymentMethod     string             `bson:"paymentMethod" json:"paymentMethod"`
	TrackingID        string             `bson:"trackingId,omitempty" json:"trackingId,omitempty"`
	EstimatedDelivery *time.Time         `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewOrderID derives the human-readable order id from a fresh ObjectID,
// keeping the "MO" prefix plus the identifier's last 9 hex characters.
func NewOrderID() string {
	hex := primitive.NewObjectID().Hex()
	return "MO" + hex[len(hex)-9:]
}

// OrderTotal sums price*quantity over the items, fixed at creation time.
func OrderTotal(items []OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// OrderResponse renders dates as plain calendar-day strings; time of day is
// omitted and estimatedDelivery only appears when set.
type OrderResponse struct {
	ID                string      `json:"id"`
	OrderID           string      `json:"orderId"`
	Items             []OrderItem `json:"items"`
	TotalAmount       float64     `json:"totalAmount"`
	Status            string      `json:"status"`
	DeliveryAddress   Address     `json:"deliveryAddress"`
	PaymentMethod     string      `json:"paymentMethod"`
	TrackingID        string      `json:"trackingId,omitempty"`
	Date              string      `json:"date"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty"`
}

// Response projects the stored order into its public shape.
func (o Order) Response() OrderResponse {
	items := o.Items
	if items == nil {
		items = []OrderItem{}
	}
	resp := OrderResponse{
		ID:              o.ID.Hex(),
		OrderID:         o.OrderID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
		TrackingID:      o.TrackingID,
		Date:            o.CreatedAt.Format("2006-01-02"),
	}
	if o.EstimatedDelivery != nil {
		resp.EstimatedDelivery = o.EstimatedDelivery.Format("2006-01-02")
	}
	return resp
}
