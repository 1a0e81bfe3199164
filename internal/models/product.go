package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the stored catalog document. isActive=false marks a soft-deleted
// product: it stays in storage but is excluded from every public query.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice" json:"originalPrice"`
	Category      string             `bson:"category" json:"category"`
	Images        []string           `bson:"images" json:"images"`
	Seller        primitive.ObjectID `bson:"seller" json:"seller"`
	Rating        float64            `bson:"rating" json:"rating"`
	Reviews       int                `bson:"reviews" json:"reviews"`
	Inventory     int                `bson:"inventory" json:"inventory"`
	Sizes         []string           `bson:"sizes" json:"sizes"`
	Colors        []string           `bson:"colors" json:"colors"`
	DeliveryTime  string             `bson:"deliveryTime" json:"deliveryTime"`
	FreeDelivery  bool               `bson:"freeDelivery" json:"freeDelivery"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductResponse is the public projection. Discount is derived on every
// projection and never persisted.
type ProductResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Category      string   `json:"category"`
	Images        []string `json:"images"`
	Seller        string   `json:"seller"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Inventory     int      `json:"inventory"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	DeliveryTime  string   `json:"deliveryTime"`
	FreeDelivery  bool     `json:"freeDelivery"`
	Discount      int      `json:"discount"`
}

// Discount returns the whole-number discount percentage, 0 unless
// originalPrice exceeds price.
func Discount(price, originalPrice float64) int {
	if originalPrice <= price || originalPrice <= 0 {
		return 0
	}
	return int(((originalPrice - price) / originalPrice) * 100)
}

// Response projects the stored product into its public shape.
func (p Product) Response() ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	return ProductResponse{
		ID:            p.ID.Hex(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		Images:        images,
		Seller:        p.Seller.Hex(),
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		Inventory:     p.Inventory,
		Sizes:         sizes,
		Colors:        colors,
		DeliveryTime:  p.DeliveryTime,
		FreeDelivery:  p.FreeDelivery,
		Discount:      Discount(p.Price, p.OriginalPrice),
	}
}

// Category is a small fixed reference entity with a numeric id.
type Category struct {
	ID    int    `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Icon  string `bson:"icon" json:"icon"`
	Image string `bson:"image" json:"image"`
}
