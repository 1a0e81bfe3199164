package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Buyers browse and order, sellers own products, admins can do
// anything either can.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Address is a single address entry owned by its user. IDs are UUID strings
// minted at creation; addresses have no lifecycle outside the user document.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Type      string `bson:"type" json:"type"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Pincode   string `bson:"pincode" json:"pincode"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// User is the stored account document. PasswordHash never serializes to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Addresses []Address `json:"addresses"`
}

// Response projects the stored user into its public shape.
func (u User) Response() UserResponse {
	addresses := u.Addresses
	if addresses == nil {
		addresses = []Address{}
	}
	return UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Addresses: addresses,
	}
}
