package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type AddressRequest struct {
	Type      string `json:"type" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"isDefault"`
}

func newAddressID() string {
	return uuid.NewString()
}

// GetAddresses lists the caller's saved addresses.
func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/addresses"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "user not found")
			return
		}

		addresses := user.Addresses
		if addresses == nil {
			addresses = []models.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

// CreateAddress appends a new address. Marking it default clears the flag on
// every other entry.
func CreateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/addresses"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "user not found")
			return
		}

		if req.IsDefault {
			for i := range user.Addresses {
				user.Addresses[i].IsDefault = false
			}
		}

		address := models.Address{
			ID:        newAddressID(),
			Type:      strings.TrimSpace(req.Type),
			Address:   strings.TrimSpace(req.Address),
			City:      strings.TrimSpace(req.City),
			State:     strings.TrimSpace(req.State),
			Pincode:   strings.TrimSpace(req.Pincode),
			IsDefault: req.IsDefault,
		}

		user.Addresses = append(user.Addresses, address)

		if err := saveAddresses(ctx, db, userID, user.Addresses); err != nil {
			log.Println("[ADDRESS] [ERROR] insert address failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID)
		c.JSON(http.StatusCreated, gin.H{"address": address})
	}
}

// UpdateAddress replaces the fields of one saved address.
func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid address id")
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "user not found")
			return
		}

		index := -1
		for i, addr := range user.Addresses {
			if addr.ID == addressID {
				index = i
				break
			}
		}
		if index == -1 {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "address not found")
			return
		}

		if req.IsDefault {
			for i := range user.Addresses {
				user.Addresses[i].IsDefault = false
			}
		}

		user.Addresses[index] = models.Address{
			ID:        addressID,
			Type:      strings.TrimSpace(req.Type),
			Address:   strings.TrimSpace(req.Address),
			City:      strings.TrimSpace(req.City),
			State:     strings.TrimSpace(req.State),
			Pincode:   strings.TrimSpace(req.Pincode),
			IsDefault: req.IsDefault,
		}

		if err := saveAddresses(ctx, db, userID, user.Addresses); err != nil {
			log.Println("[ADDRESS] [ERROR] update address failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[ADDRESS] [INFO] address updated:", addressID)
		c.JSON(http.StatusOK, gin.H{"address": user.Addresses[index]})
	}
}

// DeleteAddress removes one saved address.
func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid address id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "user not found")
			return
		}

		remaining := make([]models.Address, 0, len(user.Addresses))
		found := false
		for _, addr := range user.Addresses {
			if addr.ID == addressID {
				found = true
				continue
			}
			remaining = append(remaining, addr)
		}
		if !found {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "address not found")
			return
		}

		if err := saveAddresses(ctx, db, userID, remaining); err != nil {
			log.Println("[ADDRESS] [ERROR] delete address failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[ADDRESS] [INFO] address deleted:", addressID)
		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}

func saveAddresses(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, addresses []models.Address) error {
	_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{
			"addresses": addresses,
			"updatedAt": time.Now(),
		},
	})
	return err
}
