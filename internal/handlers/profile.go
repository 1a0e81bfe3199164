package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// UpdateProfileRequest carries the editable profile fields. Both are
// optional; absent fields keep their stored value.
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2"`
	Phone *string `json:"phone"`
}

// profileUpdateFields translates the request into the fields to $set. Only
// fields present in the request appear in the result.
func profileUpdateFields(req UpdateProfileRequest) bson.M {
	update := bson.M{}
	if req.Name != nil {
		update["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		update["phone"] = strings.TrimSpace(*req.Phone)
	}
	return update
}

// UpdateProfile partially updates the caller's name and phone. A phone number
// already held by another account answers 409 and changes nothing.
func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/profile"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		update := profileUpdateFields(req)
		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if phone, ok := update["phone"].(string); ok {
			count, err := db.Collection("users").CountDocuments(ctx, bson.M{
				"phone": phone,
				"_id":   bson.M{"$ne": userID},
			})
			if err != nil {
				log.Println("[USER] [ERROR] profile phone lookup failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
				return
			}
			if count > 0 {
				respondWithError(c, http.StatusConflict, route, errConflict, "phone number is already registered")
				return
			}
		}

		update["updatedAt"] = time.Now()

		var user models.User
		err := db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": userID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, errNotFound, "user not found")
				return
			}
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, errConflict, "phone number is already registered")
				return
			}
			log.Println("[USER] [ERROR] profile update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[USER] [INFO] profile updated:", user.Email)
		c.JSON(http.StatusOK, user.Response())
	}
}
