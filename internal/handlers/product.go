package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/database"
	"backend/internal/middleware"
	"backend/internal/models"
)

const (
	defaultDeliveryTime = "7-10 days"
	defaultInventory    = 100
)

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice float64  `json:"originalPrice" binding:"required,gt=0"`
	Category      string   `json:"category" binding:"required"`
	Images        []string `json:"images"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	DeliveryTime  string   `json:"deliveryTime"`
	FreeDelivery  *bool    `json:"freeDelivery"`
	Inventory     *int     `json:"inventory" binding:"omitempty,gte=0"`
}

// UpdateProductRequest has every field optional; only present fields are
// applied. Pointer fields keep absent distinguishable from zero.
type UpdateProductRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price" binding:"omitempty,gt=0"`
	OriginalPrice *float64  `json:"originalPrice" binding:"omitempty,gt=0"`
	Category      *string   `json:"category"`
	Images        *[]string `json:"images"`
	Inventory     *int      `json:"inventory" binding:"omitempty,gte=0"`
	Sizes         *[]string `json:"sizes"`
	Colors        *[]string `json:"colors"`
	DeliveryTime  *string   `json:"deliveryTime"`
	FreeDelivery  *bool     `json:"freeDelivery"`
}

// GetProducts lists active products with filters, whitelist sorting and
// 1-indexed pagination.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		page, limit, err := paginationQuery(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid pagination params")
			return
		}

		query, err := parseProductQuery(c.Query)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, err.Error())
			return
		}

		filter := query.Filter()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		findOptions := options.Find().
			SetSort(query.Sort()).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}
		defer cursor.Close(ctx)

		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "decode error")
			return
		}

		responses := make([]models.ProductResponse, 0, len(products))
		for _, product := range products {
			responses = append(responses, product.Response())
		}

		log.Printf("[%s] returning %d of %d products", route, len(responses), total)
		c.JSON(http.StatusOK, gin.H{
			"products":   responses,
			"pagination": newPaginationMeta(page, limit, total),
		})
	}
}

// GetCategories returns the fixed category reference list.
func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/categories"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
		cursor, err := db.Collection("categories").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "decode error")
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}

// GetProduct returns a single active product. A malformed id is rejected
// before any lookup, distinct from not-found.
func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		productID, err := database.ParseID(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":      productID,
			"isActive": true,
		}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, errNotFound, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		c.JSON(http.StatusOK, product.Response())
	}
}

// CreateProduct inserts a product owned by the calling seller. The route is
// role-gated to sellers and admins.
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
			return
		}

		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		sellerID, err := database.ParseID(principal.ID)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
			return
		}

		deliveryTime := strings.TrimSpace(req.DeliveryTime)
		if deliveryTime == "" {
			deliveryTime = defaultDeliveryTime
		}
		freeDelivery := true
		if req.FreeDelivery != nil {
			freeDelivery = *req.FreeDelivery
		}
		inventory := defaultInventory
		if req.Inventory != nil {
			inventory = *req.Inventory
		}

		now := time.Now()
		product := models.Product{
			Name:          strings.TrimSpace(req.Name),
			Description:   strings.TrimSpace(req.Description),
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Category:      strings.TrimSpace(req.Category),
			Images:        emptyIfNil(req.Images),
			Seller:        sellerID,
			Rating:        0,
			Reviews:       0,
			Inventory:     inventory,
			Sizes:         emptyIfNil(req.Sizes),
			Colors:        emptyIfNil(req.Colors),
			DeliveryTime:  deliveryTime,
			FreeDelivery:  freeDelivery,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		log.Println("[PRODUCT] [INFO] product created:", product.ID.Hex())
		c.JSON(http.StatusCreated, product.Response())
	}
}

// UpdateProduct applies a partial update. Only the owning seller or an admin
// may mutate a product.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
			return
		}

		productID, err := database.ParseID(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid product id")
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, errNotFound, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		if principal.Role != models.RoleAdmin && product.Seller.Hex() != principal.ID {
			respondWithError(c, http.StatusForbidden, route, errForbidden, "not authorized to update this product")
			return
		}

		update := productUpdateFields(req)
		update["updatedAt"] = time.Now()

		if _, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": update}); err != nil {
			log.Println("[PRODUCT] [ERROR] update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[PRODUCT] [INFO] product updated:", productID.Hex())
		c.JSON(http.StatusOK, product.Response())
	}
}

// DeleteProduct soft-deletes: the record stays in storage with
// isActive=false and disappears from public queries.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		principal, ok := middleware.CurrentPrincipal(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
			return
		}

		productID, err := database.ParseID(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, errNotFound, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		if principal.Role != models.RoleAdmin && product.Seller.Hex() != principal.ID {
			respondWithError(c, http.StatusForbidden, route, errForbidden, "not authorized to delete this product")
			return
		}

		_, err = db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
		})
		if err != nil {
			log.Println("[PRODUCT] [ERROR] soft delete failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[PRODUCT] [INFO] product deactivated:", productID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
	}
}

// productUpdateFields translates present request fields into a $set
// document. Absent fields stay untouched.
func productUpdateFields(req UpdateProductRequest) bson.M {
	update := bson.M{}
	if req.Name != nil {
		update["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		update["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		update["originalPrice"] = *req.OriginalPrice
	}
	if req.Category != nil {
		update["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Images != nil {
		update["images"] = *req.Images
	}
	if req.Inventory != nil {
		update["inventory"] = *req.Inventory
	}
	if req.Sizes != nil {
		update["sizes"] = *req.Sizes
	}
	if req.Colors != nil {
		update["colors"] = *req.Colors
	}
	if req.DeliveryTime != nil {
		update["deliveryTime"] = strings.TrimSpace(*req.DeliveryTime)
	}
	if req.FreeDelivery != nil {
		update["freeDelivery"] = *req.FreeDelivery
	}
	return update
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
