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

type AddCartItemRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"omitempty,min=1"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

type UpdateCartItemRequest struct {
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

// upsertCartItem merges the new item into the list: an entry with the same
// product, size and color has its quantity incremented, anything else is
// appended.
func upsertCartItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	for i := range items {
		if items[i].ProductID == item.ProductID &&
			items[i].SelectedSize == item.SelectedSize &&
			items[i].SelectedColor == item.SelectedColor {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// GetCart returns the caller's cart, creating an empty one on first read.
func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] load cart failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		c.JSON(http.StatusOK, cart.Response())
	}
}

// AddToCart snapshots the product's current name, price and first image into
// the cart. Inactive or unknown products answer 404.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/add"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		var req AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		productID, err := database.ParseID(strings.TrimSpace(req.ProductID))
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

		cart, err := loadOrCreateCart(ctx, db, userID)
		if err != nil {
			log.Println("[CART] [ERROR] load cart failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		item := models.CartItem{
			ProductID:     productID,
			Name:          product.Name,
			Price:         product.Price,
			Image:         image,
			Quantity:      req.Quantity,
			SelectedSize:  strings.TrimSpace(req.SelectedSize),
			SelectedColor: strings.TrimSpace(req.SelectedColor),
		}

		cart.Items = upsertCartItem(cart.Items, item)

		if requested := cartQuantityFor(cart.Items, item); product.Inventory < requested {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "insufficient inventory")
			return
		}

		if err := saveCartItems(ctx, db, userID, cart.Items); err != nil {
			log.Println("[CART] [ERROR] save cart failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[CART] [INFO] item added for user:", userID.Hex())
		c.JSON(http.StatusOK, cart.Response())
	}
}

// UpdateCartItem sets the quantity of one cart entry, located by product id
// plus the selected size and color.
func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/items/:productId"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		productID, err := database.ParseID(strings.TrimSpace(c.Param("productId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid product id")
			return
		}

		var req UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "cart not found")
			return
		}

		index := -1
		for i, item := range cart.Items {
			if item.ProductID == productID &&
				item.SelectedSize == strings.TrimSpace(req.SelectedSize) &&
				item.SelectedColor == strings.TrimSpace(req.SelectedColor) {
				index = i
				break
			}
		}
		if index == -1 {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "item not found in cart")
			return
		}

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err == nil {
			if product.Inventory < req.Quantity {
				respondWithError(c, http.StatusBadRequest, route, errValidation, "insufficient inventory")
				return
			}
		}

		cart.Items[index].Quantity = req.Quantity

		if err := saveCartItems(ctx, db, userID, cart.Items); err != nil {
			log.Println("[CART] [ERROR] save cart failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		c.JSON(http.StatusOK, cart.Response())
	}
}

// RemoveCartItem drops every entry for the given product. Size and color may
// be narrowed via query params.
func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/items/:productId"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		productID, err := database.ParseID(strings.TrimSpace(c.Param("productId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid product id")
			return
		}

		size := strings.TrimSpace(c.Query("selectedSize"))
		color := strings.TrimSpace(c.Query("selectedColor"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "cart not found")
			return
		}

		remaining := make([]models.CartItem, 0, len(cart.Items))
		found := false
		for _, item := range cart.Items {
			if item.ProductID == productID &&
				(size == "" || item.SelectedSize == size) &&
				(color == "" || item.SelectedColor == color) {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			respondWithError(c, http.StatusNotFound, route, errNotFound, "item not found in cart")
			return
		}

		cart.Items = remaining

		if err := saveCartItems(ctx, db, userID, cart.Items); err != nil {
			log.Println("[CART] [ERROR] save cart failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		c.JSON(http.StatusOK, cart.Response())
	}
}

// ClearCart empties the caller's cart.
func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/clear"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := saveCartItems(ctx, db, userID, []models.CartItem{}); err != nil {
			log.Println("[CART] [ERROR] clear cart failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

func principalObjectID(c *gin.Context, route string) (primitive.ObjectID, bool) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
		return primitive.NilObjectID, false
	}
	userID, err := database.ParseID(principal.ID)
	if err != nil {
		respondWithError(c, http.StatusUnauthorized, route, errUnauthorized, "unauthorized")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func loadOrCreateCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == nil {
		return cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Cart{}, err
	}

	now := time.Now()
	cart = models.Cart{
		User:      userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, insertErr := db.Collection("carts").InsertOne(ctx, cart)
	if insertErr != nil {
		// Lost a concurrent upsert race; the unique user index kept a
		// single cart, so read that one back.
		if mongo.IsDuplicateKeyError(insertErr) {
			err = db.Collection("carts").FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
			return cart, err
		}
		return models.Cart{}, insertErr
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return cart, nil
}

// saveCartItems upserts the single per-user cart document. The stored
// totalAmount is advisory; responses recompute it.
func saveCartItems(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, items []models.CartItem) error {
	amount, _ := models.CartTotals(items)
	now := time.Now()

	_, err := db.Collection("carts").UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{
			"$set": bson.M{
				"items":       items,
				"totalAmount": amount,
				"updatedAt":   now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func cartQuantityFor(items []models.CartItem, target models.CartItem) int {
	for _, item := range items {
		if item.ProductID == target.ProductID &&
			item.SelectedSize == target.SelectedSize &&
			item.SelectedColor == target.SelectedColor {
			return item.Quantity
		}
	}
	return 0
}
