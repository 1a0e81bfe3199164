package handlers

import (
	"context"
	"fmt"
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
	"backend/internal/models"
)

const defaultPaymentMethod = "COD"

// estimatedDeliveryDays is how far out the estimated delivery date is set at
// order creation.
const estimatedDeliveryDays = 7

type OrderItemRequest struct {
	ProductID     string  `json:"productId" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Price         float64 `json:"price" binding:"required,gte=0"`
	Image         string  `json:"image"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
}

type DeliveryAddressRequest struct {
	Type    string `json:"type" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress DeliveryAddressRequest `json:"deliveryAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	TrackingID string `json:"trackingId"`
}

// buildOrder assembles the stored order: total fixed at creation, fresh
// "MO"-prefixed order id, initial status Confirmed, delivery estimated a
// week out.
func buildOrder(userID primitive.ObjectID, items []models.OrderItem, address models.Address, paymentMethod string, now time.Time) models.Order {
	if strings.TrimSpace(paymentMethod) == "" {
		paymentMethod = defaultPaymentMethod
	}
	estimated := now.AddDate(0, 0, estimatedDeliveryDays)
	return models.Order{
		OrderID:           models.NewOrderID(),
		User:              userID,
		Items:             items,
		TotalAmount:       models.OrderTotal(items),
		Status:            models.OrderStatusConfirmed,
		DeliveryAddress:   address,
		PaymentMethod:     paymentMethod,
		EstimatedDelivery: &estimated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// orderCancellable reports whether the owner may still cancel. Orders that
// have left the warehouse, arrived, or were already cancelled stay as they
// are.
func orderCancellable(status string) bool {
	switch status {
	case models.OrderStatusShipped, models.OrderStatusInTransit, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return false
	}
	return true
}

// inventoryAdjustments folds order lines into one signed quantity delta per
// product, so a product ordered on several lines gets a single update.
func inventoryAdjustments(items []models.OrderItem, sign int) map[primitive.ObjectID]int {
	adjustments := make(map[primitive.ObjectID]int, len(items))
	for _, item := range items {
		adjustments[item.ProductID] += sign * item.Quantity
	}
	return adjustments
}

// applyInventoryAdjustments increments each product's inventory by its delta.
// Failures are logged and skipped; the order write has already happened.
func applyInventoryAdjustments(ctx context.Context, db *mongo.Database, items []models.OrderItem, sign int) {
	for productID, delta := range inventoryAdjustments(items, sign) {
		_, err := db.Collection("products").UpdateByID(ctx, productID,
			bson.M{"$inc": bson.M{"inventory": delta}})
		if err != nil {
			log.Println("[ORDER] [ERROR] inventory adjustment failed:", productID.Hex(), err)
		}
	}
}

// CreateOrder places an order from the provided item snapshots and a copied
// delivery address. Inventory is checked per line before the write and
// decremented after it; the caller's cart is emptied afterwards.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := database.ParseID(strings.TrimSpace(item.ProductID))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid product id in items")
				return
			}
			items = append(items, models.OrderItem{
				ProductID:     productID,
				Name:          item.Name,
				Price:         item.Price,
				Image:         item.Image,
				Quantity:      item.Quantity,
				SelectedSize:  strings.TrimSpace(item.SelectedSize),
				SelectedColor: strings.TrimSpace(item.SelectedColor),
			})
		}

		address := models.Address{
			ID:      newAddressID(),
			Type:    strings.TrimSpace(req.DeliveryAddress.Type),
			Address: strings.TrimSpace(req.DeliveryAddress.Address),
			City:    strings.TrimSpace(req.DeliveryAddress.City),
			State:   strings.TrimSpace(req.DeliveryAddress.State),
			Pincode: strings.TrimSpace(req.DeliveryAddress.Pincode),
		}

		order := buildOrder(userID, items, address, req.PaymentMethod, time.Now())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		for _, item := range items {
			var product models.Product
			err := db.Collection("products").FindOne(ctx, bson.M{
				"_id":      item.ProductID,
				"isActive": true,
			}).Decode(&product)
			if err != nil && err != mongo.ErrNoDocuments {
				respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
				return
			}
			if err == mongo.ErrNoDocuments || product.Inventory < item.Quantity {
				respondWithError(c, http.StatusBadRequest, route, errValidation,
					fmt.Sprintf("insufficient inventory for %s", item.Name))
				return
			}
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			log.Println("[ORDER] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		applyInventoryAdjustments(ctx, db, order.Items, -1)

		if err := saveCartItems(ctx, db, userID, []models.CartItem{}); err != nil {
			// The order itself is placed; a stale cart is recoverable.
			log.Println("[ORDER] [ERROR] cart clear after order failed:", err)
		}

		log.Println("[ORDER] [INFO] order created:", order.OrderID)
		c.JSON(http.StatusCreated, order.Response())
	}
}

// GetOrders lists the caller's orders newest-first, optionally filtered by
// status.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		page, limit, err := paginationQuery(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid pagination params")
			return
		}

		filter := bson.M{"user": userID}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !models.ValidOrderStatus(status) {
				respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid order status")
				return
			}
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("orders").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "decode error")
			return
		}

		responses := make([]models.OrderResponse, 0, len(orders))
		for _, order := range orders {
			responses = append(responses, order.Response())
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":     responses,
			"pagination": newPaginationMeta(page, limit, total),
		})
	}
}

// GetOrder returns a single order belonging to the caller.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		orderID, err := database.ParseID(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{
			"_id":  orderID,
			"user": userID,
		}).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, errNotFound, "order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		c.JSON(http.StatusOK, order.Response())
	}
}

// UpdateOrderStatus sets the status to another value of the allowed set.
// No transition table is enforced; narrow models.OrderStatuses to tighten it.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := database.ParseID(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid order id")
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidOrderStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid order status")
			return
		}

		update := bson.M{"status": req.Status, "updatedAt": time.Now()}
		if tracking := strings.TrimSpace(req.TrackingID); tracking != "" {
			update["trackingId"] = tracking
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOneAndUpdate(ctx,
			bson.M{"_id": orderID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, errNotFound, "order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		log.Println("[ORDER] [INFO] status updated:", order.OrderID, "->", order.Status)
		c.JSON(http.StatusOK, order.Response())
	}
}

// CancelOrder lets the owner cancel an order that has not shipped yet and
// returns the reserved inventory to the products.
func CancelOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/cancel"
		defer handlePanic(c, route)

		userID, ok := principalObjectID(c, route)
		if !ok {
			return
		}

		orderID, err := database.ParseID(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{
			"_id":  orderID,
			"user": userID,
		}).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, errNotFound, "order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		if !orderCancellable(order.Status) {
			respondWithError(c, http.StatusBadRequest, route, errValidation, "cannot cancel order in current status")
			return
		}

		err = db.Collection("orders").FindOneAndUpdate(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{"status": models.OrderStatusCancelled, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, errInternal, "db error")
			return
		}

		applyInventoryAdjustments(ctx, db, order.Items, 1)

		log.Println("[ORDER] [INFO] order cancelled:", order.OrderID)
		c.JSON(http.StatusOK, order.Response())
	}
}
