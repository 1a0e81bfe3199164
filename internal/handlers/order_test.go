package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/middleware"
	"backend/internal/models"
)

func TestBuildOrderTotalsAndDefaults(t *testing.T) {
	userID := primitive.NewObjectID()
	items := []models.OrderItem{
		{ProductID: primitive.NewObjectID(), Name: "Kurta", Price: 100, Quantity: 2},
		{ProductID: primitive.NewObjectID(), Name: "Dupatta", Price: 50, Quantity: 1},
	}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	order := buildOrder(userID, items, models.Address{Type: "Home", Address: "12 MG Road"}, "", now)

	assert.Equal(t, 250.0, order.TotalAmount)
	assert.True(t, strings.HasPrefix(order.OrderID, "MO"), "order id %q", order.OrderID)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "COD", order.PaymentMethod)
	assert.Equal(t, userID, order.User)

	if assert.NotNil(t, order.EstimatedDelivery) {
		assert.Equal(t, now.AddDate(0, 0, 7), *order.EstimatedDelivery)
	}
}

func TestBuildOrderKeepsExplicitPaymentMethod(t *testing.T) {
	order := buildOrder(primitive.NewObjectID(), nil, models.Address{}, "UPI", time.Now())
	assert.Equal(t, "UPI", order.PaymentMethod)
}

func TestBuildOrderSnapshotsAddress(t *testing.T) {
	address := models.Address{ID: "addr-1", Type: "Work", Address: "44 Brigade Road", City: "Bengaluru"}
	order := buildOrder(primitive.NewObjectID(), nil, address, "COD", time.Now())

	// Mutating the source value must not reach the placed order.
	address.Address = "changed"
	assert.Equal(t, "44 Brigade Road", order.DeliveryAddress.Address)
}

func TestOrderCancellable(t *testing.T) {
	assert.True(t, orderCancellable(models.OrderStatusConfirmed))

	for _, status := range []string{
		models.OrderStatusShipped,
		models.OrderStatusInTransit,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		assert.False(t, orderCancellable(status), "status %q", status)
	}
}

func TestInventoryAdjustmentsMergesLines(t *testing.T) {
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()
	items := []models.OrderItem{
		{ProductID: productA, Quantity: 2},
		{ProductID: productB, Quantity: 1},
		{ProductID: productA, Quantity: 3},
	}

	decrements := inventoryAdjustments(items, -1)
	assert.Equal(t, map[primitive.ObjectID]int{productA: -5, productB: -1}, decrements)

	restores := inventoryAdjustments(items, 1)
	assert.Equal(t, map[primitive.ObjectID]int{productA: 5, productB: 1}, restores)
}

func TestGetOrdersRejectsUnknownStatusFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders", func(c *gin.Context) {
		middleware.SetPrincipal(c, middleware.Principal{ID: primitive.NewObjectID().Hex(), Role: models.RoleBuyer})
	}, GetOrders(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders?status=Returned", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid order status")
}
