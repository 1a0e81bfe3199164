package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestUpsertCartItemMergesSameVariant(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Name: "Saree", Price: 499, Quantity: 1, SelectedSize: "M", SelectedColor: "Red"},
	}

	merged := upsertCartItem(items, models.CartItem{
		ProductID: productID, Name: "Saree", Price: 499, Quantity: 2, SelectedSize: "M", SelectedColor: "Red",
	})

	require.Len(t, merged, 1)
	assert.Equal(t, 3, merged[0].Quantity)
}

func TestUpsertCartItemAppendsDifferentVariant(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Quantity: 1, SelectedSize: "M"},
	}

	appended := upsertCartItem(items, models.CartItem{ProductID: productID, Quantity: 1, SelectedSize: "L"})
	require.Len(t, appended, 2)

	otherProduct := upsertCartItem(appended, models.CartItem{ProductID: primitive.NewObjectID(), Quantity: 1, SelectedSize: "M"})
	assert.Len(t, otherProduct, 3)
}

func TestUpsertCartItemIntoEmptyCart(t *testing.T) {
	item := models.CartItem{ProductID: primitive.NewObjectID(), Quantity: 1}
	items := upsertCartItem(nil, item)

	require.Len(t, items, 1)
	assert.Equal(t, item, items[0])
}

func TestCartQuantityFor(t *testing.T) {
	productID := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: productID, Quantity: 2, SelectedSize: "M"},
		{ProductID: productID, Quantity: 5, SelectedSize: "L"},
	}

	assert.Equal(t, 2, cartQuantityFor(items, models.CartItem{ProductID: productID, SelectedSize: "M"}))
	assert.Equal(t, 5, cartQuantityFor(items, models.CartItem{ProductID: productID, SelectedSize: "L"}))
	assert.Equal(t, 0, cartQuantityFor(items, models.CartItem{ProductID: primitive.NewObjectID()}))
}
