package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func strPtr(s string) *string { return &s }

func TestProfileUpdateFieldsKeepsAbsentFields(t *testing.T) {
	assert.Empty(t, profileUpdateFields(UpdateProfileRequest{}))

	nameOnly := profileUpdateFields(UpdateProfileRequest{Name: strPtr("Asha")})
	assert.Equal(t, bson.M{"name": "Asha"}, nameOnly)

	phoneOnly := profileUpdateFields(UpdateProfileRequest{Phone: strPtr("9876543210")})
	assert.Equal(t, bson.M{"phone": "9876543210"}, phoneOnly)
}

func TestProfileUpdateFieldsTrimsValues(t *testing.T) {
	update := profileUpdateFields(UpdateProfileRequest{
		Name:  strPtr("  Asha Rao "),
		Phone: strPtr(" 9876543210 "),
	})
	assert.Equal(t, bson.M{"name": "Asha Rao", "phone": "9876543210"}, update)
}
