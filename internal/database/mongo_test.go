package database

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseIDAcceptsValidHex(t *testing.T) {
	want := primitive.NewObjectID()

	got, err := ParseID(want.Hex())
	if err != nil {
		t.Fatalf("ParseID returned error: %v", err)
	}
	if got != want {
		t.Fatalf("ParseID = %v, want %v", got, want)
	}
}

func TestParseIDRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "123", "not-hex-at-all", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := ParseID(raw); err != ErrInvalidID {
			t.Fatalf("ParseID(%q) error = %v, want ErrInvalidID", raw, err)
		}
	}
}
