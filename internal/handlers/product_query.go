package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// productQuery captures the listing filters and sort. The zero value lists
// every active product newest-first.
type productQuery struct {
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	SortBy    string
	SortOrder string
}

var productSortKeys = map[string]bool{
	"createdAt": true,
	"price":     true,
	"rating":    true,
	"name":      true,
}

func parseProductQuery(get func(string) string) (productQuery, error) {
	q := productQuery{
		Category:  strings.TrimSpace(get("category")),
		Search:    strings.TrimSpace(get("search")),
		SortBy:    "createdAt",
		SortOrder: "desc",
	}

	if raw := strings.TrimSpace(get("sort_by")); raw != "" {
		if !productSortKeys[raw] {
			return productQuery{}, fmt.Errorf("invalid sort_by %q", raw)
		}
		q.SortBy = raw
	}

	if raw := strings.TrimSpace(get("sort_order")); raw != "" {
		if raw != "asc" && raw != "desc" {
			return productQuery{}, fmt.Errorf("invalid sort_order %q", raw)
		}
		q.SortOrder = raw
	}

	var err error
	if q.MinPrice, err = parseFloatParam(get("min_price"), "min_price"); err != nil {
		return productQuery{}, err
	}
	if q.MaxPrice, err = parseFloatParam(get("max_price"), "max_price"); err != nil {
		return productQuery{}, err
	}
	if q.MinRating, err = parseFloatParam(get("min_rating"), "min_rating"); err != nil {
		return productQuery{}, err
	}

	return q, nil
}

func parseFloatParam(raw, name string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &value, nil
}

// Filter builds the Mongo filter. isActive=true is always applied so
// soft-deleted products never reach a public response. Min and max price are
// independently nullable and merge into one range condition.
func (q productQuery) Filter() bson.M {
	filter := bson.M{"isActive": true}

	if q.Category != "" {
		filter["category"] = q.Category
	}

	if q.Search != "" {
		// Quote the term so user input is matched literally instead of
		// being interpreted as a regular expression by the server.
		regex := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"description": regex},
			{"category": regex},
		}
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	if q.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *q.MinRating}
	}

	return filter
}

// Sort returns the sort document for the whitelisted key and direction.
func (q productQuery) Sort() bson.D {
	direction := -1
	if q.SortOrder == "asc" {
		direction = 1
	}
	return bson.D{{Key: q.SortBy, Value: direction}}
}
