package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func queryGetter(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseProductQueryDefaults(t *testing.T) {
	q, err := parseProductQuery(queryGetter(nil))
	require.NoError(t, err)
	assert.Equal(t, "createdAt", q.SortBy)
	assert.Equal(t, "desc", q.SortOrder)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Nil(t, q.MinRating)
}

func TestParseProductQueryRejectsUnknownSort(t *testing.T) {
	_, err := parseProductQuery(queryGetter(map[string]string{"sort_by": "inventory"}))
	assert.Error(t, err)

	_, err = parseProductQuery(queryGetter(map[string]string{"sort_order": "sideways"}))
	assert.Error(t, err)
}

func TestParseProductQueryRejectsBadNumbers(t *testing.T) {
	_, err := parseProductQuery(queryGetter(map[string]string{"min_price": "cheap"}))
	assert.Error(t, err)

	_, err = parseProductQuery(queryGetter(map[string]string{"min_rating": "four"}))
	assert.Error(t, err)
}

func TestProductFilterAlwaysScopesActive(t *testing.T) {
	filter := productQuery{}.Filter()
	assert.Equal(t, true, filter["isActive"])
}

func TestProductFilterCategoryAndRating(t *testing.T) {
	rating := 4.0
	filter := productQuery{Category: "Fashion", MinRating: &rating}.Filter()

	assert.Equal(t, "Fashion", filter["category"])
	assert.Equal(t, bson.M{"$gte": 4.0}, filter["rating"])
}

func TestProductFilterMergesPriceRange(t *testing.T) {
	min, max := 100.0, 500.0

	filter := productQuery{MinPrice: &min, MaxPrice: &max}.Filter()
	assert.Equal(t, bson.M{"$gte": 100.0, "$lte": 500.0}, filter["price"])

	onlyMin := productQuery{MinPrice: &min}.Filter()
	assert.Equal(t, bson.M{"$gte": 100.0}, onlyMin["price"])

	onlyMax := productQuery{MaxPrice: &max}.Filter()
	assert.Equal(t, bson.M{"$lte": 500.0}, onlyMax["price"])
}

func TestProductFilterSearchSpansFields(t *testing.T) {
	filter := productQuery{Search: "kurta"}.Filter()

	clauses, ok := filter["$or"].([]bson.M)
	require.True(t, ok, "expected $or clause list")
	require.Len(t, clauses, 3)

	fields := make([]string, 0, 3)
	for _, clause := range clauses {
		for field, cond := range clause {
			fields = append(fields, field)
			assert.Equal(t, bson.M{"$regex": "kurta", "$options": "i"}, cond)
		}
	}
	assert.ElementsMatch(t, []string{"name", "description", "category"}, fields)
}

func TestProductFilterSearchQuotesRegexMetaChars(t *testing.T) {
	filter := productQuery{Search: "kurta (red)"}.Filter()

	clauses, ok := filter["$or"].([]bson.M)
	require.True(t, ok, "expected $or clause list")
	require.Len(t, clauses, 3)

	for _, clause := range clauses {
		for _, cond := range clause {
			assert.Equal(t, bson.M{"$regex": `kurta \(red\)`, "$options": "i"}, cond)
		}
	}
}

func TestProductQuerySortDirection(t *testing.T) {
	desc := productQuery{SortBy: "price", SortOrder: "desc"}.Sort()
	require.Len(t, desc, 1)
	assert.Equal(t, "price", desc[0].Key)
	assert.Equal(t, -1, desc[0].Value)

	asc := productQuery{SortBy: "name", SortOrder: "asc"}.Sort()
	assert.Equal(t, 1, asc[0].Value)
}
