package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildBookFilterQueryNoFilters(t *testing.T) {
	query, args := buildBookFilterQuery(&BookFilter{}, 1, 10)

	assert.Equal(t, "SELECT * FROM books ORDER BY title ASC LIMIT $1 OFFSET $2", query)
	assert.Equal(t, []interface{}{10, 0}, args)
}

func TestBuildBookFilterQuerySearch(t *testing.T) {
	query, args := buildBookFilterQuery(&BookFilter{Search: "Go"}, 2, 5)

	assert.Contains(t, query, "title ILIKE $1")
	assert.Contains(t, query, "author ILIKE $1")
	assert.Contains(t, query, "isbn ILIKE $1")
	assert.Contains(t, query, "description ILIKE $1")
	assert.Equal(t, "%Go%", args[0])
	// page 2, size 5 -> offset 5
	assert.Equal(t, []interface{}{"%Go%", 5, 5}, args)
}

func TestBuildBookFilterQueryConjunctive(t *testing.T) {
	inLibrary := true
	minPrice := decimal.RequireFromString("5.00")
	maxPrice := decimal.RequireFromString("30.00")

	query, args := buildBookFilterQuery(&BookFilter{
		Genre:     "tech",
		Author:    "Pike",
		Publisher: "ACM",
		Language:  "en",
		Format:    "paperback",
		InStock:   true,
		InLibrary: &inLibrary,
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
	}, 1, 10)

	assert.Contains(t, query, "genre = $1")
	assert.Contains(t, query, "author = $2")
	assert.Contains(t, query, "publisher = $3")
	assert.Contains(t, query, "language = $4")
	assert.Contains(t, query, "format = $5")
	assert.Contains(t, query, "stock > 0")
	assert.Contains(t, query, "is_available_in_library = $6")
	assert.Contains(t, query, "price >= $7")
	assert.Contains(t, query, "price <= $8")
	assert.Contains(t, query, " AND ")
	assert.Len(t, args, 10)
}

func TestBuildBookFilterQuerySort(t *testing.T) {
	query, _ := buildBookFilterQuery(&BookFilter{SortBy: "price", SortOrder: "desc"}, 1, 10)
	assert.Contains(t, query, "ORDER BY price DESC")

	query, _ = buildBookFilterQuery(&BookFilter{SortBy: "PublicationDate"}, 1, 10)
	assert.Contains(t, query, "ORDER BY publication_date ASC")

	// Unknown sort keys never reach the SQL: fall back to title.
	query, _ = buildBookFilterQuery(&BookFilter{SortBy: "id; DROP TABLE books"}, 1, 10)
	assert.Contains(t, query, "ORDER BY title ASC")
}
