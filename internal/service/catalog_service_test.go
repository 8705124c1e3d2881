package service

import (
	"context"
	"testing"

	"bookstore-service/internal/models"
	"bookstore-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogStore struct {
	books []models.Book
}

func (f *fakeCatalogStore) GetBookByID(_ context.Context, id int64) (*models.Book, error) {
	for i := range f.books {
		if f.books[i].ID == id {
			return &f.books[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogStore) ListBooks(_ context.Context, limit, offset int) ([]models.Book, error) {
	if offset >= len(f.books) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.books) {
		end = len(f.books)
	}
	return f.books[offset:end], nil
}

func (f *fakeCatalogStore) CountBooks(_ context.Context) (int64, error) {
	return int64(len(f.books)), nil
}

func (f *fakeCatalogStore) FilterBooks(_ context.Context, filter *store.BookFilter, page, pageSize int) ([]models.Book, error) {
	var out []models.Book
	for _, b := range f.books {
		if filter.Search != "" && b.Title != filter.Search {
			continue
		}
		if filter.Genre != "" && b.Genre != filter.Genre {
			continue
		}
		if filter.InStock && b.Stock <= 0 {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func newCatalogFixture(books ...models.Book) *CatalogService {
	return NewCatalogService(&fakeCatalogStore{books: books}, nil)
}

func TestListBooksRejectsBadPaging(t *testing.T) {
	svc := newCatalogFixture(models.Book{ID: 1, Title: "Go"})

	_, err := svc.ListBooks(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.ListBooks(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestListBooksPastLastPageIsNotFound(t *testing.T) {
	svc := newCatalogFixture(models.Book{ID: 1, Title: "Go"})

	// Deliberate contract: an empty page is an error, not empty success.
	_, err := svc.ListBooks(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBooksPagedShell(t *testing.T) {
	svc := newCatalogFixture(
		models.Book{ID: 1, Title: "Go"},
		models.Book{ID: 2, Title: "Rust"},
		models.Book{ID: 3, Title: "Zig"},
	)

	page, err := svc.ListBooks(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)
}

func TestSearchBooksFilters(t *testing.T) {
	svc := newCatalogFixture(
		models.Book{ID: 1, Title: "Go", Genre: "tech", Stock: 3},
		models.Book{ID: 2, Title: "Rust", Genre: "tech", Stock: 0},
	)

	books, err := svc.SearchBooks(context.Background(), &store.BookFilter{Search: "Go"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Go", books[0].Title)

	// Conjunctive predicates
	books, err = svc.SearchBooks(context.Background(), &store.BookFilter{Genre: "tech", InStock: true}, 1, 10)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, int64(1), books[0].ID)

	_, err = svc.SearchBooks(context.Background(), &store.BookFilter{Search: "Haskell"}, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SearchBooks(context.Background(), &store.BookFilter{}, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetBookByID(t *testing.T) {
	svc := newCatalogFixture(models.Book{ID: 1, Title: "Go"})

	book, err := svc.GetBookByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", book.Title)

	_, err = svc.GetBookByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
