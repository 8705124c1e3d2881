package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"bookstore-service/internal/models"
	"bookstore-service/internal/store"
	"bookstore-service/internal/util"

	"go.uber.org/zap"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogStore is the read-only slice of the data store the catalog
// endpoints use.
type CatalogStore interface {
	GetBookByID(ctx context.Context, id int64) (*models.Book, error)
	ListBooks(ctx context.Context, limit, offset int) ([]models.Book, error)
	CountBooks(ctx context.Context) (int64, error)
	FilterBooks(ctx context.Context, f *store.BookFilter, page, pageSize int) ([]models.Book, error)
}

// CatalogCache is a read-through cache for catalog pages.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// PagedBooks is the paged-result shell returned by the listing endpoint.
type PagedBooks struct {
	CurrentPage int           `json:"currentPage"`
	PageSize    int           `json:"pageSize"`
	TotalItems  int64         `json:"totalItems"`
	TotalPages  int           `json:"totalPages"`
	Items       []models.Book `json:"items"`
}

// CatalogService serves paginated and filtered catalog reads.
type CatalogService struct {
	books  CatalogStore
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(books CatalogStore, cache CatalogCache) *CatalogService {
	return &CatalogService{
		books:  books,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ListBooks returns one catalog page. Page and pageSize must both be
// positive; an empty page is reported as not found, not empty success.
func (s *CatalogService) ListBooks(ctx context.Context, page, pageSize int) (*PagedBooks, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListBooks")
	defer span.End()

	if page <= 0 || pageSize <= 0 {
		return nil, ErrInvalidRequest
	}

	cacheKey := fmt.Sprintf("catalog:page:%d:%d", page, pageSize)
	if s.cache != nil {
		var cached PagedBooks
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		if hit {
			util.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		util.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	books, err := s.books.ListBooks(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	if len(books) == 0 {
		return nil, ErrNotFound
	}

	total, err := s.books.CountBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	result := &PagedBooks{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(pageSize))),
		Items:       books,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, result, catalogCacheTTL); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return result, nil
}

// GetBookByID returns a single catalog entry.
func (s *CatalogService) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	cacheKey := fmt.Sprintf("catalog:book:%d", id)
	if s.cache != nil {
		var cached models.Book
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		if hit {
			util.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		util.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, book, catalogCacheTTL); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return book, nil
}

// SearchBooks runs the filtered search. Filters are conjunctive and all
// optional; results are not cached because the key space is unbounded.
func (s *CatalogService) SearchBooks(ctx context.Context, f *store.BookFilter, page, pageSize int) ([]models.Book, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SearchBooks")
	defer span.End()

	if page <= 0 || pageSize <= 0 {
		return nil, ErrInvalidRequest
	}

	books, err := s.books.FilterBooks(ctx, f, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	if len(books) == 0 {
		return nil, ErrNotFound
	}
	return books, nil
}
