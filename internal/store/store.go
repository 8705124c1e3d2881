package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bookstore-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetBookByID retrieves a book by ID. Returns (nil, nil) when absent.
func (s *Store) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	err := s.db.GetContext(ctx, &book, "SELECT * FROM books WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks retrieves one page of the catalog in stable id order.
func (s *Store) ListBooks(ctx context.Context, limit, offset int) ([]models.Book, error) {
	var books []models.Book
	err := s.db.SelectContext(ctx, &books,
		"SELECT * FROM books ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	return books, err
}

// CountBooks returns the total number of catalog entries.
func (s *Store) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM books")
	return count, err
}

// BookFilter holds the optional, conjunctive search predicates.
type BookFilter struct {
	Search    string
	Genre     string
	Author    string
	Publisher string
	Language  string
	Format    string
	InStock   bool
	InLibrary *bool
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    string
	SortOrder string
}

// sortColumns whitelists sortable keys; anything else falls back to title.
var sortColumns = map[string]string{
	"title":           "title",
	"price":           "price",
	"publicationdate": "publication_date",
}

// buildBookFilterQuery turns a filter into a parameterized SELECT. All
// predicates are ANDed; pagination is applied via LIMIT/OFFSET.
func buildBookFilterQuery(f *BookFilter, page, pageSize int) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE %[1]s OR author ILIKE %[1]s OR isbn ILIKE %[1]s OR description ILIKE %[1]s)", p))
	}
	if f.Genre != "" {
		conds = append(conds, "genre = "+arg(f.Genre))
	}
	if f.Author != "" {
		conds = append(conds, "author = "+arg(f.Author))
	}
	if f.Publisher != "" {
		conds = append(conds, "publisher = "+arg(f.Publisher))
	}
	if f.Language != "" {
		conds = append(conds, "language = "+arg(f.Language))
	}
	if f.Format != "" {
		conds = append(conds, "format = "+arg(f.Format))
	}
	if f.InStock {
		conds = append(conds, "stock > 0")
	}
	if f.InLibrary != nil {
		conds = append(conds, "is_available_in_library = "+arg(*f.InLibrary))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}

	query := "SELECT * FROM books"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	col, ok := sortColumns[strings.ToLower(f.SortBy)]
	if !ok {
		col = "title"
	}
	dir := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		dir = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", col, dir)
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(pageSize), arg((page-1)*pageSize))

	return query, args
}

// FilterBooks runs a filtered, sorted, paginated catalog search.
func (s *Store) FilterBooks(ctx context.Context, f *BookFilter, page, pageSize int) ([]models.Book, error) {
	query, args := buildBookFilterQuery(f, page, pageSize)

	var books []models.Book
	err := s.db.SelectContext(ctx, &books, query, args...)
	return books, err
}
