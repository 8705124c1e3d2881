package store

import (
	"context"

	"bookstore-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetCartByUser retrieves a user's pending cart entries.
func (s *Store) GetCartByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM carts WHERE user_id = $1 ORDER BY id", userID)
	return items, err
}

// RemoveCartEntries deletes the user's cart entries for the given books.
// Called as best-effort cleanup after an order covering them commits.
func (s *Store) RemoveCartEntries(ctx context.Context, userID string, bookIDs []int64) error {
	if len(bookIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		"DELETE FROM carts WHERE user_id = ? AND book_id IN (?)", userID, bookIDs)
	if err != nil {
		return err
	}
	query = s.db.Rebind(query)

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}
