package store

import (
	"context"
	"database/sql"

	"bookstore-service/internal/models"
)

// GetUserByID retrieves a user record. Returns (nil, nil) when absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, email, full_name, created_at FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
