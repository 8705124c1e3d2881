package store

import (
	"context"
	"database/sql"
	"time"

	"bookstore-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrderWithItems persists an order and all of its items in one
// transaction. Either everything commits or nothing does.
func (s *Store) CreateOrderWithItems(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (user_id, order_date, status, claim_code, total_amount, discount_applied)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	row := tx.QueryRowxContext(ctx, query,
		order.UserID, order.OrderDate, order.Status, order.ClaimCode,
		order.TotalAmount, order.DiscountApplied)
	if err := row.Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, book_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.GetContext(ctx, &item.ID, itemQuery,
			item.OrderID, item.BookID, item.Quantity, item.UnitPrice); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID. Returns (nil, nil) when absent.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByClaimCode retrieves an order by claim code with its items
// attached. Returns (nil, nil) when absent.
func (s *Store) GetOrderByClaimCode(ctx context.Context, claimCode string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE claim_code = $1", claimCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, []*models.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByStatus retrieves all orders in a status, items attached.
func (s *Store) ListOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE status = $1 ORDER BY order_date DESC", status)
	if err != nil {
		return nil, err
	}
	return orders, s.attachItemsSlice(ctx, orders)
}

// ListOrdersByUser retrieves a user's orders, items attached.
func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY order_date DESC", userID)
	if err != nil {
		return nil, err
	}
	return orders, s.attachItemsSlice(ctx, orders)
}

// ListCompletedOrdersSince retrieves completed orders whose completion
// time is strictly after the given watermark.
func (s *Store) ListCompletedOrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE status = $1 AND completed_at > $2 ORDER BY completed_at",
		models.OrderStatusCompleted, since)
	return orders, err
}

// CountCompletedOrdersByUser counts a user's completed orders. The read
// is unlocked; concurrent completions may race, which is acceptable for
// the promotional loyalty discount.
func (s *Store) CountCompletedOrdersByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = $2",
		userID, models.OrderStatusCompleted)
	return count, err
}

// TransitionOrderStatus moves an order from one status to another as a
// single guarded update. Returns false when the order was not in the
// expected source status, so a raced terminal order stays terminal.
func (s *Store) TransitionOrderStatus(ctx context.Context, orderID int64, from, to string, completedAt *time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, completed_at = COALESCE($2, completed_at), updated_at = NOW() WHERE id = $3 AND status = $4",
		to, completedAt, orderID, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

func (s *Store) attachItemsSlice(ctx context.Context, orders []models.Order) error {
	ptrs := make([]*models.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	return s.attachItems(ctx, ptrs)
}

// attachItems eagerly loads items for a batch of orders in one query.
func (s *Store) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	query, args, err := sqlx.In("SELECT * FROM order_items WHERE order_id IN (?) ORDER BY id", ids)
	if err != nil {
		return err
	}
	query = s.db.Rebind(query)

	var items []models.OrderItem
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return err
	}

	for _, item := range items {
		if o := byID[item.OrderID]; o != nil {
			o.Items = append(o.Items, item)
		}
	}
	return nil
}
