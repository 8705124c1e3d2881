package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore-service/internal/mail"
	"bookstore-service/internal/models"
	"bookstore-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Discount rules: 5% for five or more books in one order, an extra 10%
// when the order would be the user's 10th/20th/... completed order.
var (
	quantityDiscountFactor  = decimal.New(5, -2)
	loyaltyDiscountFactor   = decimal.New(10, -2)
	quantityDiscountAtLeast = 5
	loyaltyOrderInterval    = int64(10)
)

// OrderStore is the slice of the data store the workflow writes orders
// through. Lookups return (nil, nil) when the row does not exist.
type OrderStore interface {
	CreateOrderWithItems(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByClaimCode(ctx context.Context, claimCode string) (*models.Order, error)
	ListOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListCompletedOrdersSince(ctx context.Context, since time.Time) ([]models.Order, error)
	CountCompletedOrdersByUser(ctx context.Context, userID string) (int64, error)
	TransitionOrderStatus(ctx context.Context, orderID int64, from, to string, completedAt *time.Time) (bool, error)
}

// CartStore removes cart entries covered by a committed order.
type CartStore interface {
	RemoveCartEntries(ctx context.Context, userID string, bookIDs []int64) error
}

// UserStore resolves caller identities to mail targets and account age.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Mailer sends the order confirmation. Failures never fail the order.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, oc mail.OrderConfirmation) error
}

// EventPublisher emits order lifecycle events, fire-and-forget.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error
	PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error
}

// OrderService orchestrates the order workflow: placement with discount
// rules, lookups, guarded status transitions and side-effect dispatch.
type OrderService struct {
	orders    OrderStore
	carts     CartStore
	users     UserStore
	mailer    Mailer
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderStore, carts CartStore, users UserStore, mailer Mailer, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		users:     users,
		mailer:    mailer,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1"`
}

// OrderItemRequest represents one line of an order request
type OrderItemRequest struct {
	BookID    int64           `json:"bookId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreateOrderResponse is returned after a successful placement
type CreateOrderResponse struct {
	ClaimCode string          `json:"claimCode"`
	Discount  decimal.Decimal `json:"discount"`

	// Message enumerates which discounts applied; rendered into the
	// response envelope, not the data payload.
	Message string `json:"-"`
}

// CreateOrder validates the request, prices it, applies discounts,
// persists the order with its items atomically, then dispatches the
// confirmation email and cart cleanup as best-effort side effects.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if req == nil || len(req.Items) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("empty_items").Inc()
		return nil, ErrInvalidRequest
	}

	claimCode, err := generateClaimCode()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:    userID,
		OrderDate: time.Now().UTC(),
		Status:    models.OrderStatusPending,
		ClaimCode: claimCode,
	}

	// Items are taken verbatim, unit price included: the price is a
	// snapshot of what the caller was shown, not re-read from the
	// catalog. Whole-order rejection on any bad line.
	total := decimal.Zero
	quantity := 0
	bookIDs := make([]int64, 0, len(req.Items))
	for _, it := range req.Items {
		if it.BookID <= 0 || it.Quantity <= 0 {
			util.OrdersRejectedTotal.WithLabelValues("invalid_item").Inc()
			return nil, ErrInvalidRequest
		}
		order.Items = append(order.Items, models.OrderItem{
			BookID:    it.BookID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		quantity += it.Quantity
		bookIDs = append(bookIDs, it.BookID)
	}

	factor := decimal.Zero
	var applied []string
	if quantity >= quantityDiscountAtLeast {
		factor = factor.Add(quantityDiscountFactor)
		applied = append(applied, "5% quantity discount")
		util.DiscountsAppliedTotal.WithLabelValues("quantity").Inc()
	}

	prevCompleted, err := s.orders.CountCompletedOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}
	if prevCompleted > 0 && (prevCompleted+1)%loyaltyOrderInterval == 0 {
		factor = factor.Add(loyaltyDiscountFactor)
		applied = append(applied, "10% loyalty discount")
		util.DiscountsAppliedTotal.WithLabelValues("loyalty").Inc()
	}

	discount := total.Mul(factor).Round(2)
	order.DiscountApplied = discount
	order.TotalAmount = total.Sub(discount)

	if err := s.orders.CreateOrderWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("claim_code", claimCode),
		zap.String("total", order.TotalAmount.String()))

	s.publishOrderPlaced(ctx, order)
	s.sendConfirmation(ctx, order, quantity, total)

	if err := s.carts.RemoveCartEntries(ctx, userID, bookIDs); err != nil {
		// Best-effort cleanup; the order already committed.
		s.logger.Warn("Failed to remove ordered books from cart",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}

	message := "Order placed successfully. No discount applied."
	if len(applied) > 0 {
		message = fmt.Sprintf("Order placed successfully. %s.", strings.Join(applied, " and "))
	}

	return &CreateOrderResponse{
		ClaimCode: claimCode,
		Discount:  discount,
		Message:   message,
	}, nil
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order) {
	items := make([]models.OrderItemData, len(order.Items))
	for i, it := range order.Items {
		items[i] = models.OrderItemData{BookID: it.BookID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now().UTC(),
		},
		OrderID:     order.ID,
		UserID:      order.UserID,
		ClaimCode:   order.ClaimCode,
		TotalAmount: order.TotalAmount,
		Discount:    order.DiscountApplied,
		Items:       items,
	}

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) sendConfirmation(ctx context.Context, order *models.Order, quantity int, subtotal decimal.Decimal) {
	user, err := s.users.GetUserByID(ctx, order.UserID)
	if err != nil || user == nil {
		s.logger.Warn("Skipping confirmation email, user lookup failed",
			zap.String("user_id", order.UserID), zap.Error(err))
		return
	}

	oc := mail.OrderConfirmation{
		ToEmail:     user.Email,
		FullName:    user.FullName,
		ClaimCode:   order.ClaimCode,
		OrderDate:   order.OrderDate,
		TotalBooks:  quantity,
		Subtotal:    subtotal,
		Discount:    order.DiscountApplied,
		FinalAmount: order.TotalAmount,
	}

	if err := s.mailer.SendOrderConfirmation(ctx, oc); err != nil {
		// The order stands; the email is a fire-and-forget side effect.
		s.logger.Error("Failed to send order confirmation email",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

// ListPendingOrders returns all pending orders with items.
func (s *OrderService) ListPendingOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListOrdersByStatus(ctx, models.OrderStatusPending)
}

// ListCompletedOrders returns all completed orders with items.
func (s *OrderService) ListCompletedOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListOrdersByStatus(ctx, models.OrderStatusCompleted)
}

// ListUserOrders returns the caller's orders with items.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.orders.ListOrdersByUser(ctx, userID)
}

// GetOrderByClaimCode looks up one order. The claim code itself is the
// capability; no ownership check is made.
func (s *OrderService) GetOrderByClaimCode(ctx context.Context, claimCode string) (*models.Order, error) {
	order, err := s.orders.GetOrderByClaimCode(ctx, claimCode)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// CancelOrder moves a pending order owned by the caller to Cancelled.
// A missing order and someone else's order are indistinguishable to the
// caller; cancelling a terminal order is a conflict.
func (s *OrderService) CancelOrder(ctx context.Context, userID string, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.CancelOrder")
	defer span.End()

	if userID == "" {
		return ErrUnauthenticated
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return ErrNotFound
	}
	if order.Status != models.OrderStatusPending {
		return ErrConflict
	}

	ok, err := s.orders.TransitionOrderStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled, nil)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if !ok {
		// Lost a race against completion or another cancel.
		return ErrConflict
	}

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled", zap.Int64("order_id", orderID), zap.String("user_id", userID))

	event := &models.OrderCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCancelled,
			Timestamp: time.Now().UTC(),
		},
		OrderID: orderID,
		UserID:  userID,
	}
	if err := s.publisher.PublishOrderCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCancelled event",
			zap.Int64("order_id", orderID), zap.Error(err))
	}

	return nil
}

// CompleteOrder moves the order behind a claim code to Completed,
// stamps the completion time and emits exactly one completion event for
// the notification broadcast. Returns the owning user's id.
func (s *OrderService) CompleteOrder(ctx context.Context, claimCode string) (string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CompleteOrder")
	defer span.End()

	order, err := s.orders.GetOrderByClaimCode(ctx, claimCode)
	if err != nil {
		return "", fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return "", ErrNotFound
	}
	if order.Status != models.OrderStatusPending {
		return "", ErrConflict
	}

	completedAt := time.Now().UTC()
	ok, err := s.orders.TransitionOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCompleted, &completedAt)
	if err != nil {
		return "", fmt.Errorf("failed to complete order: %w", err)
	}
	if !ok {
		return "", ErrConflict
	}

	util.OrdersCompletedTotal.Inc()
	s.logger.Info("Order completed",
		zap.Int64("order_id", order.ID), zap.String("claim_code", claimCode))

	fullName := order.UserID
	if user, err := s.users.GetUserByID(ctx, order.UserID); err == nil && user != nil {
		fullName = user.FullName
	}

	event := &models.OrderCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCompleted,
			Timestamp: completedAt,
		},
		OrderID:      order.ID,
		UserID:       order.UserID,
		UserFullName: fullName,
		ClaimCode:    claimCode,
		CompletedAt:  completedAt,
	}
	if err := s.publisher.PublishOrderCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCompleted event",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}

	return order.UserID, nil
}

// GetOrderNotifications returns the pull-model feed: every order
// completed by someone else since the caller's account was created.
func (s *OrderService) GetOrderNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.CreatedAt == nil {
		return nil, ErrNotFound
	}

	orders, err := s.orders.ListCompletedOrdersSince(ctx, *user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed orders: %w", err)
	}

	notes := make([]models.Notification, 0, len(orders))
	for _, o := range orders {
		if o.UserID == userID || o.CompletedAt == nil {
			continue
		}
		notes = append(notes, models.Notification{
			Type:        "Order",
			Content:     "Order Completed",
			ID:          stableNotificationID(o.ID),
			Timestamp:   *o.CompletedAt,
			Title:       "Order Completed",
			Description: fmt.Sprintf("Order by %s completed at %s.", o.UserID, o.CompletedAt.Format("2 Jan 2006 15:04:05")),
		})
	}
	return notes, nil
}

// stableNotificationID derives the feed id from the order so repeated
// reads of the same event carry the same id and clients can dedupe.
func stableNotificationID(orderID int64) string {
	name := fmt.Sprintf("bookstore:order:%d:completed", orderID)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
