package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore-service/internal/mail"
	"bookstore-service/internal/models"
	"bookstore-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubOrderStore struct {
	order *models.Order
	count int64
}

func (s *stubOrderStore) CreateOrderWithItems(_ context.Context, order *models.Order) error {
	order.ID = 1
	cp := *order
	s.order = &cp
	return nil
}

func (s *stubOrderStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	if s.order != nil && s.order.ID == id {
		cp := *s.order
		return &cp, nil
	}
	return nil, nil
}

func (s *stubOrderStore) GetOrderByClaimCode(_ context.Context, code string) (*models.Order, error) {
	if s.order != nil && s.order.ClaimCode == code {
		cp := *s.order
		return &cp, nil
	}
	return nil, nil
}

func (s *stubOrderStore) ListOrdersByStatus(context.Context, string) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderStore) ListOrdersByUser(context.Context, string) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderStore) ListCompletedOrdersSince(context.Context, time.Time) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderStore) CountCompletedOrdersByUser(context.Context, string) (int64, error) {
	return s.count, nil
}

func (s *stubOrderStore) TransitionOrderStatus(_ context.Context, orderID int64, from, to string, completedAt *time.Time) (bool, error) {
	if s.order == nil || s.order.ID != orderID || s.order.Status != from {
		return false, nil
	}
	s.order.Status = to
	if completedAt != nil {
		s.order.CompletedAt = completedAt
	}
	return true, nil
}

type stubCartStore struct{}

func (stubCartStore) RemoveCartEntries(context.Context, string, []int64) error { return nil }

type stubUserStore struct{}

func (stubUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.User{ID: id, Email: id + "@example.com", FullName: "Test User", CreatedAt: &created}, nil
}

type stubMailer struct{}

func (stubMailer) SendOrderConfirmation(context.Context, mail.OrderConfirmation) error { return nil }

type stubPublisher struct{}

func (stubPublisher) PublishOrderPlaced(context.Context, *models.OrderPlacedEvent) error { return nil }
func (stubPublisher) PublishOrderCancelled(context.Context, *models.OrderCancelledEvent) error {
	return nil
}
func (stubPublisher) PublishOrderCompleted(context.Context, *models.OrderCompletedEvent) error {
	return nil
}

func newTestRouter(t *testing.T, orders *stubOrderStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orderService := service.NewOrderService(orders, stubCartStore{}, stubUserStore{}, stubMailer{}, stubPublisher{})

	router := gin.New()
	h := NewHandler(orderService, nil, nil, testSecret)

	auth := jwtAuth(h.jwtSecret)
	group := router.Group("/api/Orders")
	group.POST("/CreateOrder", auth, h.createOrder)
	group.PUT("/CancelOrder/:orderId", auth, h.cancelOrder)
	group.POST("/CompleteOrderByClaimCode", h.completeOrder)
	return router
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": userID})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(router *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateOrderRequiresBearer(t *testing.T) {
	router := newTestRouter(t, &stubOrderStore{})

	w := doJSON(router, http.MethodPost, "/api/Orders/CreateOrder", "", gin.H{
		"items": []gin.H{{"bookId": 1, "quantity": 1, "unitPrice": "10"}},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.IsSuccess)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "User not found", resp.Message)
}

func TestCreateOrderEnvelope(t *testing.T) {
	router := newTestRouter(t, &stubOrderStore{})

	w := doJSON(router, http.MethodPost, "/api/Orders/CreateOrder", bearerToken(t, "user-1"), gin.H{
		"items": []gin.H{{"bookId": 1, "quantity": 6, "unitPrice": "10"}},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.IsSuccess)
	assert.Contains(t, resp.Message, "5% quantity discount")

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, data["claimCode"], 8)
	discount, err := decimal.NewFromString(data["discount"].(string))
	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.RequireFromString("3")))
}

func TestCreateOrderEmptyItemsIsBadRequest(t *testing.T) {
	router := newTestRouter(t, &stubOrderStore{})

	w := doJSON(router, http.MethodPost, "/api/Orders/CreateOrder", bearerToken(t, "user-1"), gin.H{
		"items": []gin.H{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.IsSuccess)
}

func TestCancelOrderErrorMapping(t *testing.T) {
	orders := &stubOrderStore{order: &models.Order{
		ID: 1, UserID: "user-1", Status: models.OrderStatusPending, ClaimCode: "ABCD2345",
	}}
	router := newTestRouter(t, orders)

	// Wrong owner looks identical to a missing order.
	w := doJSON(router, http.MethodPut, "/api/Orders/CancelOrder/1", bearerToken(t, "user-2"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found or access denied.", decodeEnvelope(t, w).Message)

	w = doJSON(router, http.MethodPut, "/api/Orders/CancelOrder/99", bearerToken(t, "user-1"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found or access denied.", decodeEnvelope(t, w).Message)

	w = doJSON(router, http.MethodPut, "/api/Orders/CancelOrder/1", bearerToken(t, "user-1"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Already cancelled: conflict, not a silent overwrite.
	w = doJSON(router, http.MethodPut, "/api/Orders/CancelOrder/1", bearerToken(t, "user-1"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompleteOrderByClaimCode(t *testing.T) {
	orders := &stubOrderStore{order: &models.Order{
		ID: 1, UserID: "user-1", Status: models.OrderStatusPending, ClaimCode: "ABCD2345",
	}}
	router := newTestRouter(t, orders)

	// No auth required: the claim code is the capability.
	w := doJSON(router, http.MethodPost, "/api/Orders/CompleteOrderByClaimCode", "", gin.H{
		"claimCode": "ABCD2345",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "user-1", resp.Data)
	assert.Equal(t, models.OrderStatusCompleted, orders.order.Status)
	require.NotNil(t, orders.order.CompletedAt)

	w = doJSON(router, http.MethodPost, "/api/Orders/CompleteOrderByClaimCode", "", gin.H{
		"claimCode": "NOSUCHCD",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found.", decodeEnvelope(t, w).Message)
}
