package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookstore-service/internal/notify"
	"bookstore-service/internal/service"
	"bookstore-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Handler contains HTTP handlers
type Handler struct {
	orders    *service.OrderService
	catalog   *service.CatalogService
	hub       *notify.Hub
	jwtSecret []byte
}

// NewHandler creates a new HTTP handler
func NewHandler(orders *service.OrderService, catalog *service.CatalogService, hub *notify.Hub, jwtSecret string) *Handler {
	return &Handler{
		orders:    orders,
		catalog:   catalog,
		hub:       hub,
		jwtSecret: []byte(jwtSecret),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws/notifications", func(c *gin.Context) {
		h.hub.ServeWS(c.Writer, c.Request)
	})

	auth := jwtAuth(h.jwtSecret)

	apiGroup := router.Group("/api")

	orders := apiGroup.Group("/Orders")
	{
		orders.POST("/CreateOrder", auth, h.createOrder)
		orders.GET("/ListPendingOrders", h.listPendingOrders)
		orders.GET("/ListCompletedOrders", h.listCompletedOrders)
		orders.GET("/GetOrderById", auth, h.getUserOrders)
		orders.GET("/GetOrderByCode/:claimCode", h.getOrderByCode)
		orders.PUT("/CancelOrder/:orderId", auth, h.cancelOrder)
		orders.POST("/CompleteOrderByClaimCode", h.completeOrder)
		orders.GET("/GetOrderNotification", auth, h.getOrderNotifications)
	}

	books := apiGroup.Group("/Book")
	{
		books.GET("/BookPagination", h.listBooks)
		books.GET("/GetBookById/:id", h.getBookByID)
		books.GET("/SearchBooks", h.searchBooks)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createOrder handles order placement
func (h *Handler) createOrder(c *gin.Context) {
	userID := c.GetString(userIDKey)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order request.")
		return
	}

	resp, err := h.orders.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			respondError(c, http.StatusBadRequest, "Invalid order request.")
		case errors.Is(err, service.ErrUnauthenticated):
			respondError(c, http.StatusUnauthorized, "User not found")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to place order.")
		}
		return
	}

	respondOK(c, resp.Message, gin.H{
		"claimCode": resp.ClaimCode,
		"discount":  resp.Discount,
	})
}

// listPendingOrders lists every pending order
func (h *Handler) listPendingOrders(c *gin.Context) {
	list, err := h.orders.ListPendingOrders(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list pending orders.")
		return
	}
	respondOK(c, "Pending orders.", list)
}

// listCompletedOrders lists every completed order
func (h *Handler) listCompletedOrders(c *gin.Context) {
	list, err := h.orders.ListCompletedOrders(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list completed orders.")
		return
	}
	respondOK(c, "Completed orders.", list)
}

// getUserOrders lists the caller's orders
func (h *Handler) getUserOrders(c *gin.Context) {
	userID := c.GetString(userIDKey)

	list, err := h.orders.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			respondError(c, http.StatusUnauthorized, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to list orders.")
		return
	}
	respondOK(c, "User orders.", list)
}

// getOrderByCode looks up one order by claim code
func (h *Handler) getOrderByCode(c *gin.Context) {
	order, err := h.orders.GetOrderByClaimCode(c.Request.Context(), c.Param("claimCode"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Order not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to look up order.")
		return
	}
	respondOK(c, "Order details.", order)
}

// cancelOrder cancels a pending order owned by the caller
func (h *Handler) cancelOrder(c *gin.Context) {
	userID := c.GetString(userIDKey)

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	if err := h.orders.CancelOrder(c.Request.Context(), userID, orderID); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			respondError(c, http.StatusUnauthorized, "User not found")
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "Order not found or access denied.")
		case errors.Is(err, service.ErrConflict):
			respondError(c, http.StatusConflict, "Order is not pending and cannot be cancelled.")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to cancel order.")
		}
		return
	}

	respondOK(c, "Order cancelled.", orderID)
}

// completeOrderRequest carries the claim code presented at the counter
type completeOrderRequest struct {
	ClaimCode string `json:"claimCode" binding:"required"`
}

// completeOrder completes an order by claim code
func (h *Handler) completeOrder(c *gin.Context) {
	var req completeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Claim code is required.")
		return
	}

	userID, err := h.orders.CompleteOrder(c.Request.Context(), req.ClaimCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "Order not found.")
		case errors.Is(err, service.ErrConflict):
			respondError(c, http.StatusConflict, "Order is not pending and cannot be completed.")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to complete order.")
		}
		return
	}

	respondOK(c, "Order completed.", userID)
}

// getOrderNotifications returns the pull-model notification feed
func (h *Handler) getOrderNotifications(c *gin.Context) {
	userID := c.GetString(userIDKey)

	notes, err := h.orders.GetOrderNotifications(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			respondError(c, http.StatusUnauthorized, "User not found")
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "User data incomplete.")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to load notifications.")
		}
		return
	}
	respondOK(c, "Notifications.", notes)
}

// listBooks handles paginated catalog listing
func (h *Handler) listBooks(c *gin.Context) {
	page, err1 := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, err2 := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err1 != nil || err2 != nil {
		respondError(c, http.StatusBadRequest, "Page and PageSize must be greater than 0.")
		return
	}

	result, err := h.catalog.ListBooks(c.Request.Context(), page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			respondError(c, http.StatusBadRequest, "Page and PageSize must be greater than 0.")
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "No books found.")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to fetch books.")
		}
		return
	}
	respondOK(c, "Books fetched successfully.", result)
}

// getBookByID handles single-book lookup
func (h *Handler) getBookByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid book ID.")
		return
	}

	book, err := h.catalog.GetBookByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Book not found.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch book.")
		return
	}
	respondOK(c, "Book fetched successfully.", book)
}

// searchBooks handles filtered catalog search
func (h *Handler) searchBooks(c *gin.Context) {
	page, err1 := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, err2 := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err1 != nil || err2 != nil {
		respondError(c, http.StatusBadRequest, "Page and PageSize must be greater than 0.")
		return
	}

	filter := &store.BookFilter{
		Search:    c.Query("search"),
		Genre:     c.Query("genre"),
		Author:    c.Query("author"),
		Publisher: c.Query("publisher"),
		Language:  c.Query("language"),
		Format:    c.Query("format"),
		InStock:   c.Query("inStock") == "true",
		SortBy:    c.DefaultQuery("sortBy", "title"),
		SortOrder: c.DefaultQuery("sortOrder", "asc"),
	}
	if v := c.Query("inLibrary"); v != "" {
		inLibrary := v == "true"
		filter.InLibrary = &inLibrary
	}
	if v := c.Query("minPrice"); v != "" {
		if p, err := decimal.NewFromString(v); err == nil {
			filter.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := decimal.NewFromString(v); err == nil {
			filter.MaxPrice = &p
		}
	}

	books, err := h.catalog.SearchBooks(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			respondError(c, http.StatusBadRequest, "Page and PageSize must be greater than 0.")
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "No books found.")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to search books.")
		}
		return
	}
	respondOK(c, "Books fetched successfully.", books)
}
