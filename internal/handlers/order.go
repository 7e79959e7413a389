// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hadarhome/storefront/internal/services"
	"github.com/hadarhome/storefront/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	order, err := h.orderService.Create(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, order, "Order placed")
}

// List handles GET /api/orders. Admins see every order; customers see
// only their own.
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	if isAdmin(c) {
		filters := services.OrderFilters{
			Status:        c.Query("status"),
			PaymentStatus: c.Query("payment_status"),
		}
		orders, total, err := h.orderService.List(filters, params)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.PaginatedResponse(c, orders, utils.NewPagination(params, total))
		return
	}

	orders, total, err := h.orderService.ListByUser(userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, orders, utils.NewPagination(params, total))
}

// ListByUser handles GET /api/orders/user/:userId (admin)
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.orderService.ListByUser(userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, orders, utils.NewPagination(params, total))
}

// Get handles GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(id, userID, isAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// UpdateStatus handles PUT /api/orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	order, err := h.orderService.UpdateStatus(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, order, "Order status updated")
}

// Cancel handles POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(id, userID, isAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, order, "Order cancelled")
}

// Stats handles GET /api/orders/stats/summary (admin)
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
