// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadarhome/storefront/internal/services"
	"github.com/hadarhome/storefront/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// owner resolves whose cart the request targets. An authenticated user
// wins over the session header. Anonymous requests without a session
// token get one minted and echoed back in X-Session-Id.
func (h *CartHandler) owner(c *gin.Context) services.CartOwner {
	if userID, ok := currentUserID(c); ok {
		return services.CartOwner{UserID: &userID}
	}

	sessionID := c.GetHeader("X-Session-Id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Header("X-Session-Id", sessionID)

	return services.CartOwner{SessionID: sessionID}
}

// Get handles GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	summary, err := h.cartService.Get(h.owner(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=100"`
}

// AddItem handles POST /api/cart/add
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, "invalid productId")
		return
	}

	summary, err := h.cartService.AddItem(h.owner(c), productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, summary, "Item added to cart")
}

type updateItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=100"`
}

// UpdateItem handles PUT /api/cart/update. Quantity zero removes the
// line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, "invalid productId")
		return
	}

	summary, err := h.cartService.UpdateItem(h.owner(c), productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, summary, "Cart updated")
}

// RemoveItem handles DELETE /api/cart/remove/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	summary, err := h.cartService.RemoveItem(h.owner(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, summary, "Item removed")
}

// Clear handles DELETE /api/cart/clear
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(h.owner(c)); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, nil, "Cart cleared")
}

// Count handles GET /api/cart/count
func (h *CartHandler) Count(c *gin.Context) {
	summary, err := h.cartService.Get(h.owner(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"count": summary.TotalItems})
}

type mergeRequest struct {
	SessionID string `json:"sessionId"`
}

// Merge handles POST /api/cart/merge. Requires authentication; the
// session cart is named in the body, with the X-Session-Id header as a
// fallback.
func (h *CartHandler) Merge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req mergeRequest
	_ = c.ShouldBindJSON(&req)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.GetHeader("X-Session-Id")
	}

	summary, err := h.cartService.Merge(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, summary, "Cart merged")
}
