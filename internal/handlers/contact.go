// internal/handlers/contact.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hadarhome/storefront/internal/services"
	"github.com/hadarhome/storefront/internal/utils"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create handles POST /api/contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req services.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	message, err := h.contactService.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, message, "Message received, we will get back to you soon")
}

// List handles GET /api/contact (admin)
func (h *ContactHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := services.MessageFilters{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	messages, total, err := h.contactService.List(filters, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, messages, utils.NewPagination(params, total))
}

// Get handles GET /api/contact/:id (admin)
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	message, err := h.contactService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, message)
}

// Update handles PATCH /api/contact/:id (admin)
func (h *ContactHandler) Update(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	message, err := h.contactService.Update(id, adminID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, message, "Message updated")
}

type updateMessageStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /api/contact/:id/status (admin)
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req updateMessageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	message, err := h.contactService.Update(id, adminID, services.UpdateMessageRequest{Status: &req.Status})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, message, "Message status updated")
}

type updateMessagePriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=low medium high urgent"`
}

// UpdatePriority handles PUT /api/contact/:id/priority (admin)
func (h *ContactHandler) UpdatePriority(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req updateMessagePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	message, err := h.contactService.Update(id, adminID, services.UpdateMessageRequest{Priority: &req.Priority})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, message, "Message priority updated")
}

// Delete handles DELETE /api/contact/:id (admin)
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, nil, "Message deleted")
}

// Stats handles GET /api/contact/stats (admin)
func (h *ContactHandler) Stats(c *gin.Context) {
	stats, err := h.contactService.Stats()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
