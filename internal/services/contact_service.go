// internal/services/contact_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hadarhome/storefront/internal/models"
	"github.com/hadarhome/storefront/internal/utils"
)

type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

type ContactRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,il_phone"`
	Subject  string `json:"subject" validate:"required,min=2,max=200"`
	Message  string `json:"message" validate:"required,min=10,max=2000"`
	Category string `json:"category" validate:"omitempty,oneof=general support complaint suggestion order product"`
}

type UpdateMessageRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=1000"`
}

type MessageFilters struct {
	Status   string
	Priority string
	Category string
	Search   string
}

type ContactStats struct {
	TotalMessages int64            `json:"totalMessages"`
	ByStatus      map[string]int64 `json:"byStatus"`
	ByPriority    map[string]int64 `json:"byPriority"`
	Unhandled     int64            `json:"unhandled"`
}

var messageSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"priority":   true,
	"status":     true,
}

func (s *ContactService) Create(req ContactRequest) (*models.ContactMessage, error) {
	category := models.MessageCategoryGeneral
	if req.Category != "" {
		category = models.MessageCategory(req.Category)
	}

	message := models.ContactMessage{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   models.MessageStatusNew,
		Priority: models.PriorityMedium,
		Category: category,
	}

	// Complaints jump the queue.
	if category == models.MessageCategoryComplaint {
		message.Priority = models.PriorityHigh
	}

	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &message, nil
}

func (s *ContactService) List(filters MessageFilters, params utils.PaginationParams) ([]models.ContactMessage, int64, error) {
	query := s.db.Model(&models.ContactMessage{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR subject LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var messages []models.ContactMessage
	query = utils.ApplySort(query, params, messageSortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, total, nil
}

// GetByID fetches a message for review. Opening a fresh message moves it
// from new to read as a side effect.
func (s *ContactService) GetByID(id uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := s.db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	if message.Status == models.MessageStatusNew {
		if err := s.db.Model(&message).Update("status", models.MessageStatusRead).Error; err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
		message.Status = models.MessageStatusRead
	}

	return &message, nil
}

// Update applies admin triage changes. Marking a message replied records
// who answered and when.
func (s *ContactService) Update(id uuid.UUID, adminID uuid.UUID, req UpdateMessageRequest) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := s.db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		status := models.MessageStatus(*req.Status)
		if !models.ValidMessageStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, *req.Status)
		}
		updates["status"] = status

		if status == models.MessageStatusReplied && message.RepliedAt == nil {
			now := time.Now()
			updates["replied_at"] = &now
			updates["replied_by"] = adminID
		}
	}
	if req.Priority != nil {
		priority := models.MessagePriority(*req.Priority)
		if !models.ValidMessagePriority(priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidTransition, *req.Priority)
		}
		updates["priority"] = priority
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}

	if len(updates) == 0 {
		return &message, nil
	}

	if err := s.db.Model(&message).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	if err := s.db.First(&message, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload message: %w", err)
	}
	return &message, nil
}

func (s *ContactService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.ContactMessage{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (s *ContactService) Stats() (*ContactStats, error) {
	stats := &ContactStats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	if err := s.db.Model(&models.ContactMessage{}).Count(&stats.TotalMessages).Error; err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.Model(&models.ContactMessage{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate message statuses: %w", err)
	}
	for _, sc := range counts {
		stats.ByStatus[sc.Status] = sc.Count
	}

	type priorityCount struct {
		Priority string
		Count    int64
	}
	var priorities []priorityCount
	err = s.db.Model(&models.ContactMessage{}).
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&priorities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate message priorities: %w", err)
	}
	for _, pc := range priorities {
		stats.ByPriority[pc.Priority] = pc.Count
	}

	err = s.db.Model(&models.ContactMessage{}).
		Where("status IN ?", []models.MessageStatus{models.MessageStatusNew, models.MessageStatusRead}).
		Count(&stats.Unhandled).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unhandled messages: %w", err)
	}

	return stats, nil
}
