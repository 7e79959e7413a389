// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// IDs are assigned here rather than by a database default so the same
// models work against postgres and the sqlite test driver.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type ProductCategory string

const (
	CategoryHomeware    ProductCategory = "homeware"
	CategoryLighting    ProductCategory = "lighting"
	CategoryTextile     ProductCategory = "textile"
	CategoryFragrance   ProductCategory = "fragrance"
	CategoryPlants      ProductCategory = "plants"
	CategoryRugs        ProductCategory = "rugs"
	CategoryAccessories ProductCategory = "accessories"
	CategoryArt         ProductCategory = "art"
)

func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryHomeware, CategoryLighting, CategoryTextile, CategoryFragrance,
		CategoryPlants, CategoryRugs, CategoryAccessories, CategoryArt:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment methods are stored as labels only; there is no gateway integration.
const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodPayPal         = "paypal"
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

type MessageStatus string

const (
	MessageStatusNew     MessageStatus = "new"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
	MessageStatusClosed  MessageStatus = "closed"
)

func ValidMessageStatus(s MessageStatus) bool {
	switch s {
	case MessageStatusNew, MessageStatusRead, MessageStatusReplied, MessageStatusClosed:
		return true
	}
	return false
}

type MessagePriority string

const (
	PriorityLow    MessagePriority = "low"
	PriorityMedium MessagePriority = "medium"
	PriorityHigh   MessagePriority = "high"
	PriorityUrgent MessagePriority = "urgent"
)

func ValidMessagePriority(p MessagePriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type MessageCategory string

const (
	MessageCategoryGeneral    MessageCategory = "general"
	MessageCategorySupport    MessageCategory = "support"
	MessageCategoryComplaint  MessageCategory = "complaint"
	MessageCategorySuggestion MessageCategory = "suggestion"
	MessageCategoryOrder      MessageCategory = "order"
	MessageCategoryProduct    MessageCategory = "product"
)
