// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is copied into the order at checkout.
type ShippingAddress struct {
	FirstName string `json:"first_name" gorm:"size:50"`
	LastName  string `json:"last_name" gorm:"size:50"`
	Street    string `json:"street" gorm:"size:255"`
	City      string `json:"city" gorm:"size:100"`
	ZipCode   string `json:"zip_code" gorm:"size:20"`
	Country   string `json:"country" gorm:"size:100"`
	Phone     string `json:"phone" gorm:"size:20"`
}

type Order struct {
	BaseModel
	UserID            uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderNumber       string          `json:"order_number" gorm:"uniqueIndex;size:20;not null"`
	Items             []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount       float64         `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status            OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ShippingAddress   ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod     string          `json:"payment_method" gorm:"size:30;not null"`
	PaymentStatus     PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	Notes             string          `json:"notes,omitempty" gorm:"size:500"`
	TrackingNumber    string          `json:"tracking_number,omitempty" gorm:"size:100"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// OrderItem is a frozen snapshot of a product at order time. It is never
// recomputed from live product data.
type OrderItem struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	OrderID     uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	ProductName string    `json:"product_name" gorm:"size:100;not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string    `json:"image_url" gorm:"size:512"`
}

// OrderCounter backs day-scoped order-number sequences. The row for a day
// is bumped with a single atomic upsert so concurrent checkouts cannot
// mint the same number.
type OrderCounter struct {
	Day string `gorm:"primaryKey;size:6"`
	Seq int    `gorm:"not null"`
}
