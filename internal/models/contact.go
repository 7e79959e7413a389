// internal/models/contact.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	BaseModel
	Name       string          `json:"name" gorm:"size:100;not null"`
	Email      string          `json:"email" gorm:"size:255;not null;index"`
	Phone      string          `json:"phone,omitempty" gorm:"size:20"`
	Subject    string          `json:"subject" gorm:"size:200;not null"`
	Message    string          `json:"message" gorm:"size:2000;not null"`
	Status     MessageStatus   `json:"status" gorm:"type:varchar(20);default:'new';index"`
	Priority   MessagePriority `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Category   MessageCategory `json:"category" gorm:"type:varchar(20);default:'general';index"`
	AdminNotes string          `json:"admin_notes,omitempty" gorm:"size:1000"`
	RepliedAt  *time.Time      `json:"replied_at,omitempty"`
	RepliedBy  *uuid.UUID      `json:"replied_by,omitempty" gorm:"type:uuid"`

	Responder *User `json:"responder,omitempty" gorm:"foreignKey:RepliedBy"`
}

// NeedsReply reports whether the message still awaits an admin response.
func (m *ContactMessage) NeedsReply() bool {
	return m.Status == MessageStatusNew || m.Status == MessageStatusRead
}
