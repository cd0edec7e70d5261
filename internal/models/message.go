package models

import "time"

// Message represents a direct message between two users. Messages are
// immutable once created.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"sender_id" gorm:"index;not null"`
	ReceiverID uint      `json:"receiver_id" gorm:"index;not null"`
	Text       string    `json:"text" gorm:"size:500;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	Text string `json:"text" form:"message_text" validate:"required,max=500"`
}
