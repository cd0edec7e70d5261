package models

import "time"

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMessage = "message"
)

// Notification is an append-only activity record created as a side effect of
// another mutation (like, comment, follow, message). Like and comment
// notifications are suppressed when the actor is the recipient.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;not null;index"`
	ActorID     uint      `json:"actor_id" gorm:"index;not null"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	PostID      *uint     `json:"post_id,omitempty" gorm:"index"`
	IsRead      bool      `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
