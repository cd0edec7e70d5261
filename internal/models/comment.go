package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"size:200;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" form:"comment_text" validate:"required,max=200"`
}
