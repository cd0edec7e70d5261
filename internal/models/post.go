package models

import "time"

// Media types for posts
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post represents a permanent piece of content owned by a user.
// Comments, likes and notifications referencing a post are deleted with it,
// along with the backing media file.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Caption   string    `json:"caption" gorm:"size:1000"`
	Filename  string    `json:"filename" gorm:"size:100;not null"`
	MediaType string    `json:"media_type" gorm:"size:10;not null;default:'image'"`

	// Optional video metadata
	Title     string `json:"title,omitempty" gorm:"size:100"`
	Publisher string `json:"publisher,omitempty" gorm:"size:100"`
	Producer  string `json:"producer,omitempty" gorm:"size:100"`
	Genre     string `json:"genre,omitempty" gorm:"size:50"`
	AgeRating string `json:"age_rating,omitempty" gorm:"size:10"` // e.g. "PG", "18"

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreatePostRequest carries the form fields accompanying a post upload.
// The media file itself arrives as a multipart part named "file".
type CreatePostRequest struct {
	Caption   string `json:"caption" form:"caption" validate:"max=1000"`
	Title     string `json:"title" form:"title" validate:"max=100"`
	Publisher string `json:"publisher" form:"publisher" validate:"max=100"`
	Producer  string `json:"producer" form:"producer" validate:"max=100"`
	Genre     string `json:"genre" form:"genre" validate:"max=50"`
	AgeRating string `json:"age_rating" form:"age_rating" validate:"max=10"`
}

// UpdatePostRequest defines the request body for editing a post caption
type UpdatePostRequest struct {
	Caption string `json:"caption" form:"caption" validate:"required,max=1000"`
}
