package models

import "time"

// StoryLifetime is the display window for a story. Expiry is a read-time
// filter only; expired stories stay in the store until their author deletes
// them.
const StoryLifetime = 24 * time.Hour

// Story represents a 24-hour-lived piece of content.
type Story struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Filename  string    `json:"filename" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// IsActive reports whether the story is still within its display window at t.
func (s *Story) IsActive(t time.Time) bool {
	return t.Sub(s.CreatedAt) < StoryLifetime
}
