package models

import "time"

// Follow represents a directed follow edge: the follower's feed includes the
// followed user's posts. The composite unique index keeps the edge unique per
// (follower, following) pair.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
