package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles. All new accounts start as consumers; only creator accounts
// may upload posts and stories.
const (
	RoleConsumer = "consumer"
	RoleCreator  = "creator"
)

// User represents a registered account.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email      string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"size:60;not null"` // bcrypt hash
	Bio        string    `json:"bio" gorm:"size:300;default:''"`
	ProfilePic string    `json:"profile_pic" gorm:"size:100;not null;default:'default.jpg'"`
	Role       string    `json:"role" gorm:"size:20;not null;default:'consumer'"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserCompact is the identity summary embedded in feed items, story groups,
// comments and follower lists.
type UserCompact struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
}

// ToCompact returns the identity summary for this user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
	}
}

// RegisterRequest defines the request body for account registration
type RegisterRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// LoginRequest defines the request body for signing in
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UpdateBioRequest defines the request body for updating the profile bio
type UpdateBioRequest struct {
	Bio string `json:"bio" form:"bio" validate:"max=300"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
