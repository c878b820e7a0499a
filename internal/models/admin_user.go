package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser represents a staff member allowed to use the portal
type AdminUser struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose password hash in JSON
	FullName     string     `json:"full_name" db:"full_name"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// AdminLoginRequest represents the sign-in form
type AdminLoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
}

// AdminSession is the result of a successful sign-in
type AdminSession struct {
	Token     string     `json:"token"`
	SessionID uuid.UUID  `json:"session_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	AdminUser *AdminUser `json:"admin_user"`
}
