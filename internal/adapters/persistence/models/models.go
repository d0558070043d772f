package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table.
// Email carries a unique index: duplicate signups are rejected by the
// storage layer even when two requests race past the application pre-check.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'employee'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Refund Table
// ============================================================

// Refund represents refunds table. Refunds are an append-only ledger:
// a row is created once by its owner and never updated or deleted.
type Refund struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Amount    float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category  string    `gorm:"size:30;not null" json:"category"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Refund) TableName() string {
	return "refunds"
}

// RefundOwner is the owner enrichment attached for privileged reviewers
type RefundOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RefundResponse DTO
type RefundResponse struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Amount    float64      `json:"amount"`
	Category  string       `json:"category"`
	Filename  string       `json:"filename"`
	UserID    uint         `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
	Owner     *RefundOwner `json:"owner,omitempty"`
}

// ToResponse converts a refund row into its DTO. Owner enrichment is
// included only when withOwner is set (privileged reviewers).
func (r *Refund) ToResponse(withOwner bool) *RefundResponse {
	resp := &RefundResponse{
		ID:        r.ID,
		Name:      r.Name,
		Amount:    r.Amount,
		Category:  r.Category,
		Filename:  r.Filename,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}

	if withOwner && r.User != nil {
		resp.Owner = &RefundOwner{
			Name:  r.User.Name,
			Email: r.User.Email,
		}
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Refund{},
	)
}
