package model

import "time"

type UserRole string // admin privilege tier

const (
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superAdmin"
)

// User is an admin account. Username and email are unique among non-deleted rows.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username,where:is_deleted = false" json:"username"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email,where:is_deleted = false" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'admin'" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SoftDelete
}

func (User) TableName() string {
	return "users"
}
