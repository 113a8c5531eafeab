package models

import (
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
	RoleUser      = "user"
)

// User carries its role inline; admin equivalence is the IsSuperuser flag.
// Rows are never hard-deleted, only deactivated via IsActive.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FirstName    string `gorm:"size:30" json:"first_name"`
	LastName     string `gorm:"size:30" json:"last_name"`
	Address      string `gorm:"size:255" json:"address,omitempty"`
	PhoneNumber  string `gorm:"size:15" json:"phone_number,omitempty"`

	Role        string `gorm:"size:20;not null;default:'user'" json:"role"`
	IsSuperuser bool   `gorm:"not null;default:false" json:"is_superuser"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	LastSeenAt *time.Time `gorm:"index" json:"last_seen_at,omitempty"`
	DateJoined time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt  time.Time  `json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string { return u.FirstName + " " + u.LastName }

// CanManageCatalog reports librarian-level privilege (superuser included).
func (u *User) CanManageCatalog() bool {
	return u.IsSuperuser || u.Role == RoleLibrarian
}
