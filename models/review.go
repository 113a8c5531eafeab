package models

import "time"

const ReviewTable = "book_reviews"

// BookReview is append-only: no update or delete endpoint exists, rows
// disappear from reads only via the soft-delete flag.
type BookReview struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	BookID string `gorm:"type:uuid;index;not null" json:"book_id"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`

	Rating    int    `gorm:"not null;default:0" json:"rating"`
	Comment   string `gorm:"type:text" json:"comment,omitempty"`
	IsDeleted bool   `gorm:"not null;default:false;index" json:"is_deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (BookReview) TableName() string { return ReviewTable }
