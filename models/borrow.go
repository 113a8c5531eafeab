package models

import "time"

const BorrowTable = "borrows"

// Borrow is the loan record. IsReturned only ever moves false -> true;
// the inventory credit happens exactly once, on that transition.
type Borrow struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	BookID string `gorm:"type:uuid;index;not null" json:"book_id"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`

	BorrowedAt     time.Time `gorm:"index;not null" json:"borrowed_at"`
	BorrowDuration int       `gorm:"not null;default:15" json:"borrow_duration"` // days, informational
	IsReturned     bool      `gorm:"not null;default:false" json:"is_returned"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Borrow) TableName() string { return BorrowTable }
