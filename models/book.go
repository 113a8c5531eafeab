package models

import "time"

const BookTable = "books"
const AuthorTable = "authors"

type Author struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	FirstName string `gorm:"size:255;index:idx_authors_name" json:"first_name"`
	LastName  string `gorm:"size:255;index:idx_authors_name" json:"last_name"`
	Address   string `gorm:"size:255" json:"address,omitempty"`
	Country   string `gorm:"size:255" json:"country,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Book keeps Quantity and IsAvailable denormalized so listings answer
// availability without touching the borrows table. Every mutation of
// Quantity must recompute IsAvailable in the same statement.
type Book struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Quantity    int    `gorm:"not null;default:0" json:"quantity"`
	IsAvailable bool   `gorm:"not null;default:false" json:"is_available"`
	Publisher   string `gorm:"size:255" json:"publisher,omitempty"`
	Genre       string `gorm:"size:100" json:"genre,omitempty"`
	IsDeleted   bool   `gorm:"not null;default:false;index" json:"is_deleted"`

	Authors []Author     `gorm:"many2many:book_authors" json:"authors"`
	Reviews []BookReview `gorm:"foreignKey:BookID" json:"reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Author) TableName() string { return AuthorTable }
func (Book) TableName() string   { return BookTable }
