package db

import (
	"context"
	"errors"

	"library-management-system/apperrors"
	"library-management-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorInput is the descriptor callers supply; resolution is get-or-create
// keyed on the (first_name, last_name) pair, so identically named authors
// collapse into one row.
type AuthorInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Address   string `json:"address"`
	Country   string `json:"country"`
}

type CreateBookInput struct {
	Title     string        `json:"title" binding:"required"`
	Quantity  int           `json:"quantity" binding:"min=0"`
	Publisher string        `json:"publisher"`
	Genre     string        `json:"genre"`
	Authors   []AuthorInput `json:"authors" binding:"omitempty,dive"`
}

func (r *Repo) CreateBook(ctx context.Context, in CreateBookInput) (*models.Book, error) {
	var book *models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authors, err := resolveAuthors(tx, in.Authors)
		if err != nil {
			return err
		}

		b := &models.Book{
			ID:          uuid.NewString(),
			Title:       in.Title,
			Quantity:    in.Quantity,
			IsAvailable: in.Quantity > 0,
			Publisher:   in.Publisher,
			Genre:       in.Genre,
			Authors:     authors,
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		book = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindBookByID(ctx, book.ID)
}

func resolveAuthors(tx *gorm.DB, inputs []AuthorInput) ([]models.Author, error) {
	authors := make([]models.Author, 0, len(inputs))
	for _, in := range inputs {
		var a models.Author
		err := tx.Where("first_name = ? AND last_name = ?", in.FirstName, in.LastName).
			First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a = models.Author{
				ID:        uuid.NewString(),
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Address:   in.Address,
				Country:   in.Country,
			}
			if err := tx.Create(&a).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, nil
}

// FindBookByID loads one non-deleted book with its authors and its
// non-deleted reviews, newest review first.
func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	err := r.DB.WithContext(ctx).
		Preload("Authors").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("created_at DESC")
		}).
		First(&b, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repo) ListBooks(ctx context.Context, page, size int) ([]models.Book, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Book{}).Where("is_deleted = ?", false)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []models.Book
	err := tx.
		Preload("Authors").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("created_at DESC")
		}).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

type BookPatch struct {
	Title     *string        `json:"title"`
	Quantity  *int           `json:"quantity" binding:"omitempty,min=0"`
	Publisher *string        `json:"publisher"`
	Genre     *string        `json:"genre"`
	Authors   *[]AuthorInput `json:"authors" binding:"omitempty,dive"`
}

// UpdateBook applies a partial update. A supplied authors list replaces the
// whole set; a quantity change recomputes is_available in the same update.
func (r *Repo) UpdateBook(ctx context.Context, id string, patch BookPatch) (*models.Book, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := tx.First(&b, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBookNotFound
			}
			return err
		}

		updates := map[string]any{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Quantity != nil {
			updates["quantity"] = *patch.Quantity
			updates["is_available"] = *patch.Quantity > 0
		}
		if patch.Publisher != nil {
			updates["publisher"] = *patch.Publisher
		}
		if patch.Genre != nil {
			updates["genre"] = *patch.Genre
		}
		if len(updates) > 0 {
			if err := tx.Model(&b).Updates(updates).Error; err != nil {
				return err
			}
		}

		if patch.Authors != nil {
			authors, err := resolveAuthors(tx, *patch.Authors)
			if err != nil {
				return err
			}
			if err := tx.Model(&b).Association("Authors").Replace(authors); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindBookByID(ctx, id)
}

// SoftDeleteBook flags the row; existing borrows and reviews stay put.
func (r *Repo) SoftDeleteBook(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBookNotFound
	}
	return nil
}
