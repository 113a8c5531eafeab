package db

import (
	"context"
	"errors"
	"time"

	"library-management-system/apperrors"
	"library-management-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultBorrowDuration = 15 // days

// BorrowBook takes one copy off the shelf and opens a loan. The
// check-and-decrement is a single conditional UPDATE so two borrowers
// racing on the last copy cannot drive quantity negative: exactly one
// UPDATE matches, the other sees zero rows and fails validation.
func (r *Repo) BorrowBook(ctx context.Context, userID, bookID string, duration int) (*models.Borrow, error) {
	if duration <= 0 {
		duration = DefaultBorrowDuration
	}

	var borrow *models.Borrow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND is_deleted = ? AND quantity > 0", bookID, false).
			Updates(map[string]any{
				"quantity":     gorm.Expr("quantity - 1"),
				"is_available": gorm.Expr("quantity - 1 > 0"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// a soft-deleted book fails validation like an empty shelf;
			// only a truly unknown id is a 404
			var n int64
			if err := tx.Model(&models.Book{}).
				Where("id = ?", bookID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return apperrors.ErrBookNotFound
			}
			return apperrors.ErrBookNotAvailable
		}

		b := &models.Borrow{
			ID:             uuid.NewString(),
			UserID:         userID,
			BookID:         bookID,
			BorrowedAt:     time.Now().UTC(),
			BorrowDuration: duration,
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		borrow = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return borrow, nil
}

// ReturnBorrow marks a loan returned. The inventory credit is keyed on the
// false->true flip: the UPDATE matches only while is_returned is still
// false, so returning twice cannot double-credit the copy.
func (r *Repo) ReturnBorrow(ctx context.Context, borrowID string) (*models.Borrow, error) {
	var borrow models.Borrow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&borrow, "id = ?", borrowID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBorrowNotFound
			}
			return err
		}
		if borrow.IsReturned {
			return nil
		}

		res := tx.Model(&models.Borrow{}).
			Where("id = ? AND is_returned = ?", borrowID, false).
			Update("is_returned", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race to a concurrent return; nothing left to credit
			borrow.IsReturned = true
			return nil
		}

		if err := tx.Model(&models.Book{}).
			Where("id = ?", borrow.BookID).
			Updates(map[string]any{
				"quantity":     gorm.Expr("quantity + 1"),
				"is_available": gorm.Expr("quantity + 1 > 0"),
			}).Error; err != nil {
			return err
		}
		borrow.IsReturned = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

func (r *Repo) FindBorrowByID(ctx context.Context, id string) (*models.Borrow, error) {
	var b models.Borrow
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBorrowNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBorrows returns loans newest-first; an empty userID means all users.
func (r *Repo) ListBorrows(ctx context.Context, userID string, page, size int) ([]models.Borrow, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Borrow{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var borrows []models.Borrow
	if err := tx.
		Order("borrowed_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&borrows).Error; err != nil {
		return nil, 0, err
	}
	return borrows, total, nil
}

// ListBorrowsForBook is the loan history of one book, newest-first.
func (r *Repo) ListBorrowsForBook(ctx context.Context, bookID string) ([]models.Borrow, error) {
	if _, err := r.FindBookByID(ctx, bookID); err != nil {
		return nil, err
	}
	var borrows []models.Borrow
	err := r.DB.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("borrowed_at DESC").
		Find(&borrows).Error
	if err != nil {
		return nil, err
	}
	return borrows, nil
}
