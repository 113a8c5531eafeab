package db

import (
	"context"
	"errors"

	"library-management-system/apperrors"
	"library-management-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	BookID  string `json:"book_id" binding:"required"`
	Rating  int    `json:"rating" binding:"min=0,max=5"`
	Comment string `json:"comment"`
}

// CreateReview records a review for a non-deleted book. The reviewing user
// comes from the authenticated session, never from the payload.
func (r *Repo) CreateReview(ctx context.Context, userID string, in CreateReviewInput) (*models.BookReview, error) {
	if _, err := r.FindBookByID(ctx, in.BookID); err != nil {
		return nil, err
	}

	rev := &models.BookReview{
		ID:      uuid.NewString(),
		UserID:  userID,
		BookID:  in.BookID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	if err := r.DB.WithContext(ctx).Create(rev).Error; err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *Repo) FindReviewByID(ctx context.Context, id string) (*models.BookReview, error) {
	var rev models.BookReview
	err := r.DB.WithContext(ctx).
		First(&rev, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// ListReviews returns non-deleted reviews newest-first; an empty userID
// means all users.
func (r *Repo) ListReviews(ctx context.Context, userID string) ([]models.BookReview, error) {
	tx := r.DB.WithContext(ctx).Where("is_deleted = ?", false)
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	var reviews []models.BookReview
	if err := tx.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
