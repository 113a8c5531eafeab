package db

import (
	"context"
	"errors"
	"strings"

	"library-management-system/apperrors"
	"library-management-system/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Users

type RegisterUserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address     string
	PhoneNumber string
}

func (r *Repo) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Address:      in.Address,
		PhoneNumber:  in.PhoneNumber,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		// the unique index on email is the single arbiter, so racing
		// registrations cannot slip past a stale pre-check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the bcrypt hash; both "no such user" and "wrong
// password" collapse into the same validation error.
func (r *Repo) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := r.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrBadCredentials
	}
	return u, nil
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers excludes superusers, newest-first.
func (r *Repo) ListUsers(ctx context.Context, page, size int) ([]models.User, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&models.User{}).Where("is_superuser = ?", false)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := tx.
		Order("date_joined DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type UserPatch struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin librarian user"`
	IsActive    *bool   `json:"is_active"`
}

func (r *Repo) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	u, err := r.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.PhoneNumber != nil {
		updates["phone_number"] = *patch.PhoneNumber
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if len(updates) == 0 {
		return u, nil
	}

	if err := r.DB.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *Repo) HasSuperuser(ctx context.Context) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("is_superuser = ?", true).Count(&n).Error
	return n > 0, err
}

// CreateSuperuser backs the first-admin bootstrap.
func (r *Repo) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	u, err := r.RegisterUser(ctx, RegisterUserInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	err = r.DB.WithContext(ctx).Model(u).
		Updates(map[string]any{"role": models.RoleAdmin, "is_superuser": true}).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}
