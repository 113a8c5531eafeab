package db

import (
	"context"
	"path/filepath"
	"testing"

	"library-management-system/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	// _busy_timeout makes concurrent writers queue instead of failing fast
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return NewRepo(conn)
}

func mustRegister(t *testing.T, r *Repo, email string) *models.User {
	t.Helper()
	u, err := r.RegisterUser(context.Background(), RegisterUserInput{
		Email:    email,
		Password: "sw0rdf1sh!pass",
	})
	require.NoError(t, err)
	return u
}

func mustCreateBook(t *testing.T, r *Repo, title string, quantity int, authors ...AuthorInput) *models.Book {
	t.Helper()
	b, err := r.CreateBook(context.Background(), CreateBookInput{
		Title:    title,
		Quantity: quantity,
		Authors:  authors,
	})
	require.NoError(t, err)
	return b
}

// requireInvariant asserts is_available == (quantity > 0) on the stored row.
func requireInvariant(t *testing.T, r *Repo, bookID string) *models.Book {
	t.Helper()
	var b models.Book
	require.NoError(t, r.DB.First(&b, "id = ?", bookID).Error)
	require.Equal(t, b.Quantity > 0, b.IsAvailable,
		"availability invariant broken: quantity=%d is_available=%v", b.Quantity, b.IsAvailable)
	require.GreaterOrEqual(t, b.Quantity, 0, "quantity went negative")
	return &b
}
