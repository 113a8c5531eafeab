package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"library-management-system/apperrors"
	"library-management-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowDecrementsAndReturnsCredit(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, r, "patron@example.com")
	book := mustCreateBook(t, r, "Palpasa Cafe", 5)
	require.True(t, book.IsAvailable)

	borrow, err := r.BorrowBook(ctx, u.ID, book.ID, 0)
	require.NoError(t, err)
	assert.False(t, borrow.IsReturned)
	assert.Equal(t, DefaultBorrowDuration, borrow.BorrowDuration)
	assert.False(t, borrow.BorrowedAt.IsZero())

	b := requireInvariant(t, r, book.ID)
	assert.Equal(t, 4, b.Quantity)

	returned, err := r.ReturnBorrow(ctx, borrow.ID)
	require.NoError(t, err)
	assert.True(t, returned.IsReturned)

	b = requireInvariant(t, r, book.ID)
	assert.Equal(t, 5, b.Quantity)
}

func TestBorrowUntilExhaustedThenReturn(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, r, "patron@example.com")
	book := mustCreateBook(t, r, "Palpasa Cafe", 5)

	var last *models.Borrow
	for i := 0; i < 5; i++ {
		var err error
		last, err = r.BorrowBook(ctx, u.ID, book.ID, 0)
		require.NoError(t, err, "borrow %d should succeed", i+1)
		requireInvariant(t, r, book.ID)
	}

	b := requireInvariant(t, r, book.ID)
	assert.Equal(t, 0, b.Quantity)
	assert.False(t, b.IsAvailable)

	// sixth attempt fails and mutates nothing
	_, err := r.BorrowBook(ctx, u.ID, book.ID, 0)
	require.ErrorIs(t, err, apperrors.ErrBookNotAvailable)
	b = requireInvariant(t, r, book.ID)
	assert.Equal(t, 0, b.Quantity)

	var open int64
	require.NoError(t, r.DB.Model(&models.Borrow{}).
		Where("book_id = ? AND is_returned = ?", book.ID, false).Count(&open).Error)
	assert.EqualValues(t, 5, open, "failed borrow must not leave a loan row")

	// one return reopens availability
	_, err = r.ReturnBorrow(ctx, last.ID)
	require.NoError(t, err)
	b = requireInvariant(t, r, book.ID)
	assert.Equal(t, 1, b.Quantity)
	assert.True(t, b.IsAvailable)
}

func TestBorrowLastCopyTwice(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	u1 := mustRegister(t, r, "first@example.com")
	u2 := mustRegister(t, r, "second@example.com")
	book := mustCreateBook(t, r, "The Lonely City", 1)

	_, err := r.BorrowBook(ctx, u1.ID, book.ID, 0)
	require.NoError(t, err)

	_, err = r.BorrowBook(ctx, u2.ID, book.ID, 0)
	require.ErrorIs(t, err, apperrors.ErrBookNotAvailable)

	b := requireInvariant(t, r, book.ID)
	assert.Equal(t, 0, b.Quantity)
}

func TestConcurrentBorrowOfLastCopy(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	u1 := mustRegister(t, r, "first@example.com")
	u2 := mustRegister(t, r, "second@example.com")
	book := mustCreateBook(t, r, "The Lonely City", 1)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, uid := range []string{u1.ID, u2.ID} {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			_, err := r.BorrowBook(ctx, uid, book.ID, 0)
			errs <- err
		}(uid)
	}
	wg.Wait()
	close(errs)

	var granted, rejected int
	for err := range errs {
		switch {
		case err == nil:
			granted++
		case errors.Is(err, apperrors.ErrBookNotAvailable):
			rejected++
		default:
			t.Fatalf("unexpected borrow error: %v", err)
		}
	}
	assert.Equal(t, 1, granted, "exactly one borrower gets the last copy")
	assert.Equal(t, 1, rejected)

	b := requireInvariant(t, r, book.ID)
	assert.Equal(t, 0, b.Quantity)
	assert.False(t, b.IsAvailable)

	var open int64
	require.NoError(t, r.DB.Model(&models.Borrow{}).
		Where("book_id = ? AND is_returned = ?", book.ID, false).Count(&open).Error)
	assert.EqualValues(t, 1, open)
}

func TestBorrowDeletedOrMissingBook(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, r, "patron@example.com")
	book := mustCreateBook(t, r, "Gone", 3)
	require.NoError(t, r.SoftDeleteBook(ctx, book.ID))

	// a removed title still has copies on record, so the attempt is
	// rejected as unavailable rather than unknown
	_, err := r.BorrowBook(ctx, u.ID, book.ID, 0)
	require.ErrorIs(t, err, apperrors.ErrBookNotAvailable)

	var b models.Book
	require.NoError(t, r.DB.First(&b, "id = ?", book.ID).Error)
	assert.Equal(t, 3, b.Quantity, "failed borrow must not touch quantity")

	_, err = r.BorrowBook(ctx, u.ID, "no-such-id", 0)
	require.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestReturnIsIdempotent(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, r, "patron@example.com")
	book := mustCreateBook(t, r, "Kafka on the Shore", 2)

	borrow, err := r.BorrowBook(ctx, u.ID, book.ID, 0)
	require.NoError(t, err)

	_, err = r.ReturnBorrow(ctx, borrow.ID)
	require.NoError(t, err)
	b := requireInvariant(t, r, book.ID)
	require.Equal(t, 2, b.Quantity)

	// a second return must not double-credit the copy
	returned, err := r.ReturnBorrow(ctx, borrow.ID)
	require.NoError(t, err)
	assert.True(t, returned.IsReturned)
	b = requireInvariant(t, r, book.ID)
	assert.Equal(t, 2, b.Quantity)
}

func TestReturnUnknownBorrow(t *testing.T) {
	r := openTestRepo(t)
	_, err := r.ReturnBorrow(context.Background(), "no-such-id")
	require.ErrorIs(t, err, apperrors.ErrBorrowNotFound)
}

func TestListBorrowsScopingAndOrder(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	alice := mustRegister(t, r, "alice@example.com")
	bob := mustRegister(t, r, "bob@example.com")
	book := mustCreateBook(t, r, "Dune", 10)

	first, err := r.BorrowBook(ctx, alice.ID, book.ID, 0)
	require.NoError(t, err)
	second, err := r.BorrowBook(ctx, bob.ID, book.ID, 0)
	require.NoError(t, err)
	third, err := r.BorrowBook(ctx, alice.ID, book.ID, 0)
	require.NoError(t, err)

	own, total, err := r.ListBorrows(ctx, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, own, 2)
	assert.Equal(t, third.ID, own[0].ID, "newest first")
	assert.Equal(t, first.ID, own[1].ID)

	all, total, err := r.ListBorrows(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestListBorrowsForBook(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()
	u := mustRegister(t, r, "patron@example.com")
	book := mustCreateBook(t, r, "Dune", 3)
	other := mustCreateBook(t, r, "Hyperion", 3)

	_, err := r.BorrowBook(ctx, u.ID, book.ID, 0)
	require.NoError(t, err)
	_, err = r.BorrowBook(ctx, u.ID, other.ID, 0)
	require.NoError(t, err)

	history, err := r.ListBorrowsForBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, book.ID, history[0].BookID)

	_, err = r.ListBorrowsForBook(ctx, "no-such-id")
	require.ErrorIs(t, err, apperrors.ErrBookNotFound)
}
