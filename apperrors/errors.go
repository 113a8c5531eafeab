package apperrors

import (
	"errors"
	"net/http"
)

// Error pairs an HTTP status with the message surfaced to the caller.
// Anything that is not an *Error is reported as a generic 500 at the
// controller boundary so internals never leak.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error   { return &Error{Status: http.StatusBadRequest, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Status: http.StatusNotFound, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Status: http.StatusForbidden, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Status: http.StatusConflict, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Status: http.StatusUnauthorized, Message: msg} }

var (
	ErrBookNotAvailable = Validation("This book is not available for borrowing.")
	ErrBookNotFound     = NotFound("Book not found")
	ErrBorrowNotFound   = NotFound("Borrow not found")
	ErrReviewNotFound   = NotFound("Book review not found")
	ErrUserNotFound     = NotFound("User not found")
	ErrEmailTaken       = Validation("User with this email already exists.")
	ErrBadCredentials   = Validation("Incorrect email or password.")
	ErrInvalidRefresh   = Validation("Invalid refresh token")
	ErrForbidden        = Forbidden("You do not have permission to perform this action.")
	ErrUnauthorized     = Unauthorized("Authentication credentials were not provided or are invalid.")
)

// StatusOf maps any error to the HTTP status it should surface with.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Internal server error"
}
