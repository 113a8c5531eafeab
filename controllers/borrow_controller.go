package controllers

import (
	"net/http"

	"library-management-system/app"
	"library-management-system/apperrors"

	"github.com/gin-gonic/gin"
)

type BorrowController struct{ *Srv }

func NewBorrowController(s *Srv) *BorrowController { return &BorrowController{Srv: s} }

// POST /api/v1/borrow
// The acting borrower depends on configuration: in self-service mode any
// authenticated user borrows for themselves and a supplied user_id is
// ignored; otherwise only admin/librarian may record a loan and may name
// the borrowing user.
func (bc *BorrowController) CreateBorrow(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		respondErr(c, apperrors.ErrUnauthorized)
		return
	}

	var in struct {
		BookID         string `json:"book_id" binding:"required"`
		UserID         string `json:"user_id"`
		BorrowDuration int    `json:"borrow_duration" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBinding(c, err)
		return
	}

	borrowerID := u.ID
	if !bc.Cfg.BorrowSelfService {
		if !u.CanManageCatalog() {
			respondErr(c, apperrors.ErrForbidden)
			return
		}
		if in.UserID != "" {
			if _, err := bc.Repo.FindUserByID(c.Request.Context(), in.UserID); err != nil {
				respondErr(c, err)
				return
			}
			borrowerID = in.UserID
		}
	}

	borrow, err := bc.Repo.BorrowBook(c.Request.Context(), borrowerID, in.BookID, in.BorrowDuration)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Book borrowed successfully", borrow)
}

// GET /api/v1/borrow — own records; admin/librarian see everyone's
func (bc *BorrowController) ListBorrows(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		respondErr(c, apperrors.ErrUnauthorized)
		return
	}

	scope := u.ID
	if u.CanManageCatalog() {
		scope = ""
	}

	page, size := pageParams(c)
	borrows, total, err := bc.Repo.ListBorrows(c.Request.Context(), scope, page, size)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondPage(c, "Retrieved successfully", borrows, total, page, size)
}

// PATCH /api/v1/borrow/:id — mark returned (borrower, or admin/librarian)
func (bc *BorrowController) UpdateBorrow(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		respondErr(c, apperrors.ErrUnauthorized)
		return
	}

	var in struct {
		IsReturned *bool `json:"is_returned"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBinding(c, err)
		return
	}

	borrow, err := bc.Repo.FindBorrowByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if borrow.UserID != u.ID && !u.CanManageCatalog() {
		respondErr(c, apperrors.ErrForbidden)
		return
	}

	// setting is_returned to its current value is a no-op on inventory
	if in.IsReturned == nil || !*in.IsReturned {
		respond(c, http.StatusOK, "Borrow updated successfully", borrow)
		return
	}

	borrow, err = bc.Repo.ReturnBorrow(c.Request.Context(), borrow.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Borrow updated successfully", borrow)
}
