package controllers

import (
	"net/http"

	"library-management-system/db"

	"github.com/gin-gonic/gin"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

// POST /api/v1/books  (admin/librarian)
func (bc *BookController) CreateBook(c *gin.Context) {
	var in db.CreateBookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBinding(c, err)
		return
	}

	book, err := bc.Repo.CreateBook(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Book added successfully", book)
}

// GET /api/v1/books
func (bc *BookController) ListBooks(c *gin.Context) {
	page, size := pageParams(c)
	books, total, err := bc.Repo.ListBooks(c.Request.Context(), page, size)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondPage(c, "Retrieved successfully", books, total, page, size)
}

// GET /api/v1/books/:id
func (bc *BookController) GetBook(c *gin.Context) {
	book, err := bc.Repo.FindBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Book retrieved successfully", book)
}

// PATCH /api/v1/books/:id  (admin/librarian)
func (bc *BookController) UpdateBook(c *gin.Context) {
	var patch db.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBinding(c, err)
		return
	}

	book, err := bc.Repo.UpdateBook(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Book updated successfully", book)
}

// DELETE /api/v1/books/:id  (admin/librarian, soft delete)
func (bc *BookController) DeleteBook(c *gin.Context) {
	if err := bc.Repo.SoftDeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Book deleted successfully", nil)
}

// GET /api/v1/books/:id/borrow  (admin/librarian) — loan history for a book
func (bc *BookController) ListBookBorrows(c *gin.Context) {
	borrows, err := bc.Repo.ListBorrowsForBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Borrow history retrieved successfully", borrows)
}
