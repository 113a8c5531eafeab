package controllers

import (
	"net/http"

	"library-management-system/app"
	"library-management-system/apperrors"
	"library-management-system/db"

	"github.com/gin-gonic/gin"
)

type ReviewController struct{ *Srv }

func NewReviewController(s *Srv) *ReviewController { return &ReviewController{Srv: s} }

// POST /api/v1/review — the reviewing user always comes from the token
func (rc *ReviewController) CreateReview(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		respondErr(c, apperrors.ErrUnauthorized)
		return
	}

	var in db.CreateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBinding(c, err)
		return
	}

	review, err := rc.Repo.CreateReview(c.Request.Context(), u.ID, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Review added successfully", review)
}

// GET /api/v1/review — own reviews; admin/librarian see everyone's
func (rc *ReviewController) ListReviews(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		respondErr(c, apperrors.ErrUnauthorized)
		return
	}

	scope := u.ID
	if u.CanManageCatalog() {
		scope = ""
	}

	reviews, err := rc.Repo.ListReviews(c.Request.Context(), scope)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Retrieved successfully", reviews)
}

// GET /api/v1/review/book/:id — one review by id, owner or admin/librarian
func (rc *ReviewController) GetReview(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		respondErr(c, apperrors.ErrUnauthorized)
		return
	}

	review, err := rc.Repo.FindReviewByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if review.UserID != u.ID && !u.CanManageCatalog() {
		respondErr(c, apperrors.ErrForbidden)
		return
	}
	respond(c, http.StatusOK, "Review retrieved successfully", review)
}
