package controllers

import (
	"net/http"

	"library-management-system/app"
	"library-management-system/apperrors"
	"library-management-system/db"
	"library-management-system/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

type userOut struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
	DateJoined  string `json:"date_joined"`
}

func toUserOut(u *models.User) userOut {
	return userOut{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
		DateJoined:  u.DateJoined.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// POST /api/v1/users/register
func (uc *UserController) Register(c *gin.Context) {
	var in struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Address     string `json:"address"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBinding(c, err)
		return
	}

	u, err := uc.Repo.RegisterUser(c.Request.Context(), db.RegisterUserInput{
		Email:       in.Email,
		Password:    in.Password,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "User registered successfully", toUserOut(u))
}

// POST /api/v1/users/login
func (uc *UserController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBinding(c, err)
		return
	}

	u, err := uc.Repo.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !u.IsActive {
		respondErr(c, apperrors.ErrBadCredentials)
		return
	}

	pair, err := uc.Tokens.IssuePair(u.ID, u.Email, u.Role, u.IsSuperuser)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := uc.Refresh.Save(c.Request.Context(), pair.RefreshID, u.ID); err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusOK, "User logged in successfully", app.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// POST /api/v1/users/token/refresh
// Rotation: the presented refresh token is consumed, a fresh pair issued.
// Any failure collapses into the same 400 so callers learn nothing about
// which check tripped.
func (uc *UserController) RefreshToken(c *gin.Context) {
	var in struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBinding(c, err)
		return
	}

	claims, err := uc.Tokens.ParseRefresh(in.RefreshToken)
	if err != nil {
		respondErr(c, apperrors.ErrInvalidRefresh)
		return
	}
	userID, err := uc.Refresh.Consume(c.Request.Context(), claims.ID)
	if err != nil || userID != claims.Subject {
		respondErr(c, apperrors.ErrInvalidRefresh)
		return
	}
	u, err := uc.Repo.FindUserByID(c.Request.Context(), userID)
	if err != nil || !u.IsActive {
		respondErr(c, apperrors.ErrInvalidRefresh)
		return
	}

	pair, err := uc.Tokens.IssuePair(u.ID, u.Email, u.Role, u.IsSuperuser)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := uc.Refresh.Save(c.Request.Context(), pair.RefreshID, u.ID); err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusOK, "Token refreshed successfully", app.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// GET /api/v1/users/all  (admin only)
func (uc *UserController) ListUsers(c *gin.Context) {
	page, size := pageParams(c)
	users, total, err := uc.Repo.ListUsers(c.Request.Context(), page, size)
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]userOut, 0, len(users))
	for i := range users {
		out = append(out, toUserOut(&users[i]))
	}
	respondPage(c, "User list retrieved successfully", out, total, page, size)
}

// GET /api/v1/users/:id  (admin only)
func (uc *UserController) GetUser(c *gin.Context) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "User retrieved successfully", toUserOut(u))
}

// PATCH /api/v1/users/:id  (admin only)
func (uc *UserController) UpdateUser(c *gin.Context) {
	var patch db.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBinding(c, err)
		return
	}

	u, err := uc.Repo.UpdateUser(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondErr(c, err)
		return
	}

	// deactivation kills every outstanding refresh token
	if patch.IsActive != nil && !*patch.IsActive {
		_ = uc.Refresh.RevokeAll(c.Request.Context(), u.ID)
	}

	respond(c, http.StatusOK, "User updated successfully", toUserOut(u))
}
