package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"library-management-system/app"
	"library-management-system/apperrors"
	"library-management-system/auth"
	"library-management-system/db"

	"github.com/gin-gonic/gin"
)

// RefreshTokenStore is what the auth endpoints need from the session layer;
// tests substitute an in-memory implementation.
type RefreshTokenStore interface {
	Save(ctx context.Context, jti, userID string) error
	Consume(ctx context.Context, jti string) (string, error)
	RevokeAll(ctx context.Context, userID string) error
}

type Srv struct {
	Repo    *db.Repo
	Tokens  *auth.Issuer
	Refresh RefreshTokenStore
	Cfg     app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:    db.NewRepo(a.DB),
		Tokens:  a.Tokens,
		Refresh: a.Refresh,
		Cfg:     a.Config,
	}
}

// --- response envelope ---

// respond wraps every successful payload as {status, message, data}.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, app.H{"status": status, "message": message, "data": data})
}

// respondErr maps typed errors to their status; anything unknown becomes a
// generic 500 so internals never reach the caller.
func respondErr(c *gin.Context, err error) {
	status := apperrors.StatusOf(err)
	c.JSON(status, app.H{"status": status, "message": apperrors.MessageOf(err)})
}

// respondBinding surfaces gin binding failures as field-validation errors.
func respondBinding(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, app.H{
		"status":  http.StatusBadRequest,
		"message": "Validation error",
		"errors":  err.Error(),
	})
}

// --- pagination ---

const (
	defaultPageSize = 5
	maxPageSize     = 100
)

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func pageLink(c *gin.Context, page, size int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s?page=%d&limit=%d",
		scheme, c.Request.Host, c.Request.URL.Path, page, size)
}

// respondPage emits the paginated envelope with count and absolute
// next/previous links, null at the edges.
func respondPage(c *gin.Context, message string, data any, count int64, page, size int) {
	var next, previous any
	if int64(page*size) < count {
		next = pageLink(c, page+1, size)
	}
	if page > 1 {
		previous = pageLink(c, page-1, size)
	}
	c.JSON(http.StatusOK, app.H{
		"status":   http.StatusOK,
		"message":  message,
		"count":    count,
		"next":     next,
		"previous": previous,
		"data":     data,
	})
}
