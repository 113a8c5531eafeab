package app

import (
	"net/http"
	"strings"

	"library-management-system/auth"
	"library-management-system/db"
	"library-management-system/models"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "userID"
	CtxUser   = "currentUser"
)

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, H{"status": status, "message": message})
}

// AuthRequired validates the Bearer access token, confirms the user still
// exists and is active, and puts the row into the context so role checks
// run against current state rather than stale claims.
func AuthRequired(tokens *auth.Issuer, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortWith(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), claims.Subject)
		if err != nil || !u.IsActive {
			abortWith(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user set by AuthRequired.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// AdminOnly admits superusers only.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !u.IsSuperuser {
			abortWith(c, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

// AdminOrLibrarian admits superusers and librarians.
func AdminOrLibrarian() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !u.CanManageCatalog() {
			abortWith(c, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}
