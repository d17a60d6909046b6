package middleware

import (
	"net/http"
	"net/url"
	"plottwisters/internal/db"
	"plottwisters/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const SessionUserKey = "user_id"

// CurrentUser returns the user LoadUser put in the context, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(CheckUserKey); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

// AuthRequired ensures a user is logged in, redirecting pages to /login.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login?redirectTo="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// APIAuthRequired rejects anonymous API calls with a JSON 401 before any handler runs.
func APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// AdminRequired must run after AuthRequired or APIAuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserKey)

		if userID != nil {
			var user models.User
			result := db.DB.WithContext(c.Request.Context()).First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
			} else {
				// stale session, the user is gone
				session.Delete(SessionUserKey)
				session.Save()
			}
		}
		c.Next()
	}
}
