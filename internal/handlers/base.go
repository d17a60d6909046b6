package handlers

import (
	"errors"
	"net/http"
	"plottwisters/internal/middleware"
	"plottwisters/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "Status": code})
}

// JSONError writes the API error body used by every /api endpoint.
func JSONError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// movieIDParam reads a positive TMDB movie id from the named route param.
func movieIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// renderMovieError maps a TMDB failure to an error page.
func renderMovieError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrMovieNotFound) {
		RenderError(c, http.StatusNotFound, "Movie not found")
		return
	}
	c.Error(err)
	RenderError(c, http.StatusBadGateway, "Could not load movie details, please try again later")
}

func currentUserID(c *gin.Context) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}
