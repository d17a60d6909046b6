package handlers

import (
	"net/http"
	"plottwisters/internal/services"
	"plottwisters/internal/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	tmdb    *services.TMDBClient
	endings *services.EndingService
	votes   *services.VoteService
	likes   *services.LikeService
}

func NewMovieHandler(tmdb *services.TMDBClient, endings *services.EndingService, votes *services.VoteService, likes *services.LikeService) *MovieHandler {
	return &MovieHandler{tmdb: tmdb, endings: endings, votes: votes, likes: likes}
}

// List shows top rated movies, or search results when q is set.
func (h *MovieHandler) List(c *gin.Context) {
	page := utils.PositiveInt(c.Query("page"), 1)
	query := strings.TrimSpace(c.Query("q"))

	var (
		result *services.MoviePage
		err    error
	)
	if query != "" {
		result, err = h.tmdb.Search(c.Request.Context(), query, page)
	} else {
		result, err = h.tmdb.TopRated(c.Request.Context(), page)
	}
	if err != nil {
		renderMovieError(c, err)
		return
	}

	Render(c, http.StatusOK, "movies/list.html", gin.H{
		"Movies":     result.Results,
		"Page":       result.Page,
		"TotalPages": result.TotalPages,
		"Query":      query,
	})
}

func (h *MovieHandler) Detail(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		RenderError(c, http.StatusBadRequest, "Invalid Movie ID")
		return
	}

	ctx := c.Request.Context()
	movie, err := h.tmdb.Movie(ctx, movieID)
	if err != nil {
		renderMovieError(c, err)
		return
	}

	endings, err := h.endings.ForMovie(ctx, movieID)
	if err != nil {
		c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not load alternate endings")
		return
	}
	userID := currentUserID(c)
	if err := h.votes.FillUserVotes(ctx, userID, endings); err != nil {
		c.Error(err)
	}

	Render(c, http.StatusOK, "movies/detail.html", gin.H{
		"Movie":     movie,
		"Endings":   endings,
		"Liked":     h.likes.IsLiked(ctx, userID, movieID),
		"LikeCount": h.likes.Count(ctx, movieID),
	})
}

// ToggleLike handles POST /api/movies/:movieId/like.
func (h *MovieHandler) ToggleLike(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	if c.Param("movieId") == "" {
		JSONError(c, http.StatusBadRequest, "Movie ID is required")
		return
	}
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		JSONError(c, http.StatusBadRequest, "Invalid Movie ID")
		return
	}

	liked, err := h.likes.Toggle(c.Request.Context(), userID, movieID)
	if err != nil {
		c.Error(err)
		JSONError(c, http.StatusInternalServerError, "Failed to update like")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}
