package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"plottwisters/internal/models"
	"plottwisters/internal/services"
	"plottwisters/internal/utils"

	"github.com/gin-gonic/gin"
)

type EndingHandler struct {
	tmdb    *services.TMDBClient
	endings *services.EndingService
	votes   *services.VoteService
}

func NewEndingHandler(tmdb *services.TMDBClient, endings *services.EndingService, votes *services.VoteService) *EndingHandler {
	return &EndingHandler{tmdb: tmdb, endings: endings, votes: votes}
}

func (h *EndingHandler) ShowCreate(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		RenderError(c, http.StatusBadRequest, "Invalid Movie ID")
		return
	}
	movie, err := h.tmdb.Movie(c.Request.Context(), movieID)
	if err != nil {
		renderMovieError(c, err)
		return
	}
	Render(c, http.StatusOK, "endings/form.html", gin.H{
		"Movie":  movie,
		"Action": fmt.Sprintf("/movies/%d/endings", movieID),
	})
}

func (h *EndingHandler) Create(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		RenderError(c, http.StatusBadRequest, "Invalid Movie ID")
		return
	}
	in := services.EndingInput{Title: c.PostForm("title"), Content: c.PostForm("content")}

	ending, err := h.endings.Create(c.Request.Context(), currentUserID(c), movieID, in)
	if err != nil {
		h.renderFormError(c, err, movieID, in, fmt.Sprintf("/movies/%d/endings", movieID))
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/movies/%d/endings/%s", movieID, ending.ID))
}

func (h *EndingHandler) Show(c *gin.Context) {
	ending, ok := h.loadEnding(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	movie, err := h.tmdb.Movie(ctx, ending.TmdbMovieID)
	if err != nil {
		renderMovieError(c, err)
		return
	}

	userID := currentUserID(c)
	votes, err := h.votes.UserVotes(ctx, userID, []string{ending.ID})
	if err != nil {
		c.Error(err)
	}
	ending.UserVote = votes[ending.ID]

	Render(c, http.StatusOK, "endings/show.html", gin.H{
		"Movie":    movie,
		"Ending":   ending,
		"Body":     utils.RenderMarkdown(ending.Content),
		"IsAuthor": userID != 0 && userID == ending.AuthorID,
	})
}

func (h *EndingHandler) ShowEdit(c *gin.Context) {
	ending, ok := h.loadEnding(c)
	if !ok {
		return
	}
	if ending.AuthorID != currentUserID(c) {
		RenderError(c, http.StatusForbidden, "You can only edit your own endings")
		return
	}
	movie, err := h.tmdb.Movie(c.Request.Context(), ending.TmdbMovieID)
	if err != nil {
		renderMovieError(c, err)
		return
	}
	Render(c, http.StatusOK, "endings/form.html", gin.H{
		"Movie":   movie,
		"Ending":  ending,
		"Title":   ending.Title,
		"Content": ending.Content,
		"Action":  fmt.Sprintf("/movies/%d/endings/%s/edit", ending.TmdbMovieID, ending.ID),
	})
}

func (h *EndingHandler) Update(c *gin.Context) {
	ending, ok := h.loadEnding(c)
	if !ok {
		return
	}
	movieID, endingID := ending.TmdbMovieID, ending.ID
	in := services.EndingInput{Title: c.PostForm("title"), Content: c.PostForm("content")}

	if _, err := h.endings.Update(c.Request.Context(), currentUserID(c), endingID, in); err != nil {
		h.renderFormError(c, err, movieID, in, fmt.Sprintf("/movies/%d/endings/%s/edit", movieID, endingID))
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/movies/%d/endings/%s", movieID, endingID))
}

// loadEnding fetches the ending named by :endingId. An ending filed under a different
// movie than :movieId is reported as not found.
func (h *EndingHandler) loadEnding(c *gin.Context) (*models.AlternateEnding, bool) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		RenderError(c, http.StatusBadRequest, "Invalid Movie ID")
		return nil, false
	}
	ending, err := h.endings.Get(c.Request.Context(), c.Param("endingId"))
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			RenderError(c, http.StatusNotFound, "Alternate ending not found")
		} else {
			c.Error(err)
			RenderError(c, http.StatusInternalServerError, "Could not load alternate ending")
		}
		return nil, false
	}
	if ending.TmdbMovieID != movieID {
		RenderError(c, http.StatusNotFound, "Alternate ending not found")
		return nil, false
	}
	return ending, true
}

func (h *EndingHandler) renderFormError(c *gin.Context, err error, movieID int, in services.EndingInput, action string) {
	code := http.StatusBadRequest
	message := err.Error()
	switch {
	case errors.Is(err, services.ErrEndingTitle), errors.Is(err, services.ErrEndingContent):
	case errors.Is(err, services.ErrEntryNotFound):
		code = http.StatusNotFound
		message = "Alternate ending not found"
	default:
		c.Error(err)
		code = http.StatusInternalServerError
		message = "Could not save alternate ending"
	}

	data := gin.H{
		"Error":   message,
		"Title":   in.Title,
		"Content": in.Content,
		"Action":  action,
	}
	if movie, mErr := h.tmdb.Movie(c.Request.Context(), movieID); mErr == nil {
		data["Movie"] = movie
	}
	Render(c, code, "endings/form.html", data)
}
