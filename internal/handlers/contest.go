package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"plottwisters/internal/services"

	"github.com/gin-gonic/gin"
)

type ContestHandler struct {
	contests *services.ContestService
	votes    *services.VoteService
	tmdb     *services.TMDBClient
}

func NewContestHandler(contests *services.ContestService, votes *services.VoteService, tmdb *services.TMDBClient) *ContestHandler {
	return &ContestHandler{contests: contests, votes: votes, tmdb: tmdb}
}

func (h *ContestHandler) List(c *gin.Context) {
	contests, err := h.contests.Active(c.Request.Context())
	if err != nil {
		c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not load contests")
		return
	}
	Render(c, http.StatusOK, "contests/list.html", gin.H{"Contests": contests})
}

// Detail shows a contest's entries grouped by movie, with the viewer's own votes.
func (h *ContestHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	contest, err := h.contests.Get(ctx, c.Param("contestId"))
	if err != nil {
		h.renderContestError(c, err)
		return
	}

	groups := services.EntriesByMovie(contest)
	userID := currentUserID(c)
	for i := range groups {
		if err := h.votes.FillUserVotes(ctx, userID, groups[i].Endings); err != nil {
			c.Error(err)
		}
	}

	Render(c, http.StatusOK, "contests/detail.html", gin.H{
		"Contest": contest,
		"Groups":  groups,
	})
}

func (h *ContestHandler) ShowSubmit(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		RenderError(c, http.StatusBadRequest, "Invalid Movie ID")
		return
	}
	ctx := c.Request.Context()

	contest, contestMovie, err := h.contests.FindMovie(ctx, c.Param("contestId"), movieID)
	if err != nil {
		h.renderContestError(c, err)
		return
	}
	movie, err := h.tmdb.Movie(ctx, movieID)
	if err != nil {
		renderMovieError(c, err)
		return
	}

	Render(c, http.StatusOK, "contests/submit.html", gin.H{
		"Contest":      contest,
		"ContestMovie": contestMovie,
		"Movie":        movie,
	})
}

func (h *ContestHandler) Submit(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		RenderError(c, http.StatusBadRequest, "Invalid Movie ID")
		return
	}
	contestID := c.Param("contestId")
	in := services.EndingInput{Title: c.PostForm("title"), Content: c.PostForm("content")}

	_, err := h.contests.SubmitEntry(c.Request.Context(), currentUserID(c), contestID, movieID, in)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, fmt.Sprintf("/contests/%s", contestID))
	case errors.Is(err, services.ErrEndingTitle), errors.Is(err, services.ErrEndingContent):
		contest, contestMovie, findErr := h.contests.FindMovie(c.Request.Context(), contestID, movieID)
		if findErr != nil {
			h.renderContestError(c, findErr)
			return
		}
		Render(c, http.StatusBadRequest, "contests/submit.html", gin.H{
			"Contest":      contest,
			"ContestMovie": contestMovie,
			"Error":        err.Error(),
			"Title":        in.Title,
			"Content":      in.Content,
		})
	default:
		h.renderContestError(c, err)
	}
}

func (h *ContestHandler) renderContestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContestNotFound):
		RenderError(c, http.StatusNotFound, "Contest not found")
	case errors.Is(err, services.ErrMovieNotInContest):
		RenderError(c, http.StatusNotFound, "Movie not found in this contest")
	case errors.Is(err, services.ErrContestClosed):
		RenderError(c, http.StatusForbidden, "This contest is not accepting entries")
	default:
		c.Error(err)
		RenderError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
