package handlers

import (
	"errors"
	"net/http"
	"plottwisters/internal/models"
	"plottwisters/internal/services"
	"plottwisters/internal/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type AdminHandler struct {
	contests *services.ContestService
	tmdb     *services.TMDBClient
}

func NewAdminHandler(contests *services.ContestService, tmdb *services.TMDBClient) *AdminHandler {
	return &AdminHandler{contests: contests, tmdb: tmdb}
}

func (h *AdminHandler) ListContests(c *gin.Context) {
	contests, err := h.contests.All(c.Request.Context())
	if err != nil {
		c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not load contests")
		return
	}
	Render(c, http.StatusOK, "admin/contests.html", gin.H{
		"Contests": contests,
		"Statuses": []models.ContestStatus{models.ContestUpcoming, models.ContestActive, models.ContestVoting, models.ContestCompleted},
	})
}

func (h *AdminHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "admin/contest_form.html", nil)
}

func (h *AdminHandler) CreateContest(c *gin.Context) {
	in := services.ContestInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		Theme:         c.PostForm("theme"),
		StartDate:     parseDate(c.PostForm("startDate")),
		EndDate:       parseDate(c.PostForm("endDate")),
		VotingEndDate: parseDate(c.PostForm("votingEndDate")),
	}

	contest, err := h.contests.Create(c.Request.Context(), in)
	if err != nil {
		var verr services.ValidationError
		if errors.As(err, &verr) {
			Render(c, http.StatusBadRequest, "admin/contest_form.html", gin.H{
				"Errors": map[string]string(verr),
				"Form":   c.Request.PostForm,
			})
			return
		}
		c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not create contest")
		return
	}
	c.Redirect(http.StatusFound, "/admin/contests/"+contest.ID)
}

// UpdateStatus handles POST /admin/contests/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	contestID := c.PostForm("contestId")
	status := models.ContestStatus(c.PostForm("status"))

	err := h.contests.SetStatus(c.Request.Context(), contestID, status)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, services.ErrInvalidStatus):
		JSONError(c, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, services.ErrContestNotFound):
		JSONError(c, http.StatusNotFound, "Contest not found")
	default:
		c.Error(err)
		JSONError(c, http.StatusInternalServerError, "Failed to update contest")
	}
}

// ShowContest lists a contest's movies and, with ?q=, TMDB search results to add.
func (h *AdminHandler) ShowContest(c *gin.Context) {
	ctx := c.Request.Context()
	contest, err := h.contests.Get(ctx, c.Param("contestId"))
	if err != nil {
		if errors.Is(err, services.ErrContestNotFound) {
			RenderError(c, http.StatusNotFound, "Contest not found")
			return
		}
		c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not load contest")
		return
	}

	data := gin.H{"Contest": contest}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		data["Query"] = q
		results, err := h.tmdb.Search(ctx, q, utils.PositiveInt(c.Query("page"), 1))
		if err != nil {
			c.Error(err)
			data["SearchError"] = "Movie search failed"
		} else {
			data["Results"] = results.Results
		}
	}
	Render(c, http.StatusOK, "admin/contest_detail.html", data)
}

// ContestMovies handles POST /api/contest-movies/:contestId with action=add|remove.
func (h *AdminHandler) ContestMovies(c *gin.Context) {
	ctx := c.Request.Context()
	contestID := c.Param("contestId")
	movieID, err := strconv.Atoi(c.PostForm("movieId"))
	if err != nil || movieID < 1 {
		JSONError(c, http.StatusBadRequest, "Invalid Movie ID")
		return
	}

	switch c.PostForm("action") {
	case "add":
		err = h.contests.AddMovie(ctx, contestID, movieID)
	case "remove":
		err = h.contests.RemoveMovie(ctx, contestID, movieID)
	default:
		JSONError(c, http.StatusBadRequest, "Action must be add or remove")
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrContestNotFound):
			JSONError(c, http.StatusNotFound, "Contest not found")
		case errors.Is(err, services.ErrMovieNotFound):
			JSONError(c, http.StatusNotFound, "Movie not found")
		default:
			c.Error(err)
			JSONError(c, http.StatusInternalServerError, "Failed to update contest movies")
		}
		return
	}

	movies, err := h.contests.Movies(ctx, contestID)
	if err != nil {
		c.Error(err)
		JSONError(c, http.StatusInternalServerError, "Failed to load contest movies")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contestMovies": movies})
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
