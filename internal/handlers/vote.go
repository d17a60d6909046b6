package handlers

import (
	"errors"
	"log"
	"net/http"
	"plottwisters/internal/middleware"
	"plottwisters/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteForm struct {
	VoteValue int `form:"voteValue" json:"voteValue"`
}

// Vote handles POST /api/alternate-endings/:id/vote and answers with the new score.
func (h *VoteHandler) Vote(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)
	if currentUser == nil {
		JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	endingID := c.Param("id")
	if endingID == "" {
		JSONError(c, http.StatusBadRequest, "Alternate ending ID is required")
		return
	}

	var form voteForm
	if err := c.ShouldBind(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "Invalid vote value")
		return
	}

	score, err := h.votes.CastVote(c.Request.Context(), currentUser.ID, endingID, form.VoteValue)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDirection):
			JSONError(c, http.StatusBadRequest, "Invalid vote value")
		case errors.Is(err, services.ErrInvalidEntry):
			JSONError(c, http.StatusBadRequest, "Alternate ending ID is required")
		case errors.Is(err, services.ErrEntryNotFound):
			JSONError(c, http.StatusNotFound, "Alternate ending not found")
		case errors.Is(err, services.ErrVoteConflict):
			JSONError(c, http.StatusConflict, "Your vote changed in another request, please try again")
		default:
			log.Printf("Error voting on %s: %v", endingID, err)
			JSONError(c, http.StatusInternalServerError, "Failed to vote")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": score})
}
