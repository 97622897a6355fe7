package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/askx/models"
	"github.com/techagentng/askx/server/response"
	"github.com/techagentng/askx/services"
)

// handleVote reconciles a vote request against the voter's existing vote.
func (s *Server) handleVote() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VoteRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}

		outcome, err := s.VoteService.CastVote(c.Request.Context(), &req)
		if err != nil {
			s.respondError(c, err)
			return
		}

		s.metrics.observeVote(req.Type, outcome)
		s.feed.publish(VoteUpdate{
			Type:       models.TargetType(req.Type),
			TypeID:     req.TypeID,
			Upvotes:    outcome.Tally.Upvotes,
			Downvotes:  outcome.Tally.Downvotes,
			VoteResult: outcome.Tally.VoteResult,
		})

		status := http.StatusCreated
		if outcome.Transition == services.TransitionRetract {
			status = http.StatusOK
		}
		response.JSON(c, outcome.Transition.Message(), status, models.VoteResultResponse{
			Document:   outcome.Document,
			VoteResult: outcome.Tally.VoteResult,
		}, nil)
	}
}

func (s *Server) handleGetVoteTally() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.TallyQuery
		if err := decodeQuery(c, &q); err != nil {
			s.respondError(c, err)
			return
		}
		tally, err := s.VoteService.GetTally(c.Request.Context(), models.VoteFilter{
			Type:      models.TargetType(q.Type),
			TypeID:    q.TypeID,
			VotedByID: q.VotedByID,
		})
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "vote tally", http.StatusOK, tally, nil)
	}
}
