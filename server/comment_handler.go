package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/askx/models"
	"github.com/techagentng/askx/server/response"
)

func (s *Server) handleAddComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateCommentRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}
		comment, err := s.CommentService.AddComment(c.Request.Context(), &req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "comment created", http.StatusCreated, comment, nil)
	}
}

func (s *Server) handleListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.CommentQuery
		if err := decodeQuery(c, &q); err != nil {
			s.respondError(c, err)
			return
		}
		comments, err := s.CommentService.ListComments(c.Request.Context(), models.TargetType(q.Type), q.TypeID, q.Page)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "comments", http.StatusOK, comments, nil)
	}
}

func (s *Server) handleDeleteComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.CommentService.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "comment deleted", http.StatusOK, nil, nil)
	}
}
