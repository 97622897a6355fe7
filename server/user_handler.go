package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/askx/models"
	"github.com/techagentng/askx/server/response"
)

func (s *Server) handleGetPrefs() gin.HandlerFunc {
	return func(c *gin.Context) {
		prefs, err := s.PrefsService.GetPrefs(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "user prefs", http.StatusOK, prefs, nil)
	}
}

func (s *Server) handleUpdatePrefs() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdatePrefsRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}
		prefs, err := s.PrefsService.UpdatePrefs(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "user prefs updated", http.StatusOK, prefs, nil)
	}
}

func (s *Server) handleGetReputation() gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := s.PrefsService.GetReputation(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "reputation", http.StatusOK, rep, nil)
	}
}
