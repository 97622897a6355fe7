package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/askx/models"
	"github.com/techagentng/askx/server/response"
)

func (s *Server) handleAskQuestion() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateQuestionRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}
		question, err := s.QuestionService.AskQuestion(c.Request.Context(), &req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "question created", http.StatusCreated, question, nil)
	}
}

func (s *Server) handleListQuestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		var page models.Page
		if err := decodeQuery(c, &page); err != nil {
			s.respondError(c, err)
			return
		}
		questions, err := s.QuestionService.ListQuestions(c.Request.Context(), page)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "questions", http.StatusOK, questions, nil)
	}
}

func (s *Server) handleGetQuestion() gin.HandlerFunc {
	return func(c *gin.Context) {
		question, err := s.QuestionService.GetQuestion(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "question", http.StatusOK, question, nil)
	}
}

func (s *Server) handleDeleteQuestion() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.QuestionService.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "question deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleAnswerQuestion() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateAnswerRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}
		answer, err := s.QuestionService.AnswerQuestion(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "answer created", http.StatusCreated, answer, nil)
	}
}

func (s *Server) handleListAnswers() gin.HandlerFunc {
	return func(c *gin.Context) {
		var page models.Page
		if err := decodeQuery(c, &page); err != nil {
			s.respondError(c, err)
			return
		}
		answers, err := s.QuestionService.ListAnswers(c.Request.Context(), c.Param("id"), page)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "answers", http.StatusOK, answers, nil)
	}
}

func (s *Server) handleDeleteAnswer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.QuestionService.DeleteAnswer(c.Request.Context(), c.Param("id")); err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "answer deleted", http.StatusOK, nil, nil)
	}
}
