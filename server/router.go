package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/techagentng/askx/server/response"
	"go.uber.org/zap"
)

func (s *Server) setupRouter() *gin.Engine {
	s.init()

	r := gin.New()
	if os.Getenv("GIN_MODE") != "test" {
		r.Use(s.accessLog(), gin.CustomRecovery(s.recoverPanic), cors.New(s.corsConfig()))
	}
	s.defineRoutes(r)
	return r
}

// corsConfig allows the configured origins, or any origin when none are set.
func (s *Server) corsConfig() cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.Config.AllowedOrigins) > 0 {
		conf.AllowOrigins = s.Config.AllowedOrigins
	} else {
		conf.AllowAllOrigins = true
	}
	return conf
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.Log.Error("panic serving request",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
	)
	response.JSON(c, "internal server error", http.StatusInternalServerError, nil, nil)
	c.Abort()
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(s.metrics.handler()))

	apirouter := router.Group("/api")
	apirouter.POST("/vote", s.withVoteLimits(s.handleVote())...)
	apirouter.GET("/vote", s.handleGetVoteTally())
	apirouter.GET("/vote/ws", s.handleVoteFeed())

	apirouter.POST("/questions", s.handleAskQuestion())
	apirouter.GET("/questions", s.handleListQuestions())
	apirouter.GET("/questions/:id", s.handleGetQuestion())
	apirouter.DELETE("/questions/:id", s.handleDeleteQuestion())
	apirouter.POST("/questions/:id/answers", s.handleAnswerQuestion())
	apirouter.GET("/questions/:id/answers", s.handleListAnswers())
	apirouter.DELETE("/answers/:id", s.handleDeleteAnswer())

	apirouter.POST("/comments", s.handleAddComment())
	apirouter.GET("/comments", s.handleListComments())
	apirouter.DELETE("/comments/:id", s.handleDeleteComment())

	apirouter.GET("/users/:id/prefs", s.handleGetPrefs())
	apirouter.PUT("/users/:id/prefs", s.handleUpdatePrefs())
	apirouter.GET("/users/:id/reputation", s.handleGetReputation())

	v1 := router.Group("/api/v1")
	v1.POST("/vote", s.withVoteLimits(s.handleVote())...)
}
