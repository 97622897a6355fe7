package main

import (
	"context"
	"log"

	"github.com/techagentng/askx/config"
	"github.com/techagentng/askx/db"
	"github.com/techagentng/askx/server"
	"github.com/techagentng/askx/services"
	"go.uber.org/zap"
)

func newLogger(conf *config.Config) (*zap.Logger, error) {
	if conf.Debug || !conf.IsProd() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(conf)
	if err != nil {
		log.Fatalf("error creating logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	gormDB, err := db.GetDB(conf, logger)
	if err != nil {
		logger.Fatal("error connecting to database", zap.Error(err))
	}
	defer gormDB.Close()

	voteRepo := db.NewVoteRepo(gormDB)
	prefsRepo := db.NewPrefsRepo(gormDB)
	questionRepo := db.NewQuestionRepo(gormDB)
	answerRepo := db.NewAnswerRepo(gormDB)
	commentRepo := db.NewCommentRepo(gormDB)

	var notifier services.Notifier = services.NoopNotifier{}
	if conf.FirebaseCredentials != "" {
		notifier, err = services.NewFCMNotifier(context.Background(), conf.FirebaseCredentials)
		if err != nil {
			logger.Fatal("error initializing firebase messaging", zap.Error(err))
		}
		logger.Info("firebase messaging client initialized")
	}

	s := &server.Server{
		Config:          conf,
		Log:             logger,
		VoteService:     services.NewVoteService(voteRepo, prefsRepo, notifier, conf, logger),
		QuestionService: services.NewQuestionService(questionRepo, answerRepo, conf),
		CommentService:  services.NewCommentService(commentRepo, questionRepo, answerRepo, conf),
		PrefsService:    services.NewPrefsService(prefsRepo, conf),
	}
	if err := s.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
