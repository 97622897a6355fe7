package services

import (
	"context"
	"net/http"

	"github.com/techagentng/askx/config"
	"github.com/techagentng/askx/db"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
)

type CommentService interface {
	AddComment(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, targetType models.TargetType, typeID string, page models.Page) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

type commentService struct {
	Config       *config.Config
	commentRepo  db.CommentRepository
	questionRepo db.QuestionRepository
	answerRepo   db.AnswerRepository
}

func NewCommentService(commentRepo db.CommentRepository, questionRepo db.QuestionRepository, answerRepo db.AnswerRepository, conf *config.Config) CommentService {
	return &commentService{
		Config:       conf,
		commentRepo:  commentRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (s *commentService) AddComment(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	targetType := models.TargetType(req.Type)
	if err := s.targetExists(ctx, targetType, req.TypeID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		Content:  req.Content,
		AuthorID: req.AuthorID,
		Type:     targetType,
		TypeID:   req.TypeID,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, targetType models.TargetType, typeID string, page models.Page) ([]models.Comment, error) {
	return s.commentRepo.ListComments(ctx, targetType, typeID, page.Normalize())
}

func (s *commentService) DeleteComment(ctx context.Context, id string) error {
	return s.commentRepo.DeleteComment(ctx, id)
}

func (s *commentService) targetExists(ctx context.Context, targetType models.TargetType, id string) error {
	switch targetType {
	case models.TargetQuestion:
		_, err := s.questionRepo.GetQuestionByID(ctx, id)
		return err
	case models.TargetAnswer:
		_, err := s.answerRepo.GetAnswerByID(ctx, id)
		return err
	}
	return errs.Newf(http.StatusBadRequest, "unknown comment target type %q", targetType)
}
