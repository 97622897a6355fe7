package services

import (
	"context"

	"github.com/techagentng/askx/config"
	"github.com/techagentng/askx/db"
	"github.com/techagentng/askx/models"
)

type QuestionService interface {
	AskQuestion(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context, page models.Page) ([]models.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	AnswerQuestion(ctx context.Context, questionID string, req *models.CreateAnswerRequest) (*models.Answer, error)
	ListAnswers(ctx context.Context, questionID string, page models.Page) ([]models.Answer, error)
	DeleteAnswer(ctx context.Context, id string) error
}

type questionService struct {
	Config       *config.Config
	questionRepo db.QuestionRepository
	answerRepo   db.AnswerRepository
}

func NewQuestionService(questionRepo db.QuestionRepository, answerRepo db.AnswerRepository, conf *config.Config) QuestionService {
	return &questionService{
		Config:       conf,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (s *questionService) AskQuestion(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error) {
	question := &models.Question{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
	}
	if err := s.questionRepo.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	return s.questionRepo.GetQuestionByID(ctx, id)
}

func (s *questionService) ListQuestions(ctx context.Context, page models.Page) ([]models.Question, error) {
	return s.questionRepo.ListQuestions(ctx, page.Normalize())
}

func (s *questionService) DeleteQuestion(ctx context.Context, id string) error {
	return s.questionRepo.DeleteQuestion(ctx, id)
}

func (s *questionService) AnswerQuestion(ctx context.Context, questionID string, req *models.CreateAnswerRequest) (*models.Answer, error) {
	if _, err := s.questionRepo.GetQuestionByID(ctx, questionID); err != nil {
		return nil, err
	}
	answer := &models.Answer{
		Content:    req.Content,
		AuthorID:   req.AuthorID,
		QuestionID: questionID,
	}
	if err := s.answerRepo.CreateAnswer(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *questionService) ListAnswers(ctx context.Context, questionID string, page models.Page) ([]models.Answer, error) {
	if _, err := s.questionRepo.GetQuestionByID(ctx, questionID); err != nil {
		return nil, err
	}
	return s.answerRepo.ListAnswersByQuestion(ctx, questionID, page.Normalize())
}

func (s *questionService) DeleteAnswer(ctx context.Context, id string) error {
	return s.answerRepo.DeleteAnswer(ctx, id)
}
