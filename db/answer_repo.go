package db

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	CreateAnswer(ctx context.Context, answer *models.Answer) error
	GetAnswerByID(ctx context.Context, id string) (*models.Answer, error)
	ListAnswersByQuestion(ctx context.Context, questionID string, page models.Page) ([]models.Answer, error)
	DeleteAnswer(ctx context.Context, id string) error
}

type answerRepo struct {
	DB *gorm.DB
}

func NewAnswerRepo(db *GormDB) AnswerRepository {
	return &answerRepo{db.DB}
}

func (r *answerRepo) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	if err := r.DB.WithContext(ctx).Create(answer).Error; err != nil {
		return errors.Wrap(err, "create answer")
	}
	return nil
}

func (r *answerRepo) GetAnswerByID(ctx context.Context, id string) (*models.Answer, error) {
	var answer models.Answer
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New("answer not found", http.StatusNotFound)
		}
		return nil, errors.Wrap(err, "get answer")
	}
	return &answer, nil
}

func (r *answerRepo) ListAnswersByQuestion(ctx context.Context, questionID string, page models.Page) ([]models.Answer, error) {
	page = page.Normalize()
	var answers []models.Answer
	err := r.DB.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&answers).Error
	if err != nil {
		return nil, errors.Wrap(err, "list answers")
	}
	return answers, nil
}

// DeleteAnswer removes the answer with its comments and votes, taking the
// votes' reputation back from the answer's author.
func (r *answerRepo) DeleteAnswer(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "author_id").
			Where("id = ?", id).
			Take(&answer).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.New("answer not found", http.StatusNotFound)
			}
			return errors.Wrap(err, "lock answer")
		}
		if err := deleteTargetChildren(ctx, tx, models.TargetAnswer, id, answer.AuthorID); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return errors.Wrap(err, "delete answer")
		}
		return nil
	})
}
