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

type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question *models.Question) error
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context, page models.Page) ([]models.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
}

type questionRepo struct {
	DB *gorm.DB
}

func NewQuestionRepo(db *GormDB) QuestionRepository {
	return &questionRepo{db.DB}
}

func (r *questionRepo) CreateQuestion(ctx context.Context, question *models.Question) error {
	if err := r.DB.WithContext(ctx).Create(question).Error; err != nil {
		return errors.Wrap(err, "create question")
	}
	return nil
}

func (r *questionRepo) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New("question not found", http.StatusNotFound)
		}
		return nil, errors.Wrap(err, "get question")
	}
	return &question, nil
}

func (r *questionRepo) ListQuestions(ctx context.Context, page models.Page) ([]models.Question, error) {
	page = page.Normalize()
	var questions []models.Question
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&questions).Error
	if err != nil {
		return nil, errors.Wrap(err, "list questions")
	}
	return questions, nil
}

// DeleteQuestion removes the question together with its answers and every
// comment and vote attached to either. The reputation those votes granted
// is taken back from each author.
func (r *questionRepo) DeleteQuestion(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "author_id").
			Where("id = ?", id).
			Take(&question).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.New("question not found", http.StatusNotFound)
			}
			return errors.Wrap(err, "lock question")
		}

		var answers []models.Answer
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "author_id").
			Where("question_id = ?", id).
			Find(&answers).Error
		if err != nil {
			return errors.Wrap(err, "lock answers")
		}
		for _, a := range answers {
			if err := deleteTargetChildren(ctx, tx, models.TargetAnswer, a.ID, a.AuthorID); err != nil {
				return err
			}
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return errors.Wrap(err, "delete answers")
		}

		if err := deleteTargetChildren(ctx, tx, models.TargetQuestion, id, question.AuthorID); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return errors.Wrap(err, "delete question")
		}
		return nil
	})
}

// deleteTargetChildren drops the votes and comments pointing at one target
// and reverses the votes' net weight on authorID.
func deleteTargetChildren(ctx context.Context, tx *gorm.DB, targetType models.TargetType, id, authorID string) error {
	var weight int
	err := tx.Model(&models.Vote{}).
		Select("COALESCE(SUM(CASE WHEN vote_status = ? THEN 1 ELSE -1 END), 0)", models.Upvoted).
		Where("type = ? AND type_id = ?", targetType, id).
		Scan(&weight).Error
	if err != nil {
		return errors.Wrapf(err, "sum %s votes", targetType)
	}
	if weight != 0 {
		if _, err := (&voteRepo{DB: tx}).AdjustReputation(ctx, authorID, -weight); err != nil {
			return err
		}
	}

	if err := tx.Where("type = ? AND type_id = ?", targetType, id).Delete(&models.Vote{}).Error; err != nil {
		return errors.Wrapf(err, "delete %s votes", targetType)
	}
	if err := tx.Where("type = ? AND type_id = ?", targetType, id).Delete(&models.Comment{}).Error; err != nil {
		return errors.Wrapf(err, "delete %s comments", targetType)
	}
	return nil
}
