package db

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
	"gorm.io/gorm"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, targetType models.TargetType, typeID string, page models.Page) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

type commentRepo struct {
	DB *gorm.DB
}

func NewCommentRepo(db *GormDB) CommentRepository {
	return &commentRepo{db.DB}
}

func (r *commentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.DB.WithContext(ctx).Create(comment).Error; err != nil {
		return errors.Wrap(err, "create comment")
	}
	return nil
}

func (r *commentRepo) ListComments(ctx context.Context, targetType models.TargetType, typeID string, page models.Page) ([]models.Comment, error) {
	page = page.Normalize()
	var comments []models.Comment
	err := r.DB.WithContext(ctx).
		Where("type = ? AND type_id = ?", targetType, typeID).
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	return comments, nil
}

func (r *commentRepo) DeleteComment(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete comment")
	}
	if res.RowsAffected == 0 {
		return errs.New("comment not found", http.StatusNotFound)
	}
	return nil
}
