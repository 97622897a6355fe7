package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	errs "github.com/techagentng/askx/errors"
	"github.com/techagentng/askx/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository is the vote ledger plus the author reputation counter it drives.
type VoteRepository interface {
	FindVote(ctx context.Context, targetType models.TargetType, typeID, votedByID string) (*models.Vote, error)
	CreateVote(ctx context.Context, vote *models.Vote) error
	DeleteVote(ctx context.Context, voteID string) error
	CountVotes(ctx context.Context, filter models.VoteFilter) (int64, error)
	FindTargetAuthorID(ctx context.Context, targetType models.TargetType, typeID string) (string, error)
	AdjustReputation(ctx context.Context, userID string, delta int) (int, error)
	Transaction(ctx context.Context, fn func(repo VoteRepository) error) error
}

type voteRepo struct {
	DB *gorm.DB
}

func NewVoteRepo(db *GormDB) VoteRepository {
	return &voteRepo{db.DB}
}

// FindVote returns nil without error when the voter has no vote on the target.
// Inside a transaction the row is locked until commit.
func (r *voteRepo) FindVote(ctx context.Context, targetType models.TargetType, typeID, votedByID string) (*models.Vote, error) {
	var vote models.Vote
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("type = ? AND type_id = ? AND voted_by_id = ?", targetType, typeID, votedByID).
		Take(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find vote")
	}
	return &vote, nil
}

func (r *voteRepo) CreateVote(ctx context.Context, vote *models.Vote) error {
	if err := r.DB.WithContext(ctx).Create(vote).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.New("vote already recorded for this target", http.StatusConflict)
		}
		return errors.Wrap(err, "create vote")
	}
	return nil
}

func (r *voteRepo) DeleteVote(ctx context.Context, voteID string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", voteID).Delete(&models.Vote{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete vote")
	}
	if res.RowsAffected == 0 {
		return errs.New("vote not found", http.StatusNotFound)
	}
	return nil
}

func (r *voteRepo) CountVotes(ctx context.Context, filter models.VoteFilter) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Vote{}).
		Where("type = ? AND type_id = ?", filter.Type, filter.TypeID)
	if filter.VoteStatus != "" {
		q = q.Where("vote_status = ?", filter.VoteStatus)
	}
	if filter.VotedByID != "" {
		q = q.Where("voted_by_id = ?", filter.VotedByID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s votes", filter.VoteStatus)
	}
	return count, nil
}

// FindTargetAuthorID share-locks the target row, so a concurrent delete of
// the target waits for the vote to commit.
func (r *voteRepo) FindTargetAuthorID(ctx context.Context, targetType models.TargetType, typeID string) (string, error) {
	var authorID string
	var err error
	q := r.DB.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}).Select("id", "author_id").Where("id = ?", typeID)
	switch targetType {
	case models.TargetQuestion:
		var question models.Question
		err = q.Take(&question).Error
		authorID = question.AuthorID
	case models.TargetAnswer:
		var answer models.Answer
		err = q.Take(&answer).Error
		authorID = answer.AuthorID
	default:
		return "", errs.Newf(http.StatusBadRequest, "unknown vote target type %q", targetType)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.Newf(http.StatusNotFound, "%s not found", targetType)
		}
		return "", errors.Wrapf(err, "find %s author", targetType)
	}
	return authorID, nil
}

// AdjustReputation adds delta to the user's reputation in a single statement,
// creating the prefs row when the user has none, and returns the new value.
func (r *voteRepo) AdjustReputation(ctx context.Context, userID string, delta int) (int, error) {
	prefs := models.UserPrefs{UserID: userID, Reputation: delta}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reputation": gorm.Expr("user_prefs.reputation + ?", delta),
			"updated_at": time.Now(),
		}),
	}).Create(&prefs).Error
	if err != nil {
		return 0, errors.Wrap(err, "adjust reputation")
	}

	var current models.UserPrefs
	if err := r.DB.WithContext(ctx).Select("reputation").Where("user_id = ?", userID).Take(&current).Error; err != nil {
		return 0, errors.Wrap(err, "read reputation")
	}
	return current.Reputation, nil
}

func (r *voteRepo) Transaction(ctx context.Context, fn func(repo VoteRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&voteRepo{DB: tx})
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
