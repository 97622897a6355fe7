package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/askx/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrefsRepository is the per-user preferences store.
type PrefsRepository interface {
	GetPrefs(ctx context.Context, userID string) (*models.UserPrefs, error)
	SetDeviceToken(ctx context.Context, userID, token string) (*models.UserPrefs, error)
}

type prefsRepo struct {
	DB *gorm.DB
}

func NewPrefsRepo(db *GormDB) PrefsRepository {
	return &prefsRepo{db.DB}
}

// GetPrefs returns zero-valued prefs for users that have never been voted on.
func (r *prefsRepo) GetPrefs(ctx context.Context, userID string) (*models.UserPrefs, error) {
	var prefs models.UserPrefs
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Take(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.UserPrefs{UserID: userID}, nil
		}
		return nil, errors.Wrap(err, "get prefs")
	}
	return &prefs, nil
}

func (r *prefsRepo) SetDeviceToken(ctx context.Context, userID, token string) (*models.UserPrefs, error) {
	prefs := models.UserPrefs{UserID: userID, DeviceToken: token}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"device_token": token,
			"updated_at":   time.Now(),
		}),
	}).Create(&prefs).Error
	if err != nil {
		return nil, errors.Wrap(err, "set device token")
	}
	return r.GetPrefs(ctx, userID)
}
