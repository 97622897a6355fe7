package services

import (
	"context"

	"github.com/techagentng/askx/config"
	"github.com/techagentng/askx/db"
	"github.com/techagentng/askx/models"
)

type PrefsService interface {
	GetPrefs(ctx context.Context, userID string) (*models.PrefsResponse, error)
	GetReputation(ctx context.Context, userID string) (*models.ReputationResponse, error)
	UpdatePrefs(ctx context.Context, userID string, req *models.UpdatePrefsRequest) (*models.PrefsResponse, error)
}

type prefsService struct {
	Config    *config.Config
	prefsRepo db.PrefsRepository
}

func NewPrefsService(prefsRepo db.PrefsRepository, conf *config.Config) PrefsService {
	return &prefsService{
		Config:    conf,
		prefsRepo: prefsRepo,
	}
}

func (s *prefsService) GetPrefs(ctx context.Context, userID string) (*models.PrefsResponse, error) {
	prefs, err := s.prefsRepo.GetPrefs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prefs.Response(), nil
}

func (s *prefsService) GetReputation(ctx context.Context, userID string) (*models.ReputationResponse, error) {
	prefs, err := s.prefsRepo.GetPrefs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.ReputationResponse{UserID: prefs.UserID, Reputation: prefs.Reputation}, nil
}

// UpdatePrefs only touches the device token; reputation is owned by voting.
func (s *prefsService) UpdatePrefs(ctx context.Context, userID string, req *models.UpdatePrefsRequest) (*models.PrefsResponse, error) {
	prefs, err := s.prefsRepo.SetDeviceToken(ctx, userID, req.DeviceToken)
	if err != nil {
		return nil, err
	}
	return prefs.Response(), nil
}
