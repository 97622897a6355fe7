package models

import "time"

// UserPrefs holds per-user attributes, including the reputation counter.
type UserPrefs struct {
	UserID      string    `json:"userId" gorm:"type:varchar(50);primaryKey"`
	Reputation  int       `json:"reputation" gorm:"not null;default:0"`
	DeviceToken string    `json:"deviceToken,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UpdatePrefsRequest struct {
	DeviceToken string `json:"deviceToken" conform:"trim" validate:"max=4096"`
}

// PrefsResponse is the public view of UserPrefs. The device token is write-only.
type PrefsResponse struct {
	UserID         string    `json:"userId"`
	Reputation     int       `json:"reputation"`
	HasDeviceToken bool      `json:"hasDeviceToken"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p *UserPrefs) Response() *PrefsResponse {
	return &PrefsResponse{
		UserID:         p.UserID,
		Reputation:     p.Reputation,
		HasDeviceToken: p.DeviceToken != "",
		UpdatedAt:      p.UpdatedAt,
	}
}

type ReputationResponse struct {
	UserID     string `json:"userId"`
	Reputation int    `json:"reputation"`
}

func (UserPrefs) TableName() string {
	return "user_prefs"
}
