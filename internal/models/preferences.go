package models

import "time"

// UserPreferences holds per-user UI settings. The record is keyed by user id
// and replaced wholesale on update.
type UserPreferences struct {
	UserID           string            `json:"user_id" dynamodbav:"UserId"`
	DefaultModelID   string            `json:"default_model_id" dynamodbav:"DefaultModelId"`
	DefaultAssistant string            `json:"default_assistant" dynamodbav:"DefaultAssistant"`
	StreamingEnabled bool              `json:"streaming_enabled" dynamodbav:"StreamingEnabled"`
	DarkMode         bool              `json:"dark_mode" dynamodbav:"DarkMode"`
	Extra            map[string]string `json:"extra,omitempty" dynamodbav:"Extra"`
	UpdatedAt        time.Time         `json:"updated_at" dynamodbav:"-"`
}

// PutUserPreferencesRequest represents the request body for replacing a
// user's preferences
type PutUserPreferencesRequest struct {
	DefaultModelID   string            `json:"default_model_id"`
	DefaultAssistant string            `json:"default_assistant"`
	StreamingEnabled bool              `json:"streaming_enabled"`
	DarkMode         bool              `json:"dark_mode"`
	Extra            map[string]string `json:"extra"`
}

// ToDomain converts the request DTO to domain UserPreferences for a user
func (req *PutUserPreferencesRequest) ToDomain(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:           userID,
		DefaultModelID:   req.DefaultModelID,
		DefaultAssistant: req.DefaultAssistant,
		StreamingEnabled: req.StreamingEnabled,
		DarkMode:         req.DarkMode,
		Extra:            req.Extra,
		UpdatedAt:        time.Now(),
	}
}
